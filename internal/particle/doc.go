// Package particle holds the simulation core of partsim.
//
// The package is made of three pieces:
//
//   - [Store]: fixed-capacity array of [Particle] records with an active length
//   - [Emitter]: produces freshly emitted particles from randomized ranges
//   - [Integrator]: advances every active particle by one fixed time step
//
// Particles never interact, so a step is a pure function of each slot and the
// [Params] snapshot taken at the start of the tick.
//
// # Example
//
//	store := particle.NewStore(particle.MaxParticles)
//	em := particle.NewEmitter(42)
//	store.Reset(100, em, 3.0)
//	integ := particle.Integrator{}
//	stats := integ.Step(store, em, particle.DefaultParams())
//
// # Thread Safety
//
// A Store is NOT safe for concurrent mutation. Integrator may split a single
// step across goroutines, but callers must not resize or read the store while
// Step is running.
package particle
