// Package sim owns the tunable parameters of a particle run and is the only
// place that mutates them.
//
// A [Controller] wraps a [particle.Store], a [particle.Emitter] and a
// [particle.Integrator]. Presentation code drives it once per frame with
// [Controller.Tick] and reads particles back through [Controller.Snapshot].
//
// # Bounds
//
// Gravity and mean velocity can always be raised. A step decrement is refused
// once the current value is at or below [ParamFloor], and the setters never
// lower a value into the range below it. Rejected mutations return an error
// wrapping [ErrConfigViolation] or [ErrCapacityExceeded] and leave the prior
// value in place.
package sim
