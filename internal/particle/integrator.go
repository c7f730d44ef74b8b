package particle

// Scene constants.
const (
	DefaultDt      = 0.025
	Edge           = 10.0 // ground extent in x and z
	PlatformRadius = 3.0
	PlatformHeight = 5.0
	GroundHeight   = 0.0
	Restitution    = 0.8
)

// Params is the per-tick snapshot of the tunables the integrator reads.
type Params struct {
	Gravity      float64
	MeanVelocity float64
	Dt           float64
	Edge         float64
}

func DefaultParams() Params {
	return Params{Gravity: 2.0, MeanVelocity: 3.0, Dt: DefaultDt, Edge: Edge}
}

// StepStats counts the events of one step.
type StepStats struct {
	Bounces   int
	Reemitted int
}

func (s *StepStats) add(o StepStats) {
	s.Bounces += o.Bounces
	s.Reemitted += o.Reemitted
}

type outcome int

const (
	flying outcome = iota
	bounced
	expired
)

// FloorAt returns the effective ground height at a horizontal distance.
// The platform test is a radial threshold, not a footprint intersection.
func FloorAt(distance float64) float64 {
	if distance < PlatformRadius {
		return PlatformHeight
	}
	return GroundHeight
}

// advance moves one particle by a step. An expired particle is left for the
// caller to re-emit and its age is not incremented.
func advance(pt *Particle, p Params) outcome {
	dt := p.Dt
	distance := pt.PlanarVelocity * pt.Age

	pt.Position.X = pt.DirX * distance
	pt.Position.Z = pt.DirZ * distance

	if pt.Descending {
		pt.Position.Y -= (pt.VerticalVelocity + 0.5*p.Gravity*dt) * dt
		pt.VerticalVelocity += p.Gravity * dt
	} else if pt.VerticalVelocity > 0 {
		pt.Position.Y += pt.VerticalVelocity*dt - 0.5*p.Gravity*dt*dt
		pt.VerticalVelocity -= p.Gravity * dt
	} else {
		// apex
		pt.Descending = true
	}

	result := flying
	if pt.Position.Y <= FloorAt(distance) {
		if distance > p.Edge {
			return expired
		}
		pt.Descending = false
		pt.VerticalVelocity *= Restitution
		result = bounced
	}
	pt.Age += dt
	return result
}

// Integrator advances a Store by one fixed step. Workers > 1 splits the pass
// across goroutines; results are identical to the serial pass.
type Integrator struct {
	Workers  int
	MinChunk int
}

const defaultMinChunk = 4096

// Step advances every live particle once, re-emitting the ones that left the
// ground extent.
func (in Integrator) Step(s *Store, em *Emitter, p Params) StepStats {
	live := s.live()
	if in.Workers <= 1 {
		return stepSerial(live, em, p)
	}

	minChunk := in.MinChunk
	if minChunk <= 0 {
		minChunk = defaultMinChunk
	}

	chunks := make([]chunkResult, in.Workers)
	used := ParallelFor(len(live), in.Workers, minChunk, func(chunk, start, end int) {
		r := &chunks[chunk]
		for i := start; i < end; i++ {
			switch advance(&live[i], p) {
			case bounced:
				r.stats.Bounces++
			case expired:
				r.expired = append(r.expired, i)
			}
		}
	})

	// Emission order matches the serial pass: ascending slot index.
	var stats StepStats
	for _, r := range chunks[:used] {
		stats.add(r.stats)
		for _, i := range r.expired {
			em.Emit(&live[i], p.MeanVelocity)
			stats.Reemitted++
		}
	}
	return stats
}

type chunkResult struct {
	stats   StepStats
	expired []int
}

func stepSerial(live []Particle, em *Emitter, p Params) StepStats {
	var stats StepStats
	for i := range live {
		switch advance(&live[i], p) {
		case bounced:
			stats.Bounces++
		case expired:
			em.Emit(&live[i], p.MeanVelocity)
			stats.Reemitted++
		}
	}
	return stats
}
