package particle

import (
	"math"
	"math/rand"
)

// Emission ranges.
const (
	SpawnHeightMin = 8.0
	SpawnHeightMax = 10.0

	ElevationMin = 60.0 // degrees
	ElevationMax = 70.0
	SpreadMin    = -15.0
	SpreadMax    = 15.0

	SpeedJitter = 1.0

	ChannelMin = 0.1
	AlphaMin   = 0.7
)

// Emitter draws new particle states from a seeded generator.
type Emitter struct {
	rng *rand.Rand
}

func NewEmitter(seed int64) *Emitter {
	return &Emitter{rng: rand.New(rand.NewSource(seed))}
}

func (e *Emitter) between(lo, hi float64) float64 {
	return lo + (hi-lo)*e.rng.Float64()
}

// Emit overwrites p with a fresh particle at the emitter.
func (e *Emitter) Emit(p *Particle, meanVelocity float64) {
	p.Position = Vec3{X: 0, Y: e.between(SpawnHeightMin, SpawnHeightMax), Z: 0}
	p.Age = 0

	elevation := e.between(ElevationMin, ElevationMax) * math.Pi / 180
	travel := e.between(SpreadMin, SpreadMax) * math.Pi / 180
	p.DirX, p.DirZ = math.Cos(travel), math.Sin(travel)

	speed := meanVelocity + e.between(-SpeedJitter, SpeedJitter)
	p.PlanarVelocity = speed * math.Cos(elevation)
	p.VerticalVelocity = speed * math.Sin(elevation)

	p.Color = Color{
		R: e.between(ChannelMin, 1),
		G: e.between(ChannelMin, 1),
		B: e.between(ChannelMin, 1),
		A: e.between(AlphaMin, 1),
	}
	p.Descending = true
}
