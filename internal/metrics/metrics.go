package metrics

import (
	"math"

	"github.com/san-kum/partsim/internal/particle"
)

// Metric observes the store after each step.
type Metric interface {
	Name() string
	Observe(s *particle.Store, stats particle.StepStats, t float64)
	Value() float64
	Reset()
}

// MeanHeight is the average particle height over all observations.
type MeanHeight struct {
	samples int
	sum     float64
	last    float64
}

func NewMeanHeight() *MeanHeight { return &MeanHeight{} }

func (m *MeanHeight) Name() string { return "mean_height" }

func (m *MeanHeight) Observe(s *particle.Store, _ particle.StepStats, _ float64) {
	m.last = Height(s)
	m.sum += m.last
	m.samples++
}

func (m *MeanHeight) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

// Last returns the height of the most recent observation.
func (m *MeanHeight) Last() float64 { return m.last }

func (m *MeanHeight) Reset() { *m = MeanHeight{} }

// Height returns the current mean height of the live particles.
func Height(s *particle.Store) float64 {
	n := s.Len()
	if n == 0 {
		return 0
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += s.Ref(i).Position.Y
	}
	return sum / float64(n)
}

// MaxDistance tracks the furthest horizontal distance any particle reached.
type MaxDistance struct {
	max float64
}

func NewMaxDistance() *MaxDistance { return &MaxDistance{} }

func (m *MaxDistance) Name() string { return "max_distance" }

func (m *MaxDistance) Observe(s *particle.Store, _ particle.StepStats, _ float64) {
	for i := 0; i < s.Len(); i++ {
		m.max = math.Max(m.max, s.Ref(i).Position.Planar())
	}
}

func (m *MaxDistance) Value() float64 { return m.max }
func (m *MaxDistance) Reset()         { m.max = 0 }

// BounceRate is bounces per particle per simulated second.
type BounceRate struct {
	bounces   int
	reemitted int
	particles int
	start     float64
	end       float64
	started   bool
}

func NewBounceRate() *BounceRate { return &BounceRate{} }

func (b *BounceRate) Name() string { return "bounce_rate" }

func (b *BounceRate) Observe(s *particle.Store, stats particle.StepStats, t float64) {
	if !b.started {
		b.start = t
		b.started = true
	}
	b.end = t
	b.bounces += stats.Bounces
	b.reemitted += stats.Reemitted
	b.particles = s.Len()
}

func (b *BounceRate) Value() float64 {
	span := b.end - b.start
	if span <= 0 || b.particles == 0 {
		return 0
	}
	return float64(b.bounces) / float64(b.particles) / span
}

// Reemitted returns the number of re-emissions observed.
func (b *BounceRate) Reemitted() int { return b.reemitted }

func (b *BounceRate) Reset() { *b = BounceRate{} }

func Default() []Metric {
	return []Metric{NewMeanHeight(), NewMaxDistance(), NewBounceRate()}
}
