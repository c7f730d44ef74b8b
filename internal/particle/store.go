package particle

import (
	"errors"
	"fmt"
)

// MaxParticles is the hard upper bound on store capacity.
const MaxParticles = 1000000

var (
	// ErrCapacityExceeded indicates a resize beyond the store's capacity.
	ErrCapacityExceeded = errors.New("particle: capacity exceeded")

	// ErrInvalidCount indicates a resize to fewer than one particle.
	ErrInvalidCount = errors.New("particle: count must be at least 1")
)

type Color struct {
	R, G, B, A float64
}

// Particle is a single slot in a Store.
type Particle struct {
	Position         Vec3
	Age              float64
	PlanarVelocity   float64 // constant for the particle's lifetime
	VerticalVelocity float64
	DirX, DirZ       float64 // horizontal travel direction
	Color            Color
	Descending       bool
}

// Distance returns the horizontal distance covered at the current age.
func (p *Particle) Distance() float64 { return p.PlanarVelocity * p.Age }

// Sample is the read-only view handed to renderers.
type Sample struct {
	Position Vec3
	Color    Color
}

// Store is a fixed-capacity slab of particles. Slots [0, Len()) are live and
// always fully initialized.
type Store struct {
	slots  []Particle
	active int
}

// NewStore preallocates capacity slots. The store is empty until the first
// Resize or Reset.
func NewStore(capacity int) *Store {
	if capacity < 1 || capacity > MaxParticles {
		panic(fmt.Sprintf("particle: capacity %d out of range [1,%d]", capacity, MaxParticles))
	}
	return &Store{slots: make([]Particle, capacity)}
}

func (s *Store) Cap() int { return len(s.slots) }
func (s *Store) Len() int { return s.active }

// At returns a copy of slot i.
func (s *Store) At(i int) Particle {
	s.check(i)
	return s.slots[i]
}

// Ref returns a pointer to slot i for in-place mutation.
func (s *Store) Ref(i int) *Particle {
	s.check(i)
	return &s.slots[i]
}

func (s *Store) check(i int) {
	if i < 0 || i >= s.active {
		panic(fmt.Sprintf("particle: index %d out of range [0,%d)", i, s.active))
	}
}

// Resize changes the active count. Every slot exposed by growth is emitted
// before it becomes visible; shrinking only narrows the range.
func (s *Store) Resize(n int, em *Emitter, meanVelocity float64) error {
	if n < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidCount, n)
	}
	if n > len(s.slots) {
		return fmt.Errorf("%w: %d > %d", ErrCapacityExceeded, n, len(s.slots))
	}
	for i := s.active; i < n; i++ {
		em.Emit(&s.slots[i], meanVelocity)
	}
	s.active = n
	return nil
}

// Reset re-emits every active slot without changing the count.
func (s *Store) Reset(em *Emitter, meanVelocity float64) {
	for i := 0; i < s.active; i++ {
		em.Emit(&s.slots[i], meanVelocity)
	}
}

// Snapshot appends position and color of every live particle to dst[:0].
func (s *Store) Snapshot(dst []Sample) []Sample {
	dst = dst[:0]
	for i := 0; i < s.active; i++ {
		p := &s.slots[i]
		dst = append(dst, Sample{Position: p.Position, Color: p.Color})
	}
	return dst
}

func (s *Store) live() []Particle { return s.slots[:s.active] }
