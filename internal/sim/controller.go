package sim

import (
	"fmt"

	"github.com/san-kum/partsim/internal/particle"
)

const (
	ParamFloor = 3.0 // step decrements of gravity and velocity stop here
	ParamStep  = 1.0

	DefaultParticles = 100
	CountFactor      = 10

	PointSizeLimit = 64 // exclusive
	SpriteStep     = 0.03
	SpriteLimit    = 0.10 // exclusive
	SphereStep     = 4
	SphereLimit    = 20 // inclusive

	maxCatchUp = 8
)

// Params holds every tunable of a run. Controller methods are its only mutators.
type Params struct {
	Gravity      float64
	MeanVelocity float64
	Dt           float64
	Style        Style
	PointSize    int
	SpriteSize   float64 // billboard half-size
	SphereSlices int
	Texture      bool
}

func DefaultParams() Params {
	return Params{
		Gravity:      2.0,
		MeanVelocity: 3.0,
		Dt:           particle.DefaultDt,
		Style:        StylePoint,
		PointSize:    2,
		SpriteSize:   0.02,
		SphereSlices: 2,
	}
}

func (p Params) validate() error {
	switch {
	case p.Gravity <= 0:
		return fmt.Errorf("%w: gravity must be positive, got %f", ErrConfigViolation, p.Gravity)
	case p.MeanVelocity <= particle.SpeedJitter:
		return fmt.Errorf("%w: mean velocity must exceed %.1f, got %f", ErrConfigViolation, particle.SpeedJitter, p.MeanVelocity)
	case p.Dt <= 0:
		return fmt.Errorf("%w: dt must be positive, got %f", ErrConfigViolation, p.Dt)
	case !p.Style.Valid():
		return fmt.Errorf("%w: invalid style %v", ErrConfigViolation, p.Style)
	case p.PointSize < 1 || p.PointSize >= PointSizeLimit:
		return fmt.Errorf("%w: point size %d outside [1,%d)", ErrConfigViolation, p.PointSize, PointSizeLimit)
	case p.SpriteSize <= 0 || p.SpriteSize >= SpriteLimit:
		return fmt.Errorf("%w: sprite size %f outside (0,%.2f)", ErrConfigViolation, p.SpriteSize, SpriteLimit)
	case p.SphereSlices <= 0 || p.SphereSlices > SphereLimit:
		return fmt.Errorf("%w: sphere slices %d outside (0,%d]", ErrConfigViolation, p.SphereSlices, SphereLimit)
	}
	return nil
}

type Options struct {
	Capacity  int // defaults to particle.MaxParticles
	Particles int // defaults to DefaultParticles
	Seed      int64
	Workers   int
	Params    Params
}

type Controller struct {
	params  Params
	store   *particle.Store
	emitter *particle.Emitter
	integ   particle.Integrator
	running bool

	ticks   uint64
	simTime float64
	acc     float64
	last    particle.StepStats
	total   particle.StepStats
}

// New builds a running controller with every active slot emitted.
func New(opts Options) (*Controller, error) {
	if err := opts.Params.validate(); err != nil {
		return nil, err
	}
	capacity := opts.Capacity
	if capacity == 0 {
		capacity = particle.MaxParticles
	}
	if capacity < 1 || capacity > particle.MaxParticles {
		return nil, fmt.Errorf("%w: capacity %d outside [1,%d]", ErrConfigViolation, capacity, particle.MaxParticles)
	}
	n := opts.Particles
	if n == 0 {
		n = min(DefaultParticles, capacity)
	}

	c := &Controller{
		params:  opts.Params,
		store:   particle.NewStore(capacity),
		emitter: particle.NewEmitter(opts.Seed),
		integ:   particle.Integrator{Workers: opts.Workers},
		running: true,
	}
	if err := c.SetParticleCount(n); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Controller) Params() Params                 { return c.params }
func (c *Controller) Running() bool                  { return c.running }
func (c *Controller) Count() int                     { return c.store.Len() }
func (c *Controller) Capacity() int                  { return c.store.Cap() }
func (c *Controller) Ticks() uint64                  { return c.ticks }
func (c *Controller) Time() float64                  { return c.simTime }
func (c *Controller) LastStats() particle.StepStats  { return c.last }
func (c *Controller) TotalStats() particle.StepStats { return c.total }

// Store exposes the particle store for read-only observers.
func (c *Controller) Store() *particle.Store { return c.store }

// Snapshot copies position and color of every live particle into dst.
func (c *Controller) Snapshot(dst []particle.Sample) []particle.Sample {
	return c.store.Snapshot(dst)
}

// Start resumes the run and re-emits every active particle.
func (c *Controller) Start() {
	c.running = true
	c.Reset()
}

// Reset re-emits every active particle without touching the count or run state.
func (c *Controller) Reset() {
	c.store.Reset(c.emitter, c.params.MeanVelocity)
	c.acc = 0
}

func (c *Controller) Pause()  { c.running = false }
func (c *Controller) Resume() { c.running = true }

// Toggle flips between running and paused and returns the new state.
func (c *Controller) Toggle() bool {
	c.running = !c.running
	return c.running
}

// Tick runs one fixed step if the controller is running.
func (c *Controller) Tick() particle.StepStats {
	if !c.running {
		return particle.StepStats{}
	}
	return c.Step()
}

// Step runs one fixed step regardless of the run state. Parameters are
// snapshotted before the pass.
func (c *Controller) Step() particle.StepStats {
	p := particle.Params{
		Gravity:      c.params.Gravity,
		MeanVelocity: c.params.MeanVelocity,
		Dt:           c.params.Dt,
		Edge:         particle.Edge,
	}
	stats := c.integ.Step(c.store, c.emitter, p)
	c.ticks++
	c.simTime += p.Dt
	c.last = stats
	c.total.Bounces += stats.Bounces
	c.total.Reemitted += stats.Reemitted
	return stats
}

// Advance accumulates elapsed seconds and runs as many fixed steps as fit,
// at most maxCatchUp per call. It returns the number of steps taken.
func (c *Controller) Advance(elapsed float64) int {
	if !c.running || elapsed <= 0 {
		return 0
	}
	c.acc += elapsed
	steps := 0
	for c.acc >= c.params.Dt && steps < maxCatchUp {
		c.Step()
		c.acc -= c.params.Dt
		steps++
	}
	if steps == maxCatchUp {
		c.acc = 0
	}
	return steps
}

// SetGravity accepts any positive value, except that lowering into the range
// below ParamFloor is refused.
func (c *Controller) SetGravity(v float64) error {
	if err := lowerBound("gravity", c.params.Gravity, v, 0); err != nil {
		return err
	}
	c.params.Gravity = v
	return nil
}

func (c *Controller) IncreaseGravity() { c.params.Gravity += ParamStep }

func (c *Controller) DecreaseGravity() error {
	if c.params.Gravity <= ParamFloor {
		return fmt.Errorf("%w: gravity %.2f at floor %.0f", ErrConfigViolation, c.params.Gravity, ParamFloor)
	}
	c.params.Gravity -= ParamStep
	return nil
}

// SetMeanVelocity follows the gravity rule and additionally keeps the value
// above the emission jitter so planar speed stays positive.
func (c *Controller) SetMeanVelocity(v float64) error {
	if err := lowerBound("mean velocity", c.params.MeanVelocity, v, particle.SpeedJitter); err != nil {
		return err
	}
	c.params.MeanVelocity = v
	return nil
}

func (c *Controller) IncreaseVelocity() { c.params.MeanVelocity += ParamStep }

func (c *Controller) DecreaseVelocity() error {
	if c.params.MeanVelocity <= ParamFloor {
		return fmt.Errorf("%w: mean velocity %.2f at floor %.0f", ErrConfigViolation, c.params.MeanVelocity, ParamFloor)
	}
	c.params.MeanVelocity -= ParamStep
	return nil
}

func lowerBound(name string, cur, v, positive float64) error {
	if v <= positive {
		return fmt.Errorf("%w: %s must exceed %.1f, got %.2f", ErrConfigViolation, name, positive, v)
	}
	if v < cur && v < ParamFloor {
		return fmt.Errorf("%w: %s %.2f below floor %.0f", ErrConfigViolation, name, v, ParamFloor)
	}
	return nil
}

// SetParticleCount resizes the active range. New slots are emitted first.
func (c *Controller) SetParticleCount(n int) error {
	if n < 1 {
		return fmt.Errorf("%w: particle count %d below 1", ErrConfigViolation, n)
	}
	return c.store.Resize(n, c.emitter, c.params.MeanVelocity)
}

func (c *Controller) GrowParticles() error {
	n := c.store.Len() * CountFactor
	if n > c.store.Cap() {
		return fmt.Errorf("%w: %d particles", ErrCapacityExceeded, n)
	}
	return c.SetParticleCount(n)
}

func (c *Controller) ShrinkParticles() error {
	n := c.store.Len() / CountFactor
	if n < 1 {
		return fmt.Errorf("%w: cannot shrink below 1 particle", ErrConfigViolation)
	}
	return c.SetParticleCount(n)
}

func (c *Controller) ResetParticleCount() error {
	return c.SetParticleCount(min(DefaultParticles, c.store.Cap()))
}

func (c *Controller) SetRenderStyle(s Style) error {
	if !s.Valid() {
		return fmt.Errorf("%w: invalid style %v", ErrConfigViolation, s)
	}
	c.params.Style = s
	return nil
}

func (c *Controller) requireStyle(s Style) error {
	if c.params.Style != s {
		return fmt.Errorf("%w: %v (current %v)", ErrStyleInactive, s, c.params.Style)
	}
	return nil
}

func (c *Controller) IncreasePointSize() error {
	if err := c.requireStyle(StylePoint); err != nil {
		return err
	}
	if c.params.PointSize*2 >= PointSizeLimit {
		return fmt.Errorf("%w: point size %d at maximum", ErrConfigViolation, c.params.PointSize)
	}
	c.params.PointSize *= 2
	return nil
}

func (c *Controller) DecreasePointSize() error {
	if err := c.requireStyle(StylePoint); err != nil {
		return err
	}
	if c.params.PointSize/2 <= 1 {
		return fmt.Errorf("%w: point size %d at minimum", ErrConfigViolation, c.params.PointSize)
	}
	c.params.PointSize /= 2
	return nil
}

func (c *Controller) IncreaseSpriteSize() error {
	if err := c.requireStyle(StyleSprite); err != nil {
		return err
	}
	if c.params.SpriteSize+SpriteStep >= SpriteLimit {
		return fmt.Errorf("%w: sprite size %.2f at maximum", ErrConfigViolation, c.params.SpriteSize)
	}
	c.params.SpriteSize += SpriteStep
	return nil
}

func (c *Controller) DecreaseSpriteSize() error {
	if err := c.requireStyle(StyleSprite); err != nil {
		return err
	}
	if c.params.SpriteSize-SpriteStep <= 0 {
		return fmt.Errorf("%w: sprite size %.2f at minimum", ErrConfigViolation, c.params.SpriteSize)
	}
	c.params.SpriteSize -= SpriteStep
	return nil
}

func (c *Controller) IncreaseSphereSlices() error {
	if err := c.requireStyle(StyleSphere); err != nil {
		return err
	}
	if c.params.SphereSlices+SphereStep > SphereLimit {
		return fmt.Errorf("%w: sphere slices %d at maximum", ErrConfigViolation, c.params.SphereSlices)
	}
	c.params.SphereSlices += SphereStep
	return nil
}

func (c *Controller) DecreaseSphereSlices() error {
	if err := c.requireStyle(StyleSphere); err != nil {
		return err
	}
	if c.params.SphereSlices-SphereStep <= 0 {
		return fmt.Errorf("%w: sphere slices %d at minimum", ErrConfigViolation, c.params.SphereSlices)
	}
	c.params.SphereSlices -= SphereStep
	return nil
}

// ToggleTexture flips sphere texturing. It only applies in sphere style.
func (c *Controller) ToggleTexture() error {
	if err := c.requireStyle(StyleSphere); err != nil {
		return err
	}
	c.params.Texture = !c.params.Texture
	return nil
}
