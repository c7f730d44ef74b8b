package sim_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/partsim/internal/particle"
	"github.com/san-kum/partsim/internal/sim"
)

func newController(particles int) *sim.Controller {
	c, err := sim.New(sim.Options{
		Capacity:  10000,
		Particles: particles,
		Seed:      42,
		Params:    sim.DefaultParams(),
	})
	Expect(err).NotTo(HaveOccurred())
	return c
}

var _ = Describe("Controller", func() {
	var c *sim.Controller

	BeforeEach(func() {
		c = newController(100)
	})

	Describe("construction", func() {
		It("starts running with the default particle count", func() {
			Expect(c.Running()).To(BeTrue())
			Expect(c.Count()).To(Equal(sim.DefaultParticles))
			Expect(c.Params()).To(Equal(sim.DefaultParams()))
		})

		It("rejects invalid parameters", func() {
			p := sim.DefaultParams()
			p.MeanVelocity = 0.5
			_, err := sim.New(sim.Options{Capacity: 10, Params: p})
			Expect(err).To(MatchError(sim.ErrConfigViolation))
		})

		It("rejects a count above capacity", func() {
			_, err := sim.New(sim.Options{Capacity: 10, Particles: 11, Params: sim.DefaultParams()})
			Expect(err).To(MatchError(sim.ErrCapacityExceeded))
		})
	})

	Describe("run state", func() {
		It("does not advance while paused", func() {
			c.Pause()
			before := c.Store().At(0)
			c.Tick()
			Expect(c.Store().At(0)).To(Equal(before))
			Expect(c.Ticks()).To(BeZero())
		})

		It("advances after resume", func() {
			c.Pause()
			c.Resume()
			c.Tick()
			Expect(c.Ticks()).To(Equal(uint64(1)))
			Expect(c.Time()).To(BeNumerically("~", particle.DefaultDt, 1e-12))
		})

		It("toggles", func() {
			Expect(c.Toggle()).To(BeFalse())
			Expect(c.Toggle()).To(BeTrue())
		})

		It("re-emits every slot on start without changing the count", func() {
			for i := 0; i < 50; i++ {
				c.Tick()
			}
			c.Pause()
			c.Start()
			Expect(c.Running()).To(BeTrue())
			Expect(c.Count()).To(Equal(100))
			for i := 0; i < c.Count(); i++ {
				Expect(c.Store().At(i).Age).To(BeZero())
			}
		})
	})

	Describe("gravity", func() {
		It("refuses to decrement at the floor", func() {
			Expect(c.DecreaseGravity()).To(MatchError(sim.ErrConfigViolation))
			Expect(c.Params().Gravity).To(Equal(2.0))
		})

		It("decrements once raised above the floor", func() {
			c.IncreaseGravity()
			c.IncreaseGravity()
			Expect(c.Params().Gravity).To(Equal(4.0))
			Expect(c.DecreaseGravity()).To(Succeed())
			Expect(c.Params().Gravity).To(Equal(3.0))
			Expect(c.DecreaseGravity()).To(MatchError(sim.ErrConfigViolation))
			Expect(c.Params().Gravity).To(Equal(3.0))
		})

		It("accepts raises and refuses lowering below the floor", func() {
			Expect(c.SetGravity(2.5)).To(Succeed())
			Expect(c.SetGravity(8)).To(Succeed())
			Expect(c.SetGravity(2.9)).To(MatchError(sim.ErrConfigViolation))
			Expect(c.SetGravity(-1)).To(MatchError(sim.ErrConfigViolation))
			Expect(c.Params().Gravity).To(Equal(8.0))
		})
	})

	Describe("mean velocity", func() {
		It("follows the same floor rule", func() {
			Expect(c.DecreaseVelocity()).To(MatchError(sim.ErrConfigViolation))
			c.IncreaseVelocity()
			Expect(c.DecreaseVelocity()).To(Succeed())
			Expect(c.Params().MeanVelocity).To(Equal(3.0))
		})

		It("never drops to the emission jitter", func() {
			Expect(c.SetMeanVelocity(particle.SpeedJitter)).To(MatchError(sim.ErrConfigViolation))
			Expect(c.Params().MeanVelocity).To(Equal(3.0))
		})
	})

	Describe("particle count", func() {
		It("initializes grown slots and keeps the prefix on shrink", func() {
			before := make([]particle.Particle, 100)
			for i := range before {
				before[i] = c.Store().At(i)
			}

			Expect(c.SetParticleCount(1000)).To(Succeed())
			Expect(c.Count()).To(Equal(1000))
			for i := 100; i < 1000; i++ {
				p := c.Store().At(i)
				Expect(p.Age).To(BeZero())
				Expect(p.Color.A).To(BeNumerically(">=", 0.7))
				Expect(p.Color.A).To(BeNumerically("<=", 1.0))
			}

			Expect(c.SetParticleCount(100)).To(Succeed())
			Expect(c.Count()).To(Equal(100))
			for i := range before {
				Expect(c.Store().At(i)).To(Equal(before[i]))
			}
		})

		It("grows and shrinks by a factor of ten within bounds", func() {
			Expect(c.GrowParticles()).To(Succeed())
			Expect(c.Count()).To(Equal(1000))
			Expect(c.GrowParticles()).To(Succeed())
			Expect(c.Count()).To(Equal(10000))
			Expect(c.GrowParticles()).To(MatchError(sim.ErrCapacityExceeded))
			Expect(c.Count()).To(Equal(10000))

			Expect(c.SetParticleCount(5)).To(Succeed())
			Expect(c.ShrinkParticles()).To(MatchError(sim.ErrConfigViolation))
			Expect(c.Count()).To(Equal(5))
		})

		It("rejects out of range counts", func() {
			Expect(c.SetParticleCount(0)).To(MatchError(sim.ErrConfigViolation))
			Expect(c.SetParticleCount(10001)).To(MatchError(sim.ErrCapacityExceeded))
			Expect(c.Count()).To(Equal(100))
		})

		It("restores the default count", func() {
			Expect(c.SetParticleCount(7)).To(Succeed())
			Expect(c.ResetParticleCount()).To(Succeed())
			Expect(c.Count()).To(Equal(sim.DefaultParticles))
		})
	})

	Describe("render style", func() {
		It("selects exactly one style", func() {
			Expect(c.SetRenderStyle(sim.StyleSphere)).To(Succeed())
			Expect(c.Params().Style).To(Equal(sim.StyleSphere))
			Expect(c.SetRenderStyle(sim.Style(9))).To(MatchError(sim.ErrConfigViolation))
			Expect(c.Params().Style).To(Equal(sim.StyleSphere))
		})

		It("bounds point size", func() {
			Expect(c.DecreasePointSize()).To(MatchError(sim.ErrConfigViolation))
			for _, want := range []int{4, 8, 16, 32} {
				Expect(c.IncreasePointSize()).To(Succeed())
				Expect(c.Params().PointSize).To(Equal(want))
			}
			Expect(c.IncreasePointSize()).To(MatchError(sim.ErrConfigViolation))
			Expect(c.Params().PointSize).To(Equal(32))
		})

		It("bounds sprite size", func() {
			Expect(c.IncreaseSpriteSize()).To(MatchError(sim.ErrStyleInactive))
			Expect(c.SetRenderStyle(sim.StyleSprite)).To(Succeed())
			Expect(c.DecreaseSpriteSize()).To(MatchError(sim.ErrConfigViolation))
			Expect(c.IncreaseSpriteSize()).To(Succeed())
			Expect(c.IncreaseSpriteSize()).To(Succeed())
			Expect(c.Params().SpriteSize).To(BeNumerically("~", 0.08, 1e-9))
			Expect(c.IncreaseSpriteSize()).To(MatchError(sim.ErrConfigViolation))
		})

		It("bounds sphere slices", func() {
			Expect(c.SetRenderStyle(sim.StyleSphere)).To(Succeed())
			Expect(c.DecreaseSphereSlices()).To(MatchError(sim.ErrConfigViolation))
			for _, want := range []int{6, 10, 14, 18} {
				Expect(c.IncreaseSphereSlices()).To(Succeed())
				Expect(c.Params().SphereSlices).To(Equal(want))
			}
			Expect(c.IncreaseSphereSlices()).To(MatchError(sim.ErrConfigViolation))
		})

		It("toggles texture only for spheres", func() {
			Expect(c.ToggleTexture()).To(MatchError(sim.ErrStyleInactive))
			Expect(c.Params().Texture).To(BeFalse())
			Expect(c.SetRenderStyle(sim.StyleSphere)).To(Succeed())
			Expect(c.ToggleTexture()).To(Succeed())
			Expect(c.Params().Texture).To(BeTrue())
		})
	})

	Describe("stepping", func() {
		It("reproduces a single particle trajectory for a fixed seed", func() {
			trace := func() []float64 {
				ctl := newController(1)
				ys := make([]float64, 0, 40)
				for i := 0; i < 40; i++ {
					ctl.Tick()
					ys = append(ys, ctl.Store().At(0).Position.Y)
				}
				return ys
			}
			Expect(trace()).To(Equal(trace()))
		})

		It("snapshots parameters per tick", func() {
			ctl := newController(1)
			*ctl.Store().Ref(0) = particle.Particle{Position: particle.Vec3{Y: 9}, VerticalVelocity: 0, Descending: true, PlanarVelocity: 1}
			ctl.IncreaseGravity()
			ctl.Tick()
			Expect(ctl.Store().At(0).VerticalVelocity).To(BeNumerically("~", 3.0*particle.DefaultDt, 1e-12))
		})

		It("accumulates elapsed time into fixed steps", func() {
			Expect(c.Advance(0.01)).To(Equal(0))
			Expect(c.Advance(0.02)).To(Equal(1))
			Expect(c.Advance(1.0)).To(Equal(8))
			Expect(c.Ticks()).To(Equal(uint64(9)))
		})

		It("keeps every particle valid over a long run", func() {
			c.IncreaseVelocity()
			c.IncreaseVelocity()
			Expect(c.GrowParticles()).To(Succeed())
			for i := 0; i < 1500; i++ {
				c.Tick()
			}
			Expect(c.TotalStats().Reemitted).To(BeNumerically(">", 0))
			Expect(c.TotalStats().Bounces).To(BeNumerically(">", 0))
			for i := 0; i < c.Count(); i++ {
				p := c.Store().At(i)
				Expect(p.Age).To(BeNumerically(">=", 0))
				Expect(p.PlanarVelocity).To(BeNumerically(">", 0))
			}
		})
	})
})

var _ = DescribeTable("ParseStyle",
	func(name string, want sim.Style) {
		got, err := sim.ParseStyle(name)
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal(want))
	},
	Entry("point", "point", sim.StylePoint),
	Entry("square alias", "square", sim.StyleSprite),
	Entry("sphere", "sphere", sim.StyleSphere),
)
