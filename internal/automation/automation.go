package automation

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/partsim/internal/metrics"
	"github.com/san-kum/partsim/internal/sim"
)

var ErrUnknownAction = errors.New("automation: unknown action")

// Scenario is a scripted run: a tick budget and commands applied at given ticks.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Ticks       int    `yaml:"ticks"`
	Steps       []Step `yaml:"steps"`
}

// Step applies Action before tick At runs. Value is the argument for the
// set_* actions and style.
type Step struct {
	At     int     `yaml:"at"`
	Action string  `yaml:"action"`
	Value  float64 `yaml:"value"`
	Style  string  `yaml:"style"`
}

// Event records the outcome of one step.
type Event struct {
	Tick   int
	Action string
	Err    error
}

// Report summarizes a scenario run.
type Report struct {
	Ticks   int
	Events  []Event
	Metrics map[string]float64
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if err := scenario.Validate(); err != nil {
		return nil, err
	}
	return &scenario, nil
}

func (s *Scenario) Validate() error {
	if s.Ticks < 0 {
		return fmt.Errorf("scenario %q: negative ticks", s.Name)
	}
	for i, st := range s.Steps {
		if _, ok := actions[st.Action]; !ok {
			return fmt.Errorf("step %d: %w: %q", i+1, ErrUnknownAction, st.Action)
		}
		if st.At < 0 || st.At > s.Ticks {
			return fmt.Errorf("step %d: tick %d outside [0,%d]", i+1, st.At, s.Ticks)
		}
	}
	return nil
}

var actions = map[string]func(c *sim.Controller, st Step) error{
	"start":  func(c *sim.Controller, _ Step) error { c.Start(); return nil },
	"pause":  func(c *sim.Controller, _ Step) error { c.Pause(); return nil },
	"resume": func(c *sim.Controller, _ Step) error { c.Resume(); return nil },
	"reset":  func(c *sim.Controller, _ Step) error { c.Reset(); return nil },

	"gravity_up":    func(c *sim.Controller, _ Step) error { c.IncreaseGravity(); return nil },
	"gravity_down":  func(c *sim.Controller, _ Step) error { return c.DecreaseGravity() },
	"velocity_up":   func(c *sim.Controller, _ Step) error { c.IncreaseVelocity(); return nil },
	"velocity_down": func(c *sim.Controller, _ Step) error { return c.DecreaseVelocity() },
	"set_gravity":   func(c *sim.Controller, st Step) error { return c.SetGravity(st.Value) },
	"set_velocity":  func(c *sim.Controller, st Step) error { return c.SetMeanVelocity(st.Value) },

	"set_particles": func(c *sim.Controller, st Step) error { return c.SetParticleCount(int(st.Value)) },
	"grow":          func(c *sim.Controller, _ Step) error { return c.GrowParticles() },
	"shrink":        func(c *sim.Controller, _ Step) error { return c.ShrinkParticles() },
	"reset_count":   func(c *sim.Controller, _ Step) error { return c.ResetParticleCount() },

	"style": func(c *sim.Controller, st Step) error {
		s, err := sim.ParseStyle(st.Style)
		if err != nil {
			return err
		}
		return c.SetRenderStyle(s)
	},
	"texture": func(c *sim.Controller, _ Step) error { return c.ToggleTexture() },
}

// Actions lists the accepted action names.
func Actions() []string {
	names := make([]string, 0, len(actions))
	for k := range actions {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// RunScenario drives c through the scenario with Tick, so paused spans do not
// advance the fountain. Rejected steps are recorded, not fatal.
func RunScenario(ctx context.Context, c *sim.Controller, s *Scenario, ms []metrics.Metric) (*Report, error) {
	steps := append([]Step(nil), s.Steps...)
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].At < steps[j].At })

	rep := &Report{Metrics: make(map[string]float64)}
	next := 0
	for tick := 0; tick <= s.Ticks; tick++ {
		for next < len(steps) && steps[next].At == tick {
			st := steps[next]
			rep.Events = append(rep.Events, Event{Tick: tick, Action: st.Action, Err: actions[st.Action](c, st)})
			next++
		}
		if tick == s.Ticks {
			break
		}
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		stats := c.Tick()
		for _, m := range ms {
			m.Observe(c.Store(), stats, c.Time())
		}
		rep.Ticks++
	}
	for _, m := range ms {
		rep.Metrics[m.Name()] = m.Value()
	}
	return rep, nil
}

// ParameterSweep runs one fresh controller per value of Param.
type ParameterSweep struct {
	Param    string // "gravity" or "velocity"
	Min, Max float64
	NumSteps int
	Ticks    int
	Options  sim.Options
}

// SweepResult holds the metrics of one sweep point.
type SweepResult struct {
	Value   float64
	Metrics map[string]float64
}

// RunSweep executes a parameter sweep
func RunSweep(ctx context.Context, sweep *ParameterSweep) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("sweep needs at least one step")
	}
	if sweep.Param != "gravity" && sweep.Param != "velocity" {
		return nil, fmt.Errorf("%w: cannot sweep %q", sim.ErrConfigViolation, sweep.Param)
	}

	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.Max - sweep.Min) / float64(sweep.NumSteps-1)
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	for i := 0; i < sweep.NumSteps; i++ {
		v := sweep.Min + float64(i)*paramStep

		opts := sweep.Options
		if sweep.Param == "gravity" {
			opts.Params.Gravity = v
		} else {
			opts.Params.MeanVelocity = v
		}
		c, err := sim.New(opts)
		if err != nil {
			return results, fmt.Errorf("%s=%.2f: %w", sweep.Param, v, err)
		}

		ms := metrics.Default()
		for t := 0; t < sweep.Ticks; t++ {
			if err := ctx.Err(); err != nil {
				return results, err
			}
			stats := c.Step()
			for _, m := range ms {
				m.Observe(c.Store(), stats, c.Time())
			}
		}

		res := SweepResult{Value: v, Metrics: make(map[string]float64, len(ms))}
		for _, m := range ms {
			res.Metrics[m.Name()] = m.Value()
		}
		results = append(results, res)
	}
	return results, nil
}
