package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/partsim/internal/particle"
	"github.com/san-kum/partsim/internal/sim"
)

const (
	DefaultParticles    = sim.DefaultParticles
	DefaultGravity      = 2.0
	DefaultMeanVelocity = 3.0
	DefaultDt           = particle.DefaultDt
	DefaultPointSize    = 2
	DefaultSpriteSize   = 0.02
	DefaultSphereSlices = 2
	DefaultFPS          = 60
	DefaultTheme        = "cyberpunk"
	DefaultView         = "original"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Particles    int     `yaml:"particles"`
	Gravity      float64 `yaml:"gravity"`
	MeanVelocity float64 `yaml:"mean_velocity"`
	Dt           float64 `yaml:"dt"`
	Seed         int64   `yaml:"seed"`
	Workers      int     `yaml:"workers"`
	Render       Render  `yaml:"render"`
	Viewer       Viewer  `yaml:"viewer"`
}

type Render struct {
	Style        string  `yaml:"style"`
	PointSize    int     `yaml:"point_size"`
	SpriteSize   float64 `yaml:"sprite_size"`
	SphereSlices int     `yaml:"sphere_slices"`
	Texture      bool    `yaml:"texture"`
}

type Viewer struct {
	View  string `yaml:"view"`
	FPS   int    `yaml:"fps"`
	Theme string `yaml:"theme"`
}

func DefaultConfig() *Config {
	return &Config{
		Particles:    DefaultParticles,
		Gravity:      DefaultGravity,
		MeanVelocity: DefaultMeanVelocity,
		Dt:           DefaultDt,
		Render: Render{
			Style:        sim.StylePoint.String(),
			PointSize:    DefaultPointSize,
			SpriteSize:   DefaultSpriteSize,
			SphereSlices: DefaultSphereSlices,
		},
		Viewer: Viewer{
			View:  DefaultView,
			FPS:   DefaultFPS,
			Theme: DefaultTheme,
		},
	}
}

// Load reads a YAML file over the defaults. A zero seed is left for the
// caller to replace with a time-based one.
func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads a YAML file over base, which is modified in place. Keys
// absent from the file keep the base value.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch {
	case c.Particles < 1 || c.Particles > particle.MaxParticles:
		return fmt.Errorf("%w: particles %d outside [1,%d]", ErrInvalidConfig, c.Particles, particle.MaxParticles)
	case c.Gravity <= 0:
		return fmt.Errorf("%w: gravity must be positive", ErrInvalidConfig)
	case c.MeanVelocity <= particle.SpeedJitter:
		return fmt.Errorf("%w: mean_velocity must exceed %.1f", ErrInvalidConfig, particle.SpeedJitter)
	case c.Dt <= 0:
		return fmt.Errorf("%w: dt must be positive", ErrInvalidConfig)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers must not be negative", ErrInvalidConfig)
	case c.Viewer.FPS < 1:
		return fmt.Errorf("%w: fps must be at least 1", ErrInvalidConfig)
	}
	if _, err := sim.ParseStyle(c.Render.Style); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Viewer.View != "original" && c.Viewer.View != "fly" {
		return fmt.Errorf("%w: unknown view %q", ErrInvalidConfig, c.Viewer.View)
	}
	return nil
}

// Params converts the render and physics sections into controller parameters.
func (c *Config) Params() (sim.Params, error) {
	style, err := sim.ParseStyle(c.Render.Style)
	if err != nil {
		return sim.Params{}, err
	}
	return sim.Params{
		Gravity:      c.Gravity,
		MeanVelocity: c.MeanVelocity,
		Dt:           c.Dt,
		Style:        style,
		PointSize:    c.Render.PointSize,
		SpriteSize:   c.Render.SpriteSize,
		SphereSlices: c.Render.SphereSlices,
		Texture:      c.Render.Texture,
	}, nil
}

// Options builds controller options with the given seed.
func (c *Config) Options(seed int64) (sim.Options, error) {
	p, err := c.Params()
	if err != nil {
		return sim.Options{}, err
	}
	return sim.Options{
		Particles: c.Particles,
		Seed:      seed,
		Workers:   c.Workers,
		Params:    p,
	}, nil
}
