package config

import "sort"

func preset(mut func(c *Config)) *Config {
	c := DefaultConfig()
	mut(c)
	return c
}

var Presets = map[string]*Config{
	"fountain": DefaultConfig(),
	"heavy": preset(func(c *Config) {
		c.Gravity = 6.0
	}),
	"geyser": preset(func(c *Config) {
		c.MeanVelocity = 7.0
		c.Particles = 1000
	}),
	"swarm": preset(func(c *Config) {
		c.Particles = 10000
		c.Workers = 4
		c.Render.Style = "sprite"
		c.Render.SpriteSize = 0.05
	}),
	"orbs": preset(func(c *Config) {
		c.Render.Style = "sphere"
		c.Render.SphereSlices = 10
		c.Render.Texture = true
		c.Viewer.View = "fly"
	}),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := *p
	return &cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
