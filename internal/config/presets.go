package config

import "sort"

// preset describes how a named preset differs from DefaultConfig.
type preset func(c *Config)

var presets = map[string]preset{
	"oval": func(c *Config) {
		c.Course.Generate.Kind = "oval"
	},
	"figure8": func(c *Config) {
		c.Course.Generate.Kind = "figure8"
		c.Course.Generate.Width = 2.4
		c.Course.Generate.Height = 1.2
		c.Duration = 30
	},
	"straight": func(c *Config) {
		c.Course.Generate.Kind = "straight"
		c.Course.Generate.Width = 4.0
		c.Course.Generate.Height = 0.6
		c.Duration = 10
	},
	"pid-oval": func(c *Config) {
		c.Course.Generate.Kind = "oval"
		c.Controller = "pid"
	},
	"fast": func(c *Config) {
		c.Course.Generate.Kind = "oval"
		c.Vehicle.MaxSpeed = 0.6
		c.Dt = 0.002
	},
}

// GetPreset returns a fresh config for the named preset, or nil.
func GetPreset(name string) *Config {
	apply, ok := presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
