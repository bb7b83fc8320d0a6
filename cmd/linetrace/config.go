package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/san-kum/linetrace/internal/config"
	"github.com/spf13/cobra"
)

// resolveConfig layers defaults, then the preset, then the config file,
// then any flag given explicitly on the command line.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		log.Debug().Str("preset", preset).Msg("preset applied")
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		log.Debug().Str("path", configFile).Msg("config loaded")
	}

	flags := cmd.Flags()
	if flags.Changed("course") {
		cfg.Course.Path = coursePath
		cfg.Start.Auto = false
	}
	if flags.Changed("kind") {
		cfg.Course.Path = ""
		cfg.Course.Generate.Kind = courseKind
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("controller") {
		cfg.Controller = controller
	}

	for name := range cfg.GetControllerParams() {
		if flags.Changed(name) {
			v, _ := flags.GetFloat64(name)
			if err := cfg.SetControllerParam(name, v); err != nil {
				return nil, err
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
