// Package automation runs scripted batches of experiments described in YAML.
package automation

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/san-kum/linetrace/internal/config"
	"github.com/san-kum/linetrace/internal/dynamo"
	"github.com/san-kum/linetrace/internal/experiment"
	"gopkg.in/yaml.v3"
)

// Scenario is a named sequence of runs. Every step starts from Preset
// (or the defaults) and applies its own overrides.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Preset      string         `yaml:"preset"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep overrides part of the base config. Zero values keep the
// base setting.
type ScenarioStep struct {
	Name       string             `yaml:"name"`
	Preset     string             `yaml:"preset"`
	Course     string             `yaml:"course"`
	Kind       string             `yaml:"kind"`
	Integrator string             `yaml:"integrator"`
	Controller string             `yaml:"controller"`
	Duration   float64            `yaml:"duration"`
	Dt         float64            `yaml:"dt"`
	Params     map[string]float64 `yaml:"params"`
}

// StepResult pairs a step with the config it resolved to and its outcome.
type StepResult struct {
	Step       ScenarioStep
	Experiment *experiment.Experiment
	Result     *dynamo.Result
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("automation: parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("automation: scenario %q has no steps", scenario.Name)
	}
	return &scenario, nil
}

// Config resolves step i to a full, validated config.
func (s *Scenario) Config(i int) (*config.Config, error) {
	step := s.Steps[i]

	preset := s.Preset
	if step.Preset != "" {
		preset = step.Preset
	}
	cfg := config.DefaultConfig()
	if preset != "" {
		if cfg = config.GetPreset(preset); cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", preset)
		}
	}

	if step.Course != "" {
		cfg.Course.Path = step.Course
		cfg.Start.Auto = false
	}
	if step.Kind != "" {
		cfg.Course.Path = ""
		cfg.Course.Generate.Kind = step.Kind
	}
	if step.Integrator != "" {
		cfg.Integrator = step.Integrator
	}
	if step.Controller != "" {
		cfg.Controller = step.Controller
	}
	if step.Duration > 0 {
		cfg.Duration = step.Duration
	}
	if step.Dt > 0 {
		cfg.Dt = step.Dt
	}
	for name, v := range step.Params {
		if err := cfg.SetControllerParam(name, v); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RunScenario executes the steps in order. It stops at the first failing
// step and returns the results gathered so far.
func RunScenario(ctx context.Context, scenario *Scenario) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("step %d", i+1)
		}
		log.Info().Str("scenario", scenario.Name).Msgf("running %d/%d: %s", i+1, len(scenario.Steps), name)

		cfg, err := scenario.Config(i)
		if err != nil {
			return results, fmt.Errorf("%s: %w", name, err)
		}

		exp, err := experiment.New(cfg)
		if err != nil {
			return results, fmt.Errorf("%s setup: %w", name, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("%s run: %w", name, err)
		}

		results = append(results, StepResult{Step: step, Experiment: exp, Result: result})
	}

	return results, nil
}
