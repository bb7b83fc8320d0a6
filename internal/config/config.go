package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/san-kum/linetrace/internal/control"
	"github.com/san-kum/linetrace/internal/course"
	"github.com/san-kum/linetrace/internal/physics"
	"github.com/san-kum/linetrace/internal/sensor"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt       = 0.005
	DefaultDuration = 20.0
	DefaultKp       = 0.15
	DefaultKi       = 0.0
	DefaultKd       = 0.01
	DefaultBase     = 0.3
)

type Config struct {
	Course           CourseConfig     `yaml:"course"`
	Integrator       string           `yaml:"integrator"`
	Controller       string           `yaml:"controller"`
	Dt               float64          `yaml:"dt"`
	Duration         float64          `yaml:"duration"`
	Seed             int64            `yaml:"seed"`
	Start            StartConfig      `yaml:"start"`
	Vehicle          VehicleConfig    `yaml:"vehicle"`
	Sensors          SensorConfig     `yaml:"sensors"`
	ControllerParams ControllerConfig `yaml:"controller_params"`
}

// CourseConfig selects either an image on disk (Path) or a generated course.
type CourseConfig struct {
	Path           string      `yaml:"path"`
	PixelsPerMetre float64     `yaml:"pixels_per_metre"`
	Generate       course.Spec `yaml:"generate"`
}

// StartConfig is the initial pose. Auto places the vehicle on the line of a
// generated course and ignores X, Y and Heading.
type StartConfig struct {
	Auto    bool    `yaml:"auto"`
	X       float64 `yaml:"x"`
	Y       float64 `yaml:"y"`
	Heading float64 `yaml:"heading"`
	// Jitter is the pose perturbation used by ensemble runs, metres.
	Jitter float64 `yaml:"jitter"`
}

type VehicleConfig struct {
	MaxSpeed float64 `yaml:"max_speed"`
	Tau      float64 `yaml:"tau"`
	Track    float64 `yaml:"track"`
}

type SensorConfig struct {
	Spacing   float64 `yaml:"spacing"`
	Forward   float64 `yaml:"forward"`
	Threshold float64 `yaml:"threshold"`
}

// ControllerConfig holds parameters for every controller; each reads its own.
type ControllerConfig struct {
	Outer float64 `yaml:"outer"`
	Inner float64 `yaml:"inner"`
	Bias  float64 `yaml:"bias"`
	Kp    float64 `yaml:"kp"`
	Ki    float64 `yaml:"ki"`
	Kd    float64 `yaml:"kd"`
	Base  float64 `yaml:"base"`
}

func DefaultConfig() *Config {
	return &Config{
		Course: CourseConfig{
			PixelsPerMetre: course.DefaultPixelsPerMetre,
			Generate:       course.DefaultSpec(),
		},
		Integrator: "rk4",
		Controller: "linefollower",
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		Start: StartConfig{
			Auto:   true,
			Jitter: 0.005,
		},
		Vehicle: VehicleConfig{
			MaxSpeed: physics.DefaultMaxSpeed,
			Tau:      physics.DefaultTau,
			Track:    physics.DefaultTrack,
		},
		Sensors: SensorConfig{
			Spacing:   sensor.DefaultSpacing,
			Forward:   sensor.DefaultForward,
			Threshold: sensor.DefaultThreshold,
		},
		ControllerParams: ControllerConfig{
			Outer: control.ReferenceWeights[1][0],
			Inner: control.ReferenceWeights[1][1],
			Bias:  control.ReferenceBias[0],
			Kp:    DefaultKp,
			Ki:    DefaultKi,
			Kd:    DefaultKd,
			Base:  DefaultBase,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("config: dt must be positive, got %f", c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("config: duration must be positive, got %f", c.Duration)
	}
	if c.Vehicle.MaxSpeed <= 0 || c.Vehicle.Tau <= 0 || c.Vehicle.Track <= 0 {
		return fmt.Errorf("config: vehicle max_speed, tau and track must be positive")
	}
	if c.Sensors.Spacing <= 0 {
		return fmt.Errorf("config: sensor spacing must be positive, got %f", c.Sensors.Spacing)
	}
	if c.Course.Path == "" && c.Course.Generate.Kind == "" {
		return fmt.Errorf("config: course needs a path or a generate.kind")
	}
	return nil
}

// CourseName is a short label for listings.
func (c *Config) CourseName() string {
	if c.Course.Path != "" {
		return c.Course.Path
	}
	return c.Course.Generate.Kind
}

func (c *Config) GetControllerParams() map[string]float64 {
	return map[string]float64{
		"outer": c.ControllerParams.Outer,
		"inner": c.ControllerParams.Inner,
		"bias":  c.ControllerParams.Bias,
		"kp":    c.ControllerParams.Kp,
		"ki":    c.ControllerParams.Ki,
		"kd":    c.ControllerParams.Kd,
		"base":  c.ControllerParams.Base,
	}
}

var ErrUnknownControllerParam = errors.New("config: unknown controller param")

// SetControllerParam sets one controller parameter by the name used in
// GetControllerParams.
func (c *Config) SetControllerParam(name string, value float64) error {
	p := &c.ControllerParams
	switch name {
	case "outer":
		p.Outer = value
	case "inner":
		p.Inner = value
	case "bias":
		p.Bias = value
	case "kp":
		p.Kp = value
	case "ki":
		p.Ki = value
	case "kd":
		p.Kd = value
	case "base":
		p.Base = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownControllerParam, name)
	}
	return nil
}
