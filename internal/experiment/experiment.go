package experiment

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/rs/zerolog/log"
	"github.com/san-kum/linetrace/internal/config"
	"github.com/san-kum/linetrace/internal/course"
	"github.com/san-kum/linetrace/internal/dynamo"
	"github.com/san-kum/linetrace/internal/physics"
	"github.com/san-kum/linetrace/internal/sensor"
	"github.com/san-kum/linetrace/internal/storage"
)

var ErrAutoStart = errors.New("experiment: start.auto needs a generated course")

var (
	StateLabels   = []string{"x", "y", "heading", "v_left", "v_right"}
	ControlLabels = []string{"left", "right"}
)

// Experiment is one fully wired vehicle: course, photoreflectors, vehicle
// model, controller and metrics, ready to run.
type Experiment struct {
	cfg        *config.Config
	course     *course.Course
	vehicle    *physics.DiffDrive
	sensors    sensor.Array
	controller dynamo.Controller
	simulator  *dynamo.Simulator
	x0         dynamo.State
}

type Option func(*options)

type options struct {
	course   *course.Course
	registry *Registry
	offset   [3]float64
}

// WithCourse reuses an already loaded course. Courses are read-only once
// built, so one can back many concurrent experiments.
func WithCourse(c *course.Course) Option {
	return func(o *options) { o.course = c }
}

func WithRegistry(r *Registry) Option {
	return func(o *options) { o.registry = r }
}

// WithStartOffset perturbs the configured start pose.
func WithStartOffset(dx, dy, dHeading float64) Option {
	return func(o *options) { o.offset = [3]float64{dx, dy, dHeading} }
}

func New(cfg *config.Config, opts ...Option) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.registry == nil {
		o.registry = NewRegistry()
	}

	crs := o.course
	if crs == nil {
		var err error
		if crs, err = LoadCourse(cfg); err != nil {
			return nil, err
		}
	}

	veh := physics.NewDiffDrive()
	veh.MaxSpeed = cfg.Vehicle.MaxSpeed
	veh.Tau = cfg.Vehicle.Tau
	veh.Track = cfg.Vehicle.Track

	prs := sensor.NewArray(cfg.Sensors.Spacing, cfg.Sensors.Forward)
	prs.SetThreshold(cfg.Sensors.Threshold)

	integ, err := o.registry.GetIntegrator(cfg.Integrator)
	if err != nil {
		return nil, err
	}
	ctrl, err := o.registry.GetController(cfg.Controller, cfg.GetControllerParams(), prs)
	if err != nil {
		return nil, err
	}

	x, y, heading, err := startPose(cfg)
	if err != nil {
		return nil, err
	}
	x0 := veh.InitialState(x+o.offset[0], y+o.offset[1], heading+o.offset[2])

	sim := dynamo.New(veh, integ, ctrl)
	sim.SetPerceiver(&Rig{Surface: crs, Sensors: prs})
	for _, m := range o.registry.DefaultMetrics(prs) {
		sim.AddMetric(m)
	}

	log.Debug().
		Str("course", cfg.CourseName()).
		Str("controller", cfg.Controller).
		Str("integrator", cfg.Integrator).
		Floats64("start", x0[:3]).
		Msg("experiment ready")

	return &Experiment{
		cfg:        cfg,
		course:     crs,
		vehicle:    veh,
		sensors:    prs,
		controller: ctrl,
		simulator:  sim,
		x0:         x0,
	}, nil
}

// LoadCourse reads the configured course image or generates one.
func LoadCourse(cfg *config.Config) (*course.Course, error) {
	if cfg.Course.Path != "" {
		ppm := cfg.Course.PixelsPerMetre
		if ppm <= 0 {
			ppm = course.DefaultPixelsPerMetre
		}
		return course.Load(cfg.Course.Path, ppm)
	}
	return course.Generate(cfg.Course.Generate)
}

func startPose(cfg *config.Config) (float64, float64, float64, error) {
	if !cfg.Start.Auto {
		return cfg.Start.X, cfg.Start.Y, cfg.Start.Heading, nil
	}
	if cfg.Course.Path != "" {
		return 0, 0, 0, ErrAutoStart
	}
	x, y, h := course.StartPose(cfg.Course.Generate)
	return x, y, h, nil
}

func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	simCfg := dynamo.DefaultConfig()
	simCfg.Dt = e.cfg.Dt
	simCfg.Duration = e.cfg.Duration
	simCfg.Seed = e.cfg.Seed

	return e.simulator.Run(ctx, e.x0, simCfg)
}

// Metadata describes this experiment for the run store.
func (e *Experiment) Metadata() storage.RunMetadata {
	return storage.RunMetadata{
		Course:        e.cfg.CourseName(),
		Seed:          e.cfg.Seed,
		Dt:            e.cfg.Dt,
		Duration:      e.cfg.Duration,
		Integrator:    e.cfg.Integrator,
		Controller:    e.cfg.Controller,
		Params:        e.cfg.GetControllerParams(),
		StateLabels:   StateLabels,
		ControlLabels: ControlLabels,
	}
}

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *dynamo.Simulator { return e.simulator }

func (e *Experiment) Course() *course.Course        { return e.course }
func (e *Experiment) Sensors() sensor.Array         { return e.sensors }
func (e *Experiment) Vehicle() *physics.DiffDrive   { return e.vehicle }
func (e *Experiment) Controller() dynamo.Controller { return e.controller }
func (e *Experiment) InitialState() dynamo.State    { return e.x0.Clone() }
func (e *Experiment) Config() *config.Config        { return e.cfg }

// RunEnsemble runs n copies with start poses jittered by up to
// cfg.Start.Jitter metres (and a matching heading error), seeded from
// cfg.Seed so the set is reproducible.
func RunEnsemble(ctx context.Context, cfg *config.Config, n int) ([]*dynamo.Result, error) {
	if n <= 0 {
		return nil, fmt.Errorf("experiment: ensemble size must be positive, got %d", n)
	}

	crs, err := LoadCourse(cfg)
	if err != nil {
		return nil, err
	}

	build := func(idx int, seed int64) (*dynamo.Simulator, dynamo.State, error) {
		rng := rand.New(rand.NewSource(seed))
		j := cfg.Start.Jitter
		dx := (rng.Float64()*2 - 1) * j
		dy := (rng.Float64()*2 - 1) * j
		dh := (rng.Float64()*2 - 1) * j * 10
		if idx == 0 {
			dx, dy, dh = 0, 0, 0
		}

		exp, err := New(cfg, WithCourse(crs), WithStartOffset(dx, dy, dh))
		if err != nil {
			return nil, nil, err
		}
		return exp.simulator, exp.x0, nil
	}

	simCfg := dynamo.DefaultConfig()
	simCfg.Dt = cfg.Dt
	simCfg.Duration = cfg.Duration

	log.Info().Int("runs", n).Str("course", cfg.CourseName()).Msg("running ensemble")
	return dynamo.NewEnsemble(build, n, cfg.Seed).Run(ctx, simCfg)
}
