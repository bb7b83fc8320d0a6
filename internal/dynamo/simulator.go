package dynamo

import (
	"context"
	"fmt"
)

type Simulator struct {
	dyn        System
	integrator Integrator
	controller Controller
	perceiver  Perceiver
	metrics    []Metric
	observers  []Observer
}

func New(dyn System, integrator Integrator, controller Controller) *Simulator {
	return &Simulator{
		dyn:        dyn,
		integrator: integrator,
		controller: controller,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// SetPerceiver installs the sensing stage that runs ahead of the controller.
func (s *Simulator) SetPerceiver(p Perceiver) { s.perceiver = p }

func (s *Simulator) Run(ctx context.Context, x0 State, cfg Config) (*Result, error) {
	if err := s.validate(x0, cfg); err != nil {
		return nil, err
	}

	steps := int(cfg.Duration / cfg.Dt)
	result := &Result{
		States:   make([]State, 0, steps+1),
		Controls: make([]Control, 0, steps),
		Times:    make([]float64, 0, steps+1),
		Metrics:  make(map[string]float64),
		Errors:   make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := x0.Clone()
	t := 0.0
	dt := cfg.Dt

	result.States = append(result.States, x.Clone())
	result.Times = append(result.Times, t)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			s.collect(result)
			return result, ctx.Err()
		default:
		}

		u, err := s.tick(x, t)
		if err != nil {
			s.collect(result)
			return result, &SimulationError{Step: i, Time: t, State: x.Clone(), Wrapped: err}
		}

		for _, m := range s.metrics {
			m.Observe(x, u, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(x, u, t)
		}

		newX := s.integrator.Step(s.dyn, x, u, t, dt)

		if cfg.ValidateState && !newX.IsValid() {
			result.Errors = append(result.Errors, SimError{Time: t, Step: i, Message: "invalid state (NaN/Inf)"})
			break
		}

		x = newX
		t += dt
		result.StepsTaken++

		result.States = append(result.States, x.Clone())
		result.Controls = append(result.Controls, u.Clone())
		result.Times = append(result.Times, t)
	}

	s.collect(result)
	return result, nil
}

// tick senses and then commands, so the controller always reads the
// readings written for this tick.
func (s *Simulator) tick(x State, t float64) (Control, error) {
	if s.perceiver != nil {
		if err := s.perceiver.Perceive(x, t); err != nil {
			return nil, fmt.Errorf("perceive: %w", err)
		}
	}
	u, err := s.controller.Command(x, t)
	if err != nil {
		return nil, fmt.Errorf("command: %w", err)
	}
	if len(u) != s.dyn.ControlDim() {
		return nil, fmt.Errorf("%w: controller returned %d values, system wants %d",
			ErrDimensionMismatch, len(u), s.dyn.ControlDim())
	}
	return u, nil
}

func (s *Simulator) collect(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func (s *Simulator) validate(x0 State, cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidConfig, cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %f", ErrInvalidConfig, cfg.Duration)
	}
	if len(x0) != s.dyn.StateDim() {
		return fmt.Errorf("%w: initial state has %d values, system wants %d",
			ErrDimensionMismatch, len(x0), s.dyn.StateDim())
	}
	return nil
}

// RunWithCallback steps until the duration elapses, the context is done or
// callback returns false. A non-positive duration runs until stopped.
func (s *Simulator) RunWithCallback(ctx context.Context, x0 State, cfg Config, callback func(State, Control, float64) bool) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidConfig, cfg.Dt)
	}

	x := x0.Clone()
	t := 0.0
	dt := cfg.Dt

	for step := 0; cfg.Duration <= 0 || t < cfg.Duration; step++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		u, err := s.tick(x, t)
		if err != nil {
			return &SimulationError{Step: step, Time: t, State: x.Clone(), Wrapped: err}
		}

		if !callback(x, u, t) {
			return nil
		}

		x = s.integrator.Step(s.dyn, x, u, t, dt)
		t += dt

		if cfg.ValidateState && !x.IsValid() {
			return &SimulationError{Step: step, Time: t, State: x.Clone(), Wrapped: ErrInvalidState}
		}
	}

	return nil
}

// Step advances x by a single tick and returns the next state together with
// the command applied over it. Metrics and observers are not fed.
func (s *Simulator) Step(x State, t, dt float64) (State, Control, error) {
	if dt <= 0 {
		return nil, nil, fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidConfig, dt)
	}
	u, err := s.tick(x, t)
	if err != nil {
		return nil, nil, &SimulationError{Step: -1, Time: t, State: x.Clone(), Wrapped: err}
	}
	next := s.integrator.Step(s.dyn, x, u, t, dt)
	if !next.IsValid() {
		return nil, u, &SimulationError{Step: -1, Time: t, State: x.Clone(), Wrapped: ErrInvalidState}
	}
	return next, u, nil
}
