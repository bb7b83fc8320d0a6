package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/linetrace/internal/control"
	"github.com/san-kum/linetrace/internal/dynamo"
	"github.com/san-kum/linetrace/internal/integrators"
	"github.com/san-kum/linetrace/internal/metrics"
	"github.com/san-kum/linetrace/internal/sensor"
)

type ControllerFactory func(params map[string]float64, prs sensor.Array) dynamo.Controller

type Registry struct {
	integrators map[string]func() dynamo.Integrator
	controllers map[string]ControllerFactory
}

func NewRegistry() *Registry {
	r := &Registry{
		integrators: make(map[string]func() dynamo.Integrator),
		controllers: make(map[string]ControllerFactory),
	}

	r.integrators["euler"] = func() dynamo.Integrator { return integrators.NewEuler() }
	r.integrators["rk4"] = func() dynamo.Integrator { return integrators.NewRK4() }
	r.integrators["rk45"] = func() dynamo.Integrator { return integrators.NewRK45() }

	r.controllers["linefollower"] = func(params map[string]float64, prs sensor.Array) dynamo.Controller {
		w, b := control.SymmetricGains(params["outer"], params["inner"], params["bias"])
		return control.NewLineFollowerWithGains(w, b, prs)
	}
	r.controllers["pid"] = func(params map[string]float64, prs sensor.Array) dynamo.Controller {
		return control.NewPID(params["kp"], params["ki"], params["kd"], params["base"], prs)
	}
	r.controllers["none"] = func(params map[string]float64, prs sensor.Array) dynamo.Controller {
		return control.NewNone(2)
	}

	return r
}

// RegisterController adds or replaces a named controller.
func (r *Registry) RegisterController(name string, fn ControllerFactory) {
	r.controllers[name] = fn
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s (available: %v)", name, r.ListIntegrators())
	}
	return fn(), nil
}

func (r *Registry) GetController(name string, params map[string]float64, prs sensor.Array) (dynamo.Controller, error) {
	fn, ok := r.controllers[name]
	if !ok {
		return nil, fmt.Errorf("unknown controller: %s (available: %v)", name, r.ListControllers())
	}
	return fn(params, prs), nil
}

func (r *Registry) ListIntegrators() []string { return sortedKeys(r.integrators) }
func (r *Registry) ListControllers() []string { return sortedKeys(r.controllers) }

func (r *Registry) DefaultMetrics(prs sensor.Array) []dynamo.Metric {
	return []dynamo.Metric{
		metrics.NewLineContact(prs),
		metrics.NewControlEffort(),
		metrics.NewSaturation(),
		metrics.NewOdometer(),
	}
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
