package experiment

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/san-kum/linetrace/internal/config"
	"github.com/san-kum/linetrace/internal/control"
	"github.com/san-kum/linetrace/internal/course"
	"github.com/san-kum/linetrace/internal/dynamo"
	"github.com/san-kum/linetrace/internal/physics"
	"github.com/san-kum/linetrace/internal/sensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func straightConfig() *config.Config {
	cfg := config.GetPreset("straight")
	cfg.Course.Generate.PixelsPerMetre = 200
	cfg.Duration = 3
	cfg.Dt = 0.01
	return cfg
}

func TestStraightCourseStaysOnLine(t *testing.T) {
	exp, err := New(straightConfig())
	require.NoError(t, err)

	result, err := exp.Run(context.Background())
	require.NoError(t, err)
	require.Empty(t, result.Errors)

	assert.Equal(t, 300, result.StepsTaken)
	assert.InDelta(t, 1.0, result.Metrics["line_contact"], 1e-12)
	assert.Greater(t, result.Metrics["distance"], 0.1)

	x0 := exp.InitialState()
	last := result.States[len(result.States)-1]
	assert.Greater(t, last[physics.IdxX], x0[physics.IdxX])
	assert.InDelta(t, x0[physics.IdxY], last[physics.IdxY], 1e-9)
	assert.InDelta(t, 0.0, last[physics.IdxHeading], 1e-9)

	// Centred on the line both inner sensors see black.
	for _, u := range result.Controls[1:] {
		assert.InDelta(t, 0.3, u[0], 1e-12)
		assert.InDelta(t, 0.3, u[1], 1e-12)
	}
}

func TestNoneControllerStaysPut(t *testing.T) {
	cfg := straightConfig()
	cfg.Controller = "none"
	exp, err := New(cfg)
	require.NoError(t, err)

	result, err := exp.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, result.Metrics["distance"])
	assert.Zero(t, result.Metrics["control_effort"])
}

func TestControllerErrorAbortsRun(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterController("short", func(params map[string]float64, prs sensor.Array) dynamo.Controller {
		return control.NewLineFollower(prs[:3])
	})

	cfg := straightConfig()
	cfg.Controller = "short"
	exp, err := New(cfg, WithRegistry(reg))
	require.NoError(t, err)

	_, err = exp.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, control.ErrInvalidInput)

	var simErr *dynamo.SimulationError
	require.True(t, errors.As(err, &simErr))
	assert.Equal(t, 0, simErr.Step)
}

func TestUnknownNames(t *testing.T) {
	cfg := straightConfig()
	cfg.Controller = "fuzzy"
	_, err := New(cfg)
	assert.Error(t, err)

	cfg = straightConfig()
	cfg.Integrator = "leapfrog"
	_, err = New(cfg)
	assert.Error(t, err)
}

func TestAutoStartNeedsGeneratedCourse(t *testing.T) {
	spec := course.DefaultSpec()
	spec.PixelsPerMetre = 100
	c, err := course.Generate(spec)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "oval.png")
	require.NoError(t, c.Save(path))

	cfg := config.DefaultConfig()
	cfg.Course.Path = path
	cfg.Course.PixelsPerMetre = 100
	_, err = New(cfg)
	assert.ErrorIs(t, err, ErrAutoStart)

	cfg.Start.Auto = false
	cfg.Start.X, cfg.Start.Y = 1.0, 0.21
	exp, err := New(cfg)
	require.NoError(t, err)
	assert.Equal(t, 1.0, exp.InitialState()[physics.IdxX])
}

func TestMetadata(t *testing.T) {
	exp, err := New(straightConfig())
	require.NoError(t, err)

	meta := exp.Metadata()
	assert.Equal(t, "straight", meta.Course)
	assert.Equal(t, "linefollower", meta.Controller)
	assert.Equal(t, StateLabels, meta.StateLabels)
	assert.Equal(t, 0.4, meta.Params["outer"])
}

func TestRunEnsemble(t *testing.T) {
	cfg := straightConfig()
	cfg.Duration = 1
	cfg.Seed = 7

	results, err := RunEnsemble(context.Background(), cfg, 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for _, r := range results {
		require.NotNil(t, r)
		assert.Equal(t, 100, r.StepsTaken)
	}

	_, err = RunEnsemble(context.Background(), cfg, 0)
	assert.Error(t, err)
}

func TestRK45Integrator(t *testing.T) {
	cfg := straightConfig()
	cfg.Integrator = "rk45"
	exp, err := New(cfg)
	require.NoError(t, err)

	result, err := exp.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 300, result.StepsTaken)
	assert.InDelta(t, 1.0, result.Metrics["line_contact"], 1e-12)
	assert.Contains(t, NewRegistry().ListIntegrators(), "rk45")
}

// Live tuning names must be the ones config files and scenarios accept.
func TestControllerParamNamesMatchConfig(t *testing.T) {
	for _, name := range []string{"linefollower", "pid"} {
		cfg := straightConfig()
		cfg.Controller = name
		exp, err := New(cfg)
		require.NoError(t, err)

		c, ok := exp.Controller().(dynamo.Configurable)
		require.True(t, ok, name)
		for param := range c.GetParams() {
			assert.NoError(t, cfg.SetControllerParam(param, 1), "%s.%s", name, param)
		}
	}
}
