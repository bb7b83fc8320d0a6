package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "linefollower", cfg.Controller)
	assert.Equal(t, "oval", cfg.CourseName())
	assert.Equal(t, 0.4, cfg.ControllerParams.Outer)
	assert.Equal(t, 0.2, cfg.ControllerParams.Inner)
	assert.Equal(t, 0.1, cfg.ControllerParams.Bias)
	require.NoError(t, cfg.Validate())
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("figure8")
	require.NotNil(t, cfg)
	assert.Equal(t, "figure8", cfg.Course.Generate.Kind)
	assert.Equal(t, 30.0, cfg.Duration)

	// Presets never leak into each other or into defaults.
	cfg.Duration = 99
	assert.Equal(t, 30.0, GetPreset("figure8").Duration)
	assert.Equal(t, DefaultDuration, DefaultConfig().Duration)
}

func TestGetPresetNotFound(t *testing.T) {
	assert.Nil(t, GetPreset("nonexistent"))
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	assert.Contains(t, names, "oval")
	assert.IsIncreasing(t, names)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	data := []byte(`
controller: pid
dt: 0.01
course:
  generate:
    kind: straight
controller_params:
  kp: 0.5
`)
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "pid", cfg.Controller)
	assert.Equal(t, 0.01, cfg.Dt)
	assert.Equal(t, "straight", cfg.Course.Generate.Kind)
	assert.Equal(t, 0.5, cfg.ControllerParams.Kp)
	// Untouched fields keep defaults.
	assert.Equal(t, DefaultDuration, cfg.Duration)
	assert.Equal(t, 0.4, cfg.ControllerParams.Outer)
	assert.Equal(t, 2.0, cfg.Course.Generate.Width)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dt: -1\n"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	cfg := GetPreset("fast")
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	if diff := cmp.Diff(cfg, loaded); diff != "" {
		t.Errorf("config changed across save/load (-want +got):\n%s", diff)
	}
}

func TestSetControllerParam(t *testing.T) {
	cfg := DefaultConfig()
	for name := range cfg.GetControllerParams() {
		require.NoError(t, cfg.SetControllerParam(name, 7))
	}
	for name, v := range cfg.GetControllerParams() {
		assert.Equal(t, 7.0, v, name)
	}

	assert.ErrorIs(t, cfg.SetControllerParam("gain", 1), ErrUnknownControllerParam)
}
