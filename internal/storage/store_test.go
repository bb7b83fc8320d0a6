package storage

import (
	"strings"
	"testing"

	"github.com/san-kum/linetrace/internal/dynamo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *dynamo.Result {
	return &dynamo.Result{
		States: []dynamo.State{
			{0.0, 0.0, 0.0},
			{0.01, 0.0, 0.1},
		},
		Controls: []dynamo.Control{
			{0.1, 0.3},
		},
		Times:      []float64{0.0, 0.01},
		StepsTaken: 1,
		Metrics: map[string]float64{
			"line_contact": 0.75,
		},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	runID, err := st.Save(RunMetadata{
		Course:        "courses/track.png",
		Seed:          42,
		Dt:            0.01,
		Duration:      1.0,
		Integrator:    "rk4",
		Controller:    "linefollower",
		StateLabels:   []string{"x", "y", "heading"},
		ControlLabels: []string{"left", "right"},
	}, sampleResult())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(runID, "track_"), runID)

	meta, err := st.Load(runID)
	require.NoError(t, err)
	assert.Equal(t, "courses/track.png", meta.Course)
	assert.Equal(t, int64(42), meta.Seed)
	assert.Equal(t, 1, meta.Steps)
	assert.Equal(t, 0.75, meta.Metrics["line_contact"])

	series, err := st.LoadSeries(runID)
	require.NoError(t, err)
	assert.Equal(t, []string{"time", "x", "y", "heading", "left", "right"}, series.Header)
	assert.Equal(t, []float64{0, 0.01}, series.Times)
	require.Len(t, series.Rows, 2)
	assert.Equal(t, []float64{0.01, 0, 0.1, 0, 0}, series.Rows[1])

	assert.Equal(t, []float64{0.1, 0}, series.Column("left"))
	assert.Equal(t, []float64{0, 0.01}, series.Column("time"))
	assert.Nil(t, series.Column("missing"))
}

func TestStoreGenericLabels(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(RunMetadata{Course: "oval"}, sampleResult())
	require.NoError(t, err)

	series, err := st.LoadSeries(runID)
	require.NoError(t, err)
	assert.Equal(t, []string{"time", "x0", "x1", "x2", "u0", "u1"}, series.Header)
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)

	_, err = st.Save(RunMetadata{Course: "oval"}, sampleResult())
	require.NoError(t, err)
	_, err = st.Save(RunMetadata{Course: "figure8"}, sampleResult())
	require.NoError(t, err)

	runs, err = st.List()
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestStoreMissingRun(t *testing.T) {
	st := New(t.TempDir())
	_, err := st.Load("nope")
	assert.ErrorIs(t, err, ErrRunNotFound)

	_, err = st.LoadSeries("nope")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestListMissingDir(t *testing.T) {
	st := New(t.TempDir() + "/absent")
	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)
}
