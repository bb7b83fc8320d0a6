package optim

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridSearchMinimize(t *testing.T) {
	g := NewGridSearch([]string{"a", "b"}, [][]float64{{-1, 0, 1, 2}, {0, 3}})
	best, score, trials, err := g.Search(context.Background(), func(ctx context.Context, p map[string]float64) (float64, error) {
		return (p["a"]-1)*(p["a"]-1) + p["b"], nil
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"a": 1, "b": 0}, best)
	assert.Zero(t, score)
	assert.Len(t, trials, 8)
}

func TestGridSearchMaximize(t *testing.T) {
	g := NewGridSearch([]string{"x"}, [][]float64{Linspace(0, 1, 5)}).Maximize().Workers(1)
	best, score, _, err := g.Search(context.Background(), func(ctx context.Context, p map[string]float64) (float64, error) {
		return p["x"], nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1.0, best["x"])
	assert.Equal(t, 1.0, score)
}

func TestGridSearchSkipsFailures(t *testing.T) {
	g := NewGridSearch([]string{"x"}, [][]float64{{1, 2, 3}})
	best, _, trials, err := g.Search(context.Background(), func(ctx context.Context, p map[string]float64) (float64, error) {
		if p["x"] == 1 {
			return 0, errors.New("diverged")
		}
		return p["x"], nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2.0, best["x"])
	assert.Len(t, trials, 2)
}

func TestGridSearchAllFail(t *testing.T) {
	g := NewGridSearch([]string{"x"}, [][]float64{{1}})
	_, _, _, err := g.Search(context.Background(), func(ctx context.Context, p map[string]float64) (float64, error) {
		return 0, errors.New("nope")
	})
	assert.Error(t, err)
}

func TestGridSearchMismatchedRanges(t *testing.T) {
	g := NewGridSearch([]string{"x", "y"}, [][]float64{{1}})
	_, _, _, err := g.Search(context.Background(), nil)
	assert.Error(t, err)
}

func TestLinspace(t *testing.T) {
	assert.Equal(t, []float64{0, 0.5, 1}, Linspace(0, 1, 3))
	assert.Equal(t, []float64{2}, Linspace(2, 5, 1))
}
