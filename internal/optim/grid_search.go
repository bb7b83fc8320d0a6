package optim

import (
	"context"
	"fmt"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"
)

// Evaluate scores one parameter set.
type Evaluate func(ctx context.Context, params map[string]float64) (float64, error)

type Trial struct {
	Params map[string]float64
	Score  float64
	Err    error
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	maximize   bool
	workers    int
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges, workers: 4}
}

// Maximize flips the objective; by default lower scores win.
func (g *GridSearch) Maximize() *GridSearch {
	g.maximize = true
	return g
}

func (g *GridSearch) Workers(n int) *GridSearch {
	g.workers = n
	return g
}

func (g *GridSearch) better(a, b float64) bool {
	if g.maximize {
		return a > b
	}
	return a < b
}

// Search evaluates every combination of the parameter ranges and returns the
// best parameters, the best score and all trials sorted best first. Trials
// whose evaluation fails are recorded and skipped; Search only fails when
// the context ends or no trial succeeds.
func (g *GridSearch) Search(ctx context.Context, eval Evaluate) (map[string]float64, float64, []Trial, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, nil, fmt.Errorf("optim: %d names for %d ranges", len(g.paramNames), len(g.ranges))
	}

	combos := g.combinations(0, map[string]float64{})
	trials := make([]Trial, len(combos))

	eg, ctx := errgroup.WithContext(ctx)
	if g.workers > 0 {
		eg.SetLimit(g.workers)
	}

	for i, params := range combos {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			score, err := eval(ctx, params)
			trials[i] = Trial{Params: params, Score: score, Err: err}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, 0, nil, err
	}

	ok := make([]Trial, 0, len(trials))
	for _, tr := range trials {
		if tr.Err == nil && !math.IsNaN(tr.Score) {
			ok = append(ok, tr)
		}
	}
	if len(ok) == 0 {
		return nil, 0, trials, fmt.Errorf("optim: all %d trials failed", len(trials))
	}

	sort.SliceStable(ok, func(i, j int) bool { return g.better(ok[i].Score, ok[j].Score) })
	return ok[0].Params, ok[0].Score, ok, nil
}

func (g *GridSearch) combinations(depth int, current map[string]float64) []map[string]float64 {
	if depth == len(g.paramNames) {
		params := make(map[string]float64, len(current))
		for k, v := range current {
			params[k] = v
		}
		return []map[string]float64{params}
	}

	var out []map[string]float64
	for _, val := range g.ranges[depth] {
		current[g.paramNames[depth]] = val
		out = append(out, g.combinations(depth+1, current)...)
	}
	delete(current, g.paramNames[depth])
	return out
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	vals := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range vals {
		vals[i] = lo + float64(i)*step
	}
	vals[n-1] = hi
	return vals
}
