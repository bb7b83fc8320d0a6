package dynamo

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Factory builds an independent simulator and start state for one ensemble
// member. Simulators carry mutable sensors and metrics, so members never
// share one.
type Factory func(idx int, seed int64) (*Simulator, State, error)

type Ensemble struct {
	build     Factory
	numRuns   int
	seedStart int64
	limit     int
}

func NewEnsemble(build Factory, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{build: build, numRuns: numRuns, seedStart: seedStart, limit: 4}
}

// SetLimit caps the number of members simulated at once. n <= 0 means no cap.
func (e *Ensemble) SetLimit(n int) { e.limit = n }

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	if e.limit > 0 {
		g.SetLimit(e.limit)
	}

	for i := 0; i < e.numRuns; i++ {
		idx := i
		g.Go(func() error {
			seed := e.seedStart + int64(idx)
			s, x0, err := e.build(idx, seed)
			if err != nil {
				return err
			}

			cfgCopy := cfg
			cfgCopy.Seed = seed

			res, err := s.Run(ctx, x0, cfgCopy)
			if err != nil {
				return err
			}
			results[idx] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
