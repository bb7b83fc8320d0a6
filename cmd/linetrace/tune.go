package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/rs/zerolog/log"
	"github.com/san-kum/linetrace/internal/config"
	"github.com/san-kum/linetrace/internal/experiment"
	"github.com/san-kum/linetrace/internal/optim"
	"github.com/spf13/cobra"
)

// tuneTop is how many of the best trials are printed.
const tuneTop = 5

func tuneGains(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	cfg.Controller = "linefollower"

	crs, err := experiment.LoadCourse(cfg)
	if err != nil {
		return err
	}

	p := cfg.ControllerParams
	names := []string{"outer", "inner", "bias"}
	ranges := [][]float64{
		optim.Linspace(0.5*p.Outer, 1.5*p.Outer, tuneSteps),
		optim.Linspace(0.5*p.Inner, 1.5*p.Inner, tuneSteps),
		optim.Linspace(0.5*p.Bias, 1.5*p.Bias, tuneSteps),
	}

	eval := func(ctx context.Context, params map[string]float64) (float64, error) {
		trial := *cfg
		trial.ControllerParams.Outer = params["outer"]
		trial.ControllerParams.Inner = params["inner"]
		trial.ControllerParams.Bias = params["bias"]

		exp, err := experiment.New(&trial, experiment.WithCourse(crs))
		if err != nil {
			return 0, err
		}
		res, err := exp.Run(ctx)
		if err != nil {
			return 0, err
		}
		score, ok := res.Metrics[tuneMetric]
		if !ok {
			return 0, fmt.Errorf("unknown metric: %s", tuneMetric)
		}
		return score, nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Info().
		Str("metric", tuneMetric).
		Int("trials", tuneSteps*tuneSteps*tuneSteps).
		Str("course", cfg.CourseName()).
		Msg("tuning")

	best, score, trials, err := optim.NewGridSearch(names, ranges).Maximize().Search(ctx, eval)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "OUTER\tINNER\tBIAS\tSCORE")
	for i, tr := range trials {
		if i == tuneTop {
			break
		}
		fmt.Fprintf(w, "%.4f\t%.4f\t%.4f\t%.4f\n", tr.Params["outer"], tr.Params["inner"], tr.Params["bias"], tr.Score)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nbest %s: %.4f\n", tuneMetric, score)
	fmt.Printf("  --outer %.4f --inner %.4f --bias %.4f\n", best["outer"], best["inner"], best["bias"])

	if saveConfig != "" {
		tuned := *cfg
		tuned.ControllerParams.Outer = best["outer"]
		tuned.ControllerParams.Inner = best["inner"]
		tuned.ControllerParams.Bias = best["bias"]
		if err := config.Save(saveConfig, &tuned); err != nil {
			return err
		}
		log.Info().Str("path", saveConfig).Msg("tuned config written")
	}
	return nil
}
