package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/san-kum/linetrace/internal/config"
	"github.com/san-kum/linetrace/internal/experiment"
	"github.com/san-kum/linetrace/internal/storage"
	"github.com/san-kum/linetrace/internal/viz"
	"github.com/spf13/cobra"
)

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if saveConfig != "" {
		if err := config.Save(saveConfig, cfg); err != nil {
			return err
		}
		log.Info().Str("path", saveConfig).Msg("config written")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if ensemble > 1 {
		return runEnsemble(ctx, cfg, ensemble)
	}

	exp, err := experiment.New(cfg)
	if err != nil {
		return err
	}

	log.Info().
		Str("course", cfg.CourseName()).
		Str("controller", cfg.Controller).
		Float64("duration", cfg.Duration).
		Msg("running simulation")
	start := time.Now()

	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)
	for _, e := range result.Errors {
		log.Warn().Err(e).Msg("simulation stopped early")
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(exp.Metadata(), result)
	if err != nil {
		return err
	}
	if err := config.Save(filepath.Join(dataDir, runID, runConfigFile), cfg); err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Println("\nmetrics:")
	printMetrics(result.Metrics)
	return nil
}

func runEnsemble(ctx context.Context, cfg *config.Config, n int) error {
	log.Info().Int("members", n).Float64("jitter", cfg.Start.Jitter).Msg("running ensemble")
	start := time.Now()

	results, err := experiment.RunEnsemble(ctx, cfg, n)
	if err != nil {
		return err
	}

	names := metricNames(results[0].Metrics)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprint(w, "MEMBER\tSTEPS")
	for _, name := range names {
		fmt.Fprintf(w, "\t%s", name)
	}
	fmt.Fprintln(w)

	mean := make(map[string]float64, len(names))
	for i, res := range results {
		fmt.Fprintf(w, "%d\t%d", i, res.StepsTaken)
		for _, name := range names {
			fmt.Fprintf(w, "\t%.4f", res.Metrics[name])
			mean[name] += res.Metrics[name] / float64(len(results))
		}
		fmt.Fprintln(w)
	}
	fmt.Fprint(w, "mean\t")
	for _, name := range names {
		fmt.Fprintf(w, "\t%.4f", mean[name])
	}
	fmt.Fprintln(w)
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\ncompleted %d runs in %v\n", n, time.Since(start))
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	exp, err := experiment.New(cfg)
	if err != nil {
		return err
	}
	return viz.Run(exp, frameRate)
}

func metricNames(m map[string]float64) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func printMetrics(m map[string]float64) {
	for _, name := range metricNames(m) {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}
