package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"text/tabwriter"

	"github.com/san-kum/linetrace/internal/automation"
	"github.com/san-kum/linetrace/internal/config"
	"github.com/san-kum/linetrace/internal/storage"
	"github.com/spf13/cobra"
)

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, runErr := automation.RunScenario(ctx, sc)

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tRUN ID\tCTRL\tCONTACT\tDISTANCE")
	for i, r := range results {
		runID, err := st.Save(r.Experiment.Metadata(), r.Result)
		if err != nil {
			return err
		}
		if err := config.Save(filepath.Join(dataDir, runID, runConfigFile), r.Experiment.Config()); err != nil {
			return err
		}
		name := r.Step.Name
		if name == "" {
			name = fmt.Sprintf("%d", i+1)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.3f\t%.3fm\n",
			name, runID, r.Experiment.Config().Controller,
			r.Result.Metrics["line_contact"], r.Result.Metrics["distance"])
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return runErr
}
