package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/rs/zerolog/log"
	"github.com/san-kum/linetrace/internal/config"
	"github.com/san-kum/linetrace/internal/experiment"
	"github.com/san-kum/linetrace/internal/export"
	"github.com/san-kum/linetrace/internal/storage"
	"github.com/spf13/cobra"
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCOURSE\tTIME\tDURATION\tDT\tINTEG\tCTRL\tCONTACT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%s\t%s\t%.3f\n",
			run.ID,
			run.Course,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Integrator,
			run.Controller,
			run.Metrics["line_contact"],
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}
	if len(series.Rows) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("course: %s\n", meta.Course)
	fmt.Printf("controller: %s\n", meta.Controller)
	fmt.Printf("samples: %d\n\n", len(series.Rows))

	left, right := series.Column("left"), series.Column("right")
	if left != nil && right != nil {
		fmt.Println(asciigraph.PlotMany([][]float64{left, right},
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.SeriesColors(asciigraph.Green, asciigraph.Blue),
			asciigraph.Caption("motor commands (left, right)"),
		))
		fmt.Println()
	}

	for _, name := range []string{"heading", "v_left", "v_right"} {
		data := series.Column(name)
		if data == nil {
			continue
		}
		fmt.Println(asciigraph.Plot(data,
			asciigraph.Height(8),
			asciigraph.Width(80),
			asciigraph.Caption(name),
		))
		fmt.Println()
	}

	xs, ys := series.Column("x"), series.Column("y")

	if pngDir != "" {
		if err := os.MkdirAll(pngDir, 0755); err != nil {
			return err
		}
		traj := filepath.Join(pngDir, "trajectory.png")
		if err := export.PlotTrajectory(traj, meta.ID, xs, ys); err != nil {
			return err
		}
		cmds := filepath.Join(pngDir, "commands.png")
		if err := export.PlotCommands(cmds, meta.ID, series.Times, left, right); err != nil {
			return err
		}
		log.Info().Str("trajectory", traj).Str("commands", cmds).Msg("plots written")
	}

	if svgFile != "" {
		if err := writeTrajectorySVG(runID, xs, ys); err != nil {
			return err
		}
		log.Info().Str("path", svgFile).Msg("svg written")
	}

	return nil
}

// writeTrajectorySVG draws the path over the course the run used. Runs
// stored without their config are drawn on a blank floor sized to the path.
func writeTrajectorySVG(runID string, xs, ys []float64) error {
	points := make([]export.Point, len(xs))
	for i := range xs {
		points[i] = export.Point{X: xs[i], Y: ys[i]}
	}

	var svg string
	cfg, err := config.Load(filepath.Join(dataDir, runID, runConfigFile))
	switch {
	case err == nil:
		crs, err := experiment.LoadCourse(cfg)
		if err != nil {
			return err
		}
		w, h := crs.Bounds()
		svg = export.TrajectoryToSVG(points, crs.Image(), w, h, 800, "#d62728")
	case errors.Is(err, os.ErrNotExist):
		w, h := extent(xs), extent(ys)
		svg = export.TrajectoryToSVG(points, nil, w, h, 800, "#d62728")
	default:
		return err
	}
	if svg == "" {
		return fmt.Errorf("not enough samples for svg")
	}
	return os.WriteFile(svgFile, []byte(svg), 0644)
}

func extent(vals []float64) float64 {
	hi := 0.0
	for _, v := range vals {
		if v > hi {
			hi = v
		}
	}
	return hi * 1.1
}

type runExport struct {
	Meta   *storage.RunMetadata `json:"meta"`
	Header []string             `json:"header"`
	Times  []float64            `json:"times"`
	Rows   [][]float64          `json:"rows"`
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(runExport{Meta: meta, Header: series.Header, Times: series.Times, Rows: series.Rows})
}

func listPresets(cmd *cobra.Command, args []string) error {
	fmt.Println("presets:")
	for _, p := range config.ListPresets() {
		fmt.Printf("  %s\n", p)
	}
	return nil
}
