package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const runConfigFile = "config.yaml"

var (
	dataDir string
	verbose bool

	configFile string
	preset     string
	coursePath string
	courseKind string
	dt         float64
	duration   float64
	seed       int64
	integrator string
	controller string
	outer      float64
	inner      float64
	bias       float64
	kp         float64
	ki         float64
	kd         float64
	base       float64

	ensemble   int
	saveConfig string
	frameRate  int
	pngDir     string
	svgFile    string
	outFile    string
	tuneSteps  int
	tuneMetric string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "linetrace",
		Short: "line-following vehicle simulator",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(verbose)
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".linetrace", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and store the result",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)
	runCmd.Flags().IntVar(&ensemble, "ensemble", 1, "number of jittered starts to run concurrently")
	runCmd.Flags().StringVar(&saveConfig, "save-config", "", "write the resolved config to this path")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a simulation with live terminal visualization",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addSimFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search the line-follower gains",
		Args:  cobra.NoArgs,
		RunE:  tuneGains,
	}
	addSimFlags(tuneCmd)
	tuneCmd.Flags().IntVar(&tuneSteps, "steps", 5, "grid points per gain")
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", "line_contact", "metric to maximise")
	tuneCmd.Flags().StringVar(&saveConfig, "save-config", "", "write the best gains as a config file")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&pngDir, "png", "", "also write trajectory.png and commands.png to this directory")
	plotCmd.Flags().StringVar(&svgFile, "svg", "", "also write the trajectory over the course as SVG")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of the vehicle's weave",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file.yaml]",
		Short: "run a scripted batch of simulations",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	courseCmd := &cobra.Command{
		Use:   "course [output.png]",
		Short: "generate a course image",
		Args:  cobra.ExactArgs(1),
		RunE:  generateCourse,
	}
	courseCmd.Flags().String("kind", "oval", "course shape")
	courseCmd.Flags().Float64("width", 0, "course width in metres")
	courseCmd.Flags().Float64("height", 0, "course height in metres")
	courseCmd.Flags().Float64("line", 0, "line width in metres")
	courseCmd.Flags().Float64("ppm", 0, "pixels per metre")

	rootCmd.AddCommand(runCmd, liveCmd, tuneCmd, listCmd, plotCmd, exportCmd, analyzeCmd, scenarioCmd, presetsCmd, courseCmd)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("linetrace failed")
		os.Exit(1)
	}
}

func setupLogging(debug bool) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

// addSimFlags binds the flags shared by every command that builds an
// experiment. Flags only override the config when set explicitly.
func addSimFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.StringVar(&coursePath, "course", "", "course image (png or jpeg)")
	f.StringVar(&courseKind, "kind", "", "generated course shape")
	f.Float64Var(&dt, "dt", 0, "timestep")
	f.Float64Var(&duration, "time", 0, "duration")
	f.Int64Var(&seed, "seed", 0, "random seed")
	f.StringVar(&integrator, "integrator", "", "integrator")
	f.StringVar(&controller, "controller", "", "controller")
	f.Float64Var(&outer, "outer", 0, "line follower outer gain")
	f.Float64Var(&inner, "inner", 0, "line follower inner gain")
	f.Float64Var(&bias, "bias", 0, "line follower bias")
	f.Float64Var(&kp, "kp", 0, "pid kp")
	f.Float64Var(&ki, "ki", 0, "pid ki")
	f.Float64Var(&kd, "kd", 0, "pid kd")
	f.Float64Var(&base, "base", 0, "pid base speed")
}
