package main

import (
	"fmt"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/linetrace/internal/analysis"
	"github.com/san-kum/linetrace/internal/storage"
	"github.com/spf13/cobra"
)

func analyzeRun(cmd *cobra.Command, args []string) error {
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

	signals := []struct {
		name string
		data []float64
	}{
		{"heading", series.Column("heading")},
		{"steering", analysis.Steering(series.Column("left"), series.Column("right"))},
	}

	fmt.Printf("run: %s\n\n", meta.ID)
	for _, sig := range signals {
		spectrum, err := analysis.Analyze(sig.data, meta.Dt)
		if err != nil {
			fmt.Printf("%s: %v\n", sig.name, err)
			continue
		}
		freq, amp := spectrum.Dominant()
		fmt.Printf("%s: dominant %.3f Hz, amplitude %.4f\n", sig.name, freq, amp)

		// The weave of a line follower sits well below 10 Hz.
		bins := len(spectrum.Amplitude)
		for i, f := range spectrum.Freqs {
			if f > 10 {
				bins = i
				break
			}
		}
		if bins > 2 {
			fmt.Println(asciigraph.Plot(spectrum.Amplitude[1:bins],
				asciigraph.Height(6),
				asciigraph.Width(80),
				asciigraph.Caption(sig.name+" spectrum (0-10 Hz)"),
			))
		}
		fmt.Println()
	}
	return nil
}
