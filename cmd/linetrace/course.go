package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/san-kum/linetrace/internal/course"
	"github.com/spf13/cobra"
)

func generateCourse(cmd *cobra.Command, args []string) error {
	spec := course.DefaultSpec()
	flags := cmd.Flags()

	kind, _ := flags.GetString("kind")
	spec.Kind = kind
	if v, _ := flags.GetFloat64("width"); v > 0 {
		spec.Width = v
	}
	if v, _ := flags.GetFloat64("height"); v > 0 {
		spec.Height = v
	}
	if v, _ := flags.GetFloat64("line"); v > 0 {
		spec.LineWidth = v
	}
	if v, _ := flags.GetFloat64("ppm"); v > 0 {
		spec.PixelsPerMetre = v
	}

	crs, err := course.Generate(spec)
	if err != nil {
		return fmt.Errorf("%w (available: %v)", err, course.Kinds())
	}
	if err := crs.Save(args[0]); err != nil {
		return err
	}

	x, y, h := course.StartPose(spec)
	w, ht := crs.Bounds()
	log.Info().
		Str("path", args[0]).
		Str("kind", spec.Kind).
		Floats64("size_m", []float64{w, ht}).
		Msg("course written")
	fmt.Printf("start pose: x=%.3f y=%.3f heading=%.3f\n", x, y, h)
	return nil
}
