package export

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var (
	leftColor  = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
	rightColor = color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}
)

// PlotTrajectory saves the driven path as an image; the format follows the
// file extension (png, svg, pdf).
func PlotTrajectory(path, title string, xs, ys []float64) error {
	if len(xs) != len(ys) || len(xs) == 0 {
		return fmt.Errorf("export: trajectory needs matching non-empty x and y")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x (m)"
	p.Y.Label.Text = "y (m)"

	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i] = plotter.XY{X: xs[i], Y: ys[i]}
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.Width = vg.Points(1)
	p.Add(line, plotter.NewGrid())

	return p.Save(8*vg.Inch, 6*vg.Inch, path)
}

// PlotCommands saves both motor commands against time.
func PlotCommands(path, title string, times, left, right []float64) error {
	if len(left) != len(right) || len(left) == 0 || len(times) < len(left) {
		return fmt.Errorf("export: commands need matching non-empty series")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "t (s)"
	p.Y.Label.Text = "command"
	p.Y.Min, p.Y.Max = -1.05, 1.05

	for _, s := range []struct {
		name  string
		vals  []float64
		color color.Color
	}{
		{"left", left, leftColor},
		{"right", right, rightColor},
	} {
		pts := make(plotter.XYs, len(s.vals))
		for i, v := range s.vals {
			pts[i] = plotter.XY{X: times[i], Y: v}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.Width = vg.Points(1)
		line.Color = s.color
		p.Add(line)
		p.Legend.Add(s.name, line)
	}
	p.Add(plotter.NewGrid())

	return p.Save(14*vg.Inch, 6*vg.Inch, path)
}
