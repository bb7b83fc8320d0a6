package course

import (
	"fmt"
	"image"
	"math"
	"sort"
)

// Spec describes a synthetic course. Sizes are in metres.
type Spec struct {
	Kind           string  `yaml:"kind"`
	Width          float64 `yaml:"width"`
	Height         float64 `yaml:"height"`
	LineWidth      float64 `yaml:"line_width"`
	PixelsPerMetre float64 `yaml:"pixels_per_metre"`
}

func DefaultSpec() Spec {
	return Spec{
		Kind:           "oval",
		Width:          2.0,
		Height:         1.4,
		LineWidth:      0.02,
		PixelsPerMetre: DefaultPixelsPerMetre,
	}
}

type shape func(x, y float64, s Spec) float64

// Each shape returns the distance from (x, y) to the line centre.
var shapes = map[string]shape{
	"oval":     ovalDistance,
	"figure8":  figure8Distance,
	"straight": straightDistance,
}

func Kinds() []string {
	kinds := make([]string, 0, len(shapes))
	for k := range shapes {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Generate rasterises a synthetic course.
func Generate(s Spec) (*Course, error) {
	fn, ok := shapes[s.Kind]
	if !ok {
		return nil, fmt.Errorf("course: unknown kind %q (available: %v)", s.Kind, Kinds())
	}
	if s.Width <= 0 || s.Height <= 0 || s.LineWidth <= 0 {
		return nil, fmt.Errorf("course: width, height and line width must be positive")
	}
	if s.PixelsPerMetre <= 0 {
		s.PixelsPerMetre = DefaultPixelsPerMetre
	}

	w := int(math.Ceil(s.Width * s.PixelsPerMetre))
	h := int(math.Ceil(s.Height * s.PixelsPerMetre))
	img := image.NewGray(image.Rect(0, 0, w, h))

	half := s.LineWidth / 2
	for py := 0; py < h; py++ {
		y := (float64(h-1-py) + 0.5) / s.PixelsPerMetre
		for px := 0; px < w; px++ {
			x := (float64(px) + 0.5) / s.PixelsPerMetre
			if fn(x, y, s) <= half {
				img.SetGray(px, py, black)
			} else {
				img.SetGray(px, py, white)
			}
		}
	}
	return New(img, s.PixelsPerMetre)
}

// StartPose returns a pose on the line of a generated course, heading along it.
func StartPose(s Spec) (x, y, heading float64) {
	cx, cy := s.Width/2, s.Height/2
	switch s.Kind {
	case "straight":
		return s.Width * 0.1, cy, 0
	case "figure8":
		// The two loops touch at the centre with a vertical tangent.
		return cx, cy, math.Pi / 2
	default:
		_, ry := ovalRadii(s)
		return cx, cy - ry, 0
	}
}

func ovalRadii(s Spec) (float64, float64) {
	return s.Width * 0.4, s.Height * 0.35
}

// ovalDistance approximates the distance to an axis-aligned ellipse by
// scaling the radial error with the local radius.
func ovalDistance(x, y float64, s Spec) float64 {
	rx, ry := ovalRadii(s)
	dx, dy := x-s.Width/2, y-s.Height/2
	r := math.Hypot(dx/rx, dy/ry)
	if r == 0 {
		return math.Min(rx, ry)
	}
	theta := math.Atan2(dy/ry, dx/rx)
	local := math.Hypot(rx*math.Cos(theta), ry*math.Sin(theta))
	return math.Abs(r-1) * local
}

// figure8Distance is the distance to two tangent circles meeting at the centre.
func figure8Distance(x, y float64, s Spec) float64 {
	r := math.Min(s.Width/4, s.Height/2) * 0.8
	cy := s.Height / 2
	left := math.Abs(math.Hypot(x-(s.Width/2-r), y-cy) - r)
	right := math.Abs(math.Hypot(x-(s.Width/2+r), y-cy) - r)
	return math.Min(left, right)
}

func straightDistance(x, y float64, s Spec) float64 {
	return math.Abs(y - s.Height/2)
}
