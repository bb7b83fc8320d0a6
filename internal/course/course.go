// Package course loads and generates the monochrome floor images the
// vehicle drives on. Dark pixels are the line.
package course

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"math"
	"os"

	"golang.org/x/image/draw"
)

const DefaultPixelsPerMetre = 500.0

var ErrEmptyCourse = errors.New("course: image has no pixels")

// Course is a grayscale raster placed in the world with its bottom-left
// corner at the origin. World y grows upward, image rows grow downward.
type Course struct {
	img   *image.Gray
	scale float64
}

// New wraps any image, converting it to grayscale.
func New(src image.Image, pixelsPerMetre float64) (*Course, error) {
	b := src.Bounds()
	if b.Empty() {
		return nil, ErrEmptyCourse
	}
	if pixelsPerMetre <= 0 {
		return nil, fmt.Errorf("course: pixels per metre must be positive, got %f", pixelsPerMetre)
	}

	gray, ok := src.(*image.Gray)
	if !ok || gray.Bounds().Min != (image.Point{}) {
		gray = image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(gray, gray.Bounds(), src, b.Min, draw.Src)
	}
	return &Course{img: gray, scale: pixelsPerMetre}, nil
}

// Load decodes a PNG or JPEG course image.
func Load(path string, pixelsPerMetre float64) (*Course, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("course: decode %s: %w", path, err)
	}
	return New(img, pixelsPerMetre)
}

// Save writes the course as PNG.
func (c *Course) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, c.img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Darkness returns 1 - luminance at world point (x, y). Points outside the
// raster read as white floor.
func (c *Course) Darkness(x, y float64) float64 {
	px, py, ok := c.pixel(x, y)
	if !ok {
		return 0
	}
	return 1 - float64(c.img.GrayAt(px, py).Y)/255
}

func (c *Course) pixel(x, y float64) (int, int, bool) {
	w, h := c.img.Bounds().Dx(), c.img.Bounds().Dy()
	px := int(math.Floor(x * c.scale))
	py := h - 1 - int(math.Floor(y*c.scale))
	if px < 0 || px >= w || py < 0 || py >= h {
		return 0, 0, false
	}
	return px, py, true
}

// Bounds returns the course size in metres.
func (c *Course) Bounds() (w, h float64) {
	b := c.img.Bounds()
	return float64(b.Dx()) / c.scale, float64(b.Dy()) / c.scale
}

func (c *Course) PixelsPerMetre() float64 { return c.scale }

func (c *Course) Image() *image.Gray { return c.img }

// Thumbnail scales the course down to cols x rows for terminal rendering.
func (c *Course) Thumbnail(cols, rows int) *image.Gray {
	dst := image.NewGray(image.Rect(0, 0, cols, rows))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), c.img, c.img.Bounds(), draw.Src, nil)
	return dst
}

var (
	white = color.Gray{Y: 255}
	black = color.Gray{Y: 0}
)
