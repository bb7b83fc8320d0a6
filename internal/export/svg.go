package export

import (
	"fmt"
	"image"
	"strings"
)

type Point struct{ X, Y float64 }

// CanvasToSVG converts a grid of Braille runes to SVG dots.
func CanvasToSVG(grid [][]rune, scale float64) string {
	if len(grid) == 0 {
		return ""
	}

	width := float64(len(grid[0])) * scale * 2 // 2 sub-pixels per char
	height := float64(len(grid)) * scale * 4   // 4 sub-pixels per char

	var sb strings.Builder

	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00ff00">
`, width, height, width, height)

	// Braille dot-to-bit mapping
	pixelMap := [4][2]int{
		{0x01, 0x08},
		{0x02, 0x10},
		{0x04, 0x20},
		{0x40, 0x80},
	}

	dotRadius := scale * 0.4

	for row, line := range grid {
		for col, r := range line {
			if r < 0x2800 || r > 0x28ff {
				continue
			}
			pattern := int(r - 0x2800)

			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4

			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] != 0 {
						cx := baseX + float64(dx)*scale + scale/2
						cy := baseY + float64(dy)*scale + scale/2
						fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, dotRadius)
					}
				}
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// TrajectoryToSVG draws the driven path over the course. courseW and courseH
// are the course size in metres; floor is the course raster, drawn as dark
// cells where the line is. Pass nil to draw the path alone.
func TrajectoryToSVG(points []Point, floor *image.Gray, courseW, courseH float64, width int, strokeColor string) string {
	if len(points) < 2 || courseW <= 0 || courseH <= 0 {
		return ""
	}

	height := int(float64(width) * courseH / courseW)
	sx := float64(width) / courseW
	sy := float64(height) / courseH

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#f4f4f4"/>
`, width, height, width, height)

	if floor != nil {
		writeFloor(&sb, floor, float64(width), float64(height))
	}

	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor)
	for i, p := range points {
		x := p.X * sx
		y := float64(height) - p.Y*sy
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}
	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

// writeFloor emits one rect per dark raster cell, merged along rows.
func writeFloor(sb *strings.Builder, floor *image.Gray, width, height float64) {
	b := floor.Bounds()
	cw := width / float64(b.Dx())
	ch := height / float64(b.Dy())

	sb.WriteString(`<g fill="#222222">` + "\n")
	for y := b.Min.Y; y < b.Max.Y; y++ {
		start := -1
		for x := b.Min.X; x <= b.Max.X; x++ {
			dark := x < b.Max.X && floor.GrayAt(x, y).Y < 128
			if dark && start < 0 {
				start = x
			}
			if !dark && start >= 0 {
				fmt.Fprintf(sb, "<rect x=\"%.1f\" y=\"%.1f\" width=\"%.1f\" height=\"%.1f\"/>\n",
					float64(start-b.Min.X)*cw, float64(y-b.Min.Y)*ch, float64(x-start)*cw, ch)
				start = -1
			}
		}
	}
	sb.WriteString("</g>\n")
}
