// Package sensor models the photoreflector bar mounted under the vehicle.
//
// Readings follow the convention 0 = white surface, 1 = black line. The
// simulation writes them once per tick; controllers only read them.
package sensor

import "math"

// Surface reports how dark the floor is at a world point, in [0,1].
type Surface interface {
	Darkness(x, y float64) float64
}

// Pose is the vehicle's position in metres and heading in radians,
// measured counter-clockwise from the world x axis.
type Pose struct {
	X, Y    float64
	Heading float64
}

// WorldPoint converts an offset in the vehicle frame (forward, left) to
// world coordinates.
func (p Pose) WorldPoint(forward, lateral float64) (float64, float64) {
	sin, cos := math.Sincos(p.Heading)
	return p.X + forward*cos - lateral*sin, p.Y + forward*sin + lateral*cos
}

type Photoreflector struct {
	Name    string
	Forward float64
	Lateral float64
	// Threshold quantises darkness to 0 or 1. Zero or below reports the
	// analog darkness instead.
	Threshold float64
	Value     float64
}

func (p *Photoreflector) Sense(surface Surface, pose Pose) {
	x, y := pose.WorldPoint(p.Forward, p.Lateral)
	d := surface.Darkness(x, y)
	if p.Threshold <= 0 {
		p.Value = d
		return
	}
	if d >= p.Threshold {
		p.Value = 1
	} else {
		p.Value = 0
	}
}
