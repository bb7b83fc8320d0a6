package metrics

import (
	"math"

	"github.com/san-kum/linetrace/internal/dynamo"
)

// Odometer accumulates the straight-line distance between consecutive
// observed positions. x[0] and x[1] are the planar position.
type Odometer struct {
	name     string
	distance float64
	lastX    float64
	lastY    float64
	started  bool
}

func NewOdometer() *Odometer {
	return &Odometer{name: "distance"}
}

func (o *Odometer) Name() string { return o.name }

func (o *Odometer) Observe(x dynamo.State, u dynamo.Control, t float64) {
	if len(x) < 2 {
		return
	}
	if o.started {
		o.distance += math.Hypot(x[0]-o.lastX, x[1]-o.lastY)
	}
	o.lastX, o.lastY = x[0], x[1]
	o.started = true
}

func (o *Odometer) Value() float64 { return o.distance }

func (o *Odometer) Reset() {
	o.distance = 0
	o.started = false
}
