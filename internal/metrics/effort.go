package metrics

import (
	"math"

	"github.com/san-kum/linetrace/internal/dynamo"
)

// mean is a per-tick running average shared by the command metrics.
type mean struct {
	name  string
	total float64
	ticks int
	score func(u dynamo.Control) float64
}

func (m *mean) Name() string { return m.name }

func (m *mean) Observe(x dynamo.State, u dynamo.Control, t float64) {
	m.total += m.score(u)
	m.ticks++
}

func (m *mean) Value() float64 {
	if m.ticks == 0 {
		return 0
	}
	return m.total / float64(m.ticks)
}

func (m *mean) Reset() { m.total, m.ticks = 0, 0 }

// NewControlEffort reports the mean of |left| + |right| per tick.
func NewControlEffort() dynamo.Metric {
	return &mean{name: "control_effort", score: func(u dynamo.Control) float64 {
		sum := 0.0
		for _, v := range u {
			sum += math.Abs(v)
		}
		return sum
	}}
}

// NewSaturation reports the fraction of ticks where either motor command
// sits at the clamp limit. A high value means the gains are too hot for
// the course.
func NewSaturation() dynamo.Metric {
	return &mean{name: "saturation", score: func(u dynamo.Control) float64 {
		for _, v := range u {
			if math.Abs(v) >= 1 {
				return 1
			}
		}
		return 0
	}}
}
