package metrics

import (
	"github.com/san-kum/linetrace/internal/dynamo"
	"github.com/san-kum/linetrace/internal/sensor"
)

// LineContact is the fraction of ticks on which at least one photoreflector
// reads black. It reads the same array the controller is bound to, so it
// must be observed after sensing.
type LineContact struct {
	name    string
	prs     sensor.Array
	onLine  int
	samples int
}

func NewLineContact(prs sensor.Array) *LineContact {
	return &LineContact{
		name: "line_contact",
		prs:  prs,
	}
}

func (l *LineContact) Name() string { return l.name }

func (l *LineContact) Observe(x dynamo.State, u dynamo.Control, t float64) {
	l.samples++
	if l.prs.OnLine() {
		l.onLine++
	}
}

func (l *LineContact) Value() float64 {
	if l.samples == 0 {
		return 0
	}
	return float64(l.onLine) / float64(l.samples)
}

func (l *LineContact) Reset() {
	l.onLine = 0
	l.samples = 0
}
