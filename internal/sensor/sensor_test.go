package sensor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stripe is black for |y| <= half and white elsewhere.
type stripe struct{ half float64 }

func (s stripe) Darkness(x, y float64) float64 {
	if math.Abs(y) <= s.half {
		return 1
	}
	return 0
}

type flat float64

func (f flat) Darkness(x, y float64) float64 { return float64(f) }

func TestNewArrayLayout(t *testing.T) {
	arr := NewArray(0.01, 0.05)
	require.Equal(t, Count, arr.Len())

	assert.Equal(t, "far_left", arr[0].Name)
	assert.Equal(t, "far_right", arr[3].Name)
	assert.InDelta(t, 0.015, arr[0].Lateral, 1e-12)
	assert.InDelta(t, 0.005, arr[1].Lateral, 1e-12)
	assert.InDelta(t, -0.005, arr[2].Lateral, 1e-12)
	assert.InDelta(t, -0.015, arr[3].Lateral, 1e-12)
	for _, p := range arr {
		assert.Equal(t, 0.05, p.Forward)
	}
}

func TestWorldPoint(t *testing.T) {
	p := Pose{X: 1, Y: 2, Heading: math.Pi / 2}
	x, y := p.WorldPoint(1, 0)
	assert.InDelta(t, 1.0, x, 1e-9)
	assert.InDelta(t, 3.0, y, 1e-9)

	x, y = p.WorldPoint(0, 1)
	assert.InDelta(t, 0.0, x, 1e-9)
	assert.InDelta(t, 2.0, y, 1e-9)
}

func TestSenseAllQuantises(t *testing.T) {
	arr := NewArray(0.01, 0.05)
	// Line along the x axis, narrower than the inner pair's offset.
	arr.SenseAll(stripe{half: 0.004}, Pose{})
	assert.Equal(t, []float64{0, 0, 0, 0}, arr.Values())
	assert.False(t, arr.OnLine())

	// Shift the vehicle so the left-most sensor sits on the line.
	arr.SenseAll(stripe{half: 0.004}, Pose{Y: -0.015})
	assert.Equal(t, []float64{1, 0, 0, 0}, arr.Values())
	assert.True(t, arr.OnLine())
}

func TestAnalogThreshold(t *testing.T) {
	arr := NewArray(0.01, 0.05)
	arr.SetThreshold(0)
	arr.SenseAll(flat(0.3), Pose{})
	assert.Equal(t, []float64{0.3, 0.3, 0.3, 0.3}, arr.Values())

	arr.SetThreshold(0.25)
	arr.SenseAll(flat(0.3), Pose{})
	assert.Equal(t, []float64{1, 1, 1, 1}, arr.Values())
}

func TestSetIgnoresExtra(t *testing.T) {
	arr := NewArray(0.01, 0.05)
	arr.Set(1, 0, 1, 0, 1)
	assert.Equal(t, []float64{1, 0, 1, 0}, arr.Values())
}
