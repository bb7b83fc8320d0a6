package sensor

// Count is the number of photoreflectors on the standard bar.
const Count = 4

const (
	DefaultSpacing   = 0.012
	DefaultForward   = 0.06
	DefaultThreshold = 0.5
)

// Array is the ordered photoreflector bar: far-left, left, right, far-right.
// Its order is fixed at construction.
type Array []*Photoreflector

// NewArray builds the standard bar with sensors spacing metres apart,
// mounted forward metres ahead of the axle.
func NewArray(spacing, forward float64) Array {
	names := [Count]string{"far_left", "left", "right", "far_right"}
	offsets := [Count]float64{1.5, 0.5, -0.5, -1.5}

	arr := make(Array, Count)
	for i := range arr {
		arr[i] = &Photoreflector{
			Name:      names[i],
			Forward:   forward,
			Lateral:   offsets[i] * spacing,
			Threshold: DefaultThreshold,
		}
	}
	return arr
}

func (a Array) Len() int { return len(a) }

// Values snapshots the current readings in bar order.
func (a Array) Values() []float64 {
	vals := make([]float64, len(a))
	for i, p := range a {
		vals[i] = p.Value
	}
	return vals
}

// Set overwrites readings in bar order; extra values are ignored.
func (a Array) Set(vals ...float64) {
	for i := range a {
		if i < len(vals) {
			a[i].Value = vals[i]
		}
	}
}

func (a Array) SenseAll(surface Surface, pose Pose) {
	for _, p := range a {
		p.Sense(surface, pose)
	}
}

// OnLine reports whether any sensor currently reads black.
func (a Array) OnLine() bool {
	for _, p := range a {
		if p.Value >= DefaultThreshold {
			return true
		}
	}
	return false
}

func (a Array) SetThreshold(th float64) {
	for _, p := range a {
		p.Threshold = th
	}
}
