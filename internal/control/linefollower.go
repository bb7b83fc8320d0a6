package control

import (
	"fmt"

	"github.com/san-kum/linetrace/internal/dynamo"
	"github.com/san-kum/linetrace/internal/sensor"
	"gonum.org/v1/gonum/mat"
)

// Reference gains. Rows are (left, right) motors, columns the photoreflectors
// from far-left to far-right.
var (
	ReferenceWeights = [2][sensor.Count]float64{
		{-0.4, 0.0, 0.2, 0.4},
		{0.4, 0.2, 0.0, -0.4},
	}
	ReferenceBias = [2]float64{0.1, 0.1}
)

// LineFollower maps four photoreflector readings to a motor command pair:
// y = A·x + b, each component clamped to [-1,1]. It keeps no state between
// calls beyond the bound sensor array.
type LineFollower struct {
	prs     sensor.Array
	weights *mat.Dense
	bias    *mat.VecDense
}

func NewLineFollower(prs sensor.Array) *LineFollower {
	return NewLineFollowerWithGains(ReferenceWeights, ReferenceBias, prs)
}

func NewLineFollowerWithGains(weights [2][sensor.Count]float64, bias [2]float64, prs sensor.Array) *LineFollower {
	lf := &LineFollower{prs: prs}
	lf.setGains(weights, bias)
	return lf
}

// SymmetricGains builds a mirror-symmetric weight matrix from an outer
// (far sensor) gain, an inner (near sensor) gain and a common bias.
// The reference gains are SymmetricGains(0.4, 0.2, 0.1).
func SymmetricGains(outer, inner, bias float64) ([2][sensor.Count]float64, [2]float64) {
	return [2][sensor.Count]float64{
		{-outer, 0, inner, outer},
		{outer, inner, 0, -outer},
	}, [2]float64{bias, bias}
}

func (lf *LineFollower) setGains(weights [2][sensor.Count]float64, bias [2]float64) {
	data := make([]float64, 0, 2*sensor.Count)
	for _, row := range weights {
		data = append(data, row[:]...)
	}
	lf.weights = mat.NewDense(2, sensor.Count, data)
	lf.bias = mat.NewVecDense(2, []float64{bias[0], bias[1]})
}

func (lf *LineFollower) Photorefs() sensor.Array { return lf.prs }

// SetPhotorefs rebinds the controller. The next Compute reads the new array.
func (lf *LineFollower) SetPhotorefs(prs sensor.Array) { lf.prs = prs }

// Compute returns the (left, right) motor commands for the current readings.
func (lf *LineFollower) Compute() (left, right float64, err error) {
	if err := checkArray(lf.prs); err != nil {
		return 0, 0, err
	}

	x := mat.NewVecDense(sensor.Count, lf.prs.Values())
	var y mat.VecDense
	y.MulVec(lf.weights, x)
	y.AddVec(&y, lf.bias)

	return Clamp(y.AtVec(0)), Clamp(y.AtVec(1)), nil
}

// Command adapts Compute to dynamo.Controller. The vehicle state is not
// used; the controller only sees what the photoreflectors report.
func (lf *LineFollower) Command(x dynamo.State, t float64) (dynamo.Control, error) {
	left, right, err := lf.Compute()
	if err != nil {
		return nil, err
	}
	return dynamo.Control{left, right}, nil
}

// GetParams reports the gains in SymmetricGains terms.
func (lf *LineFollower) GetParams() map[string]float64 {
	return map[string]float64{
		"outer": lf.weights.At(1, 0),
		"inner": lf.weights.At(1, 1),
		"bias":  lf.bias.AtVec(0),
	}
}

// SetParam retunes one symmetric gain; the matrix is rebuilt symmetric.
func (lf *LineFollower) SetParam(name string, value float64) error {
	p := lf.GetParams()
	if _, ok := p[name]; !ok {
		return fmt.Errorf("%w: %s", dynamo.ErrUnknownParam, name)
	}
	p[name] = value
	lf.setGains(SymmetricGains(p["outer"], p["inner"], p["bias"]))
	return nil
}

func checkArray(prs sensor.Array) error {
	if prs == nil {
		return fmt.Errorf("%w: no photoreflectors bound", ErrInvalidInput)
	}
	if len(prs) != sensor.Count {
		return fmt.Errorf("%w: want %d photoreflectors, got %d", ErrInvalidInput, sensor.Count, len(prs))
	}
	for i, p := range prs {
		if p == nil {
			return fmt.Errorf("%w: photoreflector %d is nil", ErrInvalidInput, i)
		}
	}
	return nil
}
