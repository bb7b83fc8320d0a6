package integrators

import (
	"math"

	"github.com/san-kum/linetrace/internal/dynamo"
)

// Dormand-Prince 5(4) tableau.
var (
	dpC = [7]float64{0, 1.0 / 5.0, 3.0 / 10.0, 4.0 / 5.0, 8.0 / 9.0, 1, 1}
	dpA = [6][]float64{
		{1.0 / 5.0},
		{3.0 / 40.0, 9.0 / 40.0},
		{44.0 / 45.0, -56.0 / 15.0, 32.0 / 9.0},
		{19372.0 / 6561.0, -25360.0 / 2187.0, 64448.0 / 6561.0, -212.0 / 729.0},
		{9017.0 / 3168.0, -355.0 / 33.0, 46732.0 / 5247.0, 49.0 / 176.0, -5103.0 / 18656.0},
		{35.0 / 384.0, 0, 500.0 / 1113.0, 125.0 / 192.0, -2187.0 / 6784.0, 11.0 / 84.0},
	}
	// fifth-order minus embedded fourth-order weights
	dpE = [7]float64{
		35.0/384.0 - 5179.0/57600.0,
		0,
		500.0/1113.0 - 7571.0/16695.0,
		125.0/192.0 - 393.0/640.0,
		-2187.0/6784.0 + 92097.0/339200.0,
		11.0/84.0 - 187.0/2100.0,
		-1.0 / 40.0,
	}
)

// DefaultTolerance is the relative error Step aims for.
const DefaultTolerance = 1e-6

// RK45 is the Dormand-Prince embedded pair. Step always advances by the
// given dt; StepAdaptive also reports the dt the error estimate suggests.
type RK45 struct {
	safety   float64
	minScale float64
	maxScale float64
	k        [7]dynamo.State
}

func NewRK45() *RK45 {
	return &RK45{
		safety:   0.9,
		minScale: 0.2,
		maxScale: 10.0,
	}
}

func (r *RK45) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	next, _ := r.StepAdaptive(dyn, x, u, t, dt, DefaultTolerance)
	return next
}

// StepAdaptive advances x by dt and returns the step size that would keep
// the local error near tol.
func (r *RK45) StepAdaptive(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt, tol float64) (dynamo.State, float64) {
	n := len(x)

	r.k[0] = dyn.Derive(x, u, t)
	var next dynamo.State
	for s, row := range dpA {
		stage := make(dynamo.State, n)
		for i := range stage {
			sum := 0.0
			for j, a := range row {
				sum += a * r.k[j][i]
			}
			stage[i] = x[i] + dt*sum
		}
		// The last row is the fifth-order solution (FSAL).
		r.k[s+1] = dyn.Derive(stage, u, t+dpC[s+1]*dt)
		next = stage
	}

	errMax := 0.0
	for i := 0; i < n; i++ {
		est := 0.0
		for j, e := range dpE {
			est += e * r.k[j][i]
		}
		scale := math.Abs(x[i]) + math.Abs(dt*r.k[0][i]) + 1e-10
		errMax = math.Max(errMax, math.Abs(dt*est)/scale)
	}

	ratio := errMax / tol
	switch {
	case ratio > 1:
		return next, dt * math.Max(r.minScale, r.safety*math.Pow(ratio, -0.25))
	case ratio > 0:
		return next, dt * math.Min(r.maxScale, r.safety*math.Pow(ratio, -0.2))
	default:
		return next, dt * r.maxScale
	}
}
