package integrators

import "github.com/san-kum/linetrace/internal/dynamo"

// Euler is the explicit first-order method. It matches the per-tick update
// a microcontroller would apply and is the cheapest choice for tuning sweeps.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	dx := dyn.Derive(x, u, t)
	result := make(dynamo.State, len(x))
	for i := range x {
		result[i] = x[i] + dt*dx[i]
	}
	return result
}
