package control

import "github.com/san-kum/linetrace/internal/dynamo"

// None keeps the motors off. Useful as a baseline and for coasting tests.
type None struct {
	dim int
}

func NewNone(dim int) *None {
	return &None{
		dim: dim,
	}
}

func (n *None) Command(x dynamo.State, t float64) (dynamo.Control, error) {
	return make(dynamo.Control, n.dim), nil
}
