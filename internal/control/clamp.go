package control

import (
	"errors"
	"math"
)

// ErrInvalidInput is returned when a controller has no sensor array bound or
// the bound array does not hold exactly four photoreflectors.
var ErrInvalidInput = errors.New("control: invalid input")

// Clamp saturates v into [-1,1]. NaN saturates to 1.
func Clamp(v float64) float64 {
	switch {
	case v > 1 || math.IsNaN(v):
		return 1
	case v < -1:
		return -1
	}
	return v
}
