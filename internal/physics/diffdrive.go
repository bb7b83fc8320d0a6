package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/linetrace/internal/dynamo"
	"github.com/san-kum/linetrace/internal/sensor"
)

const (
	DefaultMaxSpeed = 0.3
	DefaultTau      = 0.05
	DefaultTrack    = 0.1
)

// State layout.
const (
	IdxX = iota
	IdxY
	IdxHeading
	IdxVLeft
	IdxVRight
)

// DiffDrive is a differential drive vehicle. Commands in [-1,1] set each
// wheel's target speed as a fraction of MaxSpeed; wheel speed approaches the
// target with time constant Tau.
type DiffDrive struct {
	MaxSpeed float64 // m/s at full command
	Tau      float64 // motor time constant, s
	Track    float64 // wheel separation, m
}

func NewDiffDrive() *DiffDrive {
	return &DiffDrive{
		MaxSpeed: DefaultMaxSpeed,
		Tau:      DefaultTau,
		Track:    DefaultTrack,
	}
}

func (d *DiffDrive) StateDim() int   { return 5 }
func (d *DiffDrive) ControlDim() int { return 2 }

func (d *DiffDrive) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	heading, vl, vr := x[IdxHeading], x[IdxVLeft], x[IdxVRight]

	ul, ur := 0.0, 0.0
	if len(u) >= 2 {
		ul, ur = u[0], u[1]
	}

	v := (vl + vr) / 2
	omega := (vr - vl) / d.Track
	sin, cos := math.Sincos(heading)

	tau := math.Max(d.Tau, 1e-6)
	al := (d.MaxSpeed*ul - vl) / tau
	ar := (d.MaxSpeed*ur - vr) / tau

	return dynamo.State{v * cos, v * sin, omega, al, ar}
}

// InitialState places the vehicle at rest.
func (d *DiffDrive) InitialState(x, y, heading float64) dynamo.State {
	return dynamo.State{x, y, heading, 0, 0}
}

// Pose extracts the sensor pose from a state vector.
func Pose(x dynamo.State) sensor.Pose {
	return sensor.Pose{X: x[IdxX], Y: x[IdxY], Heading: x[IdxHeading]}
}

// Speed is the forward speed of the vehicle centre.
func Speed(x dynamo.State) float64 {
	return (x[IdxVLeft] + x[IdxVRight]) / 2
}

func (d *DiffDrive) GetParams() map[string]float64 {
	return map[string]float64{
		"max_speed": d.MaxSpeed,
		"tau":       d.Tau,
		"track":     d.Track,
	}
}

func (d *DiffDrive) SetParam(name string, value float64) error {
	if value <= 0 {
		return fmt.Errorf("%w: %s must be positive, got %f", dynamo.ErrParameterBounds, name, value)
	}
	switch name {
	case "max_speed":
		d.MaxSpeed = value
	case "tau":
		d.Tau = value
	case "track":
		d.Track = value
	default:
		return fmt.Errorf("%w: %s", dynamo.ErrUnknownParam, name)
	}
	return nil
}
