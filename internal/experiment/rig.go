package experiment

import (
	"github.com/san-kum/linetrace/internal/dynamo"
	"github.com/san-kum/linetrace/internal/physics"
	"github.com/san-kum/linetrace/internal/sensor"
)

// Rig writes photoreflector readings for the vehicle's current pose. It is
// the simulator's sensing stage and runs before the controller each tick.
type Rig struct {
	Surface sensor.Surface
	Sensors sensor.Array
}

func (r *Rig) Perceive(x dynamo.State, t float64) error {
	if len(x) < physics.IdxHeading+1 {
		return dynamo.ErrDimensionMismatch
	}
	r.Sensors.SenseAll(r.Surface, physics.Pose(x))
	return nil
}
