package physics

import (
	"math"
	"testing"

	"github.com/san-kum/linetrace/internal/dynamo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffDriveStraight(t *testing.T) {
	d := NewDiffDrive()
	x := dynamo.State{0, 0, 0, 0.2, 0.2}
	dx := d.Derive(x, dynamo.Control{0, 0}, 0)

	assert.InDelta(t, 0.2, dx[IdxX], 1e-12)
	assert.InDelta(t, 0.0, dx[IdxY], 1e-12)
	assert.InDelta(t, 0.0, dx[IdxHeading], 1e-12)
	// Zero command decelerates both wheels.
	assert.Less(t, dx[IdxVLeft], 0.0)
	assert.Less(t, dx[IdxVRight], 0.0)
}

func TestDiffDriveTurnsTowardFasterWheel(t *testing.T) {
	d := NewDiffDrive()
	x := dynamo.State{0, 0, 0, 0.1, 0.2}
	dx := d.Derive(x, dynamo.Control{0.5, 0.5}, 0)

	assert.Greater(t, dx[IdxHeading], 0.0, "faster right wheel should turn left (ccw)")
	assert.InDelta(t, 1.0, dx[IdxHeading], 1e-9)
}

func TestDiffDriveMotorLag(t *testing.T) {
	d := NewDiffDrive()
	x := d.InitialState(0, 0, math.Pi/2)
	dx := d.Derive(x, dynamo.Control{1, -1}, 0)

	assert.InDelta(t, d.MaxSpeed/d.Tau, dx[IdxVLeft], 1e-9)
	assert.InDelta(t, -d.MaxSpeed/d.Tau, dx[IdxVRight], 1e-9)
}

func TestDiffDrivePose(t *testing.T) {
	p := Pose(dynamo.State{1, 2, 0.5, 0.1, 0.3})
	assert.Equal(t, 1.0, p.X)
	assert.Equal(t, 2.0, p.Y)
	assert.Equal(t, 0.5, p.Heading)
	assert.InDelta(t, 0.2, Speed(dynamo.State{0, 0, 0, 0.1, 0.3}), 1e-12)
}

func TestDiffDriveParams(t *testing.T) {
	d := NewDiffDrive()
	require.NoError(t, d.SetParam("track", 0.2))
	assert.Equal(t, 0.2, d.GetParams()["track"])

	assert.ErrorIs(t, d.SetParam("wheels", 3), dynamo.ErrUnknownParam)
	assert.ErrorIs(t, d.SetParam("tau", -1), dynamo.ErrParameterBounds)
}
