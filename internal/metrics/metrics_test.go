package metrics

import (
	"testing"

	"github.com/san-kum/linetrace/internal/dynamo"
	"github.com/san-kum/linetrace/internal/sensor"
	"github.com/stretchr/testify/assert"
)

func TestControlEffort(t *testing.T) {
	m := NewControlEffort()
	assert.Zero(t, m.Value())

	m.Observe(nil, dynamo.Control{0.5, -0.5}, 0)
	m.Observe(nil, dynamo.Control{0.1, 0.1}, 0.01)
	assert.InDelta(t, 0.6, m.Value(), 1e-12)

	m.Reset()
	assert.Zero(t, m.Value())
}

func TestSaturation(t *testing.T) {
	m := NewSaturation()
	assert.Equal(t, "saturation", m.Name())

	m.Observe(nil, dynamo.Control{1, 0.2}, 0)
	m.Observe(nil, dynamo.Control{0.3, 0.2}, 0.01)
	m.Observe(nil, dynamo.Control{0.3, -1}, 0.02)
	m.Observe(nil, dynamo.Control{0, 0}, 0.03)
	assert.InDelta(t, 0.5, m.Value(), 1e-12)
}

func TestLineContact(t *testing.T) {
	prs := sensor.NewArray(sensor.DefaultSpacing, sensor.DefaultForward)
	m := NewLineContact(prs)

	prs.Set(0, 1, 0, 0)
	m.Observe(nil, nil, 0)
	prs.Set(0, 0, 0, 0)
	m.Observe(nil, nil, 0.01)
	m.Observe(nil, nil, 0.02)
	prs.Set(1, 1, 1, 1)
	m.Observe(nil, nil, 0.03)

	assert.Equal(t, "line_contact", m.Name())
	assert.InDelta(t, 0.5, m.Value(), 1e-12)

	m.Reset()
	assert.Zero(t, m.Value())
}

func TestOdometer(t *testing.T) {
	m := NewOdometer()
	m.Observe(dynamo.State{0, 0, 0}, nil, 0)
	m.Observe(dynamo.State{3, 4, 0}, nil, 1)
	m.Observe(dynamo.State{3, 5, 0}, nil, 2)
	assert.InDelta(t, 6.0, m.Value(), 1e-12)

	m.Reset()
	m.Observe(dynamo.State{10, 10}, nil, 0)
	assert.Zero(t, m.Value())
}
