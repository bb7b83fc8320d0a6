package control

import (
	"fmt"

	"github.com/san-kum/linetrace/internal/dynamo"
	"github.com/san-kum/linetrace/internal/sensor"
)

// barPositions are the lateral positions of the bar sensors in sensor
// spacings, positive to the left.
var barPositions = [sensor.Count]float64{1.5, 0.5, -0.5, -1.5}

// PID steers on the line's lateral position under the sensor bar. A positive
// error means the line is to the left, so the right wheel speeds up.
type PID struct {
	Kp   float64
	Ki   float64
	Kd   float64
	Base float64

	prs      sensor.Array
	integral float64
	prevErr  float64
	prevT    float64
	first    bool
}

func NewPID(kp, ki, kd, base float64, prs sensor.Array) *PID {
	return &PID{
		Kp:    kp,
		Ki:    ki,
		Kd:    kd,
		Base:  base,
		prs:   prs,
		first: true,
	}
}

func (p *PID) Photorefs() sensor.Array       { return p.prs }
func (p *PID) SetPhotorefs(prs sensor.Array) { p.prs = prs }

// LineOffset returns the reading-weighted centroid of the bar and whether
// any sensor sees the line at all.
func LineOffset(vals []float64) (float64, bool) {
	sum, weighted := 0.0, 0.0
	for i, v := range vals {
		if i >= len(barPositions) {
			break
		}
		sum += v
		weighted += v * barPositions[i]
	}
	if sum <= 0 {
		return 0, false
	}
	return weighted / sum, true
}

func (p *PID) Command(x dynamo.State, t float64) (dynamo.Control, error) {
	if err := checkArray(p.prs); err != nil {
		return nil, err
	}

	// When the line is lost keep steering toward where it was last seen.
	e, seen := LineOffset(p.prs.Values())
	if !seen {
		e = p.prevErr
	}

	var steer float64
	if p.first {
		p.first = false
		steer = p.Kp * e
	} else if dt := t - p.prevT; dt > 0 {
		p.integral += e * dt
		derivative := (e - p.prevErr) / dt
		steer = p.Kp*e + p.Ki*p.integral + p.Kd*derivative
	} else {
		steer = p.Kp * e
	}
	p.prevErr = e
	p.prevT = t

	return dynamo.Control{Clamp(p.Base - steer), Clamp(p.Base + steer)}, nil
}

// Reset clears integral and derivative state
func (p *PID) Reset() {
	p.integral = 0
	p.prevErr = 0
	p.prevT = 0
	p.first = true
}

// GetParams uses the same names as the controller_params config keys.
func (p *PID) GetParams() map[string]float64 {
	return map[string]float64{
		"kp":   p.Kp,
		"ki":   p.Ki,
		"kd":   p.Kd,
		"base": p.Base,
	}
}

func (p *PID) SetParam(name string, value float64) error {
	switch name {
	case "kp":
		p.Kp = value
	case "ki":
		p.Ki = value
	case "kd":
		p.Kd = value
	case "base":
		p.Base = value
	default:
		return fmt.Errorf("%w: %s", dynamo.ErrUnknownParam, name)
	}
	return nil
}
