package sensor

import (
	"context"
	"errors"
	"log"
	"time"

	"sihas-gateway/internal/profile"
)

// Reading is one decoded measurement for one refresh cycle. Value is nil
// whenever the measurement could not be decoded this cycle; a reading
// never carries a substituted zero or a value from a previous cycle.
type Reading struct {
	ID          string              `json:"id"`
	Unit        profile.Unit        `json:"unit"`
	DeviceClass profile.DeviceClass `json:"device_class"`
	StateClass  profile.StateClass  `json:"state_class"`
	Value       *float64            `json:"value,omitempty"`
	Available   bool                `json:"available"`
	Timestamp   time.Time           `json:"timestamp"`
}

// MeasurementReader binds one MeasurementSpec to one RegisterWindow.
// Readers sharing a window are independent: a decode failure in one
// never affects its siblings.
type MeasurementReader struct {
	spec   profile.MeasurementSpec
	window RegisterWindow
}

// NewMeasurementReader constructs a reader for spec over window.
func NewMeasurementReader(spec profile.MeasurementSpec, window RegisterWindow) *MeasurementReader {
	return &MeasurementReader{spec: spec, window: window}
}

// Spec returns the spec this reader decodes.
func (r *MeasurementReader) Spec() profile.MeasurementSpec { return r.spec }

// Refresh polls the window and decodes the resulting snapshot. A device
// loop fanning one poll out to many readers should poll the window itself
// and call Observe instead, so every reader sees the same snapshot.
func (r *MeasurementReader) Refresh(ctx context.Context) (Reading, error) {
	if err := r.window.Poll(ctx); err != nil {
		return Reading{}, err
	}
	return r.Observe(r.window.Registers(), r.window.Available(), time.Now()), nil
}

// Observe decodes an already-captured snapshot. If the window was
// unavailable the rule is not evaluated at all, so a stale or partial
// snapshot can never leak into a reading. An out-of-range register index
// marks this measurement unavailable for the cycle and is logged, never
// propagated.
func (r *MeasurementReader) Observe(regs []uint16, available bool, ts time.Time) Reading {
	reading := Reading{
		ID:          r.spec.ID,
		Unit:        r.spec.Unit,
		DeviceClass: r.spec.DeviceClass,
		StateClass:  r.spec.StateClass,
		Timestamp:   ts,
	}
	if !available {
		return reading
	}

	v, err := r.spec.Rule.Decode(regs)
	if err != nil {
		if errors.Is(err, profile.ErrRegisterIndexOutOfRange) {
			log.Printf("reader %s: %v", r.spec.ID, err)
			return reading
		}
		log.Printf("reader %s: decode: %v", r.spec.ID, err)
		return reading
	}
	reading.Value = &v
	reading.Available = true
	return reading
}
