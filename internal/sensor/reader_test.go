package sensor

import (
	"context"
	"testing"
	"time"

	"sihas-gateway/internal/profile"
)

// fakeWindow is a scriptable RegisterWindow.
type fakeWindow struct {
	regs      []uint16
	available bool
	polls     int
}

func (f *fakeWindow) Poll(ctx context.Context) error {
	f.polls++
	return ctx.Err()
}

func (f *fakeWindow) Registers() []uint16 { return f.regs }
func (f *fakeWindow) Available() bool     { return f.available }

func pmmSpec(t *testing.T, id string) profile.MeasurementSpec {
	t.Helper()
	specs, err := profile.Specs(profile.ModelPMM300)
	if err != nil {
		t.Fatalf("Specs failed: %v", err)
	}
	for _, s := range specs {
		if s.ID == id {
			return s
		}
	}
	t.Fatalf("no spec %s", id)
	return profile.MeasurementSpec{}
}

func TestRefreshDecodesValue(t *testing.T) {
	regs := make([]uint16, 42)
	regs[0] = 2205
	win := &fakeWindow{regs: regs, available: true}

	r := NewMeasurementReader(pmmSpec(t, "voltage"), win)
	reading, err := r.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if win.polls != 1 {
		t.Fatalf("expected 1 poll, got %d", win.polls)
	}
	if !reading.Available || reading.Value == nil {
		t.Fatalf("expected available reading, got %+v", reading)
	}
	if *reading.Value != 220.5 {
		t.Fatalf("expected 220.5, got %v", *reading.Value)
	}
	if reading.Unit != profile.UnitVolt || reading.DeviceClass != profile.ClassVoltage {
		t.Fatalf("metadata not carried: %+v", reading)
	}
}

func TestUnavailableWindowGatesDecode(t *testing.T) {
	// registers still hold a previously valid-looking snapshot
	regs := make([]uint16, 42)
	regs[0] = 2205
	win := &fakeWindow{regs: regs, available: false}

	r := NewMeasurementReader(pmmSpec(t, "voltage"), win)
	reading, err := r.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if reading.Available {
		t.Fatalf("expected unavailable reading")
	}
	if reading.Value != nil {
		t.Fatalf("stale value leaked: %v", *reading.Value)
	}
}

func TestNoStaleLeakageAcrossCycles(t *testing.T) {
	regs := make([]uint16, 42)
	regs[0] = 2205
	win := &fakeWindow{regs: regs, available: true}
	r := NewMeasurementReader(pmmSpec(t, "voltage"), win)

	reading, err := r.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if reading.Value == nil {
		t.Fatalf("expected value on first cycle")
	}

	// device goes unreachable mid-cycle
	win.available = false
	reading, err = r.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if reading.Available || reading.Value != nil {
		t.Fatalf("prior cycle value leaked: %+v", reading)
	}
}

func TestOutOfRangeIsolatedPerMeasurement(t *testing.T) {
	// snapshot too short for total_energy (needs r[40], r[41]) but fine
	// for voltage
	regs := make([]uint16, 10)
	regs[0] = 2205
	win := &fakeWindow{regs: regs, available: true}

	now := time.Now()
	voltage := NewMeasurementReader(pmmSpec(t, "voltage"), win).Observe(regs, true, now)
	total := NewMeasurementReader(pmmSpec(t, "total_energy"), win).Observe(regs, true, now)

	if !voltage.Available || voltage.Value == nil || *voltage.Value != 220.5 {
		t.Fatalf("sibling measurement affected: %+v", voltage)
	}
	if total.Available || total.Value != nil {
		t.Fatalf("out-of-range decode must be unavailable: %+v", total)
	}
}

func TestObserveSharesOneSnapshot(t *testing.T) {
	specs, err := profile.Specs(profile.ModelAQM300)
	if err != nil {
		t.Fatalf("Specs failed: %v", err)
	}
	regs := []uint16{231, 455, 642, 12, 18, 120, 350}
	win := &fakeWindow{regs: regs, available: true}

	now := time.Now()
	want := map[string]float64{
		"temperature": 23.1,
		"humidity":    45.5,
		"co2":         642,
		"pm25":        12,
		"pm10":        18,
		"tvoc":        120,
		"illuminance": 350,
	}
	for _, s := range specs {
		reading := NewMeasurementReader(s, win).Observe(regs, true, now)
		if reading.Value == nil {
			t.Fatalf("%s: expected value", s.ID)
		}
		if *reading.Value != want[s.ID] {
			t.Fatalf("%s: expected %v, got %v", s.ID, want[s.ID], *reading.Value)
		}
		if !reading.Timestamp.Equal(now) {
			t.Fatalf("%s: readings in one cycle must share the capture time", s.ID)
		}
	}
	if win.polls != 0 {
		t.Fatalf("Observe must not re-poll the window, got %d polls", win.polls)
	}
}
