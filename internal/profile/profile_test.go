package profile

import (
	"errors"
	"testing"
)

func TestSpecsUnknownModel(t *testing.T) {
	if _, err := Specs("XYZ100"); !errors.Is(err, ErrUnknownModel) {
		t.Fatalf("expected ErrUnknownModel, got %v", err)
	}
	if _, err := RegisterCount("XYZ100"); !errors.Is(err, ErrUnknownModel) {
		t.Fatalf("expected ErrUnknownModel, got %v", err)
	}
}

func TestAQM300Profile(t *testing.T) {
	specs, err := Specs(ModelAQM300)
	if err != nil {
		t.Fatalf("Specs failed: %v", err)
	}
	if len(specs) != 7 {
		t.Fatalf("expected 7 AQM specs, got %d", len(specs))
	}

	wantOrder := []string{"co2", "pm25", "pm10", "tvoc", "humidity", "illuminance", "temperature"}
	for i, id := range wantOrder {
		if specs[i].ID != id {
			t.Fatalf("spec %d: expected %s, got %s", i, id, specs[i].ID)
		}
	}

	count, err := RegisterCount(ModelAQM300)
	if err != nil {
		t.Fatalf("RegisterCount failed: %v", err)
	}
	if count != 7 {
		t.Fatalf("expected register count 7, got %d", count)
	}

	// humidity raw 455 decodes to 45.5 %
	regs := []uint16{231, 455, 642, 12, 18, 120, 350}
	for _, s := range specs {
		if s.ID != "humidity" {
			continue
		}
		got, err := s.Rule.Decode(regs)
		if err != nil {
			t.Fatalf("humidity decode failed: %v", err)
		}
		if got != 45.5 {
			t.Fatalf("expected humidity 45.5, got %v", got)
		}
		if s.Unit != UnitPercent {
			t.Fatalf("expected %%, got %s", s.Unit)
		}
	}
}

func TestPMM300Profile(t *testing.T) {
	specs, err := Specs(ModelPMM300)
	if err != nil {
		t.Fatalf("Specs failed: %v", err)
	}
	if len(specs) != 14 {
		t.Fatalf("expected 14 PMM specs, got %d", len(specs))
	}

	count, err := RegisterCount(ModelPMM300)
	if err != nil {
		t.Fatalf("RegisterCount failed: %v", err)
	}
	if count != 42 {
		t.Fatalf("expected register count 42, got %d", count)
	}

	regs := make([]uint16, count)
	regs[0] = 2200
	regs[1] = 150
	regs[2] = 500
	regs[40] = 1000
	regs[41] = 2

	want := map[string]float64{
		"voltage":      220.0,
		"current":      1.5,
		"power":        500,
		"total_energy": 132072,
	}
	byID := make(map[string]MeasurementSpec, len(specs))
	for _, s := range specs {
		byID[s.ID] = s
	}
	for id, w := range want {
		s, ok := byID[id]
		if !ok {
			t.Fatalf("missing spec %s", id)
		}
		got, err := s.Rule.Decode(regs)
		if err != nil {
			t.Fatalf("%s decode failed: %v", id, err)
		}
		if got != w {
			t.Fatalf("%s: expected %v, got %v", id, w, got)
		}
	}

	if byID["total_energy"].StateClass != StateTotalIncreasing {
		t.Fatalf("total_energy must be total_increasing, got %s", byID["total_energy"].StateClass)
	}
	if byID["power"].StateClass != StateMeasurement {
		t.Fatalf("power must be measurement, got %s", byID["power"].StateClass)
	}
	for _, id := range []string{"this_hour_energy", "this_day_energy", "this_month_energy"} {
		if byID[id].StateClass != StateTotal {
			t.Fatalf("%s must be total, got %s", id, byID[id].StateClass)
		}
	}
}

func TestSpecsReturnsCopy(t *testing.T) {
	first, err := Specs(ModelAQM300)
	if err != nil {
		t.Fatalf("Specs failed: %v", err)
	}
	first[0].ID = "tampered"

	second, err := Specs(ModelAQM300)
	if err != nil {
		t.Fatalf("Specs failed: %v", err)
	}
	if second[0].ID == "tampered" {
		t.Fatalf("Specs leaked a mutable reference to the profile table")
	}
}

func TestUniqueIDsWithinProfile(t *testing.T) {
	for _, m := range Models() {
		specs, err := Specs(m)
		if err != nil {
			t.Fatalf("Specs(%s) failed: %v", m, err)
		}
		seen := make(map[string]bool, len(specs))
		for _, s := range specs {
			if seen[s.ID] {
				t.Fatalf("%s: duplicate spec id %s", m, s.ID)
			}
			seen[s.ID] = true
		}
	}
}
