// Package profile holds the declarative measurement tables for the
// supported SiHAS device models. A profile is the single source of truth
// for a model's register layout: a firmware register-map change is a
// change to one rule here, never to reader or collector logic.
package profile

import (
	"errors"
	"fmt"
)

// ErrUnknownModel is returned when a profile is requested for a model id
// that has not been registered.
var ErrUnknownModel = errors.New("unknown device model")

// Supported device model identifiers.
const (
	ModelAQM300 = "AQM300"
	ModelPMM300 = "PMM300"
)

// Unit is the physical unit a measurement is reported in.
type Unit string

const (
	UnitCelsius         Unit = "°C"
	UnitPercent         Unit = "%"
	UnitPPM             Unit = "ppm"
	UnitPPB             Unit = "ppb"
	UnitMicrogramsPerM3 Unit = "µg/m³"
	UnitLux             Unit = "lx"
	UnitWatt            Unit = "W"
	UnitWattHour        Unit = "Wh"
	UnitVolt            Unit = "V"
	UnitAmpere          Unit = "A"
	UnitHertz           Unit = "Hz"
)

// DeviceClass categorizes what a measurement physically is.
type DeviceClass string

const (
	ClassTemperature DeviceClass = "temperature"
	ClassHumidity    DeviceClass = "humidity"
	ClassCO2         DeviceClass = "carbon_dioxide"
	ClassPM25        DeviceClass = "pm25"
	ClassPM10        DeviceClass = "pm10"
	ClassVOC         DeviceClass = "volatile_organic_compounds"
	ClassIlluminance DeviceClass = "illuminance"
	ClassPower       DeviceClass = "power"
	ClassEnergy      DeviceClass = "energy"
	ClassVoltage     DeviceClass = "voltage"
	ClassCurrent     DeviceClass = "current"
	ClassPowerFactor DeviceClass = "power_factor"
	ClassFrequency   DeviceClass = "frequency"
)

// StateClass tells a consuming statistics layer how a series behaves.
type StateClass string

const (
	// StateMeasurement is an instantaneous value.
	StateMeasurement StateClass = "measurement"
	// StateTotal is a cumulative value the device may reset.
	StateTotal StateClass = "total"
	// StateTotalIncreasing only grows, or resets to zero by the device
	// itself; a consumer must not treat a decrease as a new minimum.
	StateTotalIncreasing StateClass = "total_increasing"
)

// MeasurementSpec describes one derived measurement of a device model.
// Specs are constructed once from the static tables below and shared
// read-only by every reader for that model.
type MeasurementSpec struct {
	ID          string
	Unit        Unit
	DeviceClass DeviceClass
	StateClass  StateClass
	Rule        DecodeRule
}

var profiles = map[string][]MeasurementSpec{
	ModelAQM300: aqm300Specs,
	ModelPMM300: pmm300Specs,
}

// Specs returns the ordered measurement table for a model.
func Specs(model string) ([]MeasurementSpec, error) {
	specs, ok := profiles[model]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownModel, model)
	}
	out := make([]MeasurementSpec, len(specs))
	copy(out, specs)
	return out, nil
}

// RegisterCount returns the minimum snapshot length that covers every
// register index the model's rules reference.
func RegisterCount(model string) (uint16, error) {
	specs, ok := profiles[model]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownModel, model)
	}
	var n uint16
	for _, s := range specs {
		if m := s.Rule.maxIndex(); m >= n {
			n = m + 1
		}
	}
	return n, nil
}

// Models lists the registered model identifiers.
func Models() []string {
	return []string{ModelAQM300, ModelPMM300}
}
