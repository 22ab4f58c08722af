package profile

// AQM-300 air-quality monitor register map (input words):
//
//	r[0] temperature (x10 °C)
//	r[1] relative humidity (x10 %)
//	r[2] CO2 (ppm)
//	r[3] PM2.5 (µg/m³)
//	r[4] PM10 (µg/m³)
//	r[5] TVOC (ppb)
//	r[6] illuminance (lx)
var aqm300Specs = []MeasurementSpec{
	{
		ID:          "co2",
		Unit:        UnitPPM,
		DeviceClass: ClassCO2,
		StateClass:  StateMeasurement,
		Rule:        Scale(2, 0),
	},
	{
		ID:          "pm25",
		Unit:        UnitMicrogramsPerM3,
		DeviceClass: ClassPM25,
		StateClass:  StateMeasurement,
		Rule:        Scale(3, 0),
	},
	{
		ID:          "pm10",
		Unit:        UnitMicrogramsPerM3,
		DeviceClass: ClassPM10,
		StateClass:  StateMeasurement,
		Rule:        Scale(4, 0),
	},
	{
		ID:          "tvoc",
		Unit:        UnitPPB,
		DeviceClass: ClassVOC,
		StateClass:  StateMeasurement,
		Rule:        Scale(5, 0),
	},
	{
		ID:          "humidity",
		Unit:        UnitPercent,
		DeviceClass: ClassHumidity,
		StateClass:  StateMeasurement,
		Rule:        Scale(1, 1),
	},
	{
		ID:          "illuminance",
		Unit:        UnitLux,
		DeviceClass: ClassIlluminance,
		StateClass:  StateMeasurement,
		Rule:        Scale(6, 0),
	},
	{
		ID:          "temperature",
		Unit:        UnitCelsius,
		DeviceClass: ClassTemperature,
		StateClass:  StateMeasurement,
		Rule:        Scale(0, 1),
	},
}
