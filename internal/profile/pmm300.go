package profile

// PMM-300 power meter register map (input words):
//
//	r[0]  voltage (x10 V)
//	r[1]  current (x100 A)
//	r[2]  active power (W)
//	r[3]  power factor (x10 %)
//	r[4]  frequency (x10 Hz)
//	r[6]  current hour usage (x10 Wh)
//	r[7]  previous hour usage (x10 Wh)
//	r[8]  today usage (x10 Wh)
//	r[9]  yesterday usage (x10 Wh)
//	r[10] this month usage (x10 Wh)
//	r[11] last month usage (x10 Wh)
//	r[12] two months ago usage (x10 Wh)
//	r[13] this month forecast (x10 Wh)
//	r[16] current 20-minute usage (Wh), fine remainder of r[6]
//	r[40] lifetime energy, low word (Wh)
//	r[41] lifetime energy, high word (Wh)
var pmm300Specs = []MeasurementSpec{
	{
		ID:          "power",
		Unit:        UnitWatt,
		DeviceClass: ClassPower,
		StateClass:  StateMeasurement,
		Rule:        Scale(2, 0),
	},
	{
		ID:          "this_month_energy",
		Unit:        UnitWattHour,
		DeviceClass: ClassEnergy,
		StateClass:  StateTotal,
		Rule:        Multiply(10, 10),
	},
	{
		ID:          "this_day_energy",
		Unit:        UnitWattHour,
		DeviceClass: ClassEnergy,
		StateClass:  StateTotal,
		Rule:        Multiply(8, 10),
	},
	{
		ID:          "total_energy",
		Unit:        UnitWattHour,
		DeviceClass: ClassEnergy,
		StateClass:  StateTotalIncreasing,
		Rule:        Composite32(40, 41),
	},
	{
		ID:          "voltage",
		Unit:        UnitVolt,
		DeviceClass: ClassVoltage,
		StateClass:  StateMeasurement,
		Rule:        Scale(0, 1),
	},
	{
		ID:          "current",
		Unit:        UnitAmpere,
		DeviceClass: ClassCurrent,
		StateClass:  StateMeasurement,
		Rule:        Scale(1, 2),
	},
	{
		ID:          "power_factor",
		Unit:        UnitPercent,
		DeviceClass: ClassPowerFactor,
		StateClass:  StateMeasurement,
		Rule:        Scale(3, 1),
	},
	{
		ID:          "frequency",
		Unit:        UnitHertz,
		DeviceClass: ClassFrequency,
		StateClass:  StateMeasurement,
		Rule:        Scale(4, 1),
	},
	{
		// hour bucket plus the running 20-minute remainder; formula is
		// per vendor protocol, keep as-is.
		ID:          "this_hour_energy",
		Unit:        UnitWattHour,
		DeviceClass: ClassEnergy,
		StateClass:  StateTotal,
		Rule:        WeightedSum(6, 10, 16, 1),
	},
	{
		ID:          "before_hour_energy",
		Unit:        UnitWattHour,
		DeviceClass: ClassEnergy,
		StateClass:  StateTotal,
		Rule:        Multiply(7, 10),
	},
	{
		ID:          "yesterday_energy",
		Unit:        UnitWattHour,
		DeviceClass: ClassEnergy,
		StateClass:  StateTotal,
		Rule:        Multiply(9, 10),
	},
	{
		ID:          "last_month_energy",
		Unit:        UnitWattHour,
		DeviceClass: ClassEnergy,
		StateClass:  StateTotal,
		Rule:        Multiply(11, 10),
	},
	{
		ID:          "two_months_ago_energy",
		Unit:        UnitWattHour,
		DeviceClass: ClassEnergy,
		StateClass:  StateTotal,
		Rule:        Multiply(12, 10),
	},
	{
		ID:          "this_month_forecast_energy",
		Unit:        UnitWattHour,
		DeviceClass: ClassEnergy,
		StateClass:  StateTotal,
		Rule:        Multiply(13, 10),
	},
}
