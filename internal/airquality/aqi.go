package airquality

import "math"

// DefaultAQI is returned when no pollutant yields a sub-index, and is also
// the floor applied whenever any pollutant data is present. The floor is a
// policy constant, not an EPA rule.
const DefaultAQI = 50

// breakpoint is one piecewise-linear segment of a pollutant's AQI table:
// concentrations in [cLow, cHigh] map linearly onto [aqiLow, aqiHigh].
type breakpoint struct {
	cLow, cHigh     float64
	aqiLow, aqiHigh float64
}

// breakpoints holds the US EPA AQI tables per pollutant. Concentrations are
// µg/m³ except co (mg/m³ scale). hcho has no table and never contributes a
// sub-index. Note the tables have small gaps between segments (e.g. pm25
// 12.0–12.1); values falling in a gap contribute no sub-index.
var breakpoints = map[Pollutant][]breakpoint{
	PollutantPM25: {
		{0.0, 12.0, 0, 50},
		{12.1, 35.4, 51, 100},
		{35.5, 55.4, 101, 150},
		{55.5, 150.4, 151, 200},
		{150.5, 250.4, 201, 300},
		{250.5, 500.4, 301, 500},
	},
	PollutantPM10: {
		{0, 54, 0, 50},
		{55, 154, 51, 100},
		{155, 254, 101, 150},
		{255, 354, 151, 200},
		{355, 424, 201, 300},
		{425, 604, 301, 500},
	},
	PollutantO3: { // 8-hour average
		{0, 54, 0, 50},
		{55, 70, 51, 100},
		{71, 85, 101, 150},
		{86, 105, 151, 200},
		{106, 200, 201, 300},
	},
	PollutantNO2: { // 1-hour average
		{0, 53, 0, 50},
		{54, 100, 51, 100},
		{101, 360, 101, 150},
		{361, 649, 151, 200},
		{650, 1249, 201, 300},
		{1250, 2049, 301, 500},
	},
	PollutantSO2: { // 1-hour average
		{0, 35, 0, 50},
		{36, 75, 51, 100},
		{76, 185, 101, 150},
		{186, 304, 151, 200},
		{305, 604, 201, 300},
		{605, 1004, 301, 500},
	},
	PollutantCO: { // 8-hour average
		{0, 4.4, 0, 50},
		{4.5, 9.4, 51, 100},
		{9.5, 12.4, 101, 150},
		{12.5, 15.4, 151, 200},
		{15.5, 30.4, 201, 300},
		{30.5, 50.4, 301, 500},
	},
}

// ComputeAQI derives the aggregate AQI for a set of merged readings using
// piecewise-linear breakpoint interpolation. The result is the maximum
// sub-index across pollutants (worst pollutant dominates, never averaged).
// A concentration above a table's last segment scores the 500 ceiling.
// Returns DefaultAQI when the set yields no sub-index at all.
func ComputeAQI(readings ReadingSet) int {
	if len(readings) == 0 {
		return DefaultAQI
	}

	maxAQI := 0
	for pollutant, reading := range readings {
		table, ok := breakpoints[pollutant]
		if !ok {
			continue
		}

		sub, ok := subIndex(table, reading.Value)
		if !ok {
			continue
		}
		if sub > maxAQI {
			maxAQI = sub
		}
	}

	if maxAQI == 0 {
		return DefaultAQI
	}
	return max(maxAQI, DefaultAQI)
}

// subIndex interpolates a single pollutant's AQI contribution. ok is false
// when the concentration matches no segment and does not exceed the table.
func subIndex(table []breakpoint, value float64) (int, bool) {
	// Below the lowest bound counts as the lowest segment.
	if value < table[0].cLow {
		return int(math.Round(table[0].aqiLow)), true
	}
	for _, bp := range table {
		if value >= bp.cLow && value <= bp.cHigh {
			aqi := (bp.aqiHigh-bp.aqiLow)/(bp.cHigh-bp.cLow)*(value-bp.cLow) + bp.aqiLow
			return int(math.Round(aqi)), true
		}
	}
	if value > table[len(table)-1].cHigh {
		return 500, true
	}
	return 0, false
}

// CategoryForAQI maps an index value to its qualitative band.
func CategoryForAQI(value int) Category {
	switch {
	case value <= 50:
		return CategoryGood
	case value <= 100:
		return CategoryModerate
	case value <= 150:
		return CategorySensitive
	case value <= 200:
		return CategoryUnhealthy
	case value <= 300:
		return CategoryVeryUnhealthy
	default:
		return CategoryHazardous
	}
}

// NewAQIResult builds the derived AQI record for a computed value.
func NewAQIResult(value int) AQIResult {
	return AQIResult{
		Value:    value,
		Scale:    "0-500",
		Category: CategoryForAQI(value),
	}
}
