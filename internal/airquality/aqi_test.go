package airquality_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/airglobe/airglobe/internal/airquality"
)

func singleReading(p airquality.Pollutant, value float64) airquality.ReadingSet {
	return airquality.ReadingSet{
		p: airquality.Reading{
			Value:   value,
			Unit:    airquality.UnitFor(p),
			Sources: []string{airquality.SourceTempo},
		},
	}
}

func TestComputeAQI_EmptySet(t *testing.T) {
	assert.Equal(t, airquality.DefaultAQI, airquality.ComputeAQI(nil))
	assert.Equal(t, airquality.DefaultAQI, airquality.ComputeAQI(airquality.ReadingSet{}))
}

func TestComputeAQI_BreakpointInterpolation(t *testing.T) {
	tests := []struct {
		name      string
		pollutant airquality.Pollutant
		value     float64
		want      int
	}{
		{"pm25 top of first segment", airquality.PollutantPM25, 12.0, 50},
		{"pm25 top of second segment", airquality.PollutantPM25, 35.4, 100},
		{"pm25 bottom of third segment", airquality.PollutantPM25, 35.5, 101},
		{"pm25 top of third segment", airquality.PollutantPM25, 55.4, 150},
		{"pm25 bottom of fifth segment", airquality.PollutantPM25, 150.5, 201},
		{"pm25 top of last segment", airquality.PollutantPM25, 500.4, 500},
		{"pm25 interior interpolation", airquality.PollutantPM25, 25.0, 78},
		{"pm10 interior interpolation", airquality.PollutantPM10, 100.0, 73},
		{"no2 interior interpolation", airquality.PollutantNO2, 75.0, 73},
		{"so2 top of second segment", airquality.PollutantSO2, 75.0, 100},
		{"co interior interpolation", airquality.PollutantCO, 7.0, 76},
		{"o3 bottom of second segment", airquality.PollutantO3, 55.0, 51},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := airquality.ComputeAQI(singleReading(tt.pollutant, tt.value))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputeAQI_FloorsAtDefault(t *testing.T) {
	// pm25 5.0 interpolates to sub-index 21, below the policy floor.
	got := airquality.ComputeAQI(singleReading(airquality.PollutantPM25, 5.0))
	assert.Equal(t, airquality.DefaultAQI, got)
}

func TestComputeAQI_AboveTableIsCeiling(t *testing.T) {
	assert.Equal(t, 500, airquality.ComputeAQI(singleReading(airquality.PollutantPM25, 600.0)))
	// The o3 table ends at 200; anything beyond scores the ceiling.
	assert.Equal(t, 500, airquality.ComputeAQI(singleReading(airquality.PollutantO3, 250.0)))
}

func TestComputeAQI_GapBetweenSegments(t *testing.T) {
	// 12.05 sits in the 12.0-12.1 table gap and contributes no sub-index,
	// leaving only the neutral default.
	got := airquality.ComputeAQI(singleReading(airquality.PollutantPM25, 12.05))
	assert.Equal(t, airquality.DefaultAQI, got)
}

func TestComputeAQI_UntabledPollutant(t *testing.T) {
	got := airquality.ComputeAQI(singleReading(airquality.PollutantHCHO, 100.0))
	assert.Equal(t, airquality.DefaultAQI, got)
}

func TestComputeAQI_WorstPollutantDominates(t *testing.T) {
	set := airquality.ReadingSet{
		airquality.PollutantPM25: {Value: 150.5, Unit: airquality.UnitMicrogramsPerM3, Sources: []string{airquality.SourceTempo}},
		airquality.PollutantNO2:  {Value: 10.0, Unit: airquality.UnitMicrogramsPerM3, Sources: []string{airquality.SourceTempo}},
		airquality.PollutantO3:   {Value: 60.0, Unit: airquality.UnitMicrogramsPerM3, Sources: []string{airquality.SourceTempo}},
	}

	// pm25 alone scores 201; the lower sub-indices must not dilute it.
	assert.Equal(t, 201, airquality.ComputeAQI(set))
}

func TestComputeAQI_MonotoneWithinSegments(t *testing.T) {
	values := []float64{1, 6, 11, 13, 20, 30, 35, 36, 45, 55, 56, 100, 150, 151, 200, 251, 400, 500}

	prev := 0
	for _, v := range values {
		got := airquality.ComputeAQI(singleReading(airquality.PollutantPM25, v))
		assert.GreaterOrEqual(t, got, prev, "AQI must not decrease as pm25 rises (value %v)", v)
		prev = got
	}
}

func TestCategoryForAQI(t *testing.T) {
	tests := []struct {
		value int
		want  airquality.Category
	}{
		{0, airquality.CategoryGood},
		{50, airquality.CategoryGood},
		{51, airquality.CategoryModerate},
		{100, airquality.CategoryModerate},
		{101, airquality.CategorySensitive},
		{150, airquality.CategorySensitive},
		{151, airquality.CategoryUnhealthy},
		{200, airquality.CategoryUnhealthy},
		{201, airquality.CategoryVeryUnhealthy},
		{300, airquality.CategoryVeryUnhealthy},
		{301, airquality.CategoryHazardous},
		{500, airquality.CategoryHazardous},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, airquality.CategoryForAQI(tt.value), "value %d", tt.value)
	}
}

func TestNewAQIResult(t *testing.T) {
	result := airquality.NewAQIResult(132)

	assert.Equal(t, 132, result.Value)
	assert.Equal(t, "0-500", result.Scale)
	assert.Equal(t, airquality.CategorySensitive, result.Category)
}
