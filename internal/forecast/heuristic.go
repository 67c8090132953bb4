package forecast

import (
	"math"
	"math/rand"
	"time"

	"github.com/airglobe/airglobe/internal/airquality"
)

// Heuristic baseline and effect bounds.
const (
	heuristicBase = 65.0
	noiseStdDev   = 5.0

	maxWindReduction = 20.0
	maxRainReduction = 15.0
)

// heuristicForecast projects the horizon from a moderate baseline. Wind and
// rain pull the index down, heat pushes ozone up, and a diurnal traffic
// pattern plus Gaussian noise shape the curve.
func (e *Engine) heuristicForecast(weather airquality.WeatherObservation, hours int) []airquality.TimePoint {
	rng := rand.New(rand.NewSource(e.seed))
	now := e.now()

	points := make([]airquality.TimePoint, hours)
	for h := 1; h <= hours; h++ {
		t := now.Add(time.Duration(h) * time.Hour)

		aqi := heuristicBase
		aqi -= math.Min(maxWindReduction, weather.WindSpeedMS*3)
		aqi -= math.Min(maxRainReduction, weather.PrecipMM*5)
		aqi += math.Max(0, (weather.TempC-25)*0.5)
		aqi += diurnalEffect(t.Hour())
		aqi += rng.NormFloat64() * noiseStdDev

		points[h-1] = airquality.TimePoint{Time: t, AQI: clampAQI(aqi)}
	}
	return points
}

// diurnalEffect models the daily traffic pattern: rush hours peak, midday
// lifts slightly, and overnight dips.
func diurnalEffect(hour int) float64 {
	switch {
	case hour == 7 || hour == 8 || hour == 17 || hour == 18 || hour == 19:
		return 15
	case hour >= 10 && hour <= 15:
		return 5
	default:
		return -10
	}
}
