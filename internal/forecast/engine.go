// Package forecast generates hourly AQI projections from recent observed
// history and the current weather snapshot.
//
// Two tiers: a regression model fit fresh per call when enough history
// exists, and a weather-aware heuristic otherwise. The engine never fails;
// every model-path problem falls back to the heuristic for the same horizon.
package forecast

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/airglobe/airglobe/internal/airquality"
)

// Model path preconditions and shape.
const (
	minHistoryPoints = 24
	minTrainingRows  = 10
	lagCount         = 3
)

// DefaultSeed fixes bootstrap and noise randomness for reproducible output.
const DefaultSeed = 42

// EngineConfig holds configuration for the forecast engine.
type EngineConfig struct {
	// Logger for model fallback events.
	Logger zerolog.Logger

	// Seed fixes the bootstrap and noise randomness. Zero selects
	// DefaultSeed.
	Seed int64

	// Now overrides the time source. Nil selects time.Now. Forecast
	// timestamps start one hour after this clock's reading.
	Now func() time.Time
}

// Engine implements the two-tier forecast policy.
type Engine struct {
	logger zerolog.Logger
	seed   int64
	now    func() time.Time
}

var _ airquality.Forecaster = (*Engine)(nil)

// NewEngine creates a new forecast engine.
func NewEngine(cfg EngineConfig) *Engine {
	seed := cfg.Seed
	if seed == 0 {
		seed = DefaultSeed
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Engine{
		logger: cfg.Logger,
		seed:   seed,
		now:    now,
	}
}

// Forecast returns exactly hours points with strictly increasing hourly
// timestamps starting one hour from now, each AQI within [0, 500].
func (e *Engine) Forecast(ctx context.Context, history []airquality.TimePoint, weather airquality.WeatherObservation, hours int) []airquality.TimePoint {
	if hours < 1 {
		hours = 1
	}

	if points, ok := e.modelForecast(history, weather, hours); ok {
		return points
	}
	return e.heuristicForecast(weather, hours)
}

// modelForecast fits a regressor on the observed history and projects the
// horizon. ok is false when the data preconditions are unmet or fitting
// fails, in which case the caller substitutes the heuristic.
func (e *Engine) modelForecast(history []airquality.TimePoint, weather airquality.WeatherObservation, hours int) ([]airquality.TimePoint, bool) {
	if len(history) < minHistoryPoints {
		return nil, false
	}

	sorted := make([]airquality.TimePoint, len(history))
	copy(sorted, history)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Time.Before(sorted[j].Time) })

	features, labels := buildTrainingSet(sorted, weather)
	if len(features) < minTrainingRows {
		return nil, false
	}

	model := e.fitModel(features, labels)
	if model == nil {
		return nil, false
	}

	now := e.now()
	lags := latestLags(sorted)

	points := make([]airquality.TimePoint, hours)
	for h := 1; h <= hours; h++ {
		t := now.Add(time.Duration(h) * time.Hour)
		pred := model.Predict(featureVector(lags[0], lags[1], lags[2], t, weather))
		if math.IsNaN(pred) || math.IsInf(pred, 0) {
			return nil, false
		}
		points[h-1] = airquality.TimePoint{Time: t, AQI: clampAQI(pred)}
	}
	return points, true
}

// regressor is the fitted model contract shared by the ensemble and the
// linear fallback.
type regressor interface {
	Predict(features []float64) float64
}

func (e *Engine) fitModel(features [][]float64, labels []float64) regressor {
	forest, err := fitForest(features, labels, forestConfig{
		Trees:    50,
		MaxDepth: 10,
		Seed:     e.seed,
	})
	if err == nil {
		return forest
	}
	e.logger.Debug().Err(err).Msg("ensemble fit failed, trying linear model")

	linear, err := fitLinear(features, labels)
	if err != nil {
		e.logger.Debug().Err(err).Msg("linear fit failed, using heuristic forecast")
		return nil
	}
	return linear
}

// buildTrainingSet derives one training row per history point from the
// fourth onward: the three preceding AQI values, the point's hour and
// weekday, and the current weather scalars. The label is the point's AQI.
func buildTrainingSet(sorted []airquality.TimePoint, weather airquality.WeatherObservation) ([][]float64, []float64) {
	features := make([][]float64, 0, len(sorted)-lagCount)
	labels := make([]float64, 0, len(sorted)-lagCount)

	for i := lagCount; i < len(sorted); i++ {
		features = append(features, featureVector(
			float64(sorted[i-1].AQI),
			float64(sorted[i-2].AQI),
			float64(sorted[i-3].AQI),
			sorted[i].Time,
			weather,
		))
		labels = append(labels, float64(sorted[i].AQI))
	}
	return features, labels
}

func featureVector(lag1, lag2, lag3 float64, at time.Time, weather airquality.WeatherObservation) []float64 {
	return []float64{
		lag1,
		lag2,
		lag3,
		float64(at.Hour()),
		float64(weekday(at)),
		weather.WindSpeedMS,
		weather.TempC,
		float64(weather.Humidity),
		weather.PrecipMM,
	}
}

// latestLags returns the three most recent observed AQI values, newest
// first. Prediction rows reuse these fixed lags for every future hour
// rather than chaining on earlier predictions.
func latestLags(sorted []airquality.TimePoint) [lagCount]float64 {
	lags := [lagCount]float64{airquality.DefaultAQI, airquality.DefaultAQI, airquality.DefaultAQI}
	for i := 0; i < lagCount && i < len(sorted); i++ {
		lags[i] = float64(sorted[len(sorted)-1-i].AQI)
	}
	return lags
}

// weekday numbers days with Monday as 0.
func weekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// clampAQI truncates toward zero, then clamps to the index range.
func clampAQI(v float64) int {
	n := int(v)
	if n < 0 {
		return 0
	}
	if n > 500 {
		return 500
	}
	return n
}
