package airquality

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/airglobe/airglobe/internal/cache"
	"github.com/airglobe/airglobe/pkg/geo"
)

// Forecast horizon bounds in hours.
const (
	MinForecastHours = 1
	MaxForecastHours = 48
)

// historyMaxPoints caps the history series included in a record (7 days of
// hourly points).
const historyMaxPoints = 168

// tempoProduct names the satellite product set reported in provenance.
const tempoProduct = "NO2/O3/PM/HCHO"

// SatelliteProvider supplies satellite pollutant estimates.
type SatelliteProvider interface {
	// FetchPollutants returns estimated concentrations keyed by pollutant.
	// ok is false when no data could be obtained. Implementations never
	// return an error; failures degrade to (nil, false).
	FetchPollutants(ctx context.Context, lat, lon float64) (map[Pollutant]float64, bool)
}

// GroundProvider supplies ground-station measurements and history.
type GroundProvider interface {
	// FetchMeasurements returns the latest values from stations within
	// radiusKM, with the contributing station IDs. ok is false when no
	// data could be obtained.
	FetchMeasurements(ctx context.Context, lat, lon, radiusKM float64) (GroundObservation, bool)

	// FetchHistory returns a chronologically ordered hourly AQI series for
	// the past days. Failures degrade to an empty slice.
	FetchHistory(ctx context.Context, lat, lon float64, days int) []TimePoint
}

// WeatherProvider supplies the current weather snapshot.
type WeatherProvider interface {
	// FetchWeather returns current conditions. ok is false when no data
	// could be obtained; callers substitute DefaultWeather.
	FetchWeather(ctx context.Context, lat, lon float64) (WeatherObservation, bool)
}

// Forecaster produces the hourly AQI forecast.
type Forecaster interface {
	// Forecast returns exactly hours points with strictly increasing
	// timestamps starting one hour from now. It never fails; degraded
	// inputs produce a heuristic projection.
	Forecast(ctx context.Context, history []TimePoint, weather WeatherObservation, hours int) []TimePoint
}

// RecordCache memoizes assembled records by location key.
type RecordCache interface {
	Get(key string) (*Record, bool)
	Set(key string, record *Record)
}

// Recorder observes pipeline events for telemetry. Implementations must be
// safe for concurrent use. A nil Recorder disables recording.
type Recorder interface {
	RecordFetch(source string, duration time.Duration, ok bool)
	RecordCacheHit()
	RecordCacheMiss()
}

// ServiceConfig holds configuration for the fusion service.
type ServiceConfig struct {
	// Satellite, Ground, and Weather are the upstream source adapters.
	Satellite SatelliteProvider
	Ground    GroundProvider
	Weather   WeatherProvider

	// Forecaster generates the hourly projection.
	Forecaster Forecaster

	// Cache memoizes assembled records. Nil disables caching.
	Cache RecordCache

	// Logger for service operations.
	Logger zerolog.Logger

	// Recorder receives fetch and cache telemetry. Optional.
	Recorder Recorder

	// FetchTimeout bounds each individual adapter call (default: 10s).
	FetchTimeout time.Duration

	// GroundRadiusKM is the station search radius (default: 50).
	GroundRadiusKM float64

	// HistoryDays is how far back the history fetch reaches (default: 7).
	HistoryDays int
}

// Service is the fusion coordinator. It fans out to the source adapters,
// tolerates individual failures, merges pollutant readings, and assembles
// the cached air quality record.
type Service struct {
	satellite  SatelliteProvider
	ground     GroundProvider
	weather    WeatherProvider
	forecaster Forecaster
	cache      RecordCache
	logger     zerolog.Logger
	recorder   Recorder

	fetchTimeout   time.Duration
	groundRadiusKM float64
	historyDays    int
}

// NewService creates a new fusion service.
func NewService(cfg ServiceConfig) *Service {
	fetchTimeout := cfg.FetchTimeout
	if fetchTimeout == 0 {
		fetchTimeout = 10 * time.Second
	}

	groundRadiusKM := cfg.GroundRadiusKM
	if groundRadiusKM == 0 {
		groundRadiusKM = 50
	}

	historyDays := cfg.HistoryDays
	if historyDays == 0 {
		historyDays = 7
	}

	return &Service{
		satellite:      cfg.Satellite,
		ground:         cfg.Ground,
		weather:        cfg.Weather,
		forecaster:     cfg.Forecaster,
		cache:          cfg.Cache,
		logger:         cfg.Logger,
		recorder:       cfg.Recorder,
		fetchTimeout:   fetchTimeout,
		groundRadiusKM: groundRadiusKM,
		historyDays:    historyDays,
	}
}

// fetchResults collects the joined output of the four concurrent adapter
// fetches. Absent data is expressed by the ok flags and the empty history
// slice, never by errors.
type fetchResults struct {
	satellite   map[Pollutant]float64
	satelliteOK bool
	ground      GroundObservation
	groundOK    bool
	weather     WeatherObservation
	weatherOK   bool
	history     []TimePoint
}

// GetAirQuality assembles the full air quality record for a location.
// Upstream failures degrade the output (fewer pollutants, default weather,
// heuristic forecast); the only error paths are invalid coordinates and an
// internal assembly invariant violation.
func (s *Service) GetAirQuality(ctx context.Context, lat, lon float64, hours int) (*Record, error) {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, fmt.Errorf("%w: lat=%v lon=%v", ErrInvalidCoordinates, lat, lon)
	}
	hours = clampHours(hours)

	key := cache.Key(lat, lon)
	if s.cache != nil {
		if record, ok := s.cache.Get(key); ok {
			if s.recorder != nil {
				s.recorder.RecordCacheHit()
			}
			s.logger.Debug().Str("key", key).Msg("serving air quality record from cache")
			return record, nil
		}
		if s.recorder != nil {
			s.recorder.RecordCacheMiss()
		}
	}

	started := time.Now()
	results := s.fetchAll(ctx, lat, lon)

	record, err := s.assemble(ctx, lat, lon, hours, results)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(key, record)
	}

	s.logger.Info().
		Float64("lat", lat).
		Float64("lon", lon).
		Int("aqi", record.AQI.Value).
		Int("pollutants", len(record.Pollutants)).
		Bool("satellite", results.satelliteOK).
		Bool("ground", results.groundOK).
		Bool("weather", results.weatherOK).
		Int("history_points", len(results.history)).
		Dur("elapsed", time.Since(started)).
		Msg("air quality record assembled")

	return record, nil
}

// fetchAll issues the four adapter fetches concurrently and joins them.
// Each call carries its own timeout so one slow source cannot stall the
// request beyond the bound.
func (s *Service) fetchAll(ctx context.Context, lat, lon float64) fetchResults {
	var results fetchResults

	var wg sync.WaitGroup
	wg.Add(4)

	go func() {
		defer wg.Done()
		results.satellite, results.satelliteOK = s.timedSatellite(ctx, lat, lon)
	}()
	go func() {
		defer wg.Done()
		results.ground, results.groundOK = s.timedGround(ctx, lat, lon)
	}()
	go func() {
		defer wg.Done()
		results.weather, results.weatherOK = s.timedWeather(ctx, lat, lon)
	}()
	go func() {
		defer wg.Done()
		results.history = s.timedHistory(ctx, lat, lon)
	}()

	wg.Wait()
	return results
}

func (s *Service) timedSatellite(ctx context.Context, lat, lon float64) (map[Pollutant]float64, bool) {
	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	started := time.Now()
	data, ok := s.satellite.FetchPollutants(ctx, lat, lon)
	s.record(SourceTempo, time.Since(started), ok)
	return data, ok
}

func (s *Service) timedGround(ctx context.Context, lat, lon float64) (GroundObservation, bool) {
	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	started := time.Now()
	obs, ok := s.ground.FetchMeasurements(ctx, lat, lon, s.groundRadiusKM)
	s.record(SourceOpenAQ, time.Since(started), ok)
	return obs, ok
}

func (s *Service) timedWeather(ctx context.Context, lat, lon float64) (WeatherObservation, bool) {
	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	started := time.Now()
	obs, ok := s.weather.FetchWeather(ctx, lat, lon)
	s.record(SourceIMERG, time.Since(started), ok)
	return obs, ok
}

func (s *Service) timedHistory(ctx context.Context, lat, lon float64) []TimePoint {
	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	started := time.Now()
	history := s.ground.FetchHistory(ctx, lat, lon, s.historyDays)
	s.record("history", time.Since(started), len(history) > 0)
	return history
}

func (s *Service) record(source string, duration time.Duration, ok bool) {
	if s.recorder != nil {
		s.recorder.RecordFetch(source, duration, ok)
	}
	if !ok {
		s.logger.Warn().Str("source", source).Dur("elapsed", duration).Msg("source fetch returned no data")
	}
}

// assemble runs merge, AQI, advisory, forecast, and provenance over the
// joined fetch results. This is the only stage whose failures surface.
func (s *Service) assemble(ctx context.Context, lat, lon float64, hours int, results fetchResults) (*Record, error) {
	var satellite map[Pollutant]float64
	if results.satelliteOK {
		satellite = results.satellite
	}
	var ground map[Pollutant]float64
	if results.groundOK {
		ground = results.ground.Pollutants
	}

	merged := MergeReadings(satellite, ground)
	if err := validateReadings(merged); err != nil {
		return nil, err
	}

	weather := results.weather
	if !results.weatherOK {
		weather = DefaultWeather()
	}

	aqi := ComputeAQI(merged)
	advice := Advise(aqi, weather)

	forecast := s.forecaster.Forecast(ctx, results.history, weather, hours)
	if len(forecast) != hours {
		return nil, fmt.Errorf("%w: forecaster produced %d points for a %d hour horizon",
			ErrAssembly, len(forecast), hours)
	}

	history := results.history
	if len(history) > historyMaxPoints {
		history = history[len(history)-historyMaxPoints:]
	}
	if history == nil {
		history = []TimePoint{}
	}

	return &Record{
		Coord:        Coordinate{Lat: lat, Lon: lon},
		LocationName: geo.FormatCoordinates(lat, lon),
		Timestamp:    time.Now().UTC(),
		Pollutants:   merged,
		Weather:      weather,
		AQI:          NewAQIResult(aqi),
		Forecast:     forecast,
		Advice:       advice,
		History:      history,
		Provenance:   s.provenance(results),
	}, nil
}

// provenance notes which upstream families contributed to the record.
func (s *Service) provenance(results fetchResults) Provenance {
	p := Provenance{
		Meteo: MeteoProvenance{
			IMERG:  results.weatherOK,
			MERRA2: results.weatherOK,
		},
	}

	if results.satelliteOK && len(results.satellite) > 0 {
		p.Tempo = &TempoProvenance{Product: tempoProduct, NRT: true}
	}

	if results.groundOK {
		ids := results.ground.StationIDs
		if ids == nil {
			ids = []string{}
		}
		p.OpenAQ = &OpenAQProvenance{StationIDs: ids}
	}

	return p
}

// validateReadings guards the assembly invariant: every merged reading has a
// finite non-negative value and at least one source tag.
func validateReadings(set ReadingSet) error {
	for pollutant, reading := range set {
		if math.IsNaN(reading.Value) || math.IsInf(reading.Value, 0) || reading.Value < 0 {
			return fmt.Errorf("%w: pollutant %s has invalid value %v", ErrAssembly, pollutant, reading.Value)
		}
		if len(reading.Sources) == 0 {
			return fmt.Errorf("%w: pollutant %s has no source tags", ErrAssembly, pollutant)
		}
	}
	return nil
}

func clampHours(hours int) int {
	if hours < MinForecastHours {
		return MinForecastHours
	}
	if hours > MaxForecastHours {
		return MaxForecastHours
	}
	return hours
}
