// Package openaq acquires ground station measurements and historical AQI
// series from the measurement gateway.
//
// Ground data is the one source family without a synthetic fallback: when
// the gateway is unreachable or returns nothing usable, the adapter reports
// absence and the pipeline degrades to the remaining sources.
package openaq

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/airglobe/airglobe/internal/airquality"
	"github.com/airglobe/airglobe/internal/provider/resilience"
)

// ProviderName identifies this source adapter.
const ProviderName = "openaq"

// DefaultRadiusKM is the station search radius used when the caller does
// not specify one.
const DefaultRadiusKM = 50.0

// Config holds configuration for the ground station adapter.
type Config struct {
	// BaseURL is the measurement gateway base URL. Empty disables the
	// adapter; every fetch then reports absence.
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient *resilience.Client

	// Logger for adapter operations.
	Logger zerolog.Logger
}

// Adapter fetches ground station measurements.
type Adapter struct {
	baseURL    string
	httpClient *resilience.Client
	logger     zerolog.Logger
}

var _ airquality.GroundProvider = (*Adapter)(nil)

// NewAdapter creates a new ground station adapter.
func NewAdapter(cfg Config) *Adapter {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.DefaultClientConfig(ProviderName))
	}

	return &Adapter{
		baseURL:    cfg.BaseURL,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (a *Adapter) Name() string {
	return ProviderName
}

// FetchMeasurements returns the latest value per pollutant across stations
// within radiusKM of the coordinate. The boolean is false when no usable
// ground data exists.
func (a *Adapter) FetchMeasurements(ctx context.Context, lat, lon, radiusKM float64) (airquality.GroundObservation, bool) {
	if a.baseURL == "" {
		return airquality.GroundObservation{}, false
	}
	if radiusKM <= 0 {
		radiusKM = DefaultRadiusKM
	}

	obs, err := a.fetchMeasurements(ctx, lat, lon, radiusKM)
	if err != nil {
		a.logger.Warn().Err(err).
			Float64("lat", lat).
			Float64("lon", lon).
			Msg("ground measurement fetch failed")
		return airquality.GroundObservation{}, false
	}
	return obs, true
}

func (a *Adapter) fetchMeasurements(ctx context.Context, lat, lon, radiusKM float64) (airquality.GroundObservation, error) {
	url := fmt.Sprintf("%s/v1/measurements?lat=%.6f&lon=%.6f&radius_km=%.1f", a.baseURL, lat, lon, radiusKM)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return airquality.GroundObservation{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return airquality.GroundObservation{}, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return airquality.GroundObservation{}, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var payload measurementsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return airquality.GroundObservation{}, fmt.Errorf("decoding response: %w", err)
	}

	pollutants := make(map[airquality.Pollutant]float64, len(payload.Pollutants))
	for name, value := range payload.Pollutants {
		if value < 0 || math.IsNaN(value) || math.IsInf(value, 0) {
			continue
		}
		pollutants[airquality.Pollutant(strings.ToLower(name))] = value
	}
	if len(pollutants) == 0 {
		return airquality.GroundObservation{}, fmt.Errorf("no stations reported within %.1fkm", radiusKM)
	}

	stationIDs := payload.StationIDs
	if stationIDs == nil {
		stationIDs = []string{}
	}

	return airquality.GroundObservation{
		Pollutants: pollutants,
		StationIDs: stationIDs,
	}, nil
}

// FetchHistory returns the hourly AQI series covering the past days,
// sorted oldest first. It returns nil when no history is available.
func (a *Adapter) FetchHistory(ctx context.Context, lat, lon float64, days int) []airquality.TimePoint {
	if a.baseURL == "" {
		return nil
	}

	points, err := a.fetchHistory(ctx, lat, lon, days)
	if err != nil {
		a.logger.Warn().Err(err).
			Float64("lat", lat).
			Float64("lon", lon).
			Msg("ground history fetch failed")
		return nil
	}
	return points
}

func (a *Adapter) fetchHistory(ctx context.Context, lat, lon float64, days int) ([]airquality.TimePoint, error) {
	url := fmt.Sprintf("%s/v1/history?lat=%.6f&lon=%.6f&days=%d", a.baseURL, lat, lon, days)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var payload historyResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	points := make([]airquality.TimePoint, 0, len(payload.Points))
	for _, p := range payload.Points {
		points = append(points, airquality.TimePoint{Time: p.T, AQI: p.AQI})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Time.Before(points[j].Time)
	})
	return points, nil
}

type measurementsResponse struct {
	Pollutants map[string]float64 `json:"pollutants"`
	StationIDs []string           `json:"station_ids"`
}

type historyResponse struct {
	Points []historyPoint `json:"points"`
}

type historyPoint struct {
	T   time.Time `json:"t"`
	AQI int       `json:"aqi"`
}
