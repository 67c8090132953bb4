package tempo_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airglobe/airglobe/internal/airquality"
	"github.com/airglobe/airglobe/internal/source/tempo"
)

func fixedMarch() time.Time {
	return time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
}

func newAdapter(baseURL string, seed int64, now func() time.Time) *tempo.Adapter {
	return tempo.NewAdapter(tempo.Config{
		BaseURL: baseURL,
		Logger:  zerolog.New(io.Discard),
		Seed:    seed,
		Now:     now,
	})
}

func TestAdapter_FetchPollutants_Gateway(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/pollutants", r.URL.Path)
		assert.Contains(t, r.URL.Query().Get("lat"), "40.7128")
		assert.Contains(t, r.URL.Query().Get("lon"), "-74.0060")

		response := map[string]interface{}{
			"no2":  18.5,
			"o3":   62.0,
			"pm25": 9.1,
			"hcho": 1.4,
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	adapter := newAdapter(server.URL, 1, fixedMarch)

	data, ok := adapter.FetchPollutants(context.Background(), 40.7128, -74.0060)
	require.True(t, ok)
	require.Len(t, data, 4)

	assert.InDelta(t, 18.5, data[airquality.PollutantNO2], 1e-9)
	assert.InDelta(t, 62.0, data[airquality.PollutantO3], 1e-9)
	assert.InDelta(t, 9.1, data[airquality.PollutantPM25], 1e-9)
	assert.InDelta(t, 1.4, data[airquality.PollutantHCHO], 1e-9)
}

func TestAdapter_FetchPollutants_DropsUnusableGatewayValues(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"no2": -4.0,
			"o3":  55.5,
		})
	}))
	defer server.Close()

	adapter := newAdapter(server.URL, 1, fixedMarch)

	data, ok := adapter.FetchPollutants(context.Background(), 40.7128, -74.0060)
	require.True(t, ok)
	require.Len(t, data, 1)
	assert.InDelta(t, 55.5, data[airquality.PollutantO3], 1e-9)
}

func TestAdapter_FetchPollutants_EmptyGatewayFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{})
	}))
	defer server.Close()

	adapter := newAdapter(server.URL, 1, fixedMarch)

	data, ok := adapter.FetchPollutants(context.Background(), 40.7128, -74.0060)
	require.True(t, ok)
	requireEstimateShape(t, data)
}

func TestAdapter_FetchPollutants_GatewayFailureFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	adapter := newAdapter(server.URL, 1, fixedMarch)

	data, ok := adapter.FetchPollutants(context.Background(), 40.7128, -74.0060)
	require.True(t, ok)
	requireEstimateShape(t, data)
}

func TestAdapter_FetchPollutants_NoGatewayUsesEstimate(t *testing.T) {
	adapter := newAdapter("", 1, fixedMarch)

	data, ok := adapter.FetchPollutants(context.Background(), 40.7128, -74.0060)
	require.True(t, ok)
	requireEstimateShape(t, data)
}

func TestAdapter_EstimateDeterministicForSeed(t *testing.T) {
	first := newAdapter("", 42, fixedMarch)
	second := newAdapter("", 42, fixedMarch)

	a, ok := first.FetchPollutants(context.Background(), 48.8566, 2.3522)
	require.True(t, ok)
	b, ok := second.FetchPollutants(context.Background(), 48.8566, 2.3522)
	require.True(t, ok)

	assert.Equal(t, a, b)
}

func TestAdapter_EstimateUrbanExceedsRemote(t *testing.T) {
	adapter := newAdapter("", 7, fixedMarch)

	var urbanNO2, remoteNO2 float64
	for i := 0; i < 20; i++ {
		city, _ := adapter.FetchPollutants(context.Background(), 40.7128, -74.0060)
		ocean, _ := adapter.FetchPollutants(context.Background(), 0.0, -140.0)
		urbanNO2 += city[airquality.PollutantNO2]
		remoteNO2 += ocean[airquality.PollutantNO2]
	}

	assert.Greater(t, urbanNO2, remoteNO2)
}

func TestAdapter_EstimateWinterExceedsAutumn(t *testing.T) {
	winterNow := func() time.Time {
		return time.Date(2026, time.January, 15, 12, 0, 0, 0, time.UTC)
	}
	autumnNow := func() time.Time {
		return time.Date(2026, time.October, 15, 12, 0, 0, 0, time.UTC)
	}

	// Equal seeds mean equal noise draws, so the seasonal factor alone
	// separates the two estimates.
	winter, ok := newAdapter("", 11, winterNow).FetchPollutants(context.Background(), 48.8566, 2.3522)
	require.True(t, ok)
	autumn, ok := newAdapter("", 11, autumnNow).FetchPollutants(context.Background(), 48.8566, 2.3522)
	require.True(t, ok)

	for pollutant, winterValue := range winter {
		assert.Greater(t, winterValue, autumn[pollutant], "pollutant %s", pollutant)
	}
}

func requireEstimateShape(t *testing.T, data map[airquality.Pollutant]float64) {
	t.Helper()
	require.Len(t, data, 4)
	for _, p := range []airquality.Pollutant{
		airquality.PollutantNO2,
		airquality.PollutantO3,
		airquality.PollutantPM25,
		airquality.PollutantHCHO,
	} {
		value, present := data[p]
		require.True(t, present, "missing %s", p)
		assert.GreaterOrEqual(t, value, 0.0)
	}
}
