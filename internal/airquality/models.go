// Package airquality implements the fusion-and-forecast pipeline: concurrent
// multi-source acquisition, pollutant merging, AQI computation, health
// advisories, and assembly of the cached air quality record.
package airquality

import (
	"errors"
	"time"
)

// Assembly errors.
var (
	ErrInvalidCoordinates = errors.New("coordinates out of range")
	ErrAssembly           = errors.New("air quality assembly failed")
)

// Pollutant identifies an air quality pollutant. Values double as wire keys.
type Pollutant string

const (
	PollutantNO2  Pollutant = "no2"
	PollutantO3   Pollutant = "o3"
	PollutantPM25 Pollutant = "pm25"
	PollutantPM10 Pollutant = "pm10"
	PollutantSO2  Pollutant = "so2"
	PollutantCO   Pollutant = "co"
	PollutantHCHO Pollutant = "hcho"
)

// Source tags identify which upstream family contributed a value.
const (
	SourceTempo  = "TEMPO"
	SourceOpenAQ = "OpenAQ"
	SourceIMERG  = "IMERG"
	SourceMERRA2 = "MERRA-2"
)

// Measurement units.
const (
	UnitMicrogramsPerM3 = "µg/m³"
	UnitPartsPerBillion = "ppb"
)

// UnitFor returns the reporting unit for a pollutant. Everything is µg/m³
// except formaldehyde, which is reported in ppb.
func UnitFor(p Pollutant) string {
	if p == PollutantHCHO {
		return UnitPartsPerBillion
	}
	return UnitMicrogramsPerM3
}

// Reading is a merged pollutant value at one location and time, tagged with
// the sources that contributed to it, in contribution order.
type Reading struct {
	Value   float64  `json:"value"`
	Unit    string   `json:"unit"`
	Sources []string `json:"source"`
}

// ReadingSet maps each pollutant present at a location to its merged reading.
// Pollutants absent from every source are absent from the set, never
// zero-filled.
type ReadingSet map[Pollutant]Reading

// WeatherObservation is the weather snapshot used for advisory modifiers and
// forecasting.
type WeatherObservation struct {
	PrecipMM    float64  `json:"precip_mm"`
	WindSpeedMS float64  `json:"wind_speed_ms"`
	TempC       float64  `json:"temp_c"`
	Humidity    int      `json:"humidity"`
	Sources     []string `json:"source"`
}

// DefaultWeather is the documented degradation when no upstream weather data
// is available.
func DefaultWeather() WeatherObservation {
	return WeatherObservation{
		PrecipMM:    0,
		WindSpeedMS: 0,
		TempC:       20,
		Humidity:    60,
		Sources:     []string{},
	}
}

// TimePoint is one hourly AQI sample. The same shape serves the historical
// series and the generated forecast.
type TimePoint struct {
	Time time.Time `json:"t"`
	AQI  int       `json:"aqi"`
}

// Category is the qualitative AQI band.
type Category string

const (
	CategoryGood          Category = "Good"
	CategoryModerate      Category = "Moderate"
	CategorySensitive     Category = "Unhealthy for Sensitive Groups"
	CategoryUnhealthy     Category = "Unhealthy"
	CategoryVeryUnhealthy Category = "Very Unhealthy"
	CategoryHazardous     Category = "Hazardous"
)

// AQIResult is the aggregate index derived from a ReadingSet. It is never
// mutated after creation.
type AQIResult struct {
	Value    int      `json:"value"`
	Scale    string   `json:"scale"`
	Category Category `json:"category"`
}

// Profile names a population group that receives targeted advice.
type Profile string

const (
	ProfileChildren Profile = "children"
	ProfileAsthma   Profile = "asthma"
	ProfileElderly  Profile = "elderly"
	ProfileAthletes Profile = "athletes"
)

// HealthAdvice carries the general guidance plus per-profile guidance.
type HealthAdvice struct {
	General  string             `json:"general"`
	Profiles map[Profile]string `json:"profiles"`
}

// Coordinate is a latitude/longitude pair as it appears on the wire.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// GroundObservation is the result of a ground-station fetch: latest values
// per pollutant and the stations they came from.
type GroundObservation struct {
	Pollutants map[Pollutant]float64
	StationIDs []string
}

// TempoProvenance records the satellite contribution.
type TempoProvenance struct {
	Product string `json:"product"`
	NRT     bool   `json:"nrt"`
}

// OpenAQProvenance records which ground stations contributed.
type OpenAQProvenance struct {
	StationIDs []string `json:"station_ids"`
}

// MeteoProvenance records which weather inputs were present.
type MeteoProvenance struct {
	IMERG  bool `json:"imerg"`
	MERRA2 bool `json:"merra2"`
}

// Provenance names the upstream families that contributed to a record.
// Tempo and OpenAQ are nil when the family contributed nothing.
type Provenance struct {
	Tempo  *TempoProvenance  `json:"tempo"`
	OpenAQ *OpenAQProvenance `json:"openaq"`
	Meteo  MeteoProvenance   `json:"meteo"`
}

// Record is the fully assembled response unit. It is constructed once per
// request (or returned verbatim from cache) and immutable thereafter.
type Record struct {
	Coord        Coordinate         `json:"coord"`
	LocationName string             `json:"location_name"`
	Timestamp    time.Time          `json:"timestamp_iso"`
	Pollutants   ReadingSet         `json:"pollutants"`
	Weather      WeatherObservation `json:"weather"`
	AQI          AQIResult          `json:"aqi"`
	Forecast     []TimePoint        `json:"forecast_24h"`
	Advice       HealthAdvice       `json:"advice"`
	History      []TimePoint        `json:"history_7d"`
	Provenance   Provenance         `json:"provenance"`
}
