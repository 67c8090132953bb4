// Package worker provides background jobs for AirGlobe.
package worker

import (
	"time"

	"github.com/airglobe/airglobe/internal/gazetteer"
)

// Target is a named coordinate the warm job keeps cached.
type Target struct {
	// Name is the human-readable name of the target.
	Name string

	// Lat and Lon locate the target.
	Lat float64
	Lon float64
}

// WarmConfig holds configuration for the cache prewarm job.
type WarmConfig struct {
	// Targets are the coordinates to keep warm.
	// If empty, uses DefaultWarmTargets.
	Targets []Target

	// Concurrency is the number of concurrent warm operations.
	// Default: 4
	Concurrency int

	// Timeout is the timeout for each warm operation.
	// Default: 30 seconds
	Timeout time.Duration

	// ForecastHours is the horizon requested for each record.
	// Default: 24
	ForecastHours int
}

// DefaultWarmTargetCount bounds the default target list.
const DefaultWarmTargetCount = 20

// DefaultWarmConfig returns the default warm configuration.
func DefaultWarmConfig() WarmConfig {
	return WarmConfig{
		Targets:       DefaultWarmTargets(),
		Concurrency:   4,
		Timeout:       30 * time.Second,
		ForecastHours: 24,
	}
}

// DefaultWarmTargets returns the most populous gazetteer cities. Interactive
// traffic clusters there, so keeping them warm covers most requests.
func DefaultWarmTargets() []Target {
	cities := gazetteer.Cities()
	if len(cities) > DefaultWarmTargetCount {
		cities = cities[:DefaultWarmTargetCount]
	}

	targets := make([]Target, 0, len(cities))
	for _, c := range cities {
		targets = append(targets, Target{Name: c.Name, Lat: c.Lat, Lon: c.Lon})
	}
	return targets
}

// TargetsForCities resolves city names against the gazetteer. Names the
// gazetteer does not know are returned separately so the caller can log them.
func TargetsForCities(names []string) ([]Target, []string) {
	var targets []Target
	var unknown []string

	for _, name := range names {
		c, ok := gazetteer.Lookup(name)
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		targets = append(targets, Target{Name: c.Name, Lat: c.Lat, Lon: c.Lon})
	}
	return targets, unknown
}
