package airquality

// Merge weights for pollutants reported by both families. Ground stations
// are weighted higher than satellite estimates.
const (
	satelliteWeight = 0.4
	groundWeight    = 0.6
)

// MergeReadings combines satellite estimates with ground-station
// measurements into one ReadingSet. Satellite values seed the set tagged
// TEMPO; ground values overlay them. A pollutant reported by both gets the
// weighted blend with the OpenAQ tag appended after TEMPO; a pollutant
// reported by one family keeps that family's value and tag. Either input
// may be nil.
func MergeReadings(satellite, ground map[Pollutant]float64) ReadingSet {
	merged := make(ReadingSet, len(satellite)+len(ground))

	for pollutant, value := range satellite {
		merged[pollutant] = Reading{
			Value:   value,
			Unit:    UnitFor(pollutant),
			Sources: []string{SourceTempo},
		}
	}

	for pollutant, value := range ground {
		if existing, ok := merged[pollutant]; ok {
			existing.Value = existing.Value*satelliteWeight + value*groundWeight
			existing.Sources = append(existing.Sources, SourceOpenAQ)
			merged[pollutant] = existing
			continue
		}
		merged[pollutant] = Reading{
			Value:   value,
			Unit:    UnitMicrogramsPerM3,
			Sources: []string{SourceOpenAQ},
		}
	}

	return merged
}
