package models

// CityResult is one city in a search or nearest response. DistanceKM is
// present only on nearest lookups.
type CityResult struct {
	Name       string   `json:"name"`
	Country    string   `json:"country"`
	Lat        float64  `json:"lat"`
	Lon        float64  `json:"lon"`
	DistanceKM *float64 `json:"distance_km,omitempty"`
}

// CitiesResponse wraps a list of city results.
type CitiesResponse struct {
	Cities []CityResult `json:"cities"`
}
