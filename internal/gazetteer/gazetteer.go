// Package gazetteer provides a compiled-in list of major cities and simple
// lookup operations over it. City search is served entirely from this list;
// the service does not call out to a geocoding provider.
package gazetteer

import (
	"sort"
	"strings"

	"github.com/airglobe/airglobe/pkg/geo"
)

// City is a gazetteer entry.
type City struct {
	Name    string
	Country string
	Lat     float64
	Lon     float64
}

// Match is a city paired with its distance from a query point.
type Match struct {
	City
	DistanceKM float64
}

// MinQueryLength is the shortest query Search accepts.
const MinQueryLength = 2

// cities is ordered roughly by population so that truncated results favor
// the places people actually search for.
var cities = []City{
	{Name: "Tokyo", Country: "Japan", Lat: 35.6762, Lon: 139.6503},
	{Name: "Delhi", Country: "India", Lat: 28.6139, Lon: 77.2090},
	{Name: "Shanghai", Country: "China", Lat: 31.2304, Lon: 121.4737},
	{Name: "São Paulo", Country: "Brazil", Lat: -23.5505, Lon: -46.6333},
	{Name: "Mexico City", Country: "Mexico", Lat: 19.4326, Lon: -99.1332},
	{Name: "Cairo", Country: "Egypt", Lat: 30.0444, Lon: 31.2357},
	{Name: "Mumbai", Country: "India", Lat: 19.0760, Lon: 72.8777},
	{Name: "Beijing", Country: "China", Lat: 39.9042, Lon: 116.4074},
	{Name: "Dhaka", Country: "Bangladesh", Lat: 23.8103, Lon: 90.4125},
	{Name: "Osaka", Country: "Japan", Lat: 34.6937, Lon: 135.5023},
	{Name: "New York", Country: "United States", Lat: 40.7128, Lon: -74.0060},
	{Name: "Karachi", Country: "Pakistan", Lat: 24.8607, Lon: 67.0011},
	{Name: "Buenos Aires", Country: "Argentina", Lat: -34.6037, Lon: -58.3816},
	{Name: "Istanbul", Country: "Turkey", Lat: 41.0082, Lon: 28.9784},
	{Name: "Lagos", Country: "Nigeria", Lat: 6.5244, Lon: 3.3792},
	{Name: "Manila", Country: "Philippines", Lat: 14.5995, Lon: 120.9842},
	{Name: "Rio de Janeiro", Country: "Brazil", Lat: -22.9068, Lon: -43.1729},
	{Name: "Los Angeles", Country: "United States", Lat: 34.0522, Lon: -118.2437},
	{Name: "Moscow", Country: "Russia", Lat: 55.7558, Lon: 37.6173},
	{Name: "Jakarta", Country: "Indonesia", Lat: -6.2088, Lon: 106.8456},
	{Name: "Lima", Country: "Peru", Lat: -12.0464, Lon: -77.0428},
	{Name: "Bangkok", Country: "Thailand", Lat: 13.7563, Lon: 100.5018},
	{Name: "Seoul", Country: "South Korea", Lat: 37.5665, Lon: 126.9780},
	{Name: "London", Country: "United Kingdom", Lat: 51.5074, Lon: -0.1278},
	{Name: "Bogotá", Country: "Colombia", Lat: 4.7110, Lon: -74.0721},
	{Name: "Hong Kong", Country: "China", Lat: 22.3193, Lon: 114.1694},
	{Name: "Chicago", Country: "United States", Lat: 41.8781, Lon: -87.6298},
	{Name: "Paris", Country: "France", Lat: 48.8566, Lon: 2.3522},
	{Name: "Nairobi", Country: "Kenya", Lat: -1.2921, Lon: 36.8219},
	{Name: "Johannesburg", Country: "South Africa", Lat: -26.2041, Lon: 28.0473},
	{Name: "Santiago", Country: "Chile", Lat: -33.4489, Lon: -70.6693},
	{Name: "Madrid", Country: "Spain", Lat: 40.4168, Lon: -3.7038},
	{Name: "Toronto", Country: "Canada", Lat: 43.6532, Lon: -79.3832},
	{Name: "Houston", Country: "United States", Lat: 29.7604, Lon: -95.3698},
	{Name: "Singapore", Country: "Singapore", Lat: 1.3521, Lon: 103.8198},
	{Name: "Dubai", Country: "United Arab Emirates", Lat: 25.2048, Lon: 55.2708},
	{Name: "Sydney", Country: "Australia", Lat: -33.8688, Lon: 151.2093},
	{Name: "Melbourne", Country: "Australia", Lat: -37.8136, Lon: 144.9631},
	{Name: "Rome", Country: "Italy", Lat: 41.9028, Lon: 12.4964},
	{Name: "Berlin", Country: "Germany", Lat: 52.5200, Lon: 13.4050},
	{Name: "Amsterdam", Country: "Netherlands", Lat: 52.3676, Lon: 4.9041},
	{Name: "Vancouver", Country: "Canada", Lat: 49.2827, Lon: -123.1207},
	{Name: "Auckland", Country: "New Zealand", Lat: -36.8485, Lon: 174.7633},
}

// Cities returns a copy of the full gazetteer.
func Cities() []City {
	out := make([]City, len(cities))
	copy(out, cities)
	return out
}

// Lookup finds a city by exact name, case-insensitively.
func Lookup(name string) (City, bool) {
	for _, c := range cities {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return City{}, false
}

// Search returns up to limit cities whose name or country contains the query,
// case-insensitively. Name-prefix matches rank before other name matches,
// which rank before country matches. Queries shorter than MinQueryLength
// return nothing.
func Search(query string, limit int) []City {
	q := strings.ToLower(strings.TrimSpace(query))
	if len([]rune(q)) < MinQueryLength {
		return nil
	}
	if limit <= 0 {
		limit = 10
	}

	var prefix, name, country []City
	for _, c := range cities {
		lower := strings.ToLower(c.Name)
		switch {
		case strings.HasPrefix(lower, q):
			prefix = append(prefix, c)
		case strings.Contains(lower, q):
			name = append(name, c)
		case strings.Contains(strings.ToLower(c.Country), q):
			country = append(country, c)
		}
	}

	out := append(prefix, name...)
	out = append(out, country...)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Nearest returns the limit cities closest to the given point, nearest
// first, each with its great-circle distance.
func Nearest(lat, lon float64, limit int) []Match {
	if limit <= 0 {
		limit = 5
	}

	from := geo.Coordinate{Lat: lat, Lon: lon}
	matches := make([]Match, 0, len(cities))
	for _, c := range cities {
		matches = append(matches, Match{
			City:       c,
			DistanceKM: geo.Distance(from, geo.Coordinate{Lat: c.Lat, Lon: c.Lon}),
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].DistanceKM < matches[j].DistanceKM
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}
