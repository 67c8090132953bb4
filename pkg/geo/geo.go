// Package geo provides small geographic utilities: great-circle distance,
// human-readable coordinate labels, and coarse region naming.
package geo

import (
	"fmt"
	"math"
)

// Coordinate represents a geographic point with latitude and longitude.
type Coordinate struct {
	Lat float64
	Lon float64
}

const earthRadiusKM = 6371.0

// Distance calculates the great-circle distance between two coordinates in
// kilometers using the haversine formula.
func Distance(a, b Coordinate) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	sinDLat := math.Sin(dLat / 2)
	sinDLon := math.Sin(dLon / 2)

	h := sinDLat*sinDLat + math.Cos(lat1)*math.Cos(lat2)*sinDLon*sinDLon
	return 2 * earthRadiusKM * math.Asin(math.Sqrt(h))
}

// FormatCoordinates renders a coordinate pair as a degrees-and-minutes label,
// e.g. "40°42'N, 74°0'W".
func FormatCoordinates(lat, lon float64) string {
	latDeg := int(math.Abs(lat))
	latMin := int((math.Abs(lat) - float64(latDeg)) * 60)
	latDir := "N"
	if lat < 0 {
		latDir = "S"
	}

	lonDeg := int(math.Abs(lon))
	lonMin := int((math.Abs(lon) - float64(lonDeg)) * 60)
	lonDir := "E"
	if lon < 0 {
		lonDir = "W"
	}

	return fmt.Sprintf("%d°%d'%s, %d°%d'%s", latDeg, latMin, latDir, lonDeg, lonMin, lonDir)
}

// RegionName maps a coordinate to a rough continent or ocean label. The
// bands are intentionally coarse; the label is informational only.
func RegionName(lat, lon float64) string {
	switch {
	case lat < -60:
		return "Antarctica"
	case lat < -30:
		switch {
		case lon < -60:
			return "South America"
		case lon < 20:
			return "South Atlantic"
		case lon < 150:
			return "Africa/Indian Ocean"
		default:
			return "Australia/Pacific"
		}
	case lat < 0:
		switch {
		case lon < -30:
			return "South America"
		case lon < 50:
			return "Africa"
		case lon < 150:
			return "Asia/Australia"
		default:
			return "Pacific Ocean"
		}
	case lat < 30:
		switch {
		case lon < -60:
			return "North America"
		case lon < 0:
			return "South America"
		case lon < 50:
			return "Africa/Middle East"
		case lon < 150:
			return "Asia"
		default:
			return "Pacific Ocean"
		}
	case lat < 60:
		switch {
		case lon < -60:
			return "North America"
		case lon < 20:
			return "Atlantic Ocean"
		case lon < 150:
			return "Europe/Asia"
		default:
			return "Pacific Ocean"
		}
	default:
		switch {
		case lon < -60:
			return "North America"
		case lon < 150:
			return "Arctic/Siberia"
		default:
			return "Arctic Ocean"
		}
	}
}
