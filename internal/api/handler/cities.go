package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/airglobe/airglobe/internal/api/models"
	"github.com/airglobe/airglobe/internal/api/response"
	"github.com/airglobe/airglobe/internal/gazetteer"
)

// City listing limits.
const (
	DefaultSearchLimit  = 10
	DefaultNearestLimit = 5
	MaxCityLimit        = 10
)

// CitiesHandler handles gazetteer endpoints.
type CitiesHandler struct{}

// NewCitiesHandler creates a new CitiesHandler.
func NewCitiesHandler() *CitiesHandler {
	return &CitiesHandler{}
}

// Search handles GET /v1/cities/search - find cities by name or country.
func (h *CitiesHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if len([]rune(q)) < gazetteer.MinQueryLength {
		response.BadRequest(w, r, "query too short", []models.FieldError{
			{Field: "q", Message: "must be at least 2 characters"},
		})
		return
	}

	limit, fieldErrors := parseLimit(r.URL.Query().Get("limit"), DefaultSearchLimit)
	if len(fieldErrors) > 0 {
		response.BadRequest(w, r, "invalid query parameters", fieldErrors)
		return
	}

	cities := gazetteer.Search(q, limit)
	resp := models.CitiesResponse{Cities: make([]models.CityResult, 0, len(cities))}
	for _, c := range cities {
		resp.Cities = append(resp.Cities, models.CityResult{
			Name:    c.Name,
			Country: c.Country,
			Lat:     c.Lat,
			Lon:     c.Lon,
		})
	}

	response.JSON(w, r, http.StatusOK, resp)
}

// Nearest handles GET /v1/cities/nearest - cities closest to a coordinate.
func (h *CitiesHandler) Nearest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	lat, lon, fieldErrors := parseCoordinates(q.Get("lat"), q.Get("lon"))
	limit, limitErrors := parseLimit(q.Get("limit"), DefaultNearestLimit)
	fieldErrors = append(fieldErrors, limitErrors...)
	if len(fieldErrors) > 0 {
		response.BadRequest(w, r, "invalid query parameters", fieldErrors)
		return
	}

	matches := gazetteer.Nearest(lat, lon, limit)
	resp := models.CitiesResponse{Cities: make([]models.CityResult, 0, len(matches))}
	for _, m := range matches {
		distance := m.DistanceKM
		resp.Cities = append(resp.Cities, models.CityResult{
			Name:       m.Name,
			Country:    m.Country,
			Lat:        m.Lat,
			Lon:        m.Lon,
			DistanceKM: &distance,
		})
	}

	response.JSON(w, r, http.StatusOK, resp)
}

// parseLimit clamps the limit query parameter to [1, MaxCityLimit].
func parseLimit(raw string, def int) (int, []models.FieldError) {
	if raw == "" {
		return def, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return def, []models.FieldError{{Field: "limit", Message: "must be an integer"}}
	}
	if limit < 1 {
		limit = 1
	}
	if limit > MaxCityLimit {
		limit = MaxCityLimit
	}
	return limit, nil
}
