package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/airglobe/airglobe/internal/airquality"
	"github.com/airglobe/airglobe/internal/api/models"
	"github.com/airglobe/airglobe/internal/api/response"
)

// DefaultForecastHours is the forecast horizon used when the request
// does not ask for one.
const DefaultForecastHours = 24

// AirQualityService assembles air quality records for a coordinate.
type AirQualityService interface {
	GetAirQuality(ctx context.Context, lat, lon float64, hours int) (*airquality.Record, error)
}

// AirQualityHandler handles air quality endpoints.
type AirQualityHandler struct {
	service AirQualityService
}

// NewAirQualityHandler creates a new AirQualityHandler.
func NewAirQualityHandler(service AirQualityService) *AirQualityHandler {
	return &AirQualityHandler{service: service}
}

// Get handles GET /v1/air-quality - full air quality record for a coordinate.
func (h *AirQualityHandler) Get(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	lat, lon, fieldErrors := parseCoordinates(q.Get("lat"), q.Get("lon"))

	hours := DefaultForecastHours
	if raw := q.Get("hours"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			fieldErrors = append(fieldErrors, models.FieldError{Field: "hours", Message: "must be an integer"})
		case parsed < airquality.MinForecastHours || parsed > airquality.MaxForecastHours:
			fieldErrors = append(fieldErrors, models.FieldError{Field: "hours", Message: "must be between 1 and 48"})
		default:
			hours = parsed
		}
	}

	if len(fieldErrors) > 0 {
		response.BadRequest(w, r, "invalid query parameters", fieldErrors)
		return
	}

	record, err := h.service.GetAirQuality(r.Context(), lat, lon, hours)
	if err != nil {
		if errors.Is(err, airquality.ErrInvalidCoordinates) {
			response.BadRequest(w, r, "coordinates out of range", []models.FieldError{
				{Field: "lat", Message: "must be between -90 and 90"},
				{Field: "lon", Message: "must be between -180 and 180"},
			})
			return
		}
		response.InternalError(w, r, "failed to assemble air quality record")
		return
	}

	response.JSON(w, r, http.StatusOK, record)
}

// parseCoordinates validates the lat and lon query parameters. The
// range checks are phrased so NaN fails them.
func parseCoordinates(rawLat, rawLon string) (float64, float64, []models.FieldError) {
	var fieldErrors []models.FieldError

	lat, latErr := strconv.ParseFloat(rawLat, 64)
	switch {
	case rawLat == "":
		fieldErrors = append(fieldErrors, models.FieldError{Field: "lat", Message: "is required"})
	case latErr != nil:
		fieldErrors = append(fieldErrors, models.FieldError{Field: "lat", Message: "must be a number"})
	case !(lat >= -90 && lat <= 90):
		fieldErrors = append(fieldErrors, models.FieldError{Field: "lat", Message: "must be between -90 and 90"})
	}

	lon, lonErr := strconv.ParseFloat(rawLon, 64)
	switch {
	case rawLon == "":
		fieldErrors = append(fieldErrors, models.FieldError{Field: "lon", Message: "is required"})
	case lonErr != nil:
		fieldErrors = append(fieldErrors, models.FieldError{Field: "lon", Message: "must be a number"})
	case !(lon >= -180 && lon <= 180):
		fieldErrors = append(fieldErrors, models.FieldError{Field: "lon", Message: "must be between -180 and 180"})
	}

	return lat, lon, fieldErrors
}
