package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/aircast/aircast/internal/api/models"
	"github.com/aircast/aircast/internal/api/response"
	"github.com/aircast/aircast/internal/aqi"
	"github.com/aircast/aircast/internal/station"
	"github.com/aircast/aircast/pkg/geo"
)

// AirQualityHandler handles the current air quality endpoint.
type AirQualityHandler struct {
	observations ObservationResolver
	classifier   *aqi.Classifier
	logger       zerolog.Logger
}

// NewAirQualityHandler creates a new AirQualityHandler.
func NewAirQualityHandler(observations ObservationResolver, classifier *aqi.Classifier, logger zerolog.Logger) *AirQualityHandler {
	return &AirQualityHandler{
		observations: observations,
		classifier:   classifier,
		logger:       logger,
	}
}

// Current handles GET /v1/air-quality - resolve current conditions for a coordinate.
func (h *AirQualityHandler) Current(w http.ResponseWriter, r *http.Request) {
	query, fieldErrors := coordinateFromQuery(r)
	if fieldErrors != nil {
		response.BadRequest(w, r, "invalid coordinate", fieldErrors)
		return
	}

	obs, err := h.observations.Resolve(r.Context(), query)
	if err != nil {
		switch {
		case errors.Is(err, geo.ErrInvalidCoordinate):
			response.BadRequest(w, r, err.Error(), nil)
		case errors.Is(err, station.ErrRegistryUnavailable):
			h.logger.Warn().Err(err).Msg("station registry unavailable")
			response.UpstreamUnavailable(w, r, "station registry unreachable")
		default:
			h.logger.Error().Err(err).Msg("observation resolution failed")
			response.InternalError(w, r, "failed to resolve observation")
		}
		return
	}

	response.JSON(w, r, http.StatusOK, airQualityResponse(obs, h.classifier))
}

// coordinateFromQuery parses and validates lat/lon query parameters.
func coordinateFromQuery(r *http.Request) (geo.Coordinate, []models.FieldError) {
	var fieldErrors []models.FieldError

	lat, err := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	if err != nil {
		fieldErrors = append(fieldErrors, models.FieldError{Field: "lat", Message: "must be a number", Code: "INVALID"})
	}
	lon, err := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if err != nil {
		fieldErrors = append(fieldErrors, models.FieldError{Field: "lon", Message: "must be a number", Code: "INVALID"})
	}
	if fieldErrors != nil {
		return geo.Coordinate{}, fieldErrors
	}

	query, err := parseCoordinate(lat, lon)
	if err != nil {
		return geo.Coordinate{}, []models.FieldError{
			{Field: "lat", Message: "must be between -90 and 90", Code: "OUT_OF_RANGE"},
			{Field: "lon", Message: "must be between -180 and 180", Code: "OUT_OF_RANGE"},
		}
	}
	return query, nil
}
