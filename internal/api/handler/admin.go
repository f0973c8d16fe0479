package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/aircast/aircast/internal/api/models"
	"github.com/aircast/aircast/internal/api/response"
	"github.com/aircast/aircast/internal/history"
)

// defaultHistoryLimit bounds how many records the history endpoint returns.
const defaultHistoryLimit = 50

// AdminHandler handles admin endpoints.
type AdminHandler struct {
	store  history.Repository
	logger zerolog.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(store history.Repository, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{store: store, logger: logger}
}

// History handles GET /v1/admin/history - list stored observations near
// a coordinate.
func (h *AdminHandler) History(w http.ResponseWriter, r *http.Request) {
	query, fieldErrors := coordinateFromQuery(r)
	if fieldErrors != nil {
		response.BadRequest(w, r, "invalid coordinate", fieldErrors)
		return
	}

	radiusKM := 25.0
	if raw := r.URL.Query().Get("radiusKm"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 {
			response.BadRequest(w, r, "radiusKm must be a positive number", []models.FieldError{
				{Field: "radiusKm", Message: "must be a positive number", Code: "INVALID"},
			})
			return
		}
		radiusKM = parsed
	}

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			response.BadRequest(w, r, "limit must be a positive integer", []models.FieldError{
				{Field: "limit", Message: "must be a positive integer", Code: "INVALID"},
			})
			return
		}
		limit = parsed
	}

	records, err := h.store.Recent(r.Context(), query, radiusKM, limit)
	if err != nil {
		if errors.Is(err, history.ErrNoRecords) {
			response.JSON(w, r, http.StatusOK, models.HistoryResponse{Records: []models.HistoryRecordResponse{}})
			return
		}
		h.logger.Error().Err(err).Msg("history lookup failed")
		response.InternalError(w, r, "failed to query observation history")
		return
	}

	resp := models.HistoryResponse{Records: make([]models.HistoryRecordResponse, 0, len(records))}
	for _, rec := range records {
		resp.Records = append(resp.Records, models.HistoryRecordResponse{
			ID:               rec.ID.String(),
			Location:         models.Point{Lat: rec.Location.Lat, Lon: rec.Location.Lon},
			StationID:        rec.StationID,
			PM25:             rec.PM25,
			PM10:             rec.PM10,
			Temperature:      rec.Temperature,
			RelativeHumidity: rec.RelativeHumidity,
			WindSpeed:        rec.WindSpeed,
			RecordedAt:       models.Timestamp(rec.RecordedAt),
		})
	}

	response.JSON(w, r, http.StatusOK, resp)
}
