package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/aircast/aircast/internal/api/models"
	"github.com/aircast/aircast/internal/api/response"
	"github.com/aircast/aircast/internal/aqi"
	"github.com/aircast/aircast/internal/forecast"
	"github.com/aircast/aircast/internal/history"
	"github.com/aircast/aircast/internal/observation"
)

// Input source markers for coordinate predictions.
const (
	sourceLive     = "live"
	sourceHistory  = "history"
	sourceDefaults = "defaults"
)

// historyFallbackRadiusKM bounds how far a stored observation may be
// from the query coordinate to stand in for a live one.
const historyFallbackRadiusKM = 25.0

// Forecaster dispatches a feature vector to the per-horizon models.
type Forecaster interface {
	Forecast(vec forecast.FeatureVector, inputAt time.Time, horizons []forecast.Horizon) *forecast.PredictionSet
}

// PredictHandler handles the prediction endpoints.
type PredictHandler struct {
	observations ObservationResolver
	assembler    *forecast.Assembler
	forecaster   Forecaster
	classifier   *aqi.Classifier
	store        history.Repository
	logger       zerolog.Logger
}

// PredictHandlerConfig holds dependencies for the PredictHandler.
type PredictHandlerConfig struct {
	Observations ObservationResolver
	Assembler    *forecast.Assembler
	Forecaster   Forecaster
	Classifier   *aqi.Classifier
	Store        history.Repository
	Logger       zerolog.Logger
}

// NewPredictHandler creates a new PredictHandler.
func NewPredictHandler(cfg PredictHandlerConfig) *PredictHandler {
	return &PredictHandler{
		observations: cfg.Observations,
		assembler:    cfg.Assembler,
		forecaster:   cfg.Forecaster,
		classifier:   cfg.Classifier,
		store:        cfg.Store,
		logger:       cfg.Logger,
	}
}

// Predict handles POST /v1/predict - forecast from explicit feature inputs.
func (h *PredictHandler) Predict(w http.ResponseWriter, r *http.Request) {
	var input models.PredictRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	at := time.Now().UTC()
	vec := h.assembler.Assemble(forecast.Inputs{
		PM25:             input.PM25,
		Temperature:      input.Temperature,
		WindSpeed:        input.WindSpeed,
		RelativeHumidity: input.RelativeHumidity,
		At:               at,
	})

	set := h.forecaster.Forecast(vec, at, nil)
	response.JSON(w, r, http.StatusOK, predictionResponse(set, "", nil, nil))
}

// PredictFromCoordinates handles POST /v1/predict:from-coordinates -
// resolve an observation for a coordinate and forecast from it. Falls
// back to stored observations, then training defaults, when live
// resolution fails.
func (h *PredictHandler) PredictFromCoordinates(w http.ResponseWriter, r *http.Request) {
	var input models.PredictFromCoordinatesRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	query, err := parseCoordinate(input.Lat, input.Lon)
	if err != nil {
		response.BadRequest(w, r, "invalid coordinate", []models.FieldError{
			{Field: "lat", Message: "must be between -90 and 90", Code: "OUT_OF_RANGE"},
			{Field: "lon", Message: "must be between -180 and 180", Code: "OUT_OF_RANGE"},
		})
		return
	}

	source := sourceLive
	var warnings []string
	var obsResp *models.AirQualityResponse

	var vec forecast.FeatureVector
	var inputAt time.Time

	obs, err := h.observations.Resolve(r.Context(), query)
	if err != nil {
		h.logger.Warn().Err(err).Msg("live resolution failed, trying stored observations")

		record, histErr := h.store.Latest(r.Context(), query, historyFallbackRadiusKM)
		switch {
		case histErr == nil:
			source = sourceHistory
			warnings = append(warnings, "live observation unavailable, using stored observation")
			vec = h.assembler.Assemble(forecast.Inputs{
				PM25:             record.PM25,
				Temperature:      record.Temperature,
				WindSpeed:        record.WindSpeed,
				RelativeHumidity: record.RelativeHumidity,
				At:               record.RecordedAt,
			})
			inputAt = record.RecordedAt
		case errors.Is(histErr, history.ErrNoRecords):
			source = sourceDefaults
			warnings = append(warnings, "live observation unavailable, using default inputs")
			inputAt = time.Now().UTC()
			vec = h.assembler.Assemble(forecast.Inputs{At: inputAt})
		default:
			h.logger.Error().Err(histErr).Msg("history lookup failed")
			response.InternalError(w, r, "failed to resolve prediction inputs")
			return
		}
	} else {
		vec = h.assembler.FromObservation(obs)
		inputAt = forecast.ObservationAnchor(obs)
		obsResp = airQualityResponse(obs, h.classifier)
		h.recordObservation(r.Context(), obs)
	}

	set := h.forecaster.Forecast(vec, inputAt, nil)
	response.JSON(w, r, http.StatusOK, predictionResponse(set, source, obsResp, warnings))
}

// recordObservation stores a successfully resolved observation so later
// requests can fall back to it. Failures are logged, never surfaced.
func (h *PredictHandler) recordObservation(ctx context.Context, obs *observation.Observation) {
	record := &history.Record{
		Location:         obs.Location,
		PM25:             obs.PM25,
		PM10:             obs.PM10,
		Temperature:      obs.Temperature,
		RelativeHumidity: obs.RelativeHumidity,
		WindSpeed:        obs.WindSpeed,
		RecordedAt:       obs.ResolvedAt,
	}
	if obs.Station != nil {
		record.StationID = obs.Station.ID
	}

	if err := h.store.Insert(ctx, record); err != nil {
		h.logger.Warn().Err(err).Msg("failed to record observation")
	}
}

// predictionResponse converts a prediction set into its API shape.
func predictionResponse(set *forecast.PredictionSet, source string, obs *models.AirQualityResponse, warnings []string) *models.PredictionResponse {
	resp := &models.PredictionResponse{
		Status:      string(set.Status),
		InputAt:     models.Timestamp(set.InputAt),
		Source:      source,
		Observation: obs,
		Warnings:    warnings,
	}

	for _, h := range forecast.AllHorizons() {
		result, ok := set.Results[h]
		if !ok {
			continue
		}

		fc := models.HorizonForecast{
			Horizon:  h.Label(),
			PM25:     result.PM25,
			Category: string(result.Category),
		}
		if result.Err != nil {
			fc.Error = result.Err.Error()
		}
		resp.Forecasts = append(resp.Forecasts, fc)
	}

	return resp
}
