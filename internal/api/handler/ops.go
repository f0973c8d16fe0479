package handler

import (
	"net/http"
	"time"

	"github.com/aircast/aircast/internal/api/models"
	"github.com/aircast/aircast/internal/api/response"
	"github.com/aircast/aircast/internal/forecast"
)

// ProviderCheck reports the current state of an upstream provider's
// circuit breaker.
type ProviderCheck struct {
	Name  string
	State func() string
}

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	store     *forecast.Store
	providers []ProviderCheck
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(version, buildTime string, store *forecast.Store, providers []ProviderCheck) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		store:     store,
		providers: providers,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check. Ready
// means at least one forecast model is loaded.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	status := models.HealthStatusOK
	code := http.StatusOK
	if len(h.store.Horizons()) == 0 {
		status = models.HealthStatusFail
		code = http.StatusServiceUnavailable
	}

	health := models.Health{
		Status: status,
		Time:   models.Timestamp(time.Now()),
	}
	response.JSON(w, r, code, health)
}

// SystemStatus handles GET /v1/ops/status - provider and subsystem status.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	now := models.Timestamp(time.Now())

	horizons := h.store.Horizons()
	labels := make([]string, 0, len(horizons))
	for _, horizon := range horizons {
		labels = append(labels, horizon.Label())
	}

	overall := models.HealthStatusOK

	modelStatus := models.HealthStatusOK
	if len(horizons) < len(forecast.AllHorizons()) {
		modelStatus = models.HealthStatusDegraded
		overall = models.HealthStatusDegraded
	}

	providers := make([]models.ProviderStatus, 0, len(h.providers))
	for _, p := range h.providers {
		state := p.State()
		status := models.HealthStatusOK
		if state != "closed" {
			status = models.HealthStatusDegraded
			overall = models.HealthStatusDegraded
		}
		msg := "circuit " + state
		providers = append(providers, models.ProviderStatus{
			Provider: p.Name,
			Status:   status,
			Message:  &msg,
		})
	}

	status := models.SystemStatus{
		Status: overall,
		Time:   now,
		Subsystems: []models.SubsystemStatus{
			{Name: "forecast-models", Status: modelStatus},
		},
		Providers: providers,
		Horizons:  labels,
	}
	response.JSON(w, r, http.StatusOK, status)
}
