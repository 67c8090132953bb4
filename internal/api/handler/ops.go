// Package handler provides HTTP handlers for the AirGlobe API.
package handler

import (
	"net/http"
	"time"

	"github.com/airglobe/airglobe/internal/api/models"
	"github.com/airglobe/airglobe/internal/api/response"
	"github.com/airglobe/airglobe/internal/provider/resilience"
)

// CacheStats reports record cache occupancy for the status endpoint.
type CacheStats interface {
	Size() int
	TTL() time.Duration
}

// OpsConfig holds the dependencies for the OpsHandler.
type OpsConfig struct {
	// ServiceName identifies the service in responses. Default: "airglobe-api".
	ServiceName string
	// Version is the build version reported on health and status.
	Version string
	// BuildTime is the build timestamp reported on health.
	BuildTime string
	// StartedAt anchors the uptime reported on status. Default: time.Now().
	StartedAt time.Time
	// Cache reports record cache occupancy. Optional.
	Cache CacheStats
	// Registry reports source gateway health. Optional.
	Registry *resilience.Registry
}

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	serviceName string
	version     string
	buildTime   string
	startedAt   time.Time
	cache       CacheStats
	registry    *resilience.Registry
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(cfg OpsConfig) *OpsHandler {
	if cfg.ServiceName == "" {
		cfg.ServiceName = "airglobe-api"
	}
	if cfg.StartedAt.IsZero() {
		cfg.StartedAt = time.Now()
	}
	return &OpsHandler{
		serviceName: cfg.ServiceName,
		version:     cfg.Version,
		buildTime:   cfg.BuildTime,
		startedAt:   cfg.StartedAt,
		cache:       cfg.Cache,
		registry:    cfg.Registry,
	}
}

// HealthCheck handles GET /healthz - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status:  models.HealthStatusOK,
		Service: h.serviceName,
		Time:    models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /readyz - readiness check.
// The service has no hard dependencies; a missing gateway only means
// estimates. Once the process serves traffic it is ready.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status:  models.HealthStatusOK,
		Service: h.serviceName,
		Time:    models.Timestamp(time.Now()),
	}
	response.JSON(w, r, http.StatusOK, health)
}

// SystemStatus handles GET /status - cache and source gateway status.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	status := models.SystemStatus{
		Status:        models.HealthStatusOK,
		Service:       h.serviceName,
		Version:       h.version,
		Time:          models.Timestamp(time.Now()),
		UptimeSeconds: int64(time.Since(h.startedAt).Seconds()),
	}

	if h.cache != nil {
		status.Cache = models.CacheStatus{
			Entries:    h.cache.Size(),
			TTLSeconds: int(h.cache.TTL().Seconds()),
		}
	}

	if h.registry != nil {
		for _, ph := range h.registry.GetAllHealth() {
			status.Sources = append(status.Sources, sourceStatus(ph))
		}
	}

	// A broken gateway degrades the service but never takes it down;
	// estimates cover the gap.
	for _, src := range status.Sources {
		if src.Status != models.HealthStatusOK {
			status.Status = models.HealthStatusDegraded
			break
		}
	}

	response.JSON(w, r, http.StatusOK, status)
}

func sourceStatus(ph *resilience.ProviderHealth) models.ProviderStatus {
	src := models.ProviderStatus{Provider: ph.Name}

	switch {
	case ph.IsUnhealthy():
		src.Status = models.HealthStatusFail
	case ph.IsDegraded():
		src.Status = models.HealthStatusDegraded
	default:
		src.Status = models.HealthStatusOK
	}

	if ph.LastSuccessAt != nil {
		ts := models.Timestamp(*ph.LastSuccessAt)
		src.LastSuccessAt = &ts
	}
	if ph.LastFailureAt != nil {
		ts := models.Timestamp(*ph.LastFailureAt)
		src.LastFailureAt = &ts
	}
	if ph.LastError != "" {
		msg := ph.LastError
		src.Message = &msg
	}

	return src
}
