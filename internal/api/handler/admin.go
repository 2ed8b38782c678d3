package handler

import (
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/api/models"
	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/api/response"
	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/planner"
	"github.com/TWCOBIZ/FITARCHITECT-sub000/internal/provider/resilience"
)

// AdminHandler handles internal operations endpoints.
type AdminHandler struct {
	registry  *resilience.Registry
	planCache *planner.Cache
	startedAt time.Time
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(registry *resilience.Registry, planCache *planner.Cache) *AdminHandler {
	return &AdminHandler{
		registry:  registry,
		planCache: planCache,
		startedAt: time.Now(),
	}
}

// AdminStats is the response for GET /v1/admin/stats.
type AdminStats struct {
	UptimeSeconds      int64 `json:"uptimeSeconds"`
	Providers          int   `json:"providers"`
	CachedPlans        int   `json:"cachedPlans"`
	UnhealthyProviders int   `json:"unhealthyProviders"`
}

// GetStats handles GET /v1/admin/stats.
func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats := &AdminStats{
		UptimeSeconds: int64(time.Since(h.startedAt).Seconds()),
	}
	if h.registry != nil {
		stats.Providers = h.registry.ProviderCount()
		stats.UnhealthyProviders = h.registry.UnhealthyCount()
	}
	if h.planCache != nil {
		stats.CachedPlans = h.planCache.Len()
	}

	response.JSON(w, r, http.StatusOK, stats)
}

// GetProvidersHealth handles GET /v1/admin/providers/health - circuit
// breaker state for every registered external provider.
func (h *AdminHandler) GetProvidersHealth(w http.ResponseWriter, r *http.Request) {
	providers := []models.ProviderStatus{}
	if h.registry != nil {
		for _, health := range h.registry.GetAllHealth() {
			providers = append(providers, toProviderStatus(health))
		}
	}

	response.JSON(w, r, http.StatusOK, map[string]interface{}{"providers": providers})
}

func toProviderStatus(health *resilience.ProviderHealth) models.ProviderStatus {
	status := models.HealthStatusOK
	switch {
	case health.IsUnhealthy():
		status = models.HealthStatusFail
	case health.IsDegraded():
		status = models.HealthStatusDegraded
	}

	ps := models.ProviderStatus{
		Provider: health.Name,
		Status:   status,
	}
	if health.LastSuccessAt != nil {
		ts := models.Timestamp(*health.LastSuccessAt)
		ps.LastSuccessAt = &ts
	}
	if health.LastFailureAt != nil {
		ts := models.Timestamp(*health.LastFailureAt)
		ps.LastFailureAt = &ts
	}
	if health.LastError != "" {
		msg := health.LastError
		ps.Message = &msg
	} else if health.CircuitState != gobreaker.StateClosed {
		state := health.CircuitState.String()
		ps.Message = &state
	}
	return ps
}
