package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/headway-clinic/checkin-api/internal/errors"
	"github.com/headway-clinic/checkin-api/internal/middleware"
	"github.com/headway-clinic/checkin-api/internal/services"
)

// MetricsHandler serves the outcome dashboards.
type MetricsHandler struct {
	metricsService *services.MetricsService
	accessService  *services.AccessService
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(metricsService *services.MetricsService, accessService *services.AccessService) *MetricsHandler {
	return &MetricsHandler{metricsService: metricsService, accessService: accessService}
}

// ClinicianData handles GET /clinician-data: metrics over the calling
// clinician's caseload, or a named clinician's when an admin asks.
func (h *MetricsHandler) ClinicianData(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	filter := filterFromQuery(c)

	population, err := h.accessService.ResolvePopulation(identity, false)
	if err != nil {
		respondMetricsError(c, err)
		return
	}

	clinicianID := population.ClinicianID
	if clinicianID == "" {
		// Admin caller: a clinician must be named.
		clinicianID = c.Query("clinician_id")
		if clinicianID == "" {
			errors.BadRequest(c, "clinician_id is required")
			return
		}
	}

	metrics, err := h.metricsService.CaseloadMetrics(clinicianID, filter)
	if err != nil {
		respondMetricsError(c, err)
		return
	}
	c.JSON(http.StatusOK, metrics)
}

// OverallData handles GET /overall-data: practice-wide metrics, admin only.
// include_archived=true folds archived clients into the population.
func (h *MetricsHandler) OverallData(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	includeArchived := c.Query("include_archived") == "true"
	filter := filterFromQuery(c)

	population, err := h.accessService.ResolvePopulation(identity, includeArchived)
	if err != nil {
		respondMetricsError(c, err)
		return
	}
	if population.ClinicianID != "" {
		errors.Forbidden(c, "")
		return
	}

	metrics, err := h.metricsService.OverallMetrics(population.IncludeArchived, filter)
	if err != nil {
		respondMetricsError(c, err)
		return
	}
	c.JSON(http.StatusOK, metrics)
}

func filterFromQuery(c *gin.Context) services.MetricsFilter {
	return services.MetricsFilter{
		NameQuery:  c.Query("name"),
		RecentOnly: c.Query("recent_only") == "true",
	}
}

func respondMetricsError(c *gin.Context, err error) {
	if stderrors.Is(err, services.ErrScopeDenied) {
		errors.Forbidden(c, err.Error())
		return
	}
	errors.InternalError(c, "")
}
