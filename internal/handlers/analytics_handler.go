package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "protikar/internal/errors"
	"protikar/internal/services"
)

// AnalyticsHandler serves the regulator's dashboard aggregates and the
// audit trail.
type AnalyticsHandler struct {
	analyticsService services.AnalyticsServicer
	auditService     services.AuditServicer
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(analyticsService services.AnalyticsServicer, auditService services.AuditServicer) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService, auditService: auditService}
}

// Dashboard returns totals and grievance tallies
// @Summary     Dashboard aggregates
// @Description Entity totals plus grievance counts grouped by status, priority and category
// @Tags        analytics
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.Dashboard
// @Router      /analytics/dashboard [get]
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.analyticsService.Dashboard()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

// ListAuditLogs returns the most recent audit entries
// @Summary     List audit logs
// @Tags        analytics
// @Produce     json
// @Security    BearerAuth
// @Param       limit query int false "Maximum entries (default and cap 100)"
// @Success     200 {array} models.AuditLog
// @Router      /audit-logs [get]
func (h *AnalyticsHandler) ListAuditLogs(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	entries, err := h.auditService.List(limit)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}
