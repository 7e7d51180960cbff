package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lumvida/lumvida-backend/internal/http/handlers/common"
	"github.com/lumvida/lumvida-backend/internal/service"
)

// StatsHandler serves the aggregate dashboard numbers.
type StatsHandler struct {
	reports *service.ReportService
}

func NewStatsHandler(reports *service.ReportService) *StatsHandler {
	return &StatsHandler{reports: reports}
}

// Summary handles GET /api/stats.
func (h *StatsHandler) Summary(c *gin.Context) {
	criteria, err := parseCriteria(c)
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	_, stats := h.reports.Filter(criteria)
	common.RespondJSON(c, http.StatusOK, stats)
}

// Neighborhoods handles GET /api/stats/colonias.
func (h *StatsHandler) Neighborhoods(c *gin.Context) {
	criteria, err := parseCriteria(c)
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	stats := h.reports.NeighborhoodStats(c.Request.Context(), criteria)
	common.RespondJSON(c, http.StatusOK, gin.H{"colonias": stats})
}
