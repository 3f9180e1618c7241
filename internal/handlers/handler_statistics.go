package handlers

import (
	"net/http"

	"github.com/fambudget/family_budget_app/internal/core/domain"
	portssvc "github.com/fambudget/family_budget_app/internal/core/ports/services"
	"github.com/fambudget/family_budget_app/internal/dto"

	"github.com/gin-gonic/gin"
)

// statisticsHandler handles the dashboard statistics endpoint.
type statisticsHandler struct {
	statisticsService portssvc.StatisticsSvcFacade
}

func newStatisticsHandler(ss portssvc.StatisticsSvcFacade) *statisticsHandler {
	return &statisticsHandler{
		statisticsService: ss,
	}
}

func registerStatisticsRoutes(rg *gin.RouterGroup, statisticsService portssvc.StatisticsSvcFacade) {
	h := newStatisticsHandler(statisticsService)
	rg.GET("/statistics", h.getStatistics)
}

// getStatistics godoc
// @Summary Dashboard statistics
// @Description Computes expense totals, by-category and by-payment-method breakdowns, and daily sums over a trailing window ending today.
// @Tags statistics
// @Produce json
// @Param familyID query string false "Restrict to one family the caller actively belongs to"
// @Param period query string false "Trailing window" Enums(week, month, year) default(month)
// @Success 200 {object} dto.StatsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /statistics [get]
func (h *statisticsHandler) getStatistics(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var params dto.StatsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindJSONError(c, err)
		return
	}

	report, err := h.statisticsService.GetStatistics(c.Request.Context(), userID, params.FamilyID, domain.StatsPeriod(params.Period))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToStatsResponse(report))
}
