package handler

import (
	"net/http"
	"time"

	"ledgerly-backend/internal/middleware"
	"ledgerly-backend/internal/service"
	"ledgerly-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type StatisticsHandler struct {
	statisticsService service.StatisticsService
}

func NewStatisticsHandler(statisticsService service.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{statisticsService: statisticsService}
}

func (h *StatisticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	stats := router.Group("/api/statistics")
	stats.Use(middleware.RequireAuth())
	{
		stats.GET("/summary", h.GetSummary)
	}
}

// GetSummary returns monthly income/expense/net figures
// @Summary      Get financial summary
// @Tags         statistics
// @Security     BearerAuth
// @Produce      json
// @Param        businessId  query     string  true   "Business ID"
// @Param        start_date  query     string  false  "Window start (RFC3339, default start of year)"
// @Param        end_date    query     string  false  "Window end (RFC3339, default now)"
// @Success      200         {object}  response.Response{data=[]service.SummaryDataPoint}
// @Router       /api/statistics/summary [get]
func (h *StatisticsHandler) GetSummary(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	now := time.Now()
	startDate := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
	endDate := now

	if raw := c.Query("start_date"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid start_date"))
			return
		}
		startDate = parsed
	}
	if raw := c.Query("end_date"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid end_date"))
			return
		}
		endDate = parsed
	}

	data, err := h.statisticsService.GetSummary(c.Request.Context(), userID, c.Query("businessId"), startDate, endDate)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, data))
}
