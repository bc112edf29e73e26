package handler

import (
	"net/http"
	"time"

	"ledgerly-backend/internal/middleware"
	"ledgerly-backend/internal/service"
	"ledgerly-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type CalendarHandler struct {
	calendarService service.CalendarService
}

func NewCalendarHandler(calendarService service.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendarService: calendarService}
}

func (h *CalendarHandler) RegisterRoutes(router *gin.RouterGroup) {
	calendar := router.Group("/api/calendar")
	calendar.Use(middleware.RequireAuth())
	{
		calendar.GET("/events", h.ListEvents)
		calendar.GET("/export.ics", h.ExportICS)
	}
}

// ListEvents returns calendar events for a business within a window
// @Summary      List calendar events
// @Tags         calendar
// @Security     BearerAuth
// @Produce      json
// @Param        businessId  query     string  true   "Business ID"
// @Param        from        query     string  false  "Window start (RFC3339)"
// @Param        to          query     string  false  "Window end (RFC3339)"
// @Success      200         {object}  response.Response{data=object}
// @Router       /api/calendar/events [get]
func (h *CalendarHandler) ListEvents(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	from, to, err := parseWindow(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	events, err := h.calendarService.ListEvents(c.Request.Context(), userID, c.Query("businessId"), from, to)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{"events": events}))
}

// ExportICS renders calendar events as an iCalendar document
// @Summary      Export calendar as ICS
// @Tags         calendar
// @Security     BearerAuth
// @Produce      plain
// @Param        businessId  query   string  true   "Business ID"
// @Param        from        query   string  false  "Window start (RFC3339)"
// @Param        to          query   string  false  "Window end (RFC3339)"
// @Success      200         {string}  string  "text/calendar body"
// @Router       /api/calendar/export.ics [get]
func (h *CalendarHandler) ExportICS(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	from, to, err := parseWindow(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	body, err := h.calendarService.ExportICS(c.Request.Context(), userID, c.Query("businessId"), from, to)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="calendar.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(body))
}

func parseWindow(c *gin.Context) (time.Time, time.Time, error) {
	var from, to time.Time
	var err error
	if raw := c.Query("from"); raw != "" {
		from, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return from, to, err
		}
	}
	if raw := c.Query("to"); raw != "" {
		to, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return from, to, err
		}
	}
	return from, to, nil
}
