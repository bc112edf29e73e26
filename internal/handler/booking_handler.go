package handler

import (
	"net/http"

	"ledgerly-backend/internal/middleware"
	"ledgerly-backend/internal/repository"
	"ledgerly-backend/internal/service"
	"ledgerly-backend/pkg/pagination"
	"ledgerly-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	bookingService service.BookingService
}

func NewBookingHandler(bookingService service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

func (h *BookingHandler) RegisterRoutes(router *gin.RouterGroup) {
	bookings := router.Group("/api/bookings")
	bookings.Use(middleware.RequireAuth())
	{
		bookings.POST("", h.CreateBooking)
		bookings.GET("", h.ListBookings)
		bookings.PATCH("/:id", h.PatchBooking)
		bookings.DELETE("/:id", h.DeleteBooking)
	}
}

// CreateBooking books a service slot and creates the calendar event and invoice
// @Summary      Create booking
// @Description  Books a slot, creating the booking, its calendar event, and its invoice atomically
// @Tags         bookings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateBookingRequest  true  "Create Booking Payload"
// @Success      201      {object}  response.Response{data=service.BookingCreateResult}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/bookings [post]
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req service.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.bookingService.CreateBooking(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}

// ListBookings returns a paginated list of bookings for a business
// @Summary      List bookings
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        businessId  query     string  true   "Business ID"
// @Param        status      query     string  false  "Filter by status (scheduled, completed, cancelled)"
// @Param        page        query     int     false  "Page number (default 1)"
// @Param        limit       query     int     false  "Items per page (default 20)"
// @Success      200         {object}  response.Response{data=object}
// @Router       /api/bookings [get]
func (h *BookingHandler) ListBookings(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := pagination.Parse(c)
	filter := repository.BookingListFilter{
		Status: c.Query("status"),
		Page:   params.Page,
		Limit:  params.Limit,
	}

	bookings, total, err := h.bookingService.ListBookings(c.Request.Context(), userID, c.Query("businessId"), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"bookings": bookings,
		"total":    total,
		"page":     params.Page,
		"limit":    params.Limit,
	}))
}

// PatchBooking reschedules, cancels, or toggles payment on a booking
// @Summary      Patch booking
// @Description  Applies reschedule, status, and payment changes to a booking and syncs its invoice and revenue transaction
// @Tags         bookings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                       true  "Booking ID"
// @Param        payload  body      service.PatchBookingRequest  true  "Patch Booking Payload"
// @Success      200      {object}  response.Response{data=object}
// @Failure      409      {object}  response.Response
// @Router       /api/bookings/{id} [patch]
func (h *BookingHandler) PatchBooking(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req service.PatchBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	booking, err := h.bookingService.PatchBooking(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{"booking": booking}))
}

// DeleteBooking removes a booking, voiding its invoice
// @Summary      Delete booking
// @Tags         bookings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string  true  "Booking ID"
// @Param        payload  body      object  true  "Delete payload with businessId"
// @Success      200      {object}  response.Response{data=object}
// @Router       /api/bookings/{id} [delete]
func (h *BookingHandler) DeleteBooking(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		BusinessID string `json:"businessId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	if err := h.bookingService.DeleteBooking(c.Request.Context(), userID, c.Param("id"), req.BusinessID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{"ok": true}))
}
