package handler

import (
	"net/http"

	"ledgerly-backend/internal/middleware"
	"ledgerly-backend/internal/service"
	"ledgerly-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type BusinessHandler struct {
	businessService service.BusinessService
}

func NewBusinessHandler(businessService service.BusinessService) *BusinessHandler {
	return &BusinessHandler{businessService: businessService}
}

func (h *BusinessHandler) RegisterRoutes(router *gin.RouterGroup) {
	businesses := router.Group("/api/businesses")
	businesses.Use(middleware.RequireAuth())
	{
		businesses.POST("", h.CreateBusiness)
		businesses.GET("", h.ListBusinesses)
	}

	services := router.Group("/api/services")
	services.Use(middleware.RequireAuth())
	{
		services.POST("", h.CreateService)
		services.GET("", h.ListServices)
	}
}

// CreateBusiness registers a new business owned by the caller
// @Summary      Create business
// @Tags         businesses
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateBusinessRequest  true  "Create Business Payload"
// @Success      201      {object}  response.Response{data=object}
// @Failure      400      {object}  response.Response
// @Router       /api/businesses [post]
func (h *BusinessHandler) CreateBusiness(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req service.CreateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}
	if email, exists := c.Get("userEmail"); exists && req.Email == "" {
		req.Email, _ = email.(string)
	}
	if name, exists := c.Get("userName"); exists && req.UserName == "" {
		req.UserName, _ = name.(string)
	}

	business, err := h.businessService.CreateBusiness(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, map[string]interface{}{"business": business}))
}

// ListBusinesses lists businesses the caller owns or belongs to
// @Summary      List businesses
// @Tags         businesses
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=object}
// @Router       /api/businesses [get]
func (h *BusinessHandler) ListBusinesses(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	businesses, err := h.businessService.ListBusinesses(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{"businesses": businesses}))
}

// CreateService adds a bookable service to the catalog
// @Summary      Create service
// @Tags         services
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateServiceRequest  true  "Create Service Payload"
// @Success      201      {object}  response.Response{data=object}
// @Failure      400      {object}  response.Response
// @Router       /api/services [post]
func (h *BusinessHandler) CreateService(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req service.CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	svc, err := h.businessService.CreateService(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, map[string]interface{}{"service": svc}))
}

// ListServices lists the bookable services of a business
// @Summary      List services
// @Tags         services
// @Security     BearerAuth
// @Produce      json
// @Param        businessId  query     string  true  "Business ID"
// @Success      200         {object}  response.Response{data=object}
// @Router       /api/services [get]
func (h *BusinessHandler) ListServices(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	services, err := h.businessService.ListServices(c.Request.Context(), userID, c.Query("businessId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{"services": services}))
}
