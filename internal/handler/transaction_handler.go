package handler

import (
	"net/http"

	"ledgerly-backend/internal/middleware"
	"ledgerly-backend/internal/repository"
	"ledgerly-backend/internal/service"
	"ledgerly-backend/pkg/pagination"
	"ledgerly-backend/pkg/response"
	"ledgerly-backend/pkg/taxtag"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type TransactionHandler struct {
	transactionService service.TransactionService
}

func NewTransactionHandler(transactionService service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

func (h *TransactionHandler) RegisterRoutes(router *gin.RouterGroup) {
	transactions := router.Group("/api/transactions")
	transactions.Use(middleware.RequireAuth())
	{
		transactions.GET("", h.ListTransactions)
		transactions.POST("/import", h.ImportBankFeed)
	}

	taxTags := router.Group("/api/tax-tags")
	taxTags.Use(middleware.RequireAuth())
	{
		taxTags.POST("/classify", h.ClassifyTaxTag)
	}
}

// ListTransactions returns a paginated list of ledger transactions
// @Summary      List transactions
// @Tags         transactions
// @Security     BearerAuth
// @Produce      json
// @Param        businessId  query     string  true   "Business ID"
// @Param        type        query     string  false  "Filter by type (income, expense)"
// @Param        page        query     int     false  "Page number (default 1)"
// @Param        limit       query     int     false  "Items per page (default 20)"
// @Success      200         {object}  response.Response{data=object}
// @Router       /api/transactions [get]
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := pagination.Parse(c)
	filter := repository.TransactionListFilter{
		Type:  c.Query("type"),
		Page:  params.Page,
		Limit: params.Limit,
	}

	txns, total, err := h.transactionService.ListTransactions(c.Request.Context(), userID, c.Query("businessId"), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"transactions": txns,
		"total":        total,
		"page":         params.Page,
		"limit":        params.Limit,
	}))
}

// ImportBankFeed imports a bank-feed CSV and classifies each row
// @Summary      Import bank feed
// @Description  Accepts a multipart CSV (date, description, merchant, category, amount); valid rows become classified transactions, bad rows are reported back
// @Tags         transactions
// @Security     BearerAuth
// @Accept       multipart/form-data
// @Produce      json
// @Param        businessId  formData  string  true  "Business ID"
// @Param        file        formData  file    true  "Bank feed CSV"
// @Success      200         {object}  response.Response{data=service.ImportResult}
// @Failure      400         {object}  response.Response
// @Router       /api/transactions/import [post]
func (h *TransactionHandler) ImportBankFeed(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Missing CSV file upload"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Failed to read CSV upload: "+err.Error()))
		return
	}
	defer file.Close()

	result, err := h.transactionService.ImportBankFeed(c.Request.Context(), userID, c.PostForm("businessId"), file)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

type classifyRequest struct {
	Description string `json:"description"`
	Merchant    string `json:"merchant"`
	Category    string `json:"category"`
	Amount      string `json:"amount" binding:"required"` // decimal string
}

// ClassifyTaxTag previews the deterministic tax tag for a transaction
// @Summary      Classify tax tag
// @Tags         tax-tags
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      classifyRequest  true  "Transaction fields"
// @Success      200      {object}  response.Response{data=taxtag.Result}
// @Failure      400      {object}  response.Response
// @Router       /api/tax-tags/classify [post]
func (h *TransactionHandler) ClassifyTaxTag(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}

	var req classifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid amount"))
		return
	}

	result := taxtag.Classify(taxtag.Input{
		Description: req.Description,
		Merchant:    req.Merchant,
		Category:    req.Category,
		Amount:      amount,
	})
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}
