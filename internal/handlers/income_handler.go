package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"financebot/internal/models"
	"financebot/internal/services"
)

// IncomeHandler handles the income stream.
type IncomeHandler struct {
	ledgerService services.LedgerServicer
	auditService  services.AuditServicer
}

// NewIncomeHandler creates a new IncomeHandler.
func NewIncomeHandler(ledgerService services.LedgerServicer, auditService services.AuditServicer) *IncomeHandler {
	return &IncomeHandler{ledgerService: ledgerService, auditService: auditService}
}

// CreateIncomeRequest represents the request payload for recording an income.
type CreateIncomeRequest struct {
	Amount      *flexFloat `json:"amount" binding:"required" swaggertype:"number"`
	Description string     `json:"description" binding:"required,max=255"`
	OccurredAt  *flexDate  `json:"occurredAt" swaggertype:"string"`
}

// UpdateIncomeRequest holds the fields of an income update.
type UpdateIncomeRequest struct {
	Amount      *flexFloat `json:"amount" swaggertype:"number"`
	Description *string    `json:"description" binding:"omitempty,max=255"`
	OccurredAt  *flexDate  `json:"occurredAt" swaggertype:"string"`
}

// ListIncomes returns a page of the user's incomes.
// @Summary     List incomes
// @Tags        incomes
// @Produce     json
// @Security    BearerAuth
// @Param       dateFrom query string false "Inclusive lower bound"
// @Param       dateTo   query string false "Inclusive upper bound"
// @Param       category query string false "Case-insensitive substring of the description"
// @Param       page     query int    false "Page number (default 1)"
// @Param       pageSize query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Income]
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Store error"
// @Router      /incomes [get]
func (h *IncomeHandler) ListIncomes(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	filter, err := parseTransactionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.ledgerService.ListIncomes(c.Request.Context(), userID, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// CreateIncome records a new income.
// @Summary     Create an income
// @Tags        incomes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateIncomeRequest true "Income details"
// @Success     201 {object} models.Income "Income created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Store error"
// @Router      /incomes [post]
func (h *IncomeHandler) CreateIncome(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateIncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	income, err := h.ledgerService.CreateIncome(c.Request.Context(), userID, services.IncomeInput{
		Amount:      float64(*req.Amount),
		Description: req.Description,
		OccurredAt:  timePtr(req.OccurredAt),
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditCreateIncome, "income", formatID(income.ID), c.ClientIP(),
		map[string]interface{}{"amount": income.Amount, "description": income.Description})

	c.JSON(http.StatusCreated, gin.H{"income": income})
}

// UpdateIncome applies a partial update to an income.
// @Summary     Update an income
// @Tags        incomes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                 true "Income ID"
// @Param       request body UpdateIncomeRequest true "Fields to change"
// @Success     200 {object} models.Income "Updated income"
// @Failure     400 {object} ErrorResponse "Invalid input or income ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Income not found"
// @Failure     500 {object} ErrorResponse "Store error"
// @Router      /incomes/{id} [put]
func (h *IncomeHandler) UpdateIncome(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	incomeID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateIncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	patch := models.IncomePatch{
		Amount:      floatPtr(req.Amount),
		Description: req.Description,
		OccurredAt:  timePtr(req.OccurredAt),
	}
	income, err := h.ledgerService.UpdateIncome(c.Request.Context(), userID, incomeID, patch)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditUpdateIncome, "income", formatID(incomeID), c.ClientIP(),
		map[string]interface{}{"amount": income.Amount, "description": income.Description})

	c.JSON(http.StatusOK, gin.H{"income": income})
}

// DeleteIncome removes an income.
// @Summary     Delete an income
// @Tags        incomes
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Income ID"
// @Success     200 {object} MessageResponse "Income deleted"
// @Failure     400 {object} ErrorResponse "Invalid income ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Income not found"
// @Failure     500 {object} ErrorResponse "Store error"
// @Router      /incomes/{id} [delete]
func (h *IncomeHandler) DeleteIncome(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	incomeID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.ledgerService.DeleteIncome(c.Request.Context(), userID, incomeID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditDeleteIncome, "income", formatID(incomeID), c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "Income deleted successfully"})
}
