package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"financebot/internal/models"
	"financebot/internal/services"
)

// ExpenseHandler handles the expense stream.
type ExpenseHandler struct {
	ledgerService services.LedgerServicer
	auditService  services.AuditServicer
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(ledgerService services.LedgerServicer, auditService services.AuditServicer) *ExpenseHandler {
	return &ExpenseHandler{ledgerService: ledgerService, auditService: auditService}
}

// CreateExpenseRequest represents the request payload for recording an
// expense. Amount may be sent as a number or a numeric string.
type CreateExpenseRequest struct {
	Amount     *flexFloat `json:"amount" binding:"required" swaggertype:"number"`
	Category   string     `json:"category" binding:"required,max=100"`
	OccurredAt *flexDate  `json:"occurredAt" swaggertype:"string"`
}

// UpdateExpenseRequest holds the fields of an expense update. Omitted fields
// are left unchanged.
type UpdateExpenseRequest struct {
	Amount     *flexFloat `json:"amount" swaggertype:"number"`
	Category   *string    `json:"category" binding:"omitempty,max=100"`
	OccurredAt *flexDate  `json:"occurredAt" swaggertype:"string"`
}

// ListExpenses returns a page of the user's expenses.
// @Summary     List expenses
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       dateFrom query string false "Inclusive lower bound"
// @Param       dateTo   query string false "Inclusive upper bound"
// @Param       category query string false "Case-insensitive substring of the category"
// @Param       page     query int    false "Page number (default 1)"
// @Param       pageSize query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Expense]
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Store error"
// @Router      /expenses [get]
func (h *ExpenseHandler) ListExpenses(c *gin.Context) {
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

	result, err := h.ledgerService.ListExpenses(c.Request.Context(), userID, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// CreateExpense records a new expense.
// @Summary     Create an expense
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateExpenseRequest true "Expense details"
// @Success     201 {object} models.Expense "Expense created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Store error"
// @Router      /expenses [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	expense, err := h.ledgerService.CreateExpense(c.Request.Context(), userID, services.ExpenseInput{
		Amount:     float64(*req.Amount),
		Category:   req.Category,
		OccurredAt: timePtr(req.OccurredAt),
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditCreateExpense, "expense", formatID(expense.ID), c.ClientIP(),
		map[string]interface{}{"amount": expense.Amount, "category": expense.Category})

	c.JSON(http.StatusCreated, gin.H{"expense": expense})
}

// UpdateExpense applies a partial update to an expense.
// @Summary     Update an expense
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                  true "Expense ID"
// @Param       request body UpdateExpenseRequest true "Fields to change"
// @Success     200 {object} models.Expense "Updated expense"
// @Failure     400 {object} ErrorResponse "Invalid input or expense ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     500 {object} ErrorResponse "Store error"
// @Router      /expenses/{id} [put]
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	patch := models.ExpensePatch{
		Amount:     floatPtr(req.Amount),
		Category:   req.Category,
		OccurredAt: timePtr(req.OccurredAt),
	}
	expense, err := h.ledgerService.UpdateExpense(c.Request.Context(), userID, expenseID, patch)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditUpdateExpense, "expense", formatID(expenseID), c.ClientIP(),
		map[string]interface{}{"amount": expense.Amount, "category": expense.Category})

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// DeleteExpense removes an expense.
// @Summary     Delete an expense
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Expense ID"
// @Success     200 {object} MessageResponse "Expense deleted"
// @Failure     400 {object} ErrorResponse "Invalid expense ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     500 {object} ErrorResponse "Store error"
// @Router      /expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.ledgerService.DeleteExpense(c.Request.Context(), userID, expenseID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditDeleteExpense, "expense", formatID(expenseID), c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "Expense deleted successfully"})
}

func formatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
