package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "financebot/internal/errors"
	"financebot/internal/pagination"
	"financebot/internal/services"
)

// TransactionHandler serves the unified ledger view and its monthly summary.
type TransactionHandler struct {
	ledgerService services.LedgerServicer
	reportService services.ReportServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(ledgerService services.LedgerServicer, reportService services.ReportServicer) *TransactionHandler {
	return &TransactionHandler{ledgerService: ledgerService, reportService: reportService}
}

// ListTransactions returns expenses and incomes merged into one list
// @Summary     List transactions
// @Description Merge a page of expenses and a page of incomes, newest first, with totals over the returned records
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       dateFrom query string false "Inclusive lower bound (YYYY-MM-DD or RFC3339)"
// @Param       dateTo   query string false "Inclusive upper bound (YYYY-MM-DD or RFC3339)"
// @Param       category query string false "Case-insensitive substring of the category or description"
// @Param       page     query int    false "Page number (default 1)"
// @Param       pageSize query int    false "Records per stream (default 50, max 100)"
// @Success     200 {object} services.TransactionList
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /transactions [get]
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
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

	c.JSON(http.StatusOK, h.ledgerService.ListTransactions(c.Request.Context(), userID, filter))
}

// GetMonthlyStats returns the totals of one calendar month
// @Summary     Monthly statistics
// @Description Totals, counts and expense-by-category of a month (current month by default)
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       month query int false "Month 1-12"
// @Param       year  query int false "Year"
// @Success     200 {object} services.MonthlySummary
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /transactions/stats [get]
func (h *TransactionHandler) GetMonthlyStats(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	month, err := queryInt(c, "month")
	if err != nil {
		respondWithError(c, err)
		return
	}
	year, err := queryInt(c, "year")
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary := h.reportService.MonthlySummary(c.Request.Context(), userID, month, year)
	c.JSON(http.StatusOK, gin.H{"stats": summary})
}

// parseTransactionFilter reads the shared ledger query parameters.
func parseTransactionFilter(c *gin.Context) (services.TransactionFilter, error) {
	var filter services.TransactionFilter

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}
	filter.Page = page.Page
	filter.PageSize = page.PageSize

	if v := c.Query("dateFrom"); v != "" {
		t, err := parseFlexibleTime(v)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid dateFrom format, use RFC3339 or YYYY-MM-DD")
		}
		filter.DateFrom = &t
	}

	if v := c.Query("dateTo"); v != "" {
		t, err := parseUpperBound(v)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid dateTo format, use RFC3339 or YYYY-MM-DD")
		}
		filter.DateTo = &t
	}

	filter.Category = strings.TrimSpace(c.Query("category"))
	return filter, nil
}

// queryInt returns 0 when the parameter is absent.
func queryInt(c *gin.Context, name string) (int, error) {
	v := c.Query(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid "+name)
	}
	return n, nil
}

func optionalQueryInt(c *gin.Context, name string) (*int, error) {
	if c.Query(name) == "" {
		return nil, nil
	}
	n, err := queryInt(c, name)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
