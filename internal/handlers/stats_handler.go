package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "financebot/internal/errors"
	"financebot/internal/models"
	"financebot/internal/services"
)

// maxTimelineDays bounds the length of a day series.
const maxTimelineDays = 366

// StatsHandler serves the dashboard and the period aggregations.
type StatsHandler struct {
	dashboardService services.DashboardServicer
	reportService    services.ReportServicer
	now              func() time.Time
}

// NewStatsHandler creates a new StatsHandler reading the wall clock.
func NewStatsHandler(dashboardService services.DashboardServicer, reportService services.ReportServicer) *StatsHandler {
	return &StatsHandler{dashboardService: dashboardService, reportService: reportService, now: time.Now}
}

// CategoryQuery holds the query parameters of the category breakdown.
type CategoryQuery struct {
	Stream string `form:"stream" binding:"omitempty,stream"`
}

// GetDashboard returns the home-screen summary.
// @Summary     Dashboard
// @Description Lifetime totals and top categories, with the number of records this month
// @Tags        stats
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.Dashboard
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /stats/dashboard [get]
func (h *StatsHandler) GetDashboard(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	dashboard := h.dashboardService.ComposeDashboard(c.Request.Context(), userID, h.now())
	c.JSON(http.StatusOK, gin.H{"stats": dashboard})
}

// GetCategories groups one stream by category.
// @Summary     Category breakdown
// @Description Totals per label, largest first. Without dates the whole history is used.
// @Tags        stats
// @Produce     json
// @Security    BearerAuth
// @Param       stream   query string false "expense (default) or income"
// @Param       dateFrom query string false "First day (YYYY-MM-DD)"
// @Param       dateTo   query string false "Last day (YYYY-MM-DD)"
// @Success     200 {array}  services.CategoryTotal
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /stats/categories [get]
func (h *StatsHandler) GetCategories(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query CategoryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		bindError(c, err)
		return
	}

	window, err := parseWindow(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	stream := models.EntryKindExpense
	if query.Stream != "" {
		stream = models.EntryKind(query.Stream)
	}

	totals := h.reportService.AggregateByCategory(c.Request.Context(), userID, window, stream)
	c.JSON(http.StatusOK, gin.H{"categoryStats": totals})
}

// GetTimeline returns one entry per calendar day.
// @Summary     Daily timeline
// @Description Either the last `days` days (default 30) or the inclusive range dateFrom..dateTo
// @Tags        stats
// @Produce     json
// @Security    BearerAuth
// @Param       days     query int    false "Number of days back from today"
// @Param       dateFrom query string false "First day (YYYY-MM-DD)"
// @Param       dateTo   query string false "Last day (YYYY-MM-DD)"
// @Success     200 {array}  services.DayTotal
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /stats/timeline [get]
func (h *StatsHandler) GetTimeline(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	window, err := parseWindow(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if window != nil {
		if window.End.Sub(window.Start) > maxTimelineDays*24*time.Hour {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput,
				"date range must not exceed "+strconv.Itoa(maxTimelineDays)+" days"))
			return
		}
		days := h.reportService.AggregateByDay(c.Request.Context(), userID, *window)
		c.JSON(http.StatusOK, gin.H{"timeline": days})
		return
	}

	days, err := queryInt(c, "days")
	if err != nil {
		respondWithError(c, err)
		return
	}
	if days < 0 || days > maxTimelineDays {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput,
			"days must be between 0 and "+strconv.Itoa(maxTimelineDays)))
		return
	}

	timeline := h.reportService.Timeline(c.Request.Context(), userID, days, h.now())
	c.JSON(http.StatusOK, gin.H{"timeline": timeline})
}

// parseWindow returns nil when neither bound is given. A single bound is
// rejected.
func parseWindow(c *gin.Context) (*services.Window, error) {
	from, to := c.Query("dateFrom"), c.Query("dateTo")
	if from == "" && to == "" {
		return nil, nil
	}
	if from == "" || to == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "dateFrom and dateTo must be given together")
	}

	start, err := parseFlexibleTime(from)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid dateFrom format, use RFC3339 or YYYY-MM-DD")
	}
	end, err := parseFlexibleTime(to)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid dateTo format, use RFC3339 or YYYY-MM-DD")
	}
	if end.Before(start) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "dateTo must not be before dateFrom")
	}
	return &services.Window{Start: start, End: end}, nil
}
