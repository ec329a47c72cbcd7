package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"financebot/internal/models"
	"financebot/internal/services"
)

type mockDashboardService struct {
	composeDashboardFn func(userID uint, now time.Time) services.Dashboard
}

func (m *mockDashboardService) ComposeDashboard(_ context.Context, userID uint, now time.Time) services.Dashboard {
	if m.composeDashboardFn != nil {
		return m.composeDashboardFn(userID, now)
	}
	return services.Dashboard{}
}

var _ services.DashboardServicer = (*mockDashboardService)(nil)

var fixedNow = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

func setupStatsRouter(dashboard *mockDashboardService, reports *mockReportService) *gin.Engine {
	handler := NewStatsHandler(dashboard, reports)
	handler.now = func() time.Time { return fixedNow }

	r := gin.New()
	auth := r.Group("", injectUserID(1))
	auth.GET("/stats/dashboard", handler.GetDashboard)
	auth.GET("/stats/categories", handler.GetCategories)
	auth.GET("/stats/timeline", handler.GetTimeline)
	return r
}

func TestStatsHandler_GetDashboard(t *testing.T) {
	t.Run("uses the injected clock", func(t *testing.T) {
		var gotNow time.Time
		dashboard := &mockDashboardService{
			composeDashboardFn: func(_ uint, now time.Time) services.Dashboard {
				gotNow = now
				return services.Dashboard{
					TotalIncome:               500,
					TotalExpense:              150,
					Balance:                   350,
					TransactionCountThisMonth: 2,
					TopExpenseCategory:        &services.TopCategory{Label: "food", Amount: 150},
				}
			},
		}
		r := setupStatsRouter(dashboard, &mockReportService{})

		rec := doRequest(r, "GET", "/stats/dashboard", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !gotNow.Equal(fixedNow) {
			t.Errorf("expected injected now, got %v", gotNow)
		}
		stats := parseJSON(t, rec)["stats"].(map[string]interface{})
		if stats["balance"].(float64) != 350 {
			t.Errorf("expected balance 350, got %v", stats["balance"])
		}
		if stats["topIncomeCategory"] != nil {
			t.Errorf("expected null topIncomeCategory, got %v", stats["topIncomeCategory"])
		}
		top := stats["topExpenseCategory"].(map[string]interface{})
		if top["label"] != "food" {
			t.Errorf("expected food, got %v", top["label"])
		}
	})

	t.Run("zero dashboard keeps its shape", func(t *testing.T) {
		r := setupStatsRouter(&mockDashboardService{}, &mockReportService{})

		rec := doRequest(r, "GET", "/stats/dashboard", "")

		stats := parseJSON(t, rec)["stats"].(map[string]interface{})
		for _, key := range []string{"totalIncome", "totalExpense", "balance", "transactionCountThisMonth", "topExpenseCategory", "topIncomeCategory"} {
			if _, ok := stats[key]; !ok {
				t.Errorf("expected key %q in dashboard", key)
			}
		}
	})
}

func TestStatsHandler_GetCategories(t *testing.T) {
	t.Run("defaults to the expense stream over all history", func(t *testing.T) {
		var gotStream models.EntryKind
		var gotWindow *services.Window
		reports := &mockReportService{
			aggregateByCategoryFn: func(_ uint, window *services.Window, stream models.EntryKind) []services.CategoryTotal {
				gotStream, gotWindow = stream, window
				return []services.CategoryTotal{{Label: "food", Total: 150, TransactionCount: 2, PercentOfTotal: 100, Color: "hsl(0, 70%, 50%)"}}
			},
		}
		r := setupStatsRouter(&mockDashboardService{}, reports)

		rec := doRequest(r, "GET", "/stats/categories", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotStream != models.EntryKindExpense || gotWindow != nil {
			t.Errorf("unexpected stream %q window %v", gotStream, gotWindow)
		}
		stats := parseJSON(t, rec)["categoryStats"].([]interface{})
		if stats[0].(map[string]interface{})["color"] != "hsl(0, 70%, 50%)" {
			t.Errorf("unexpected entry %v", stats[0])
		}
	})

	t.Run("passes stream and window", func(t *testing.T) {
		var gotStream models.EntryKind
		var gotWindow *services.Window
		reports := &mockReportService{
			aggregateByCategoryFn: func(_ uint, window *services.Window, stream models.EntryKind) []services.CategoryTotal {
				gotStream, gotWindow = stream, window
				return nil
			},
		}
		r := setupStatsRouter(&mockDashboardService{}, reports)

		rec := doRequest(r, "GET", "/stats/categories?stream=income&dateFrom=2024-03-01&dateTo=2024-03-31", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotStream != models.EntryKindIncome {
			t.Errorf("expected income stream, got %q", gotStream)
		}
		if gotWindow == nil || !gotWindow.Start.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) ||
			!gotWindow.End.Equal(time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("unexpected window %+v", gotWindow)
		}
	})

	t.Run("rejects bad input", func(t *testing.T) {
		r := setupStatsRouter(&mockDashboardService{}, &mockReportService{})

		for _, path := range []string{
			"/stats/categories?stream=transfer",
			"/stats/categories?dateFrom=2024-03-01",
			"/stats/categories?dateFrom=2024-03-10&dateTo=2024-03-01",
			"/stats/categories?dateFrom=march&dateTo=2024-03-01",
		} {
			rec := doRequest(r, "GET", path, "")
			if rec.Code != http.StatusBadRequest {
				t.Errorf("%s: expected 400, got %d", path, rec.Code)
				continue
			}
			assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
		}
	})
}

func TestStatsHandler_GetTimeline(t *testing.T) {
	t.Run("days uses the injected clock", func(t *testing.T) {
		var gotDays int
		var gotNow time.Time
		reports := &mockReportService{
			timelineFn: func(_ uint, days int, now time.Time) []services.DayTotal {
				gotDays, gotNow = days, now
				return []services.DayTotal{{Date: "2024-03-08"}}
			},
		}
		r := setupStatsRouter(&mockDashboardService{}, reports)

		rec := doRequest(r, "GET", "/stats/timeline?days=7", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotDays != 7 || !gotNow.Equal(fixedNow) {
			t.Errorf("unexpected days %d now %v", gotDays, gotNow)
		}
		timeline := parseJSON(t, rec)["timeline"].([]interface{})
		if len(timeline) != 1 {
			t.Errorf("expected 1 day, got %d", len(timeline))
		}
	})

	t.Run("omitted days is left to the service default", func(t *testing.T) {
		gotDays := -1
		reports := &mockReportService{
			timelineFn: func(_ uint, days int, _ time.Time) []services.DayTotal {
				gotDays = days
				return nil
			},
		}
		r := setupStatsRouter(&mockDashboardService{}, reports)

		doRequest(r, "GET", "/stats/timeline", "")

		if gotDays != 0 {
			t.Errorf("expected 0, got %d", gotDays)
		}
	})

	t.Run("explicit range aggregates by day", func(t *testing.T) {
		var gotWindow services.Window
		reports := &mockReportService{
			aggregateByDayFn: func(_ uint, window services.Window) []services.DayTotal {
				gotWindow = window
				return []services.DayTotal{}
			},
		}
		r := setupStatsRouter(&mockDashboardService{}, reports)

		rec := doRequest(r, "GET", "/stats/timeline?dateFrom=2024-03-01&dateTo=2024-03-10", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !gotWindow.Start.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("unexpected window %+v", gotWindow)
		}
	})

	t.Run("rejects oversized ranges", func(t *testing.T) {
		r := setupStatsRouter(&mockDashboardService{}, &mockReportService{})

		for _, path := range []string{
			"/stats/timeline?days=5000",
			"/stats/timeline?days=-1",
			"/stats/timeline?days=abc",
			"/stats/timeline?dateFrom=2020-01-01&dateTo=2024-01-01",
		} {
			rec := doRequest(r, "GET", path, "")
			if rec.Code != http.StatusBadRequest {
				t.Errorf("%s: expected 400, got %d", path, rec.Code)
			}
		}
	})
}
