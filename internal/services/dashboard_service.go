package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"financebot/internal/logger"
	"financebot/internal/models"
	"financebot/internal/store"
)

// dashboardService assembles the dashboard summary.
type dashboardService struct {
	store store.LedgerReader
}

// NewDashboardService creates a new DashboardServicer.
func NewDashboardService(st store.LedgerReader) DashboardServicer {
	return &dashboardService{store: st}
}

// ComposeDashboard runs its sub-queries concurrently. Totals and top
// categories cover the user's whole history; the transaction count covers the
// calendar month of now. Any failure yields the zero dashboard.
func (s *dashboardService) ComposeDashboard(ctx context.Context, userID uint, now time.Time) Dashboard {
	now = now.UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0).Add(-time.Nanosecond)
	lifetime := store.Filter{UserID: userID}
	thisMonth := store.Filter{UserID: userID, From: &monthStart, To: &monthEnd}

	var (
		totalIncome, totalExpense float64
		countIncome, countExpense int64
		topIncome, topExpense     []store.LabelTotal
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		totalIncome, err = s.store.Sum(gctx, models.EntryKindIncome, lifetime)
		return err
	})
	g.Go(func() (err error) {
		totalExpense, err = s.store.Sum(gctx, models.EntryKindExpense, lifetime)
		return err
	})
	g.Go(func() (err error) {
		countIncome, err = s.store.Count(gctx, models.EntryKindIncome, thisMonth)
		return err
	})
	g.Go(func() (err error) {
		countExpense, err = s.store.Count(gctx, models.EntryKindExpense, thisMonth)
		return err
	})
	g.Go(func() (err error) {
		topIncome, err = s.store.GroupByLabel(gctx, models.EntryKindIncome, lifetime, 1)
		return err
	})
	g.Go(func() (err error) {
		topExpense, err = s.store.GroupByLabel(gctx, models.EntryKindExpense, lifetime, 1)
		return err
	})

	if err := g.Wait(); err != nil {
		logger.Named("reports").Warnw("failed to compose dashboard", "error", err, "user_id", userID)
		return Dashboard{}
	}

	var earned, spent money
	earned.add(totalIncome)
	spent.add(totalExpense)
	return Dashboard{
		TotalIncome:               earned.float(),
		TotalExpense:              spent.float(),
		Balance:                   earned.minus(spent),
		TransactionCountThisMonth: countIncome + countExpense,
		TopExpenseCategory:        topCategory(topExpense),
		TopIncomeCategory:         topCategory(topIncome),
	}
}

func topCategory(rows []store.LabelTotal) *TopCategory {
	if len(rows) == 0 {
		return nil
	}
	return &TopCategory{Label: rows[0].Label, Amount: round2(rows[0].Total)}
}
