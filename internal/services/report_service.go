package services

import (
	"context"
	"fmt"
	"time"

	"financebot/internal/logger"
	"financebot/internal/models"
	"financebot/internal/store"
)

const (
	dateLayout          = "2006-01-02"
	defaultTimelineDays = 30
)

// reportService computes bucketed sums over a time window.
type reportService struct {
	store store.LedgerReader
	now   func() time.Time
}

// NewReportService creates a new ReportServicer.
func NewReportService(st store.LedgerReader) ReportServicer {
	return &reportService{store: st, now: time.Now}
}

// dayOf returns midnight UTC of t's calendar day.
func dayOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// days returns the first and last calendar day of the window.
func (w Window) days() (time.Time, time.Time) {
	return dayOf(w.Start), dayOf(w.End)
}

// bounds returns the first and last instant covered by the window.
func (w Window) bounds() (time.Time, time.Time) {
	start, end := w.days()
	return start, end.AddDate(0, 0, 1).Add(-time.Nanosecond)
}

func (w Window) filter(userID uint) store.Filter {
	from, to := w.bounds()
	return store.Filter{UserID: userID, From: &from, To: &to}
}

// MonthWindow returns the window covering one calendar month.
func MonthWindow(month, year int) Window {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return Window{Start: start, End: start.AddDate(0, 1, -1)}
}

func categoryColor(index int) string {
	return fmt.Sprintf("hsl(%d, 70%%, 50%%)", (index*45)%360)
}

// AggregateByCategory groups one stream by its label, largest total first.
// The expense stream is used unless stream names the income stream.
func (s *reportService) AggregateByCategory(ctx context.Context, userID uint, window *Window, stream models.EntryKind) []CategoryTotal {
	if !stream.Valid() {
		stream = models.EntryKindExpense
	}
	f := store.Filter{UserID: userID}
	if window != nil {
		f = window.filter(userID)
	}

	rows, err := s.store.GroupByLabel(ctx, stream, f, 0)
	if err != nil {
		logger.Named("reports").Warnw("failed to group ledger by category",
			"error", err,
			"user_id", userID,
			"stream", stream,
		)
		return []CategoryTotal{}
	}

	var grand money
	for _, r := range rows {
		grand.add(r.Total)
	}

	totals := make([]CategoryTotal, 0, len(rows))
	for i, r := range rows {
		totals = append(totals, CategoryTotal{
			Label:            r.Label,
			Total:            round2(r.Total),
			TransactionCount: r.Count,
			PercentOfTotal:   percentOf(r.Total, grand.float()),
			Color:            categoryColor(i),
		})
	}
	return totals
}

// AggregateByDay returns one entry per calendar day of the window, including
// days without records.
func (s *reportService) AggregateByDay(ctx context.Context, userID uint, window Window) []DayTotal {
	start, end := window.days()
	if end.Before(start) {
		return []DayTotal{}
	}
	f := window.filter(userID)

	expenseRows, err := s.store.GroupByDate(ctx, models.EntryKindExpense, f)
	if err != nil {
		logger.Named("reports").Warnw("failed to group expenses by day", "error", err, "user_id", userID)
		return walkDays(start, end, nil, nil)
	}
	incomeRows, err := s.store.GroupByDate(ctx, models.EntryKindIncome, f)
	if err != nil {
		logger.Named("reports").Warnw("failed to group incomes by day", "error", err, "user_id", userID)
		return walkDays(start, end, nil, nil)
	}

	return walkDays(start, end, foldByDay(expenseRows), foldByDay(incomeRows))
}

// foldByDay sums rows sharing a calendar day. Only the date portion of each
// timestamp is compared.
func foldByDay(rows []store.DateTotal) map[string]*money {
	byDay := make(map[string]*money, len(rows))
	for _, r := range rows {
		key := dayOf(r.Date).Format(dateLayout)
		m, ok := byDay[key]
		if !ok {
			m = &money{}
			byDay[key] = m
		}
		m.add(r.Total)
	}
	return byDay
}

func walkDays(start, end time.Time, expenses, incomes map[string]*money) []DayTotal {
	var out []DayTotal
	var running money
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := d.Format(dateLayout)
		var spent, earned money
		if m, ok := expenses[key]; ok {
			spent = *m
		}
		if m, ok := incomes[key]; ok {
			earned = *m
		}
		running.d = running.d.Add(earned.d).Sub(spent.d)
		out = append(out, DayTotal{
			Date:           key,
			ExpenseTotal:   spent.float(),
			IncomeTotal:    earned.float(),
			Balance:        earned.minus(spent),
			RunningBalance: running.float(),
		})
	}
	return out
}

// Timeline aggregates the last days calendar days up to and including now.
func (s *reportService) Timeline(ctx context.Context, userID uint, days int, now time.Time) []DayTotal {
	if days <= 0 {
		days = defaultTimelineDays
	}
	return s.AggregateByDay(ctx, userID, Window{Start: now.AddDate(0, 0, -days), End: now})
}

// MonthlySummary totals one calendar month. Zero month or year selects the
// current one.
func (s *reportService) MonthlySummary(ctx context.Context, userID uint, month, year int) MonthlySummary {
	now := s.now().UTC()
	if month < 1 || month > 12 {
		month = int(now.Month())
	}
	if year <= 0 {
		year = now.Year()
	}
	window := MonthWindow(month, year)
	start, end := window.days()
	summary := MonthlySummary{
		PeriodStart:       start.Format(dateLayout),
		PeriodEnd:         end.Format(dateLayout),
		ExpenseByCategory: map[string]float64{},
	}

	f := window.filter(userID)
	totalExpense, err := s.store.Sum(ctx, models.EntryKindExpense, f)
	if err != nil {
		return s.degradedSummary(summary, err, userID)
	}
	totalIncome, err := s.store.Sum(ctx, models.EntryKindIncome, f)
	if err != nil {
		return s.degradedSummary(summary, err, userID)
	}
	countExpense, err := s.store.Count(ctx, models.EntryKindExpense, f)
	if err != nil {
		return s.degradedSummary(summary, err, userID)
	}
	countIncome, err := s.store.Count(ctx, models.EntryKindIncome, f)
	if err != nil {
		return s.degradedSummary(summary, err, userID)
	}
	byCategory, err := s.store.GroupByLabel(ctx, models.EntryKindExpense, f, 0)
	if err != nil {
		return s.degradedSummary(summary, err, userID)
	}

	var spent, earned money
	spent.add(totalExpense)
	earned.add(totalIncome)
	summary.TotalExpense = spent.float()
	summary.TotalIncome = earned.float()
	summary.Balance = earned.minus(spent)
	summary.CountExpense = countExpense
	summary.CountIncome = countIncome
	for _, r := range byCategory {
		summary.ExpenseByCategory[r.Label] = round2(r.Total)
	}
	return summary
}

func (s *reportService) degradedSummary(summary MonthlySummary, err error, userID uint) MonthlySummary {
	logger.Named("reports").Warnw("failed to build monthly summary",
		"error", err,
		"user_id", userID,
		"period_start", summary.PeriodStart,
	)
	return summary
}
