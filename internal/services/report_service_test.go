package services

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"financebot/internal/models"
	"financebot/internal/store"
	"financebot/internal/testutil"
)

func seedScenario(t *testing.T) (ReportServicer, *models.User, time.Time, time.Time) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })
	user := testutil.CreateTestUser(t, db)

	day1 := testutil.Day(2025, time.March, 1)
	day2 := testutil.Day(2025, time.March, 2)
	testutil.CreateTestExpense(t, db, user.ID, 100, "food", day1)
	testutil.CreateTestExpense(t, db, user.ID, 50, "food", day2)
	testutil.CreateTestIncome(t, db, user.ID, 500, "salary", day1)
	return NewReportService(store.NewGormStore(db)), user, day1, day2
}

func TestAggregateByCategory_Scenario(t *testing.T) {
	svc, user, day1, day2 := seedScenario(t)

	totals := svc.AggregateByCategory(context.Background(), user.ID, &Window{Start: day1, End: day2}, models.EntryKindExpense)

	require.Len(t, totals, 1)
	assert.Equal(t, "food", totals[0].Label)
	assert.Equal(t, 150.0, totals[0].Total)
	assert.EqualValues(t, 2, totals[0].TransactionCount)
	assert.Equal(t, 100.0, totals[0].PercentOfTotal)
	assert.Equal(t, "hsl(0, 70%, 50%)", totals[0].Color)
}

func TestAggregateByCategory_IncomeStream(t *testing.T) {
	svc, user, _, _ := seedScenario(t)

	totals := svc.AggregateByCategory(context.Background(), user.ID, nil, models.EntryKindIncome)

	require.Len(t, totals, 1)
	assert.Equal(t, "salary", totals[0].Label)
	assert.Equal(t, 500.0, totals[0].Total)
}

func TestAggregateByCategory_Percentages(t *testing.T) {
	st := &stubStore{groups: map[models.EntryKind][]store.LabelTotal{
		models.EntryKindExpense: {
			{Label: "rent", Total: 70, Count: 1},
			{Label: "food", Total: 20, Count: 4},
			{Label: "fun", Total: 10, Count: 2},
		},
	}}
	svc := NewReportService(st)

	totals := svc.AggregateByCategory(context.Background(), 1, nil, "")

	require.Len(t, totals, 3)
	var sum float64
	for i, c := range totals {
		sum += c.PercentOfTotal
		if i > 0 {
			assert.GreaterOrEqual(t, totals[i-1].Total, c.Total)
		}
	}
	assert.InDelta(t, 100, sum, 1e-9)
	assert.Equal(t, "hsl(45, 70%, 50%)", totals[1].Color)
	assert.Equal(t, "hsl(90, 70%, 50%)", totals[2].Color)
}

func TestAggregateByCategory_ZeroTotal(t *testing.T) {
	st := &stubStore{groups: map[models.EntryKind][]store.LabelTotal{
		models.EntryKindExpense: {{Label: "food", Total: 0, Count: 1}, {Label: "rent", Total: 0, Count: 1}},
	}}
	svc := NewReportService(st)

	for _, c := range svc.AggregateByCategory(context.Background(), 1, nil, models.EntryKindExpense) {
		assert.Zero(t, c.PercentOfTotal)
	}
}

func TestAggregateByCategory_StoreFailure(t *testing.T) {
	svc := NewReportService(&stubStore{err: errors.New("timeout")})

	totals := svc.AggregateByCategory(context.Background(), 1, nil, models.EntryKindExpense)

	assert.NotNil(t, totals)
	assert.Empty(t, totals)
}

func TestAggregateByDay_WalksEveryDay(t *testing.T) {
	svc, user, day1, _ := seedScenario(t)
	end := testutil.Day(2025, time.March, 10)

	days := svc.AggregateByDay(context.Background(), user.ID, Window{Start: day1, End: end})

	require.Len(t, days, 10)
	assert.Equal(t, "2025-03-01", days[0].Date)
	assert.Equal(t, "2025-03-10", days[9].Date)
	assert.Equal(t, DayTotal{Date: "2025-03-01", ExpenseTotal: 100, IncomeTotal: 500, Balance: 400, RunningBalance: 400}, days[0])
	assert.Equal(t, DayTotal{Date: "2025-03-02", ExpenseTotal: 50, IncomeTotal: 0, Balance: -50, RunningBalance: 350}, days[1])
	for _, d := range days[2:] {
		assert.Zero(t, d.ExpenseTotal)
		assert.Zero(t, d.IncomeTotal)
		assert.Equal(t, 350.0, d.RunningBalance)
	}
}

func TestAggregateByDay_FoldsSameDay(t *testing.T) {
	day := testutil.Day(2025, time.March, 1)
	st := &stubStore{dates: map[models.EntryKind][]store.DateTotal{
		models.EntryKindExpense: {
			{Date: day.Add(9 * time.Hour), Total: 10},
			{Date: day.Add(18 * time.Hour), Total: 5.5},
		},
	}}
	svc := NewReportService(st)

	days := svc.AggregateByDay(context.Background(), 1, Window{Start: day, End: day.Add(20 * time.Hour)})

	require.Len(t, days, 1)
	assert.Equal(t, 15.5, days[0].ExpenseTotal)
	assert.Equal(t, -15.5, days[0].Balance)
}

func TestAggregateByDay_EntryCount(t *testing.T) {
	svc := NewReportService(&stubStore{})
	start := testutil.Day(2024, time.February, 25)

	for _, span := range []int{0, 1, 4, 30, 365} {
		end := start.AddDate(0, 0, span)
		days := svc.AggregateByDay(context.Background(), 1, Window{Start: start.Add(13 * time.Hour), End: end.Add(2 * time.Hour)})
		assert.Len(t, days, span+1, "span %d", span)
	}

	assert.Empty(t, svc.AggregateByDay(context.Background(), 1, Window{Start: start, End: start.AddDate(0, 0, -1)}))
}

func TestAggregateByDay_StoreFailure(t *testing.T) {
	svc := NewReportService(&stubStore{failOn: map[string]error{"GroupByDate": errors.New("down")}})
	start := testutil.Day(2025, time.March, 1)

	days := svc.AggregateByDay(context.Background(), 1, Window{Start: start, End: start.AddDate(0, 0, 2)})

	require.Len(t, days, 3)
	for _, d := range days {
		assert.Equal(t, DayTotal{Date: d.Date}, d)
	}
}

func TestTimeline(t *testing.T) {
	st := &stubStore{}
	svc := NewReportService(st)
	now := time.Date(2025, time.March, 31, 15, 0, 0, 0, time.UTC)

	days := svc.Timeline(context.Background(), 1, 7, now)
	require.Len(t, days, 8)
	assert.Equal(t, "2025-03-24", days[0].Date)
	assert.Equal(t, "2025-03-31", days[7].Date)

	assert.Len(t, svc.Timeline(context.Background(), 1, 0, now), defaultTimelineDays+1)
}

func TestMonthlySummary(t *testing.T) {
	svc, user, _, _ := seedScenario(t)

	summary := svc.MonthlySummary(context.Background(), user.ID, 3, 2025)

	assert.Equal(t, "2025-03-01", summary.PeriodStart)
	assert.Equal(t, "2025-03-31", summary.PeriodEnd)
	assert.Equal(t, 150.0, summary.TotalExpense)
	assert.Equal(t, 500.0, summary.TotalIncome)
	assert.Equal(t, 350.0, summary.Balance)
	assert.EqualValues(t, 2, summary.CountExpense)
	assert.EqualValues(t, 1, summary.CountIncome)
	assert.Equal(t, map[string]float64{"food": 150}, summary.ExpenseByCategory)

	empty := svc.MonthlySummary(context.Background(), user.ID, 4, 2025)
	assert.Equal(t, "2025-04-30", empty.PeriodEnd)
	assert.Zero(t, empty.TotalExpense)
	assert.Empty(t, empty.ExpenseByCategory)
}

func TestMonthlySummary_DefaultsToCurrentMonth(t *testing.T) {
	svc := &reportService{store: &stubStore{}, now: func() time.Time {
		return time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC)
	}}

	summary := svc.MonthlySummary(context.Background(), 1, 0, 0)

	assert.Equal(t, "2024-02-01", summary.PeriodStart)
	assert.Equal(t, "2024-02-29", summary.PeriodEnd)
}

func TestMonthlySummary_StoreFailure(t *testing.T) {
	svc := NewReportService(&stubStore{failOn: map[string]error{"Count": errors.New("down")}})

	summary := svc.MonthlySummary(context.Background(), 1, 3, 2025)

	assert.Zero(t, summary.TotalExpense)
	assert.NotNil(t, summary.ExpenseByCategory)
	assert.Equal(t, "2025-03-01", summary.PeriodStart)
}

func TestMoney(t *testing.T) {
	var m money
	for i := 0; i < 10; i++ {
		m.add(0.1)
	}
	assert.Equal(t, 1.0, m.float())
	assert.Equal(t, 0.3, round2(0.1+0.2))
	assert.Zero(t, percentOf(5, 0))
	assert.False(t, math.IsNaN(percentOf(0, 0)))
	assert.Equal(t, 25.0, percentOf(5, 20))
}
