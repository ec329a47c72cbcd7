package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"financebot/internal/models"
	"financebot/internal/pagination"
	"financebot/internal/testutil"
)

func setup(t *testing.T) (*GormStore, *models.User) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })
	return NewGormStore(db), testutil.CreateTestUser(t, db)
}

func timePtr(t time.Time) *time.Time { return &t }

func TestGormStore_ListExpenses_NewestFirstAndScoped(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	s := NewGormStore(db)
	ctx := context.Background()

	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)
	testutil.CreateTestExpense(t, db, user.ID, 10, "food", testutil.Day(2025, time.March, 1))
	testutil.CreateTestExpense(t, db, user.ID, 20, "rent", testutil.Day(2025, time.March, 5))
	testutil.CreateTestExpense(t, db, other.ID, 99, "food", testutil.Day(2025, time.March, 3))

	got, err := s.ListExpenses(ctx, Filter{UserID: user.ID}, pagination.PageRequest{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 expenses, got %d", len(got))
	}
	if got[0].Category != "rent" || got[1].Category != "food" {
		t.Errorf("expected newest first, got %s then %s", got[0].Category, got[1].Category)
	}
}

func TestGormStore_ListIncomes_Paginates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	s := NewGormStore(db)
	ctx := context.Background()

	user := testutil.CreateTestUser(t, db)
	for day := 1; day <= 5; day++ {
		testutil.CreateTestIncome(t, db, user.ID, float64(day), "salary", testutil.Day(2025, time.March, day))
	}

	got, err := s.ListIncomes(ctx, Filter{UserID: user.ID}, pagination.PageRequest{Page: 2, PageSize: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 incomes, got %d", len(got))
	}
	if got[0].Amount != 3 || got[1].Amount != 2 {
		t.Errorf("expected amounts 3 and 2 on page 2, got %v and %v", got[0].Amount, got[1].Amount)
	}
}

func TestGormStore_Filter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	s := NewGormStore(db)
	ctx := context.Background()

	user := testutil.CreateTestUser(t, db)
	testutil.CreateTestExpense(t, db, user.ID, 10, "Food", testutil.Day(2025, time.February, 28))
	testutil.CreateTestExpense(t, db, user.ID, 20, "fast food", testutil.Day(2025, time.March, 2))
	testutil.CreateTestExpense(t, db, user.ID, 30, "rent", testutil.Day(2025, time.March, 3))
	testutil.CreateTestExpense(t, db, user.ID, 40, "100%_off", testutil.Day(2025, time.March, 4))

	tests := []struct {
		name   string
		filter Filter
		want   int64
	}{
		{"all", Filter{UserID: user.ID}, 4},
		{"date range", Filter{UserID: user.ID, From: timePtr(testutil.Day(2025, time.March, 1)), To: timePtr(testutil.Day(2025, time.March, 3))}, 2},
		{"contains case-insensitive", Filter{UserID: user.ID, LabelContains: "FOOD"}, 2},
		{"equals case-insensitive", Filter{UserID: user.ID, LabelEquals: "food"}, 1},
		{"wildcards are literal", Filter{UserID: user.ID, LabelContains: "%_"}, 1},
		{"other user", Filter{UserID: user.ID + 1000}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Count(ctx, models.EntryKindExpense, tt.filter)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestGormStore_Sum(t *testing.T) {
	s, user := setup(t)
	ctx := context.Background()

	empty, err := s.Sum(ctx, models.EntryKindIncome, Filter{UserID: user.ID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if empty != 0 {
		t.Errorf("expected 0 for no rows, got %v", empty)
	}

	for _, amount := range []float64{10.25, 20.5} {
		if err := s.CreateIncome(ctx, &models.Income{UserID: user.ID, Amount: amount, Description: "x", OccurredAt: time.Now()}); err != nil {
			t.Fatalf("create income: %v", err)
		}
	}
	total, err := s.Sum(ctx, models.EntryKindIncome, Filter{UserID: user.ID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 30.75 {
		t.Errorf("expected 30.75, got %v", total)
	}
}

func TestGormStore_GroupByLabel(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	s := NewGormStore(db)
	ctx := context.Background()

	user := testutil.CreateTestUser(t, db)
	at := testutil.Day(2025, time.March, 1)
	testutil.CreateTestExpense(t, db, user.ID, 30, "food", at)
	testutil.CreateTestExpense(t, db, user.ID, 20, "food", at)
	testutil.CreateTestExpense(t, db, user.ID, 70, "rent", at)
	testutil.CreateTestExpense(t, db, user.ID, 5, "fun", at)

	rows, err := s.GroupByLabel(ctx, models.EntryKindExpense, Filter{UserID: user.ID}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(rows))
	}
	if rows[0].Label != "rent" || rows[0].Total != 70 || rows[0].Count != 1 {
		t.Errorf("unexpected first row: %+v", rows[0])
	}
	if rows[1].Label != "food" || rows[1].Total != 50 || rows[1].Count != 2 {
		t.Errorf("unexpected second row: %+v", rows[1])
	}

	top, err := s.GroupByLabel(ctx, models.EntryKindExpense, Filter{UserID: user.ID}, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(top) != 1 || top[0].Label != "rent" {
		t.Errorf("expected only rent, got %+v", top)
	}
}

func TestGormStore_GroupByDate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	s := NewGormStore(db)
	ctx := context.Background()

	user := testutil.CreateTestUser(t, db)
	testutil.CreateTestIncome(t, db, user.ID, 100, "salary", testutil.Day(2025, time.March, 2))
	testutil.CreateTestIncome(t, db, user.ID, 50, "bonus", testutil.Day(2025, time.March, 2))
	testutil.CreateTestIncome(t, db, user.ID, 10, "gift", testutil.Day(2025, time.March, 1))

	rows, err := s.GroupByDate(ctx, models.EntryKindIncome, Filter{UserID: user.ID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Total != 10 || rows[1].Total != 150 {
		t.Errorf("expected totals 10 then 150, got %v then %v", rows[0].Total, rows[1].Total)
	}
}

func TestGormStore_ExpenseLifecycle(t *testing.T) {
	s, user := setup(t)
	ctx := context.Background()

	expense := &models.Expense{UserID: user.ID, Amount: 12, Category: "food", OccurredAt: testutil.Day(2025, time.March, 1)}
	if err := s.CreateExpense(ctx, expense); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := s.GetExpense(ctx, user.ID+1, expense.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for another owner, got %v", err)
	}

	expense.Amount = 0
	expense.Category = "groceries"
	if err := s.UpdateExpense(ctx, expense, []string{"Category"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := s.GetExpense(ctx, user.ID, expense.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Category != "groceries" || got.Amount != 12 {
		t.Errorf("expected only the category to change, got %+v", got)
	}

	if err := s.DeleteExpense(ctx, user.ID+1, expense.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting another owner's expense, got %v", err)
	}
	if err := s.DeleteExpense(ctx, user.ID, expense.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetExpense(ctx, user.ID, expense.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.DeleteExpense(ctx, user.ID, expense.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestGormStore_IncomeUpdate_OtherOwner(t *testing.T) {
	s, user := setup(t)
	ctx := context.Background()

	income := &models.Income{UserID: user.ID, Amount: 10, Description: "gift", OccurredAt: time.Now()}
	if err := s.CreateIncome(ctx, income); err != nil {
		t.Fatalf("create: %v", err)
	}

	stolen := *income
	stolen.UserID = user.ID + 1
	stolen.Amount = 999
	if err := s.UpdateIncome(ctx, &stolen, []string{"Amount"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGormStore_Budgets(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	s := NewGormStore(db)
	ctx := context.Background()

	user := testutil.CreateTestUser(t, db)
	march := testutil.CreateTestBudget(t, db, user.ID, "food", 3, 2025)
	testutil.CreateTestBudget(t, db, user.ID, "rent", 4, 2025)
	testutil.CreateTestBudget(t, db, user.ID, "food", 3, 2024)

	all, err := s.ListBudgets(ctx, user.ID, nil, nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 || all[0].Month != 4 || all[2].Year != 2024 {
		t.Errorf("expected most recent period first, got %+v", all)
	}

	month, year := 3, 2025
	filtered, err := s.ListBudgets(ctx, user.ID, &month, &year)
	if err != nil {
		t.Fatalf("list filtered: %v", err)
	}
	if len(filtered) != 1 || filtered[0].ID != march.ID {
		t.Errorf("expected only the March 2025 budget, got %+v", filtered)
	}

	march.CurrentSpend = 0
	march.LimitAmount = 250
	if err := s.UpdateBudget(ctx, march, []string{"LimitAmount"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := s.GetBudget(ctx, user.ID, march.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.LimitAmount != 250 {
		t.Errorf("expected limit 250, got %v", got.LimitAmount)
	}

	if err := s.DeleteBudget(ctx, user.ID, march.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetBudget(ctx, user.ID, march.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestGormStore_Goals(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	s := NewGormStore(db)
	ctx := context.Background()

	user := testutil.CreateTestUser(t, db)
	goal := testutil.CreateTestGoal(t, db, user.ID)

	goals, err := s.ListGoals(ctx, user.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(goals) != 1 {
		t.Fatalf("expected one goal, got %d", len(goals))
	}

	goal.Completed = true
	goal.Active = false
	if err := s.UpdateGoal(ctx, goal, []string{"Active", "Completed"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := s.GetGoal(ctx, user.ID, goal.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Active || !got.Completed {
		t.Errorf("expected inactive completed goal, got %+v", got)
	}

	if err := s.DeleteGoal(ctx, user.ID+1, goal.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for another owner, got %v", err)
	}
}

func TestGormStore_UnknownKind(t *testing.T) {
	s, user := setup(t)
	if _, err := s.Count(context.Background(), models.EntryKind("transfer"), Filter{UserID: user.ID}); err == nil {
		t.Error("expected an error for an unknown stream")
	}
}
