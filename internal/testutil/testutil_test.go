package testutil_test

import (
	"testing"
	"time"

	"financebot/internal/errors"
	"financebot/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	var count int64
	for _, table := range []string{"users", "authorized_numbers", "expenses", "incomes", "budgets", "goals", "audit_logs"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestSetupTestDB_Isolated(t *testing.T) {
	first := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, first)
	second := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, second)

	testutil.CreateTestUser(t, first)

	var count int64
	second.Table("users").Count(&count)
	if count != 0 {
		t.Errorf("expected databases to be isolated, found %d users", count)
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	if user.ID == 0 {
		t.Fatal("user should have a non-zero ID")
	}

	expense := testutil.CreateTestExpense(t, db, user.ID, 12.5, "food", testutil.Day(2025, time.March, 1))
	if expense.ID == 0 || expense.Amount != 12.5 {
		t.Errorf("unexpected expense fixture: %+v", expense)
	}

	income := testutil.CreateTestIncome(t, db, user.ID, 500, "salary", testutil.Day(2025, time.March, 1))
	if income.Description != "salary" {
		t.Errorf("expected salary, got %s", income.Description)
	}

	budget := testutil.CreateTestBudget(t, db, user.ID, "food", 3, 2025)
	if budget.ID == "" {
		t.Error("budget should get a generated id")
	}

	goal := testutil.CreateTestGoal(t, db, user.ID)
	if !goal.Active || goal.Completed {
		t.Errorf("expected a fresh goal to be active and not completed, got %+v", goal)
	}
}

func TestAssertAppError(t *testing.T) {
	err := errors.WithMessage(errors.ErrBudgetNotFound, "custom message")
	testutil.AssertAppError(t, err, "BUDGET_NOT_FOUND")
}

func TestAssertNoError(t *testing.T) {
	testutil.AssertNoError(t, nil)
}
