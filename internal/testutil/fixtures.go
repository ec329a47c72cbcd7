package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"financebot/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// Day returns midnight UTC of the given date.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// CreateTestUser creates a user with a unique phone number.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return CreateTestUserWithPhone(t, db, fmt.Sprintf("5511%09d", nextID()))
}

// CreateTestUserWithPhone creates a user with the given phone number.
func CreateTestUserWithPhone(t *testing.T, db *gorm.DB, phone string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("placeholder"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash placeholder secret: %v", err)
	}

	user := &models.User{
		Phone:        phone,
		Name:         "Test User",
		Email:        fmt.Sprintf("user%d@test.com", nextID()),
		PasswordHash: string(hash),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestAuthorizedNumber allows a phone number to log in.
func CreateTestAuthorizedNumber(t *testing.T, db *gorm.DB, number string) *models.AuthorizedNumber {
	t.Helper()

	authorized := &models.AuthorizedNumber{Number: number}
	if err := db.Create(authorized).Error; err != nil {
		t.Fatalf("failed to create authorized number: %v", err)
	}
	return authorized
}

// CreateTestExpense records an expense for the user.
func CreateTestExpense(t *testing.T, db *gorm.DB, userID uint, amount float64, category string, at time.Time) *models.Expense {
	t.Helper()

	expense := &models.Expense{UserID: userID, Amount: amount, Category: category, OccurredAt: at}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}

// CreateTestIncome records an income for the user.
func CreateTestIncome(t *testing.T, db *gorm.DB, userID uint, amount float64, description string, at time.Time) *models.Income {
	t.Helper()

	income := &models.Income{UserID: userID, Amount: amount, Description: description, OccurredAt: at}
	if err := db.Create(income).Error; err != nil {
		t.Fatalf("failed to create test income: %v", err)
	}
	return income
}

// CreateTestBudget creates a budget for the given category and period.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID uint, category string, month, year int) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		UserID:      userID,
		Category:    category,
		LimitAmount: 100,
		Month:       month,
		Year:        year,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestGoal creates an active savings goal.
func CreateTestGoal(t *testing.T, db *gorm.DB, userID uint) *models.Goal {
	t.Helper()

	goal := &models.Goal{
		UserID:       userID,
		Name:         fmt.Sprintf("Test Goal %d", nextID()),
		TargetAmount: 1000,
		Category:     "savings",
		Deadline:     time.Now().AddDate(0, 6, 0).UTC().Truncate(24 * time.Hour),
		Kind:         "SAVINGS",
		Active:       true,
	}
	if err := db.Create(goal).Error; err != nil {
		t.Fatalf("failed to create test goal: %v", err)
	}
	return goal
}
