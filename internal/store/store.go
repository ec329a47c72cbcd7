// Package store defines the Record Store capability consumed by the ledger,
// reporting and planning services, and its GORM implementation.
package store

import (
	"context"
	"errors"
	"time"

	"financebot/internal/models"
	"financebot/internal/pagination"
)

// ErrNotFound is returned when no row matches both the id and the owner.
var ErrNotFound = errors.New("record not found")

// Filter narrows a ledger query. UserID is always applied; the other fields
// only when set. From and To are inclusive.
type Filter struct {
	UserID        uint
	From          *time.Time
	To            *time.Time
	LabelContains string
	LabelEquals   string
}

// LabelTotal is one row of a group-by-label query.
type LabelTotal struct {
	Label string  `gorm:"column:label"`
	Total float64 `gorm:"column:total"`
	Count int64   `gorm:"column:entries"`
}

// DateTotal is one row of a group-by-date query. Rows are keyed by the stored
// timestamp, so several rows may fall on the same calendar day.
type DateTotal struct {
	Date  time.Time `gorm:"column:occurred_at"`
	Total float64   `gorm:"column:total"`
}

// LedgerReader exposes the read queries over both ledger streams.
type LedgerReader interface {
	ListExpenses(ctx context.Context, f Filter, page pagination.PageRequest) ([]models.Expense, error)
	ListIncomes(ctx context.Context, f Filter, page pagination.PageRequest) ([]models.Income, error)
	Count(ctx context.Context, kind models.EntryKind, f Filter) (int64, error)
	Sum(ctx context.Context, kind models.EntryKind, f Filter) (float64, error)
	// GroupByLabel orders rows by total descending. limit <= 0 returns all rows.
	GroupByLabel(ctx context.Context, kind models.EntryKind, f Filter, limit int) ([]LabelTotal, error)
	GroupByDate(ctx context.Context, kind models.EntryKind, f Filter) ([]DateTotal, error)
}

// LedgerWriter exposes owner-scoped writes over both ledger streams.
type LedgerWriter interface {
	CreateExpense(ctx context.Context, e *models.Expense) error
	CreateIncome(ctx context.Context, i *models.Income) error
	GetExpense(ctx context.Context, userID, id uint) (*models.Expense, error)
	GetIncome(ctx context.Context, userID, id uint) (*models.Income, error)
	UpdateExpense(ctx context.Context, e *models.Expense, fields []string) error
	UpdateIncome(ctx context.Context, i *models.Income, fields []string) error
	DeleteExpense(ctx context.Context, userID, id uint) error
	DeleteIncome(ctx context.Context, userID, id uint) error
}

// BudgetStore persists budgets.
type BudgetStore interface {
	ListBudgets(ctx context.Context, userID uint, month, year *int) ([]models.Budget, error)
	CreateBudget(ctx context.Context, b *models.Budget) error
	GetBudget(ctx context.Context, userID uint, id string) (*models.Budget, error)
	UpdateBudget(ctx context.Context, b *models.Budget, fields []string) error
	DeleteBudget(ctx context.Context, userID uint, id string) error
}

// GoalStore persists goals.
type GoalStore interface {
	ListGoals(ctx context.Context, userID uint) ([]models.Goal, error)
	CreateGoal(ctx context.Context, g *models.Goal) error
	GetGoal(ctx context.Context, userID uint, id string) (*models.Goal, error)
	UpdateGoal(ctx context.Context, g *models.Goal, fields []string) error
	DeleteGoal(ctx context.Context, userID uint, id string) error
}
