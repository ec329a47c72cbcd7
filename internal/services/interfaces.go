package services

import (
	"context"
	"time"

	"financebot/internal/models"
	"financebot/internal/pagination"
)

// UserServicer defines the contract for phone-based identity.
type UserServicer interface {
	IsAuthorized(phone string) (bool, error)
	Login(phone string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	UpdateProfile(id uint, name, email string) (*models.User, error)
	AuthorizeNumber(phone string) (*models.AuthorizedNumber, error)
}

// TransactionFilter holds optional filter parameters for ledger listings.
// DateFrom and DateTo are inclusive. Category is a case-insensitive substring
// matched against the expense category and the income description.
type TransactionFilter struct {
	DateFrom *time.Time
	DateTo   *time.Time
	Category string
	Page     int
	PageSize int
}

// LedgerTotals are computed over the fetched page of each stream.
type LedgerTotals struct {
	TotalExpense float64 `json:"totalExpense"`
	TotalIncome  float64 `json:"totalIncome"`
	Balance      float64 `json:"balance"`
	CountExpense int     `json:"countExpense"`
	CountIncome  int     `json:"countIncome"`
	CountTotal   int     `json:"countTotal"`
}

// PageEcho reports the pagination applied to a unified listing. Total is the
// size of the merged page, not the number of stored records.
type PageEcho struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
	Total    int `json:"total"`
}

// TransactionList is the unified ledger view.
type TransactionList struct {
	Transactions []models.Transaction `json:"transactions"`
	Totals       LedgerTotals         `json:"totals"`
	Pagination   PageEcho             `json:"pagination"`
}

// ExpenseInput holds the fields of a new expense. A nil OccurredAt means now.
type ExpenseInput struct {
	Amount     float64
	Category   string
	OccurredAt *time.Time
}

// IncomeInput holds the fields of a new income. A nil OccurredAt means now.
type IncomeInput struct {
	Amount      float64
	Description string
	OccurredAt  *time.Time
}

// LedgerServicer defines the contract for the expense and income streams and
// their unified view.
type LedgerServicer interface {
	ListTransactions(ctx context.Context, userID uint, filter TransactionFilter) TransactionList
	ListExpenses(ctx context.Context, userID uint, filter TransactionFilter) (*pagination.PageResponse[models.Expense], error)
	ListIncomes(ctx context.Context, userID uint, filter TransactionFilter) (*pagination.PageResponse[models.Income], error)
	CreateExpense(ctx context.Context, userID uint, in ExpenseInput) (*models.Expense, error)
	CreateIncome(ctx context.Context, userID uint, in IncomeInput) (*models.Income, error)
	UpdateExpense(ctx context.Context, userID, id uint, patch models.ExpensePatch) (*models.Expense, error)
	UpdateIncome(ctx context.Context, userID, id uint, patch models.IncomePatch) (*models.Income, error)
	DeleteExpense(ctx context.Context, userID, id uint) error
	DeleteIncome(ctx context.Context, userID, id uint) error
}

// Window is an inclusive date range. Both ends are truncated to whole UTC days.
type Window struct {
	Start time.Time
	End   time.Time
}

// CategoryTotal is one bucket of a category aggregation.
type CategoryTotal struct {
	Label            string  `json:"label"`
	Total            float64 `json:"total"`
	TransactionCount int64   `json:"transactionCount"`
	PercentOfTotal   float64 `json:"percentOfTotal"`
	Color            string  `json:"color"`
}

// DayTotal is one calendar day of a day aggregation.
type DayTotal struct {
	Date           string  `json:"date"`
	ExpenseTotal   float64 `json:"expenseTotal"`
	IncomeTotal    float64 `json:"incomeTotal"`
	Balance        float64 `json:"balance"`
	RunningBalance float64 `json:"runningBalance"`
}

// MonthlySummary holds the totals of one calendar month.
type MonthlySummary struct {
	PeriodStart       string             `json:"periodStart"`
	PeriodEnd         string             `json:"periodEnd"`
	TotalExpense      float64            `json:"totalExpense"`
	TotalIncome       float64            `json:"totalIncome"`
	Balance           float64            `json:"balance"`
	CountExpense      int64              `json:"countExpense"`
	CountIncome       int64              `json:"countIncome"`
	ExpenseByCategory map[string]float64 `json:"expenseByCategory"`
}

// ReportServicer defines the contract for period aggregation. Store failures
// degrade to zero values and are never returned.
type ReportServicer interface {
	// AggregateByCategory groups one stream by label. A nil window covers the
	// user's whole history.
	AggregateByCategory(ctx context.Context, userID uint, window *Window, stream models.EntryKind) []CategoryTotal
	AggregateByDay(ctx context.Context, userID uint, window Window) []DayTotal
	Timeline(ctx context.Context, userID uint, days int, now time.Time) []DayTotal
	MonthlySummary(ctx context.Context, userID uint, month, year int) MonthlySummary
}

// TopCategory is the highest-total label of a stream.
type TopCategory struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// Dashboard is the fixed-shape summary shown on the home screen.
type Dashboard struct {
	TotalIncome               float64      `json:"totalIncome"`
	TotalExpense              float64      `json:"totalExpense"`
	Balance                   float64      `json:"balance"`
	TransactionCountThisMonth int64        `json:"transactionCountThisMonth"`
	TopExpenseCategory        *TopCategory `json:"topExpenseCategory"`
	TopIncomeCategory         *TopCategory `json:"topIncomeCategory"`
}

// DashboardServicer defines the contract for the dashboard summary.
type DashboardServicer interface {
	ComposeDashboard(ctx context.Context, userID uint, now time.Time) Dashboard
}

// BudgetInput holds the fields of a new budget. Nil fields are missing.
type BudgetInput struct {
	Category     string
	LimitAmount  *float64
	CurrentSpend *float64
	Month        *int
	Year         *int
}

// BudgetProgress contains spending vs limit for a budget's month.
type BudgetProgress struct {
	BudgetID   string  `json:"budgetId"`
	Limit      float64 `json:"limit"`
	Spent      float64 `json:"spent"`
	Remaining  float64 `json:"remaining"`
	Percentage float64 `json:"percentage"`
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	ListBudgets(ctx context.Context, userID uint, month, year *int) ([]models.Budget, error)
	CreateBudget(ctx context.Context, userID uint, in BudgetInput) (*models.Budget, error)
	UpdateBudget(ctx context.Context, userID uint, id string, patch models.BudgetPatch) (*models.Budget, error)
	DeleteBudget(ctx context.Context, userID uint, id string) error
	GetBudgetProgress(ctx context.Context, userID uint, id string) (*BudgetProgress, error)
}

// GoalInput holds the fields of a new goal. Nil fields are missing.
type GoalInput struct {
	Name         string
	TargetAmount *float64
	Category     string
	Deadline     *time.Time
	Kind         string
	Description  *string
}

// GoalServicer defines the contract for goal-related business logic.
type GoalServicer interface {
	ListGoals(ctx context.Context, userID uint) ([]models.Goal, error)
	CreateGoal(ctx context.Context, userID uint, in GoalInput) (*models.Goal, error)
	UpdateGoal(ctx context.Context, userID uint, id string, patch models.GoalPatch) (*models.Goal, error)
	DeleteGoal(ctx context.Context, userID uint, id string) error
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID uint, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
