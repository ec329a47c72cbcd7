package services

import (
	"context"
	"strings"

	apperrors "financebot/internal/errors"
	"financebot/internal/models"
	"financebot/internal/store"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	budgets store.BudgetStore
	ledger  store.LedgerReader
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(budgets store.BudgetStore, ledger store.LedgerReader) BudgetServicer {
	return &budgetService{budgets: budgets, ledger: ledger}
}

// ListBudgets returns the user's budgets, optionally filtered by period.
func (s *budgetService) ListBudgets(ctx context.Context, userID uint, month, year *int) ([]models.Budget, error) {
	budgets, err := s.budgets.ListBudgets(ctx, userID, month, year)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStore, err)
	}
	if budgets == nil {
		budgets = []models.Budget{}
	}
	return budgets, nil
}

// CreateBudget creates a monthly budget. Duplicates per category and period
// are accepted.
func (s *budgetService) CreateBudget(ctx context.Context, userID uint, in BudgetInput) (*models.Budget, error) {
	category := strings.TrimSpace(in.Category)
	if category == "" || in.LimitAmount == nil || in.Month == nil || in.Year == nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category, limitAmount, month and year are required")
	}
	if *in.LimitAmount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "limitAmount must be positive")
	}
	if *in.Month < 1 || *in.Month > 12 || *in.Year <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be between 1 and 12 and year must be positive")
	}

	budget := &models.Budget{
		UserID:      userID,
		Category:    category,
		LimitAmount: *in.LimitAmount,
		Month:       *in.Month,
		Year:        *in.Year,
	}
	if in.CurrentSpend != nil {
		budget.CurrentSpend = *in.CurrentSpend
	}

	if err := s.budgets.CreateBudget(ctx, budget); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStore, err)
	}
	return budget, nil
}

// UpdateBudget merges the present fields of patch into the budget.
func (s *budgetService) UpdateBudget(ctx context.Context, userID uint, id string, patch models.BudgetPatch) (*models.Budget, error) {
	if patch.Category != nil && strings.TrimSpace(*patch.Category) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category cannot be empty")
	}
	if patch.LimitAmount != nil && *patch.LimitAmount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "limitAmount must be positive")
	}

	current, err := s.budgets.GetBudget(ctx, userID, id)
	if err != nil {
		return nil, storeError(err, apperrors.ErrBudgetNotFound)
	}

	updated, fields := patch.Apply(*current)
	if err := s.budgets.UpdateBudget(ctx, &updated, fields); err != nil {
		return nil, storeError(err, apperrors.ErrBudgetNotFound)
	}
	return &updated, nil
}

// DeleteBudget soft-deletes a budget owned by the user.
func (s *budgetService) DeleteBudget(ctx context.Context, userID uint, id string) error {
	if err := s.budgets.DeleteBudget(ctx, userID, id); err != nil {
		return storeError(err, apperrors.ErrBudgetNotFound)
	}
	return nil
}

// GetBudgetProgress sums the expenses of the budget's category inside the
// budget's month. It never writes currentSpend.
func (s *budgetService) GetBudgetProgress(ctx context.Context, userID uint, id string) (*BudgetProgress, error) {
	budget, err := s.budgets.GetBudget(ctx, userID, id)
	if err != nil {
		return nil, storeError(err, apperrors.ErrBudgetNotFound)
	}

	f := MonthWindow(budget.Month, budget.Year).filter(userID)
	f.LabelEquals = budget.Category
	spent, err := s.ledger.Sum(ctx, models.EntryKindExpense, f)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStore, err)
	}

	var limit, used money
	limit.add(budget.LimitAmount)
	used.add(spent)
	return &BudgetProgress{
		BudgetID:   budget.ID,
		Limit:      limit.float(),
		Spent:      used.float(),
		Remaining:  limit.minus(used),
		Percentage: round2(percentOf(spent, budget.LimitAmount)),
	}, nil
}
