package services

import (
	"context"
	"sort"
	"strings"
	"time"

	apperrors "financebot/internal/errors"
	"financebot/internal/events"
	"financebot/internal/logger"
	"financebot/internal/models"
	"financebot/internal/pagination"
	"financebot/internal/store"
)

// LedgerStore is the Record Store capability the ledger needs.
type LedgerStore interface {
	store.LedgerReader
	store.LedgerWriter
}

// ledgerService handles the expense and income streams.
type ledgerService struct {
	store     LedgerStore
	publisher events.Publisher
	now       func() time.Time
}

// NewLedgerService creates a new LedgerServicer.
func NewLedgerService(st LedgerStore, publisher events.Publisher) LedgerServicer {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &ledgerService{store: st, publisher: publisher, now: time.Now}
}

func (f TransactionFilter) storeFilter(userID uint) store.Filter {
	return store.Filter{
		UserID:        userID,
		From:          f.DateFrom,
		To:            f.DateTo,
		LabelContains: strings.TrimSpace(f.Category),
	}
}

func emptyTransactionList() TransactionList {
	return TransactionList{
		Transactions: []models.Transaction{},
		Pagination:   PageEcho{Page: 1, PageSize: pagination.LedgerPageSize},
	}
}

// ListTransactions pages each stream independently, then merges the two pages
// newest first. Store failures return the empty list.
func (s *ledgerService) ListTransactions(ctx context.Context, userID uint, filter TransactionFilter) TransactionList {
	page := pagination.PageRequest{Page: filter.Page, PageSize: filter.PageSize}
	page.DefaultsTo(pagination.LedgerPageSize)
	f := filter.storeFilter(userID)

	expenses, err := s.store.ListExpenses(ctx, f, page)
	if err != nil {
		logger.Named("ledger").Warnw("failed to list expenses for ledger", "error", err, "user_id", userID)
		return emptyTransactionList()
	}
	incomes, err := s.store.ListIncomes(ctx, f, page)
	if err != nil {
		logger.Named("ledger").Warnw("failed to list incomes for ledger", "error", err, "user_id", userID)
		return emptyTransactionList()
	}

	merged := mergeTransactions(expenses, incomes)
	return TransactionList{
		Transactions: merged,
		Totals:       ledgerTotals(expenses, incomes),
		Pagination:   PageEcho{Page: page.Page, PageSize: page.PageSize, Total: len(merged)},
	}
}

// mergeTransactions returns the union of both pages ordered by occurredAt
// descending. The sort is stable, so equal timestamps keep expenses first.
func mergeTransactions(expenses []models.Expense, incomes []models.Income) []models.Transaction {
	merged := make([]models.Transaction, 0, len(expenses)+len(incomes))
	for _, e := range expenses {
		merged = append(merged, models.ExpenseTransaction(e))
	}
	for _, i := range incomes {
		merged = append(merged, models.IncomeTransaction(i))
	}
	sort.SliceStable(merged, func(a, b int) bool {
		return merged[a].OccurredAt.After(merged[b].OccurredAt)
	})
	return merged
}

func ledgerTotals(expenses []models.Expense, incomes []models.Income) LedgerTotals {
	var spent, earned money
	for _, e := range expenses {
		spent.add(e.Amount)
	}
	for _, i := range incomes {
		earned.add(i.Amount)
	}
	return LedgerTotals{
		TotalExpense: spent.float(),
		TotalIncome:  earned.float(),
		Balance:      earned.minus(spent),
		CountExpense: len(expenses),
		CountIncome:  len(incomes),
		CountTotal:   len(expenses) + len(incomes),
	}
}

// ListExpenses returns a paginated list of the user's expenses.
func (s *ledgerService) ListExpenses(ctx context.Context, userID uint, filter TransactionFilter) (*pagination.PageResponse[models.Expense], error) {
	page := pagination.PageRequest{Page: filter.Page, PageSize: filter.PageSize}
	page.Defaults()
	f := filter.storeFilter(userID)

	total, err := s.store.Count(ctx, models.EntryKindExpense, f)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStore, err)
	}
	expenses, err := s.store.ListExpenses(ctx, f, page)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStore, err)
	}

	result := pagination.NewPageResponse(expenses, page.Page, page.PageSize, total)
	return &result, nil
}

// ListIncomes returns a paginated list of the user's incomes.
func (s *ledgerService) ListIncomes(ctx context.Context, userID uint, filter TransactionFilter) (*pagination.PageResponse[models.Income], error) {
	page := pagination.PageRequest{Page: filter.Page, PageSize: filter.PageSize}
	page.Defaults()
	f := filter.storeFilter(userID)

	total, err := s.store.Count(ctx, models.EntryKindIncome, f)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStore, err)
	}
	incomes, err := s.store.ListIncomes(ctx, f, page)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStore, err)
	}

	result := pagination.NewPageResponse(incomes, page.Page, page.PageSize, total)
	return &result, nil
}

// CreateExpense records a new expense.
func (s *ledgerService) CreateExpense(ctx context.Context, userID uint, in ExpenseInput) (*models.Expense, error) {
	category := strings.TrimSpace(in.Category)
	if in.Amount <= 0 || category == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount and category are required")
	}

	expense := &models.Expense{
		UserID:     userID,
		Amount:     in.Amount,
		Category:   category,
		OccurredAt: s.occurredAt(in.OccurredAt),
	}
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStore, err)
	}

	s.publish(ctx, events.ActionCreated, models.ExpenseTransaction(*expense))
	return expense, nil
}

// CreateIncome records a new income.
func (s *ledgerService) CreateIncome(ctx context.Context, userID uint, in IncomeInput) (*models.Income, error) {
	description := strings.TrimSpace(in.Description)
	if in.Amount <= 0 || description == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount and description are required")
	}

	income := &models.Income{
		UserID:      userID,
		Amount:      in.Amount,
		Description: description,
		OccurredAt:  s.occurredAt(in.OccurredAt),
	}
	if err := s.store.CreateIncome(ctx, income); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStore, err)
	}

	s.publish(ctx, events.ActionCreated, models.IncomeTransaction(*income))
	return income, nil
}

// UpdateExpense merges the present fields of patch into the expense.
func (s *ledgerService) UpdateExpense(ctx context.Context, userID, id uint, patch models.ExpensePatch) (*models.Expense, error) {
	if patch.Amount != nil && *patch.Amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be positive")
	}
	if patch.Category != nil && strings.TrimSpace(*patch.Category) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category cannot be empty")
	}

	current, err := s.store.GetExpense(ctx, userID, id)
	if err != nil {
		return nil, storeError(err, apperrors.ErrExpenseNotFound)
	}

	updated, fields := patch.Apply(*current)
	if err := s.store.UpdateExpense(ctx, &updated, fields); err != nil {
		return nil, storeError(err, apperrors.ErrExpenseNotFound)
	}

	s.publish(ctx, events.ActionUpdated, models.ExpenseTransaction(updated))
	return &updated, nil
}

// UpdateIncome merges the present fields of patch into the income.
func (s *ledgerService) UpdateIncome(ctx context.Context, userID, id uint, patch models.IncomePatch) (*models.Income, error) {
	if patch.Amount != nil && *patch.Amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be positive")
	}
	if patch.Description != nil && strings.TrimSpace(*patch.Description) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "description cannot be empty")
	}

	current, err := s.store.GetIncome(ctx, userID, id)
	if err != nil {
		return nil, storeError(err, apperrors.ErrIncomeNotFound)
	}

	updated, fields := patch.Apply(*current)
	if err := s.store.UpdateIncome(ctx, &updated, fields); err != nil {
		return nil, storeError(err, apperrors.ErrIncomeNotFound)
	}

	s.publish(ctx, events.ActionUpdated, models.IncomeTransaction(updated))
	return &updated, nil
}

// DeleteExpense soft-deletes an expense owned by the user.
func (s *ledgerService) DeleteExpense(ctx context.Context, userID, id uint) error {
	expense, err := s.store.GetExpense(ctx, userID, id)
	if err != nil {
		return storeError(err, apperrors.ErrExpenseNotFound)
	}
	if err := s.store.DeleteExpense(ctx, userID, id); err != nil {
		return storeError(err, apperrors.ErrExpenseNotFound)
	}

	s.publish(ctx, events.ActionDeleted, models.ExpenseTransaction(*expense))
	return nil
}

// DeleteIncome soft-deletes an income owned by the user.
func (s *ledgerService) DeleteIncome(ctx context.Context, userID, id uint) error {
	income, err := s.store.GetIncome(ctx, userID, id)
	if err != nil {
		return storeError(err, apperrors.ErrIncomeNotFound)
	}
	if err := s.store.DeleteIncome(ctx, userID, id); err != nil {
		return storeError(err, apperrors.ErrIncomeNotFound)
	}

	s.publish(ctx, events.ActionDeleted, models.IncomeTransaction(*income))
	return nil
}

func (s *ledgerService) occurredAt(at *time.Time) time.Time {
	if at != nil {
		return *at
	}
	return s.now()
}

// publish sends a ledger event. Failures are logged and never fail the write.
func (s *ledgerService) publish(ctx context.Context, action events.Action, tx models.Transaction) {
	event := events.NewEvent(action, tx.UserID, tx.Ref, tx.Amount, tx.OccurredAt)
	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.Named("ledger").Errorw("failed to publish ledger event",
			"error", err,
			"type", event.Type,
			"entry_id", event.EntryID,
		)
	}
}
