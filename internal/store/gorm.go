package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"financebot/internal/models"
	"financebot/internal/pagination"
)

// GormStore implements every store interface on top of a shared *gorm.DB.
type GormStore struct {
	db *gorm.DB
}

var (
	_ LedgerReader = (*GormStore)(nil)
	_ LedgerWriter = (*GormStore)(nil)
	_ BudgetStore  = (*GormStore)(nil)
	_ GoalStore    = (*GormStore)(nil)
)

// NewGormStore creates a GormStore.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ledgerTable maps a stream to its model and label column.
func ledgerTable(kind models.EntryKind) (interface{}, string, error) {
	switch kind {
	case models.EntryKindExpense:
		return &models.Expense{}, "category", nil
	case models.EntryKindIncome:
		return &models.Income{}, "description", nil
	}
	return nil, "", fmt.Errorf("unknown entry kind %q", kind)
}

func (s *GormStore) ledgerQuery(ctx context.Context, kind models.EntryKind, f Filter) (*gorm.DB, string, error) {
	model, column, err := ledgerTable(kind)
	if err != nil {
		return nil, "", err
	}
	return applyFilter(s.db.WithContext(ctx).Model(model), column, f), column, nil
}

func applyFilter(q *gorm.DB, column string, f Filter) *gorm.DB {
	q = q.Where("user_id = ?", f.UserID)
	if f.From != nil {
		q = q.Where("occurred_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("occurred_at <= ?", *f.To)
	}
	if f.LabelContains != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(f.LabelContains)) + "%"
		q = q.Where("LOWER("+column+") LIKE ? ESCAPE '\\'", pattern)
	}
	if f.LabelEquals != "" {
		q = q.Where("LOWER("+column+") = ?", strings.ToLower(f.LabelEquals))
	}
	return q
}

// ListExpenses returns expenses newest first.
func (s *GormStore) ListExpenses(ctx context.Context, f Filter, page pagination.PageRequest) ([]models.Expense, error) {
	q, _, err := s.ledgerQuery(ctx, models.EntryKindExpense, f)
	if err != nil {
		return nil, err
	}
	var expenses []models.Expense
	err = q.Scopes(pagination.Paginate(page)).
		Order("occurred_at DESC").Order("id DESC").
		Find(&expenses).Error
	return expenses, err
}

// ListIncomes returns incomes newest first.
func (s *GormStore) ListIncomes(ctx context.Context, f Filter, page pagination.PageRequest) ([]models.Income, error) {
	q, _, err := s.ledgerQuery(ctx, models.EntryKindIncome, f)
	if err != nil {
		return nil, err
	}
	var incomes []models.Income
	err = q.Scopes(pagination.Paginate(page)).
		Order("occurred_at DESC").Order("id DESC").
		Find(&incomes).Error
	return incomes, err
}

func (s *GormStore) Count(ctx context.Context, kind models.EntryKind, f Filter) (int64, error) {
	q, _, err := s.ledgerQuery(ctx, kind, f)
	if err != nil {
		return 0, err
	}
	var count int64
	err = q.Count(&count).Error
	return count, err
}

func (s *GormStore) Sum(ctx context.Context, kind models.EntryKind, f Filter) (float64, error) {
	q, _, err := s.ledgerQuery(ctx, kind, f)
	if err != nil {
		return 0, err
	}
	var total float64
	err = q.Select("COALESCE(SUM(amount), 0)").Scan(&total).Error
	return total, err
}

func (s *GormStore) GroupByLabel(ctx context.Context, kind models.EntryKind, f Filter, limit int) ([]LabelTotal, error) {
	q, column, err := s.ledgerQuery(ctx, kind, f)
	if err != nil {
		return nil, err
	}
	q = q.Select(column + " AS label, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS entries").
		Group(column).
		Order("total DESC").Order(column + " ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []LabelTotal
	err = q.Scan(&rows).Error
	return rows, err
}

func (s *GormStore) GroupByDate(ctx context.Context, kind models.EntryKind, f Filter) ([]DateTotal, error) {
	q, _, err := s.ledgerQuery(ctx, kind, f)
	if err != nil {
		return nil, err
	}
	var rows []DateTotal
	err = q.Select("occurred_at, COALESCE(SUM(amount), 0) AS total").
		Group("occurred_at").
		Order("occurred_at ASC").
		Scan(&rows).Error
	return rows, err
}

func (s *GormStore) CreateExpense(ctx context.Context, e *models.Expense) error {
	return s.db.WithContext(ctx).Create(e).Error
}

func (s *GormStore) CreateIncome(ctx context.Context, i *models.Income) error {
	return s.db.WithContext(ctx).Create(i).Error
}

func (s *GormStore) GetExpense(ctx context.Context, userID, id uint) (*models.Expense, error) {
	var expense models.Expense
	if err := s.first(ctx, &expense, "id = ? AND user_id = ?", id, userID); err != nil {
		return nil, err
	}
	return &expense, nil
}

func (s *GormStore) GetIncome(ctx context.Context, userID, id uint) (*models.Income, error) {
	var income models.Income
	if err := s.first(ctx, &income, "id = ? AND user_id = ?", id, userID); err != nil {
		return nil, err
	}
	return &income, nil
}

func (s *GormStore) UpdateExpense(ctx context.Context, e *models.Expense, fields []string) error {
	return s.updateFields(ctx, e, e.UserID, fields)
}

func (s *GormStore) UpdateIncome(ctx context.Context, i *models.Income, fields []string) error {
	return s.updateFields(ctx, i, i.UserID, fields)
}

func (s *GormStore) DeleteExpense(ctx context.Context, userID, id uint) error {
	return s.deleteOwned(ctx, &models.Expense{}, userID, id)
}

func (s *GormStore) DeleteIncome(ctx context.Context, userID, id uint) error {
	return s.deleteOwned(ctx, &models.Income{}, userID, id)
}

// ListBudgets returns the user's budgets, most recent period first.
func (s *GormStore) ListBudgets(ctx context.Context, userID uint, month, year *int) ([]models.Budget, error) {
	q := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if month != nil {
		q = q.Where("month = ?", *month)
	}
	if year != nil {
		q = q.Where("year = ?", *year)
	}
	var budgets []models.Budget
	err := q.Order("year DESC").Order("month DESC").Order("created_at DESC").Find(&budgets).Error
	return budgets, err
}

func (s *GormStore) CreateBudget(ctx context.Context, b *models.Budget) error {
	return s.db.WithContext(ctx).Create(b).Error
}

func (s *GormStore) GetBudget(ctx context.Context, userID uint, id string) (*models.Budget, error) {
	var budget models.Budget
	if err := s.first(ctx, &budget, "id = ? AND user_id = ?", id, userID); err != nil {
		return nil, err
	}
	return &budget, nil
}

func (s *GormStore) UpdateBudget(ctx context.Context, b *models.Budget, fields []string) error {
	return s.updateFields(ctx, b, b.UserID, fields)
}

func (s *GormStore) DeleteBudget(ctx context.Context, userID uint, id string) error {
	return s.deleteOwned(ctx, &models.Budget{}, userID, id)
}

// ListGoals returns the user's goals, newest first.
func (s *GormStore) ListGoals(ctx context.Context, userID uint) ([]models.Goal, error) {
	var goals []models.Goal
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&goals).Error
	return goals, err
}

func (s *GormStore) CreateGoal(ctx context.Context, g *models.Goal) error {
	return s.db.WithContext(ctx).Create(g).Error
}

func (s *GormStore) GetGoal(ctx context.Context, userID uint, id string) (*models.Goal, error) {
	var goal models.Goal
	if err := s.first(ctx, &goal, "id = ? AND user_id = ?", id, userID); err != nil {
		return nil, err
	}
	return &goal, nil
}

func (s *GormStore) UpdateGoal(ctx context.Context, g *models.Goal, fields []string) error {
	return s.updateFields(ctx, g, g.UserID, fields)
}

func (s *GormStore) DeleteGoal(ctx context.Context, userID uint, id string) error {
	return s.deleteOwned(ctx, &models.Goal{}, userID, id)
}

func (s *GormStore) first(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	err := s.db.WithContext(ctx).Where(query, args...).First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// updateFields writes only the named fields, zero values included.
func (s *GormStore) updateFields(ctx context.Context, record interface{}, userID uint, fields []string) error {
	if len(fields) == 0 {
		return nil
	}
	selected := append(append([]string{}, fields...), "UpdatedAt")
	res := s.db.WithContext(ctx).Model(record).
		Where("user_id = ?", userID).
		Select(selected).
		Updates(record)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) deleteOwned(ctx context.Context, model interface{}, userID uint, id interface{}) error {
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(model)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
