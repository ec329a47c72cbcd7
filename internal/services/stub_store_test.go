package services

import (
	"context"
	"sync"

	"financebot/internal/events"
	"financebot/internal/models"
	"financebot/internal/pagination"
	"financebot/internal/store"
)

// stubStore is an in-memory Record Store that records every call. Methods
// named in failOn return that error; err fails every call.
type stubStore struct {
	mu     sync.Mutex
	calls  []string
	err    error
	failOn map[string]error

	expenses []models.Expense
	incomes  []models.Income
	sums     map[models.EntryKind]float64
	counts   map[models.EntryKind]int64
	groups   map[models.EntryKind][]store.LabelTotal
	dates    map[models.EntryKind][]store.DateTotal
	budget   *models.Budget
	goal     *models.Goal
	filters  []store.Filter
}

var (
	_ LedgerStore       = (*stubStore)(nil)
	_ store.BudgetStore = (*stubStore)(nil)
	_ store.GoalStore   = (*stubStore)(nil)
)

func (s *stubStore) record(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, name)
	if err, ok := s.failOn[name]; ok {
		return err
	}
	return s.err
}

func (s *stubStore) recordFilter(f store.Filter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = append(s.filters, f)
}

func (s *stubStore) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *stubStore) ListExpenses(_ context.Context, f store.Filter, _ pagination.PageRequest) ([]models.Expense, error) {
	s.recordFilter(f)
	if err := s.record("ListExpenses"); err != nil {
		return nil, err
	}
	return s.expenses, nil
}

func (s *stubStore) ListIncomes(_ context.Context, f store.Filter, _ pagination.PageRequest) ([]models.Income, error) {
	s.recordFilter(f)
	if err := s.record("ListIncomes"); err != nil {
		return nil, err
	}
	return s.incomes, nil
}

func (s *stubStore) Count(_ context.Context, kind models.EntryKind, f store.Filter) (int64, error) {
	s.recordFilter(f)
	if err := s.record("Count"); err != nil {
		return 0, err
	}
	return s.counts[kind], nil
}

func (s *stubStore) Sum(_ context.Context, kind models.EntryKind, f store.Filter) (float64, error) {
	s.recordFilter(f)
	if err := s.record("Sum"); err != nil {
		return 0, err
	}
	return s.sums[kind], nil
}

func (s *stubStore) GroupByLabel(_ context.Context, kind models.EntryKind, f store.Filter, limit int) ([]store.LabelTotal, error) {
	s.recordFilter(f)
	if err := s.record("GroupByLabel"); err != nil {
		return nil, err
	}
	rows := s.groups[kind]
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (s *stubStore) GroupByDate(_ context.Context, kind models.EntryKind, f store.Filter) ([]store.DateTotal, error) {
	s.recordFilter(f)
	if err := s.record("GroupByDate"); err != nil {
		return nil, err
	}
	return s.dates[kind], nil
}

func (s *stubStore) CreateExpense(_ context.Context, e *models.Expense) error {
	if err := s.record("CreateExpense"); err != nil {
		return err
	}
	e.ID = 1
	return nil
}

func (s *stubStore) CreateIncome(_ context.Context, i *models.Income) error {
	if err := s.record("CreateIncome"); err != nil {
		return err
	}
	i.ID = 1
	return nil
}

func (s *stubStore) GetExpense(_ context.Context, userID, id uint) (*models.Expense, error) {
	if err := s.record("GetExpense"); err != nil {
		return nil, err
	}
	for _, e := range s.expenses {
		if e.ID == id && e.UserID == userID {
			return &e, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *stubStore) GetIncome(_ context.Context, userID, id uint) (*models.Income, error) {
	if err := s.record("GetIncome"); err != nil {
		return nil, err
	}
	for _, i := range s.incomes {
		if i.ID == id && i.UserID == userID {
			return &i, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *stubStore) UpdateExpense(context.Context, *models.Expense, []string) error {
	return s.record("UpdateExpense")
}

func (s *stubStore) UpdateIncome(context.Context, *models.Income, []string) error {
	return s.record("UpdateIncome")
}

func (s *stubStore) DeleteExpense(context.Context, uint, uint) error {
	return s.record("DeleteExpense")
}

func (s *stubStore) DeleteIncome(context.Context, uint, uint) error {
	return s.record("DeleteIncome")
}

func (s *stubStore) ListBudgets(context.Context, uint, *int, *int) ([]models.Budget, error) {
	return nil, s.record("ListBudgets")
}

func (s *stubStore) CreateBudget(context.Context, *models.Budget) error {
	return s.record("CreateBudget")
}

func (s *stubStore) GetBudget(_ context.Context, userID uint, id string) (*models.Budget, error) {
	if err := s.record("GetBudget"); err != nil {
		return nil, err
	}
	if s.budget == nil || s.budget.ID != id || s.budget.UserID != userID {
		return nil, store.ErrNotFound
	}
	b := *s.budget
	return &b, nil
}

func (s *stubStore) UpdateBudget(context.Context, *models.Budget, []string) error {
	return s.record("UpdateBudget")
}

func (s *stubStore) DeleteBudget(context.Context, uint, string) error {
	return s.record("DeleteBudget")
}

func (s *stubStore) ListGoals(context.Context, uint) ([]models.Goal, error) {
	return nil, s.record("ListGoals")
}

func (s *stubStore) CreateGoal(context.Context, *models.Goal) error {
	return s.record("CreateGoal")
}

func (s *stubStore) GetGoal(_ context.Context, userID uint, id string) (*models.Goal, error) {
	if err := s.record("GetGoal"); err != nil {
		return nil, err
	}
	if s.goal == nil || s.goal.ID != id || s.goal.UserID != userID {
		return nil, store.ErrNotFound
	}
	g := *s.goal
	return &g, nil
}

func (s *stubStore) UpdateGoal(context.Context, *models.Goal, []string) error {
	return s.record("UpdateGoal")
}

func (s *stubStore) DeleteGoal(context.Context, uint, string) error {
	return s.record("DeleteGoal")
}

// recordingPublisher captures published events.
type recordingPublisher struct {
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) error {
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }
