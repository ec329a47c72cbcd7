package services

import (
	"context"
	"strings"

	apperrors "financebot/internal/errors"
	"financebot/internal/models"
	"financebot/internal/store"
)

// goalService handles goal-related business logic.
type goalService struct {
	goals store.GoalStore
}

// NewGoalService creates a new GoalServicer.
func NewGoalService(goals store.GoalStore) GoalServicer {
	return &goalService{goals: goals}
}

// ListGoals returns the user's goals, newest first.
func (s *goalService) ListGoals(ctx context.Context, userID uint) ([]models.Goal, error) {
	goals, err := s.goals.ListGoals(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStore, err)
	}
	if goals == nil {
		goals = []models.Goal{}
	}
	return goals, nil
}

// CreateGoal creates an active, not yet completed goal.
func (s *goalService) CreateGoal(ctx context.Context, userID uint, in GoalInput) (*models.Goal, error) {
	name := strings.TrimSpace(in.Name)
	category := strings.TrimSpace(in.Category)
	kind := models.NormalizeGoalKind(in.Kind)
	if name == "" || in.TargetAmount == nil || category == "" || in.Deadline == nil || kind == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name, targetAmount, category, deadline and kind are required")
	}
	if *in.TargetAmount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "targetAmount must be positive")
	}

	goal := &models.Goal{
		UserID:       userID,
		Name:         name,
		TargetAmount: *in.TargetAmount,
		Category:     category,
		Deadline:     *in.Deadline,
		Kind:         kind,
		Description:  in.Description,
		Active:       true,
	}
	if err := s.goals.CreateGoal(ctx, goal); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrStore, err)
	}
	return goal, nil
}

// UpdateGoal merges the present fields of patch into the goal. Active and
// Completed change only when the patch carries them.
func (s *goalService) UpdateGoal(ctx context.Context, userID uint, id string, patch models.GoalPatch) (*models.Goal, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name cannot be empty")
	}
	if patch.TargetAmount != nil && *patch.TargetAmount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "targetAmount must be positive")
	}
	if patch.Kind != nil && models.NormalizeGoalKind(*patch.Kind) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "kind cannot be empty")
	}

	current, err := s.goals.GetGoal(ctx, userID, id)
	if err != nil {
		return nil, storeError(err, apperrors.ErrGoalNotFound)
	}

	updated, fields := patch.Apply(*current)
	if err := s.goals.UpdateGoal(ctx, &updated, fields); err != nil {
		return nil, storeError(err, apperrors.ErrGoalNotFound)
	}
	return &updated, nil
}

// DeleteGoal soft-deletes a goal owned by the user.
func (s *goalService) DeleteGoal(ctx context.Context, userID uint, id string) error {
	if err := s.goals.DeleteGoal(ctx, userID, id); err != nil {
		return storeError(err, apperrors.ErrGoalNotFound)
	}
	return nil
}
