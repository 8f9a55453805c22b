package app

import (
	"context"
	"errors"
	"fmt"

	"nutritrack/internal/domain"
)

// ErrMealNotFound is returned when an intake references a meal that does
// not exist. No row is inserted in that case.
var ErrMealNotFound = errors.New("meal not found")

// IntakeService encapsulates meal-intake use cases.
type IntakeService struct {
	repo   domain.IntakeRepository
	policy *domain.OwnershipPolicy
}

// NewIntakeService creates an IntakeService backed by the given repository.
func NewIntakeService(repo domain.IntakeRepository, policy *domain.OwnershipPolicy) *IntakeService {
	return &IntakeService{repo: repo, policy: policy}
}

// Record logs a portion of a saved meal. Nutrients are scaled from the
// meal's totals by MealWeight/100 when the row is written.
func (s *IntakeService) Record(ctx context.Context, in domain.NewIntake) (*domain.IntakeRecord, error) {
	if in.MealID <= 0 {
		return nil, domain.Invalid("MealID", "is required")
	}
	if in.MealWeight <= 0 {
		return nil, domain.Invalid("MealWeight", "must be > 0")
	}
	if in.ConsumptionTime.IsZero() {
		return nil, domain.Invalid("ConsumptionTime", "is required")
	}
	rec, err := s.repo.RecordIntake(ctx, in)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("meal %d: %w", in.MealID, ErrMealNotFound)
	}
	return rec, err
}

// List returns the caller's meal intakes, newest first.
func (s *IntakeService) List(ctx context.Context, userID int64) ([]domain.IntakeRecord, error) {
	return s.repo.ListIntakes(ctx, userID)
}

// Update edits an intake owned by userID. Nutrients are not recomputed.
func (s *IntakeService) Update(ctx context.Context, userID, id int64, p domain.IntakePatch) error {
	if p.MealWeight != nil && *p.MealWeight <= 0 {
		return domain.Invalid("MealWeight", "must be > 0")
	}
	if err := s.policy.Authorize(ctx, userID, domain.KindIntake, id); err != nil {
		return err
	}
	n, err := s.repo.UpdateIntake(ctx, userID, id, p)
	return affected(n, err)
}

// Delete removes an intake owned by userID.
func (s *IntakeService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.policy.Authorize(ctx, userID, domain.KindIntake, id); err != nil {
		return err
	}
	n, err := s.repo.DeleteIntake(ctx, userID, id)
	return affected(n, err)
}
