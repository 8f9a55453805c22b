package app

import (
	"context"

	"nutritrack/internal/domain"
)

// WaterService encapsulates water-tracking use cases.
type WaterService struct {
	repo   domain.WaterRepository
	policy *domain.OwnershipPolicy
}

// NewWaterService creates a WaterService backed by the given repository.
func NewWaterService(repo domain.WaterRepository, policy *domain.OwnershipPolicy) *WaterService {
	return &WaterService{repo: repo, policy: policy}
}

// Add validates and stores a water intake.
func (s *WaterService) Add(ctx context.Context, w domain.WaterIntake) (int64, error) {
	if w.DateTime.IsZero() {
		return 0, domain.Invalid("WaterDateTime", "is required")
	}
	if w.Liters < 0 || w.Liters > 10 {
		return 0, domain.Invalid("Liter", "must be within [0, 10]")
	}
	return s.repo.AddWater(ctx, w)
}

// List returns the caller's water intakes, newest first.
func (s *WaterService) List(ctx context.Context, userID int64) ([]domain.WaterIntake, error) {
	return s.repo.ListWater(ctx, userID)
}

// Update edits a water intake owned by userID.
func (s *WaterService) Update(ctx context.Context, userID, id int64, p domain.WaterPatch) error {
	if p.Liters != nil && (*p.Liters < 0 || *p.Liters > 10) {
		return domain.Invalid("Liter", "must be within [0, 10]")
	}
	if err := s.policy.Authorize(ctx, userID, domain.KindWater, id); err != nil {
		return err
	}
	n, err := s.repo.UpdateWater(ctx, userID, id, p)
	return affected(n, err)
}

// Delete removes a water intake owned by userID.
func (s *WaterService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.policy.Authorize(ctx, userID, domain.KindWater, id); err != nil {
		return err
	}
	n, err := s.repo.DeleteWater(ctx, userID, id)
	return affected(n, err)
}
