package app

import (
	"context"
	"strings"

	"nutritrack/internal/domain"
)

// IngredientService encapsulates raw-ingredient intake use cases.
type IngredientService struct {
	repo   domain.IngredientRepository
	policy *domain.OwnershipPolicy
}

// NewIngredientService creates an IngredientService.
func NewIngredientService(repo domain.IngredientRepository, policy *domain.OwnershipPolicy) *IngredientService {
	return &IngredientService{repo: repo, policy: policy}
}

// Details looks up an ingredient in the catalog.
func (s *IngredientService) Details(ctx context.Context, name string) (*domain.Ingredient, error) {
	if strings.TrimSpace(name) == "" {
		return nil, domain.Invalid("IngredientName", "ingredient name is required")
	}
	ing, err := s.repo.IngredientByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if ing == nil {
		return nil, domain.ErrNotFound
	}
	return ing, nil
}

// Register logs an ingredient intake. Nutrient values are client supplied
// and stored without recomputation.
func (s *IngredientService) Register(ctx context.Context, in domain.IndividualIntake) (*domain.IndividualIntake, error) {
	if strings.TrimSpace(in.IngredientName) == "" {
		return nil, domain.Invalid("IngredientName", "is required")
	}
	if in.Quantity <= 0 {
		return nil, domain.Invalid("Quantity", "must be > 0")
	}
	if in.IntakeDateTime.IsZero() {
		return nil, domain.Invalid("IntakeDateTime", "is required")
	}
	return s.repo.AddIndividualIntake(ctx, in)
}

// List returns the caller's ingredient intakes, newest first.
func (s *IngredientService) List(ctx context.Context, userID int64) ([]domain.IndividualIntake, error) {
	return s.repo.ListIndividualIntakes(ctx, userID)
}

// Update edits an ingredient intake owned by userID.
func (s *IngredientService) Update(ctx context.Context, userID, id int64, p domain.IndividualIntakePatch) error {
	if p.Quantity != nil && *p.Quantity <= 0 {
		return domain.Invalid("Quantity", "must be > 0")
	}
	if err := s.policy.Authorize(ctx, userID, domain.KindIndividualIntake, id); err != nil {
		return err
	}
	n, err := s.repo.UpdateIndividualIntake(ctx, userID, id, p)
	return affected(n, err)
}

// Delete removes an ingredient intake owned by userID.
func (s *IngredientService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.policy.Authorize(ctx, userID, domain.KindIndividualIntake, id); err != nil {
		return err
	}
	n, err := s.repo.DeleteIndividualIntake(ctx, userID, id)
	return affected(n, err)
}
