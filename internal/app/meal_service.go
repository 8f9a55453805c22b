package app

import (
	"context"
	"strings"

	"nutritrack/internal/domain"
)

// MealService encapsulates saved-meal use cases.
type MealService struct {
	repo   domain.MealRepository
	policy *domain.OwnershipPolicy
}

// NewMealService creates a MealService backed by the given repository.
func NewMealService(repo domain.MealRepository, policy *domain.OwnershipPolicy) *MealService {
	return &MealService{repo: repo, policy: policy}
}

// Create stores a meal owned by userID. Totals are taken as given.
func (s *MealService) Create(ctx context.Context, userID int64, m domain.Meal) (*domain.Meal, error) {
	if strings.TrimSpace(m.Name) == "" {
		return nil, domain.Invalid("MealName", "is required")
	}
	for _, v := range []float64{m.TotalKcal, m.TotalProtein, m.TotalFat, m.TotalFibers, m.TotalKJ} {
		if v < 0 {
			return nil, domain.Invalid("totals", "must not be negative")
		}
	}
	m.UserID = userID
	if m.Ingredients == nil {
		m.Ingredients = []domain.MealIngredient{}
	}
	return s.repo.CreateMeal(ctx, m)
}

// List returns the meals saved by userID.
func (s *MealService) List(ctx context.Context, userID int64) ([]domain.Meal, error) {
	return s.repo.ListMeals(ctx, userID)
}

// Delete removes a meal owned by userID.
func (s *MealService) Delete(ctx context.Context, userID, mealID int64) error {
	if mealID <= 0 {
		return domain.Invalid("mealId", "invalid meal ID provided")
	}
	if err := s.policy.Authorize(ctx, userID, domain.KindMeal, mealID); err != nil {
		return err
	}
	n, err := s.repo.DeleteMeal(ctx, userID, mealID)
	return affected(n, err)
}
