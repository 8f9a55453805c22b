package domain

import (
	"context"
	"time"
)

// MealIngredient is one entry of a meal's serialized ingredient list.
type MealIngredient struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// Meal is a saved recipe with nutrient totals per 100 g. The totals are a
// snapshot taken at creation and are never recomputed.
type Meal struct {
	ID           int64            `json:"MealID"`
	UserID       int64            `json:"UserID"`
	Name         string           `json:"MealName"`
	TotalKcal    float64          `json:"totalKcal"`
	TotalProtein float64          `json:"totalProtein"`
	TotalFat     float64          `json:"totalFat"`
	TotalFibers  float64          `json:"totalFibers"`
	TotalKJ      float64          `json:"totalkJ"`
	Ingredients  []MealIngredient `json:"Ingredients"`
	CreatedAt    time.Time        `json:"CreatedAt"`
}

// MealRepository is the port for meal persistence.
type MealRepository interface {
	CreateMeal(ctx context.Context, m Meal) (*Meal, error)
	ListMeals(ctx context.Context, userID int64) ([]Meal, error)
	DeleteMeal(ctx context.Context, userID, id int64) (int64, error)
}
