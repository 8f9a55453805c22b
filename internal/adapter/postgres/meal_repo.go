package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"nutritrack/internal/domain"
)

const mealColumns = "meal_id, user_id, meal_name, total_kcal, total_protein, total_fat, total_fibers, total_kj, ingredients, created_at"

type mealRow struct {
	ID           int64     `db:"meal_id"`
	UserID       int64     `db:"user_id"`
	Name         string    `db:"meal_name"`
	TotalKcal    float64   `db:"total_kcal"`
	TotalProtein float64   `db:"total_protein"`
	TotalFat     float64   `db:"total_fat"`
	TotalFibers  float64   `db:"total_fibers"`
	TotalKJ      float64   `db:"total_kj"`
	Ingredients  []byte    `db:"ingredients"`
	CreatedAt    time.Time `db:"created_at"`
}

func (r mealRow) toDomain() (domain.Meal, error) {
	m := domain.Meal{
		ID:           r.ID,
		UserID:       r.UserID,
		Name:         r.Name,
		TotalKcal:    r.TotalKcal,
		TotalProtein: r.TotalProtein,
		TotalFat:     r.TotalFat,
		TotalFibers:  r.TotalFibers,
		TotalKJ:      r.TotalKJ,
		Ingredients:  []domain.MealIngredient{},
		CreatedAt:    r.CreatedAt,
	}
	if len(r.Ingredients) > 0 {
		if err := json.Unmarshal(r.Ingredients, &m.Ingredients); err != nil {
			return m, fmt.Errorf("meal %d ingredients: %w", r.ID, err)
		}
	}
	return m, nil
}

// CreateMeal inserts a meal and returns it with its id.
func (d *DB) CreateMeal(ctx context.Context, m domain.Meal) (*domain.Meal, error) {
	ingredients, err := json.Marshal(m.Ingredients)
	if err != nil {
		return nil, err
	}
	var r mealRow
	err = d.db.GetContext(ctx, &r,
		"INSERT INTO meals (user_id, meal_name, total_kcal, total_protein, total_fat, total_fibers, total_kj, ingredients, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb, $9) RETURNING "+mealColumns,
		m.UserID, m.Name, m.TotalKcal, m.TotalProtein, m.TotalFat, m.TotalFibers, m.TotalKJ, string(ingredients), time.Now(),
	)
	if err != nil {
		return nil, mapErr(err)
	}
	out, err := r.toDomain()
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListMeals returns the meals of a user in creation order.
func (d *DB) ListMeals(ctx context.Context, userID int64) ([]domain.Meal, error) {
	var rows []mealRow
	if err := d.db.SelectContext(ctx, &rows, "SELECT "+mealColumns+" FROM meals WHERE user_id = $1 ORDER BY meal_id", userID); err != nil {
		return nil, err
	}
	out := make([]domain.Meal, 0, len(rows))
	for _, r := range rows {
		m, err := r.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// DeleteMeal removes a meal by ID, scoped to a user. Intakes referencing it
// keep their stored values.
func (d *DB) DeleteMeal(ctx context.Context, userID, id int64) (int64, error) {
	return rowsAffected(d.db.ExecContext(ctx, "DELETE FROM meals WHERE meal_id = $1 AND user_id = $2", id, userID))
}
