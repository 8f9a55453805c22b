package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"nutritrack/internal/domain"
)

const individualIntakeColumns = "intake_id, user_id, ingredient_name, quantity, intake_datetime, protein, fat, fibers, calories, latitude, longitude"

type individualIntakeRow struct {
	ID             int64     `db:"intake_id"`
	UserID         int64     `db:"user_id"`
	IngredientName string    `db:"ingredient_name"`
	Quantity       float64   `db:"quantity"`
	IntakeDateTime time.Time `db:"intake_datetime"`
	Protein        float64   `db:"protein"`
	Fat            float64   `db:"fat"`
	Fibers         float64   `db:"fibers"`
	Calories       float64   `db:"calories"`
	Latitude       *float64  `db:"latitude"`
	Longitude      *float64  `db:"longitude"`
}

func (r individualIntakeRow) toDomain() domain.IndividualIntake {
	return domain.IndividualIntake{
		ID:             r.ID,
		UserID:         r.UserID,
		IngredientName: r.IngredientName,
		Quantity:       r.Quantity,
		IntakeDateTime: r.IntakeDateTime,
		Protein:        r.Protein,
		Fat:            r.Fat,
		Fibers:         r.Fibers,
		Calories:       r.Calories,
		Latitude:       r.Latitude,
		Longitude:      r.Longitude,
	}
}

// IngredientByName looks up the ingredient catalog, ignoring case. It
// returns nil, nil when nothing matches.
func (d *DB) IngredientByName(ctx context.Context, name string) (*domain.Ingredient, error) {
	var ing struct {
		Name     string  `db:"ingredient_name"`
		Protein  float64 `db:"protein"`
		Fat      float64 `db:"fat"`
		Fiber    float64 `db:"fiber"`
		Calories float64 `db:"calories"`
	}
	err := d.db.GetContext(ctx, &ing,
		"SELECT ingredient_name, protein, fat, fiber, calories FROM ingredients WHERE lower(ingredient_name) = lower($1)", name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &domain.Ingredient{Name: ing.Name, Protein: ing.Protein, Fat: ing.Fat, Fiber: ing.Fiber, Calories: ing.Calories}, nil
}

// AddIndividualIntake stores an ingredient intake as given.
func (d *DB) AddIndividualIntake(ctx context.Context, in domain.IndividualIntake) (*domain.IndividualIntake, error) {
	var r individualIntakeRow
	err := d.db.GetContext(ctx, &r,
		"INSERT INTO individual_intakes (user_id, ingredient_name, quantity, intake_datetime, protein, fat, fibers, calories, latitude, longitude) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING "+individualIntakeColumns,
		in.UserID, in.IngredientName, in.Quantity, in.IntakeDateTime, in.Protein, in.Fat, in.Fibers, in.Calories, in.Latitude, in.Longitude,
	)
	if err != nil {
		return nil, mapErr(err)
	}
	out := r.toDomain()
	return &out, nil
}

// ListIndividualIntakes returns a user's ingredient intakes, newest first.
func (d *DB) ListIndividualIntakes(ctx context.Context, userID int64) ([]domain.IndividualIntake, error) {
	var rows []individualIntakeRow
	if err := d.db.SelectContext(ctx, &rows,
		"SELECT "+individualIntakeColumns+" FROM individual_intakes WHERE user_id = $1 ORDER BY intake_datetime DESC, intake_id DESC", userID); err != nil {
		return nil, err
	}
	out := make([]domain.IndividualIntake, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

// UpdateIndividualIntake sets the non-nil fields of p.
func (d *DB) UpdateIndividualIntake(ctx context.Context, userID, id int64, p domain.IndividualIntakePatch) (int64, error) {
	return rowsAffected(d.db.ExecContext(ctx,
		"UPDATE individual_intakes SET quantity = COALESCE($3, quantity), intake_datetime = COALESCE($4, intake_datetime), ingredient_name = COALESCE($5, ingredient_name) WHERE intake_id = $1 AND user_id = $2",
		id, userID, p.Quantity, p.IntakeDateTime, p.IngredientName,
	))
}

// DeleteIndividualIntake removes an ingredient intake by ID, scoped to a user.
func (d *DB) DeleteIndividualIntake(ctx context.Context, userID, id int64) (int64, error) {
	return rowsAffected(d.db.ExecContext(ctx, "DELETE FROM individual_intakes WHERE intake_id = $1 AND user_id = $2", id, userID))
}
