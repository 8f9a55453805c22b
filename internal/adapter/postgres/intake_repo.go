package postgres

import (
	"context"
	"time"

	"nutritrack/internal/domain"
)

const intakeColumns = "intake_id, user_id, meal_id, meal_name, consumption_time, meal_weight, calories, protein, fat, fibers, latitude, longitude"

type intakeRow struct {
	ID              int64     `db:"intake_id"`
	UserID          int64     `db:"user_id"`
	MealID          int64     `db:"meal_id"`
	MealName        string    `db:"meal_name"`
	ConsumptionTime time.Time `db:"consumption_time"`
	MealWeight      float64   `db:"meal_weight"`
	Calories        float64   `db:"calories"`
	Protein         float64   `db:"protein"`
	Fat             float64   `db:"fat"`
	Fibers          float64   `db:"fibers"`
	Latitude        *float64  `db:"latitude"`
	Longitude       *float64  `db:"longitude"`
}

func (r intakeRow) toDomain() domain.IntakeRecord {
	return domain.IntakeRecord{
		ID:              r.ID,
		UserID:          r.UserID,
		MealID:          r.MealID,
		MealName:        r.MealName,
		ConsumptionTime: r.ConsumptionTime,
		MealWeight:      r.MealWeight,
		Calories:        r.Calories,
		Protein:         r.Protein,
		Fat:             r.Fat,
		Fibers:          r.Fibers,
		Latitude:        r.Latitude,
		Longitude:       r.Longitude,
	}
}

// recordIntakeSQL derives the nutrients from the meal's per-100 g totals in
// the same statement. No row is inserted when the meal does not exist or
// belongs to another user.
const recordIntakeSQL = `INSERT INTO intake_records
    (user_id, meal_id, meal_name, consumption_time, meal_weight, calories, protein, fat, fibers, latitude, longitude)
SELECT $1, m.meal_id, COALESCE(NULLIF($3::text, ''), m.meal_name), $4, $5::double precision,
       m.total_kcal * $5::double precision / 100,
       m.total_protein * $5::double precision / 100,
       m.total_fat * $5::double precision / 100,
       m.total_fibers * $5::double precision / 100,
       $6, $7
FROM meals m
WHERE m.meal_id = $2 AND m.user_id = $1
RETURNING ` + intakeColumns

// RecordIntake inserts an intake for one of the user's meals. It returns
// domain.ErrNotFound when no such meal exists.
func (d *DB) RecordIntake(ctx context.Context, in domain.NewIntake) (*domain.IntakeRecord, error) {
	var r intakeRow
	err := d.db.GetContext(ctx, &r, recordIntakeSQL,
		in.UserID, in.MealID, in.MealName, in.ConsumptionTime, in.MealWeight, in.Latitude, in.Longitude,
	)
	if err != nil {
		return nil, mapErr(err)
	}
	rec := r.toDomain()
	return &rec, nil
}

// ListIntakes returns a user's meal intakes, newest first.
func (d *DB) ListIntakes(ctx context.Context, userID int64) ([]domain.IntakeRecord, error) {
	var rows []intakeRow
	if err := d.db.SelectContext(ctx, &rows,
		"SELECT "+intakeColumns+" FROM intake_records WHERE user_id = $1 ORDER BY consumption_time DESC, intake_id DESC", userID); err != nil {
		return nil, err
	}
	out := make([]domain.IntakeRecord, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

// UpdateIntake sets the non-nil fields of p. Stored nutrients are kept.
func (d *DB) UpdateIntake(ctx context.Context, userID, id int64, p domain.IntakePatch) (int64, error) {
	return rowsAffected(d.db.ExecContext(ctx,
		"UPDATE intake_records SET meal_weight = COALESCE($3, meal_weight), meal_name = COALESCE($4, meal_name), consumption_time = COALESCE($5, consumption_time) WHERE intake_id = $1 AND user_id = $2",
		id, userID, p.MealWeight, p.MealName, p.ConsumptionTime,
	))
}

// DeleteIntake removes an intake by ID, scoped to a user.
func (d *DB) DeleteIntake(ctx context.Context, userID, id int64) (int64, error) {
	return rowsAffected(d.db.ExecContext(ctx, "DELETE FROM intake_records WHERE intake_id = $1 AND user_id = $2", id, userID))
}
