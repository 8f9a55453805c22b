package postgres

import (
	"context"
	"time"

	"nutritrack/internal/domain"
)

type waterRow struct {
	ID        int64     `db:"water_intake_id"`
	UserID    int64     `db:"user_id"`
	DateTime  time.Time `db:"water_datetime"`
	Liters    float64   `db:"liters"`
	Latitude  *float64  `db:"latitude"`
	Longitude *float64  `db:"longitude"`
}

// AddWater inserts a water intake and returns its id.
func (d *DB) AddWater(ctx context.Context, w domain.WaterIntake) (int64, error) {
	var id int64
	err := d.db.QueryRowxContext(ctx,
		"INSERT INTO water_intakes (user_id, water_datetime, liters, latitude, longitude) VALUES ($1, $2, $3, $4, $5) RETURNING water_intake_id",
		w.UserID, w.DateTime, w.Liters, w.Latitude, w.Longitude,
	).Scan(&id)
	return id, mapErr(err)
}

// ListWater returns a user's water intakes, newest first.
func (d *DB) ListWater(ctx context.Context, userID int64) ([]domain.WaterIntake, error) {
	var rows []waterRow
	if err := d.db.SelectContext(ctx, &rows,
		"SELECT water_intake_id, user_id, water_datetime, liters, latitude, longitude FROM water_intakes WHERE user_id = $1 ORDER BY water_datetime DESC, water_intake_id DESC",
		userID); err != nil {
		return nil, err
	}
	out := make([]domain.WaterIntake, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.WaterIntake{
			ID:        r.ID,
			UserID:    r.UserID,
			DateTime:  r.DateTime,
			Liters:    r.Liters,
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
		})
	}
	return out, nil
}

// UpdateWater sets the non-nil fields of p.
func (d *DB) UpdateWater(ctx context.Context, userID, id int64, p domain.WaterPatch) (int64, error) {
	return rowsAffected(d.db.ExecContext(ctx,
		"UPDATE water_intakes SET liters = COALESCE($3, liters), water_datetime = COALESCE($4, water_datetime) WHERE water_intake_id = $1 AND user_id = $2",
		id, userID, p.Liters, p.DateTime,
	))
}

// DeleteWater removes a water intake by ID, scoped to a user.
func (d *DB) DeleteWater(ctx context.Context, userID, id int64) (int64, error) {
	return rowsAffected(d.db.ExecContext(ctx, "DELETE FROM water_intakes WHERE water_intake_id = $1 AND user_id = $2", id, userID))
}
