package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"nutritrack/internal/domain"
)

type activityRow struct {
	ID              int64     `db:"activity_id"`
	UserID          int64     `db:"user_id"`
	ActivityType    string    `db:"activity_type"`
	DurationMinutes float64   `db:"duration_minutes"`
	CaloriesBurned  float64   `db:"calories_burned"`
	DateTime        time.Time `db:"activity_datetime"`
}

func (r activityRow) toDomain() domain.Activity {
	return domain.Activity{
		ID:              r.ID,
		UserID:          r.UserID,
		ActivityType:    r.ActivityType,
		DurationMinutes: r.DurationMinutes,
		CaloriesBurned:  r.CaloriesBurned,
		DateTime:        r.DateTime,
	}
}

// AddActivity logs an activity.
func (d *DB) AddActivity(ctx context.Context, a domain.Activity) (*domain.Activity, error) {
	var r activityRow
	err := d.db.GetContext(ctx, &r,
		"INSERT INTO activity_tracker (user_id, activity_type, duration_minutes, calories_burned, activity_datetime) VALUES ($1, $2, $3, $4, $5) RETURNING activity_id, user_id, activity_type, duration_minutes, calories_burned, activity_datetime",
		a.UserID, a.ActivityType, a.DurationMinutes, a.CaloriesBurned, a.DateTime,
	)
	if err != nil {
		return nil, mapErr(err)
	}
	out := r.toDomain()
	return &out, nil
}

// ListActivities returns a user's activities, newest first.
func (d *DB) ListActivities(ctx context.Context, userID int64) ([]domain.Activity, error) {
	var rows []activityRow
	if err := d.db.SelectContext(ctx, &rows,
		"SELECT activity_id, user_id, activity_type, duration_minutes, calories_burned, activity_datetime FROM activity_tracker WHERE user_id = $1 ORDER BY activity_datetime DESC, activity_id DESC",
		userID); err != nil {
		return nil, err
	}
	out := make([]domain.Activity, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

// ActivityTypeByName looks up the activity catalog, ignoring case. It
// returns nil, nil when nothing matches.
func (d *DB) ActivityTypeByName(ctx context.Context, name string) (*domain.ActivityType, error) {
	var t struct {
		Name            string  `db:"activity_type"`
		CaloriesPerHour float64 `db:"calories_burned"`
	}
	err := d.db.GetContext(ctx, &t,
		"SELECT activity_type, calories_burned FROM activities WHERE lower(activity_type) = lower($1)", name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &domain.ActivityType{Name: t.Name, CaloriesPerHour: t.CaloriesPerHour}, nil
}

type bmrRow struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Weight    float64   `db:"weight"`
	Age       int       `db:"age"`
	Gender    string    `db:"gender"`
	BMR       float64   `db:"bmr"`
	CreatedAt time.Time `db:"created_at"`
}

func (r bmrRow) toDomain() domain.BMRCalculation {
	return domain.BMRCalculation{
		ID:        r.ID,
		UserID:    r.UserID,
		Weight:    r.Weight,
		Age:       r.Age,
		Gender:    r.Gender,
		BMR:       r.BMR,
		CreatedAt: r.CreatedAt,
	}
}

// AddBMR stores a BMR calculation.
func (d *DB) AddBMR(ctx context.Context, b domain.BMRCalculation) (*domain.BMRCalculation, error) {
	var r bmrRow
	err := d.db.GetContext(ctx, &r,
		"INSERT INTO bmr_calculations (user_id, weight, age, gender, bmr, created_at) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, user_id, weight, age, gender, bmr, created_at",
		b.UserID, b.Weight, b.Age, b.Gender, b.BMR, time.Now(),
	)
	if err != nil {
		return nil, mapErr(err)
	}
	out := r.toDomain()
	return &out, nil
}

// ListBMR returns a user's BMR history, newest first.
func (d *DB) ListBMR(ctx context.Context, userID int64) ([]domain.BMRCalculation, error) {
	var rows []bmrRow
	if err := d.db.SelectContext(ctx, &rows,
		"SELECT id, user_id, weight, age, gender, bmr, created_at FROM bmr_calculations WHERE user_id = $1 ORDER BY created_at DESC, id DESC",
		userID); err != nil {
		return nil, err
	}
	out := make([]domain.BMRCalculation, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}
