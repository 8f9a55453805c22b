package postgres

import (
	"context"
	"fmt"

	"nutritrack/internal/domain"
)

type metricSource struct {
	table  string
	value  string
	timeAt string
}

var metricSources = map[domain.Metric]metricSource{
	domain.MetricCaloriesIntake: {"intake_records", "calories", "consumption_time"},
	domain.MetricWaterLiters:    {"water_intakes", "liters", "water_datetime"},
	domain.MetricCaloriesBurned: {"activity_tracker", "calories_burned", "activity_datetime"},
}

func bucketFormat(v domain.ViewType) string {
	if v == domain.ViewMonthly {
		return "YYYY-MM"
	}
	return "YYYY-MM-DD"
}

// SumByBucket sums a metric per day or month within r, ordered by bucket.
func (d *DB) SumByBucket(ctx context.Context, m domain.Metric, userID int64, r domain.DateRange, v domain.ViewType) ([]domain.Bucket, error) {
	src, ok := metricSources[m]
	if !ok {
		return nil, fmt.Errorf("unknown metric %q", m)
	}
	query := fmt.Sprintf(
		"SELECT to_char(%[3]s, $4) AS bucket, COALESCE(SUM(%[2]s), 0) AS total FROM %[1]s WHERE user_id = $1 AND %[3]s BETWEEN $2 AND $3 GROUP BY 1 ORDER BY 1",
		src.table, src.value, src.timeAt,
	)

	var rows []struct {
		Bucket string  `db:"bucket"`
		Total  float64 `db:"total"`
	}
	if err := d.db.SelectContext(ctx, &rows, query, userID, r.Start, r.End, bucketFormat(v)); err != nil {
		return nil, err
	}
	out := make([]domain.Bucket, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.Bucket{Date: row.Bucket, Total: row.Total})
	}
	return out, nil
}

var ownerQueries = map[domain.Kind]string{
	domain.KindMeal:             "SELECT user_id FROM meals WHERE meal_id = $1",
	domain.KindIntake:           "SELECT user_id FROM intake_records WHERE intake_id = $1",
	domain.KindIndividualIntake: "SELECT user_id FROM individual_intakes WHERE intake_id = $1",
	domain.KindWater:            "SELECT user_id FROM water_intakes WHERE water_intake_id = $1",
	domain.KindUser:             "SELECT id FROM users WHERE id = $1",
}

// OwnerOf returns the user that owns a record, or domain.ErrNotFound.
func (d *DB) OwnerOf(ctx context.Context, kind domain.Kind, id int64) (int64, error) {
	q, ok := ownerQueries[kind]
	if !ok {
		return 0, fmt.Errorf("unknown record kind %q", kind)
	}
	var owner int64
	if err := d.db.GetContext(ctx, &owner, q, id); err != nil {
		return 0, mapErr(err)
	}
	return owner, nil
}
