package domain

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ViewType selects the bucket width of an aggregation.
type ViewType string

const (
	ViewDaily   ViewType = "daily"
	ViewMonthly ViewType = "monthly"
)

// ParseViewType maps any value other than "monthly" to daily.
func ParseViewType(s string) ViewType {
	if strings.EqualFold(strings.TrimSpace(s), string(ViewMonthly)) {
		return ViewMonthly
	}
	return ViewDaily
}

// BucketKey formats t as a lexicographically sortable bucket key.
func BucketKey(t time.Time, v ViewType) string {
	if v == ViewMonthly {
		return t.Format("2006-01")
	}
	return t.Format("2006-01-02")
}

// Metric names the column summed by a report.
type Metric string

const (
	MetricCaloriesIntake Metric = "calories"
	MetricWaterLiters    Metric = "water"
	MetricCaloriesBurned Metric = "calories_burned"
)

// Bucket is one aggregated point. A synthetic zero record has an empty Date.
type Bucket struct {
	Date  string  `json:"date,omitempty"`
	Total float64 `json:"total"`
}

// DateRange is an inclusive [Start, End] interval in UTC.
type DateRange struct {
	Start time.Time
	End   time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseTimestamp accepts RFC 3339, HTML datetime-local and plain dates.
// Values with an offset are converted to UTC; values without one are
// taken as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return time.Time{}, errors.New("unrecognised timestamp")
}

// ParseDateRange parses startDate and endDate. A date-only end covers the
// whole day. The order of the two bounds is not checked: an inverted range
// simply matches nothing.
func ParseDateRange(start, end string) (DateRange, error) {
	if strings.TrimSpace(start) == "" {
		return DateRange{}, Invalid("startDate", "is required")
	}
	if strings.TrimSpace(end) == "" {
		return DateRange{}, Invalid("endDate", "is required")
	}
	s, err := ParseTimestamp(start)
	if err != nil {
		return DateRange{}, Invalid("startDate", err.Error())
	}
	e, err := ParseTimestamp(end)
	if err != nil {
		return DateRange{}, Invalid("endDate", err.Error())
	}
	if _, err := time.Parse(time.DateOnly, strings.TrimSpace(end)); err == nil {
		e = e.AddDate(0, 0, 1).Add(-time.Microsecond)
	}
	return DateRange{Start: s, End: e}, nil
}

// Contains reports whether t falls within the inclusive range.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// ReportRepository is the port for time-bucketed aggregation.
type ReportRepository interface {
	// SumByBucket returns per-bucket sums ordered ascending by bucket.
	SumByBucket(ctx context.Context, m Metric, userID int64, r DateRange, v ViewType) ([]Bucket, error)
}
