package app

import (
	"context"

	"nutritrack/internal/domain"
)

// ReportService encapsulates the time-bucketed totals shown on the
// nutrition dashboard.
type ReportService struct {
	repo domain.ReportRepository
}

// NewReportService creates a ReportService backed by the given repository.
func NewReportService(repo domain.ReportRepository) *ReportService {
	return &ReportService{repo: repo}
}

// ReportQuery holds the raw query parameters of a report request.
type ReportQuery struct {
	StartDate string
	EndDate   string
	ViewType  string
}

// Report is an aggregated series for one user.
type Report struct {
	UserID   int64           `json:"userId"`
	ViewType domain.ViewType `json:"viewType"`
	Buckets  []domain.Bucket `json:"-"`
}

// CaloriesIntake sums IntakeRecord calories per bucket.
func (s *ReportService) CaloriesIntake(ctx context.Context, userID int64, q ReportQuery) (*Report, error) {
	return s.aggregate(ctx, domain.MetricCaloriesIntake, userID, q)
}

// WaterIntake sums liters per bucket.
func (s *ReportService) WaterIntake(ctx context.Context, userID int64, q ReportQuery) (*Report, error) {
	return s.aggregate(ctx, domain.MetricWaterLiters, userID, q)
}

// CaloriesBurned sums activity calories per bucket.
func (s *ReportService) CaloriesBurned(ctx context.Context, userID int64, q ReportQuery) (*Report, error) {
	return s.aggregate(ctx, domain.MetricCaloriesBurned, userID, q)
}

// aggregate returns a single zero bucket instead of an empty series.
func (s *ReportService) aggregate(ctx context.Context, m domain.Metric, userID int64, q ReportQuery) (*Report, error) {
	r, err := domain.ParseDateRange(q.StartDate, q.EndDate)
	if err != nil {
		return nil, err
	}
	view := domain.ParseViewType(q.ViewType)

	buckets, err := s.repo.SumByBucket(ctx, m, userID, r, view)
	if err != nil {
		return nil, err
	}
	if len(buckets) == 0 {
		buckets = []domain.Bucket{{Total: 0}}
	}
	return &Report{UserID: userID, ViewType: view, Buckets: buckets}, nil
}
