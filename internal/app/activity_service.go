package app

import (
	"context"
	"math"
	"strings"
	"time"

	"nutritrack/internal/domain"
)

// ActivityService encapsulates activity and BMR use cases.
type ActivityService struct {
	activities domain.ActivityRepository
	bmr        domain.BMRRepository
	now        func() time.Time
}

// NewActivityService creates an ActivityService.
func NewActivityService(activities domain.ActivityRepository, bmr domain.BMRRepository) *ActivityService {
	return &ActivityService{activities: activities, bmr: bmr, now: func() time.Time { return time.Now().UTC() }}
}

// Add logs an activity stamped with the current time.
func (s *ActivityService) Add(ctx context.Context, a domain.Activity) (*domain.Activity, error) {
	if strings.TrimSpace(a.ActivityType) == "" {
		return nil, domain.Invalid("ActivityType", "is required")
	}
	if a.DurationMinutes < 0 {
		return nil, domain.Invalid("DurationMinutes", "must not be negative")
	}
	if a.CaloriesBurned < 0 {
		return nil, domain.Invalid("CaloriesBurned", "must not be negative")
	}
	a.DateTime = s.now()
	return s.activities.AddActivity(ctx, a)
}

// List returns every activity logged by userID.
func (s *ActivityService) List(ctx context.Context, userID int64) ([]domain.Activity, error) {
	return s.activities.ListActivities(ctx, userID)
}

// Lookup returns the catalog entry for an activity name.
func (s *ActivityService) Lookup(ctx context.Context, name string) (*domain.ActivityType, error) {
	if strings.TrimSpace(name) == "" {
		return nil, domain.Invalid("activityName", "is required")
	}
	t, err := s.activities.ActivityTypeByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

// BurnEstimate is the result of Calculate.
type BurnEstimate struct {
	ActivityType    string  `json:"activityType"`
	DurationMinutes float64 `json:"durationMinutes"`
	CaloriesBurned  int64   `json:"caloriesBurned"`
}

// Calculate estimates calories burned from the catalog's hourly rate.
func (s *ActivityService) Calculate(ctx context.Context, name string, minutes float64) (*BurnEstimate, error) {
	if minutes <= 0 {
		return nil, domain.Invalid("durationMinutes", "duration is required")
	}
	t, err := s.Lookup(ctx, name)
	if err != nil {
		return nil, err
	}
	return &BurnEstimate{
		ActivityType:    t.Name,
		DurationMinutes: minutes,
		CaloriesBurned:  int64(math.Round(t.CaloriesPerHour / 60 * minutes)),
	}, nil
}

// AddBMR stores a client-computed BMR without recomputing it.
func (s *ActivityService) AddBMR(ctx context.Context, b domain.BMRCalculation) (*domain.BMRCalculation, error) {
	if b.Weight <= 0 {
		return nil, domain.Invalid("weight", "must be > 0")
	}
	if b.Age <= 0 {
		return nil, domain.Invalid("age", "must be > 0")
	}
	if b.BMR <= 0 {
		return nil, domain.Invalid("bmr", "must be > 0")
	}
	return s.bmr.AddBMR(ctx, b)
}

// ListBMR returns the BMR history of userID.
func (s *ActivityService) ListBMR(ctx context.Context, userID int64) ([]domain.BMRCalculation, error) {
	return s.bmr.ListBMR(ctx, userID)
}
