package domain

import (
	"context"
	"time"
)

// Activity is a logged bout of exercise.
type Activity struct {
	ID              int64     `json:"ActivityID"`
	UserID          int64     `json:"UserID"`
	ActivityType    string    `json:"ActivityType"`
	DurationMinutes float64   `json:"DurationMinutes"`
	CaloriesBurned  float64   `json:"CaloriesBurned"`
	DateTime        time.Time `json:"ActivityDateTime"`
}

// ActivityType is a catalog row giving calories burned per hour.
type ActivityType struct {
	Name            string  `json:"ActivityType"`
	CaloriesPerHour float64 `json:"CaloriesBurned"`
}

// BMRCalculation is a client-computed basal metabolic rate, stored as given.
type BMRCalculation struct {
	ID        int64     `json:"ID"`
	UserID    int64     `json:"UserID"`
	Weight    float64   `json:"Weight"`
	Age       int       `json:"Age"`
	Gender    string    `json:"Gender"`
	BMR       float64   `json:"BMR"`
	CreatedAt time.Time `json:"CreatedAt"`
}

// ActivityRepository is the port for activity persistence and the activity
// catalog.
type ActivityRepository interface {
	AddActivity(ctx context.Context, a Activity) (*Activity, error)
	ListActivities(ctx context.Context, userID int64) ([]Activity, error)
	ActivityTypeByName(ctx context.Context, name string) (*ActivityType, error)
}

// BMRRepository is the port for BMR persistence.
type BMRRepository interface {
	AddBMR(ctx context.Context, b BMRCalculation) (*BMRCalculation, error)
	ListBMR(ctx context.Context, userID int64) ([]BMRCalculation, error)
}
