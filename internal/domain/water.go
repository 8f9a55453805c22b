package domain

import (
	"context"
	"time"
)

// WaterIntake is a single logged amount of water.
type WaterIntake struct {
	ID        int64     `json:"WaterIntakeID"`
	UserID    int64     `json:"UserID"`
	DateTime  time.Time `json:"WaterDateTime"`
	Liters    float64   `json:"Liter"`
	Latitude  *float64  `json:"Latitude"`
	Longitude *float64  `json:"Longitude"`
}

// WaterPatch is a partial update of a water intake.
type WaterPatch struct {
	Liters   *float64
	DateTime *time.Time
}

// WaterRepository is the port for water persistence.
type WaterRepository interface {
	AddWater(ctx context.Context, w WaterIntake) (int64, error)
	ListWater(ctx context.Context, userID int64) ([]WaterIntake, error)
	UpdateWater(ctx context.Context, userID, id int64, p WaterPatch) (int64, error)
	DeleteWater(ctx context.Context, userID, id int64) (int64, error)
}
