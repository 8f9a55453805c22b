package domain

import (
	"context"
	"time"
)

// IntakeRecord is a logged consumption of a saved meal. Nutrient fields are
// derived from the meal at insert time and stay fixed afterwards.
type IntakeRecord struct {
	ID              int64     `json:"IntakeID"`
	UserID          int64     `json:"UserID"`
	MealID          int64     `json:"MealID"`
	MealName        string    `json:"MealName"`
	ConsumptionTime time.Time `json:"ConsumptionTime"`
	MealWeight      float64   `json:"MealWeight"`
	Calories        float64   `json:"Calories"`
	Protein         float64   `json:"Protein"`
	Fat             float64   `json:"Fat"`
	Fibers          float64   `json:"Fibers"`
	Latitude        *float64  `json:"Latitude"`
	Longitude       *float64  `json:"Longitude"`
}

// NewIntake holds the caller-supplied fields of a meal intake.
type NewIntake struct {
	UserID          int64
	MealID          int64
	MealName        string
	ConsumptionTime time.Time
	MealWeight      float64
	Latitude        *float64
	Longitude       *float64
}

// IntakePatch is a partial update of a meal intake. Changing MealWeight does
// not recompute the stored nutrients.
type IntakePatch struct {
	MealWeight      *float64
	MealName        *string
	ConsumptionTime *time.Time
}

// IntakeRepository is the port for meal intake persistence.
type IntakeRepository interface {
	// RecordIntake inserts an intake with nutrients scaled from the meal.
	// It returns ErrNotFound when the meal does not exist.
	RecordIntake(ctx context.Context, in NewIntake) (*IntakeRecord, error)
	ListIntakes(ctx context.Context, userID int64) ([]IntakeRecord, error)
	UpdateIntake(ctx context.Context, userID, id int64, p IntakePatch) (int64, error)
	DeleteIntake(ctx context.Context, userID, id int64) (int64, error)
}

// IndividualIntake is a logged consumption of a raw ingredient. Nutrients
// are supplied by the client and stored as given.
type IndividualIntake struct {
	ID             int64     `json:"IntakeID"`
	UserID         int64     `json:"UserID"`
	IngredientName string    `json:"IngredientName"`
	Quantity       float64   `json:"Quantity"`
	IntakeDateTime time.Time `json:"IntakeDateTime"`
	Protein        float64   `json:"Protein"`
	Fat            float64   `json:"Fat"`
	Fibers         float64   `json:"Fibers"`
	Calories       float64   `json:"Calories"`
	Latitude       *float64  `json:"Latitude"`
	Longitude      *float64  `json:"Longitude"`
}

// IndividualIntakePatch is a partial update of an ingredient intake.
type IndividualIntakePatch struct {
	Quantity       *float64
	IntakeDateTime *time.Time
	IngredientName *string
}

// Ingredient is a catalog row with nutrient values per 100 g.
type Ingredient struct {
	Name     string  `json:"IngredientName"`
	Protein  float64 `json:"Protein"`
	Fat      float64 `json:"Fat"`
	Fiber    float64 `json:"Fiber"`
	Calories float64 `json:"Calories"`
}

// IngredientRepository is the port for ingredient intakes and the
// ingredient catalog.
type IngredientRepository interface {
	IngredientByName(ctx context.Context, name string) (*Ingredient, error)
	AddIndividualIntake(ctx context.Context, in IndividualIntake) (*IndividualIntake, error)
	ListIndividualIntakes(ctx context.Context, userID int64) ([]IndividualIntake, error)
	UpdateIndividualIntake(ctx context.Context, userID, id int64, p IndividualIntakePatch) (int64, error)
	DeleteIndividualIntake(ctx context.Context, userID, id int64) (int64, error)
}
