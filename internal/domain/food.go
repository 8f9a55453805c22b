package domain

import "context"

// FoodItem is a search hit from the food-composition service.
type FoodItem struct {
	FoodID   int64  `json:"foodID"`
	FoodName string `json:"foodName"`
}

// CompSpec is one nutrient value of a food item, per 100 g.
type CompSpec struct {
	FoodID  int64   `json:"foodID"`
	SortKey int     `json:"sortKey"`
	Name    string  `json:"parameterName,omitempty"`
	ResVal  float64 `json:"resVal"`
}

// FoodLookup is the port for the external food-composition service.
type FoodLookup interface {
	Search(ctx context.Context, productName string) ([]FoodItem, error)
	CompSpecs(ctx context.Context, itemID int64, sortKey int) ([]CompSpec, error)
}
