package app

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"nutritrack/internal/domain"

	"golang.org/x/sync/errgroup"
)

// Sort keys of the nutrients a meal carries totals for.
var nutrientSortKeys = []struct {
	Name    string
	SortKey int
}{
	{"Kcal", 1030},
	{"Protein", 1110},
	{"Fat", 1310},
	{"Fibers", 1240},
	{"kJ", 1010},
}

// FoodService wraps the external food-composition lookup.
type FoodService struct {
	lookup domain.FoodLookup
}

// NewFoodService creates a FoodService.
func NewFoodService(lookup domain.FoodLookup) *FoodService {
	return &FoodService{lookup: lookup}
}

// Search finds food items by product name.
func (s *FoodService) Search(ctx context.Context, productName string) ([]domain.FoodItem, error) {
	if strings.TrimSpace(productName) == "" {
		return nil, domain.Invalid("productName", "is required")
	}
	return s.lookup.Search(ctx, productName)
}

// CompSpecs returns the raw per-100 g values of one nutrient of a food item.
func (s *FoodService) CompSpecs(ctx context.Context, itemID int64, sortKey int) ([]domain.CompSpec, error) {
	if itemID <= 0 {
		return nil, domain.Invalid("itemID", "is required")
	}
	if sortKey <= 0 {
		return nil, domain.Invalid("sortKey", "is required")
	}
	return s.lookup.CompSpecs(ctx, itemID, sortKey)
}

// Nutrients returns the nutrient values of weight grams of a food item.
// For each nutrient only the first value returned upstream is used; a
// nutrient with no values is reported as zero.
func (s *FoodService) Nutrients(ctx context.Context, itemID int64, weight float64) (map[string]float64, error) {
	if itemID <= 0 {
		return nil, domain.Invalid("itemID", "is required")
	}
	if weight <= 0 {
		return nil, domain.Invalid("weight", "must be > 0")
	}

	var mu sync.Mutex
	out := make(map[string]float64, len(nutrientSortKeys))
	g, gctx := errgroup.WithContext(ctx)
	for _, n := range nutrientSortKeys {
		n := n
		g.Go(func() error {
			specs, err := s.lookup.CompSpecs(gctx, itemID, n.SortKey)
			if err != nil {
				return fmt.Errorf("sort key %d: %w", n.SortKey, err)
			}
			var v float64
			if len(specs) > 0 {
				v = domain.ScalePer100(specs[0].ResVal, weight)
			}
			mu.Lock()
			out[n.Name] = v
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
