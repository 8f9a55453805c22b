package domain_test

import (
	"math"
	"testing"

	"nutritrack/internal/domain"
)

func almostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestScalePer100(t *testing.T) {
	tests := []struct {
		name   string
		per100 float64
		grams  float64
		want   float64
	}{
		{"half portion", 500, 50, 250},
		{"exact 100g", 120, 100, 120},
		{"double portion", 80, 200, 160},
		{"zero weight", 500, 0, 0},
		{"fractional", 33.3, 15, 4.995},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := domain.ScalePer100(tc.per100, tc.grams)
			if !almostEqual(got, tc.want, 0.001) {
				t.Errorf("ScalePer100(%v, %v) = %v; want %v", tc.per100, tc.grams, got, tc.want)
			}
		})
	}
}

func TestScaleMeal(t *testing.T) {
	m := domain.Meal{TotalKcal: 500, TotalProtein: 20, TotalFat: 10, TotalFibers: 4}
	got := domain.ScaleMeal(m, 50)
	if got.Calories != 250 || got.Protein != 10 || got.Fat != 5 || got.Fibers != 2 {
		t.Fatalf("ScaleMeal = %+v", got)
	}
}
