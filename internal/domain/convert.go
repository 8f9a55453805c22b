package domain

// ScalePer100 scales a per-100 g nutrient value to the given weight in grams.
func ScalePer100(per100, grams float64) float64 {
	return per100 * grams / 100
}

// ScaledNutrients holds nutrient totals for a given portion.
type ScaledNutrients struct {
	Calories float64
	Protein  float64
	Fat      float64
	Fibers   float64
}

// ScaleMeal derives the nutrients of a portion of m weighing grams.
func ScaleMeal(m Meal, grams float64) ScaledNutrients {
	return ScaledNutrients{
		Calories: ScalePer100(m.TotalKcal, grams),
		Protein:  ScalePer100(m.TotalProtein, grams),
		Fat:      ScalePer100(m.TotalFat, grams),
		Fibers:   ScalePer100(m.TotalFibers, grams),
	}
}
