package types

// NutritionFacts carries the per-100g nutriment values adopted from
// OpenFoodFacts. Every field is optional; the lookup frequently returns a
// partial record and missing values must not clobber what is absent.
type NutritionFacts struct {
	EnergyKcal    *float64 `json:"energy_kcal_100g,omitempty"`
	Proteins      *float64 `json:"proteins_100g,omitempty"`
	Fat           *float64 `json:"fat_100g,omitempty"`
	Carbohydrates *float64 `json:"carbohydrates_100g,omitempty"`
	Sugars        *float64 `json:"sugars_100g,omitempty"`
	Fiber         *float64 `json:"fiber_100g,omitempty"`
	Salt          *float64 `json:"salt_100g,omitempty"`
}

// IsEmpty reports whether no nutriment value is present at all.
func (n NutritionFacts) IsEmpty() bool {
	return n.EnergyKcal == nil &&
		n.Proteins == nil &&
		n.Fat == nil &&
		n.Carbohydrates == nil &&
		n.Sugars == nil &&
		n.Fiber == nil &&
		n.Salt == nil
}
