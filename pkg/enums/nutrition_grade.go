package enums

import (
	"fmt"
	"strings"
)

// NutritionGrade is the A-E letter score sourced from OpenFoodFacts.
type NutritionGrade string

const (
	NutritionGradeA NutritionGrade = "A"
	NutritionGradeB NutritionGrade = "B"
	NutritionGradeC NutritionGrade = "C"
	NutritionGradeD NutritionGrade = "D"
	NutritionGradeE NutritionGrade = "E"
)

var validNutritionGrades = []NutritionGrade{
	NutritionGradeA,
	NutritionGradeB,
	NutritionGradeC,
	NutritionGradeD,
	NutritionGradeE,
}

// String implements fmt.Stringer.
func (g NutritionGrade) String() string {
	return string(g)
}

// IsValid reports whether the value is a known NutritionGrade.
func (g NutritionGrade) IsValid() bool {
	for _, candidate := range validNutritionGrades {
		if candidate == g {
			return true
		}
	}
	return false
}

// ParseNutritionGrade converts raw input into a NutritionGrade. OpenFoodFacts
// reports grades lower-cased, so parsing folds case.
func ParseNutritionGrade(value string) (NutritionGrade, error) {
	upper := strings.ToUpper(strings.TrimSpace(value))
	for _, candidate := range validNutritionGrades {
		if string(candidate) == upper {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid nutrition grade %q", value)
}
