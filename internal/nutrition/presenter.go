// Package nutrition presents Nutri-Score grades and fetches nutrition data
// from OpenFoodFacts.
package nutrition

import "github.com/trinitystore/trinity-backend/pkg/enums"

const (
	colorUngraded = "#95a5a6"
	labelUngraded = "Not Rated"
)

var gradeColors = map[enums.NutritionGrade]string{
	enums.NutritionGradeA: "#27ae60",
	enums.NutritionGradeB: "#f39c12",
	enums.NutritionGradeC: "#e67e22",
	enums.NutritionGradeD: "#e74c3c",
	enums.NutritionGradeE: "#c0392b",
}

var gradeLabels = map[enums.NutritionGrade]string{
	enums.NutritionGradeA: "Excellent",
	enums.NutritionGradeB: "Good",
	enums.NutritionGradeC: "Fair",
	enums.NutritionGradeD: "Poor",
	enums.NutritionGradeE: "Very Poor",
}

// ColorFor returns the badge color hex for a grade. A nil or unknown grade
// gets the neutral ungraded color.
func ColorFor(grade *enums.NutritionGrade) string {
	if grade == nil {
		return colorUngraded
	}
	if color, ok := gradeColors[*grade]; ok {
		return color
	}
	return colorUngraded
}

// LabelFor returns the human-readable quality label for a grade.
func LabelFor(grade *enums.NutritionGrade) string {
	if grade == nil {
		return labelUngraded
	}
	if label, ok := gradeLabels[*grade]; ok {
		return label
	}
	return labelUngraded
}
