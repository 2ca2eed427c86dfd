// Package taxonomy maps raw product data onto the storefront's display
// categories. Products arrive with free-form category strings (often straight
// from OpenFoodFacts), so display grouping is keyword-driven.
package taxonomy

import "strings"

// Category is a storefront display category label.
type Category string

// Other is the fallback for products no keyword list claims.
const Other Category = "Other"

// All is the pseudo-category that matches every product in filters.
const All = "All"

type entry struct {
	category Category
	keywords []string
}

// Declaration order matters: the first category whose keyword matches wins,
// so "butter" lands in dairy even though fats-and-oils also lists it.
var entries = []entry{
	{"Fruits and vegetables", []string{"apple", "banana", "orange", "tomato", "carrot", "lettuce", "broccoli", "spinach", "fruit", "vegetable"}},
	{"Grains and cereals", []string{"bread", "rice", "pasta", "cereal", "oats", "wheat", "grain"}},
	{"Meat and poultry", []string{"chicken", "beef", "pork", "turkey", "meat", "poultry"}},
	{"Fish and seafood", []string{"fish", "salmon", "tuna", "shrimp", "crab", "seafood"}},
	{"Dairy and dairy alternatives", []string{"milk", "cheese", "yogurt", "butter", "dairy", "cream"}},
	{"Fats and oils", []string{"oil", "butter", "ghee", "fat", "margarine"}},
	{"Sugars and confectionery", []string{"sugar", "candy", "chocolate", "sweet", "dessert"}},
	{"Beverages", []string{"juice", "water", "coffee", "tea", "drink", "beverage"}},
	{"Ready-to-eat and convenience foods", []string{"ready", "frozen", "convenience", "instant"}},
	{"Condiments, sauces, and spices", []string{"sauce", "spice", "condiment", "seasoning", "ketchup", "mayo"}},
}

// Categorize resolves the display category for a product from its name and
// raw category string. Matching is case-insensitive substring over the
// concatenation of both.
func Categorize(name, category string) Category {
	combined := strings.ToLower(name) + " " + strings.ToLower(category)
	for _, e := range entries {
		for _, kw := range e.keywords {
			if strings.Contains(combined, kw) {
				return e.category
			}
		}
	}
	return Other
}

// Names returns the display categories in declaration order, without the
// Other fallback.
func Names() []Category {
	out := make([]Category, len(entries))
	for i, e := range entries {
		out[i] = e.category
	}
	return out
}

// IsKnown reports whether label names a declared category, Other, or All.
func IsKnown(label string) bool {
	if label == All || Category(label) == Other {
		return true
	}
	for _, e := range entries {
		if string(e.category) == label {
			return true
		}
	}
	return false
}
