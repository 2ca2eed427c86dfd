package catalog

import (
	"sort"
	"strings"

	"github.com/trinitystore/trinity-backend/internal/taxonomy"
	"github.com/trinitystore/trinity-backend/pkg/db/models"
)

// SortKey names a sortable product column.
type SortKey string

const (
	SortByName     SortKey = "name"
	SortByBrand    SortKey = "brand"
	SortByCategory SortKey = "category"
	SortByPrice    SortKey = "price"
	SortByQuantity SortKey = "quantity"
)

// IsValid reports whether the key names a sortable column.
func (k SortKey) IsValid() bool {
	switch k {
	case SortByName, SortByBrand, SortByCategory, SortByPrice, SortByQuantity:
		return true
	}
	return false
}

// SortDirection is the order applied to a sort key.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortState tracks the active sort column and direction the way the product
// table header does: clicking the active column flips direction, clicking a
// new column resets to ascending.
type SortState struct {
	Key       SortKey
	Direction SortDirection
}

// Toggle returns the state after a click on key.
func (s SortState) Toggle(key SortKey) SortState {
	if s.Key == key && s.Direction == SortAsc {
		return SortState{Key: key, Direction: SortDesc}
	}
	return SortState{Key: key, Direction: SortAsc}
}

// Filter narrows products by a search term and a display category. The term
// matches case-insensitively against name, brand, and raw category (missing
// values treated as empty); the category filter resolves each product through
// the taxonomy. Both conditions must hold. Order is preserved, and an empty
// query with category "All" returns every product.
func Filter(products []models.Product, query, category string) []models.Product {
	needle := strings.ToLower(strings.TrimSpace(query))
	matchAll := category == "" || category == taxonomy.All

	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if needle != "" && !matchesQuery(p, needle) {
			continue
		}
		if !matchAll && taxonomy.Categorize(p.Name, deref(p.Category)) != taxonomy.Category(category) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matchesQuery(p models.Product, needle string) bool {
	return strings.Contains(strings.ToLower(p.Name), needle) ||
		strings.Contains(strings.ToLower(deref(p.Brand)), needle) ||
		strings.Contains(strings.ToLower(deref(p.Category)), needle)
}

// Sort orders products by the given key and direction. Text keys compare
// case-insensitively, price and quantity numerically. The sort is stable so
// equal elements keep their relative order. An invalid key is a no-op.
func Sort(products []models.Product, key SortKey, direction SortDirection) {
	if !key.IsValid() {
		return
	}
	desc := direction == SortDesc
	sort.SliceStable(products, func(i, j int) bool {
		less := compare(products[i], products[j], key)
		if desc {
			return compare(products[j], products[i], key)
		}
		return less
	})
}

func compare(a, b models.Product, key SortKey) bool {
	switch key {
	case SortByPrice:
		return a.Price.LessThan(b.Price)
	case SortByQuantity:
		return a.Quantity < b.Quantity
	case SortByBrand:
		return strings.ToLower(deref(a.Brand)) < strings.ToLower(deref(b.Brand))
	case SortByCategory:
		return strings.ToLower(deref(a.Category)) < strings.ToLower(deref(b.Category))
	default:
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
