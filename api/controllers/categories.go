package controllers

import (
	"net/http"

	"github.com/trinitystore/trinity-backend/api/responses"
	"github.com/trinitystore/trinity-backend/internal/taxonomy"
)

// ListCategories returns the fixed set of display categories the storefront
// filters by, in taxonomy order.
func ListCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, taxonomy.Names())
	}
}
