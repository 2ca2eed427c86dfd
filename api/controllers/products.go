package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/trinitystore/trinity-backend/api/responses"
	"github.com/trinitystore/trinity-backend/api/validators"
	catalogsvc "github.com/trinitystore/trinity-backend/internal/catalog"
	"github.com/trinitystore/trinity-backend/internal/taxonomy"
	pkgerrors "github.com/trinitystore/trinity-backend/pkg/errors"
	"github.com/trinitystore/trinity-backend/pkg/logger"
	"github.com/trinitystore/trinity-backend/pkg/pagination"
)

const maxSearchTermLength = 120

// ListProducts serves the storefront listing with search, category, sort,
// and pagination query parameters.
func ListProducts(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		page, err := validators.ParseQueryInt(r, "page", 1, 1, 10000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := catalogsvc.ListProductsInput{
			Query:    validators.SanitizeString(r.URL.Query().Get("search"), maxSearchTermLength),
			Category: validators.SanitizeString(r.URL.Query().Get("category"), maxSearchTermLength),
			Sort:     catalogsvc.SortKey(strings.TrimSpace(r.URL.Query().Get("sort"))),
			Page:     pagination.Params{Page: page, Limit: limit},
		}
		if dir := strings.TrimSpace(r.URL.Query().Get("dir")); dir == string(catalogsvc.SortDesc) {
			input.Dir = catalogsvc.SortDesc
		} else {
			input.Dir = catalogsvc.SortAsc
		}

		if input.Category != "" && !taxonomy.IsKnown(input.Category) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown category"))
			return
		}

		result, err := svc.ListProducts(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// GetProduct loads one product by id.
func GetProduct(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// CreateProduct inserts a new catalog entry, optionally enriched through the
// nutrition lookup when lookup_query is supplied.
func CreateProduct(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// UpdateProduct applies a partial update to an existing product.
func UpdateProduct(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// DeleteProduct removes one product.
func DeleteProduct(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// BulkDeleteProducts deletes a batch of products and reports per-id outcomes.
func BulkDeleteProducts(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload bulkDeleteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ids, err := parseUUIDList(payload.IDs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		report, err := svc.BulkDeleteProducts(r.Context(), ids)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, report)
	}
}

// EnrichProduct re-runs the nutrition lookup against a stored product.
func EnrichProduct(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		id, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload enrichProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.EnrichProduct(r.Context(), id, payload.Query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

type createProductRequest struct {
	Name        string  `json:"name" validate:"required"`
	Brand       *string `json:"brand,omitempty"`
	Picture     *string `json:"picture,omitempty"`
	Category    *string `json:"category,omitempty"`
	Barcode     *string `json:"barcode,omitempty"`
	Price       string  `json:"price" validate:"required"`
	Quantity    int     `json:"quantity" validate:"min=0"`
	LookupQuery string  `json:"lookup_query,omitempty"`
}

func (r createProductRequest) toInput() (catalogsvc.CreateProductInput, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(r.Price))
	if err != nil {
		return catalogsvc.CreateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price")
	}

	return catalogsvc.CreateProductInput{
		Name:        strings.TrimSpace(r.Name),
		Brand:       r.Brand,
		Picture:     r.Picture,
		Category:    r.Category,
		Barcode:     r.Barcode,
		Price:       price,
		Quantity:    r.Quantity,
		LookupQuery: strings.TrimSpace(r.LookupQuery),
	}, nil
}

type updateProductRequest struct {
	Name     *string `json:"name,omitempty"`
	Brand    *string `json:"brand,omitempty"`
	Picture  *string `json:"picture,omitempty"`
	Category *string `json:"category,omitempty"`
	Barcode  *string `json:"barcode,omitempty"`
	Price    *string `json:"price,omitempty"`
	Quantity *int    `json:"quantity,omitempty" validate:"omitempty,min=0"`
}

func (r updateProductRequest) toInput() (catalogsvc.UpdateProductInput, error) {
	input := catalogsvc.UpdateProductInput{
		Name:     r.Name,
		Brand:    r.Brand,
		Picture:  r.Picture,
		Category: r.Category,
		Barcode:  r.Barcode,
		Quantity: r.Quantity,
	}

	if r.Price != nil {
		price, err := decimal.NewFromString(strings.TrimSpace(*r.Price))
		if err != nil {
			return catalogsvc.UpdateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price")
		}
		input.Price = &price
	}

	return input, nil
}

type bulkDeleteRequest struct {
	IDs []string `json:"ids" validate:"required,min=1"`
}

type enrichProductRequest struct {
	Query string `json:"query" validate:"required"`
}

func productIDParam(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id")
	}
	return id, nil
}

func parseUUIDList(values []string) ([]uuid.UUID, error) {
	result := make([]uuid.UUID, 0, len(values))
	for _, raw := range values {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}
		parsed, err := uuid.Parse(trimmed)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id")
		}
		result = append(result, parsed)
	}
	return result, nil
}
