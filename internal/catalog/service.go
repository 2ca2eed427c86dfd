package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/trinitystore/trinity-backend/internal/nutrition"
	"github.com/trinitystore/trinity-backend/pkg/db/models"
	pkgerrors "github.com/trinitystore/trinity-backend/pkg/errors"
	"github.com/trinitystore/trinity-backend/pkg/logger"
	"github.com/trinitystore/trinity-backend/pkg/pagination"
)

// Service exposes catalog management and storefront listing operations.
type Service interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
	BulkDeleteProducts(ctx context.Context, ids []uuid.UUID) (*BulkDeleteReport, error)
	GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error)
	ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error)
	EnrichProduct(ctx context.Context, productID uuid.UUID, query string) (*ProductDTO, error)
}

// CreateProductInput holds the validated payload to create a product.
// LookupQuery, when set, triggers a best-effort OpenFoodFacts enrichment.
type CreateProductInput struct {
	Name        string
	Brand       *string
	Picture     *string
	Category    *string
	Barcode     *string
	Price       decimal.Decimal
	Quantity    int
	LookupQuery string
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Name     *string
	Brand    *string
	Picture  *string
	Category *string
	Barcode  *string
	Price    *decimal.Decimal
	Quantity *int
}

// ListProductsInput carries storefront listing parameters.
type ListProductsInput struct {
	Query    string
	Category string
	Sort     SortKey
	Dir      SortDirection
	Page     pagination.Params
}

// service implements the catalog service.
type service struct {
	repo    ProductRepository
	fetcher nutrition.Fetcher
	logg    *logger.Logger
}

// NewService constructs a catalog service instance.
func NewService(repo ProductRepository, fetcher nutrition.Fetcher, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if fetcher == nil {
		return nil, fmt.Errorf("nutrition fetcher required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, fetcher: fetcher, logg: logg}, nil
}

// CreateProduct validates and inserts the product. When a lookup query is
// supplied the service tries OpenFoodFacts; lookup failures never fail the
// create, the product just stays ungraded.
func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	if err := validateProductValues(input.Name, input.Price, input.Quantity); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:     strings.TrimSpace(input.Name),
		Brand:    input.Brand,
		Picture:  input.Picture,
		Category: input.Category,
		Barcode:  input.Barcode,
		Price:    input.Price,
		Quantity: input.Quantity,
	}

	if query := strings.TrimSpace(input.LookupQuery); query != "" {
		lookup, err := s.fetcher.Search(ctx, query)
		switch {
		case err != nil:
			s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"query": query, "error": err.Error()}), "openfoodfacts lookup failed, creating ungraded")
		case lookup != nil:
			applyLookup(product, lookup)
		}
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
	}
	return NewProductDTO(created), nil
}

// UpdateProduct applies partial updates to an existing product.
func (s *service) UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Brand != nil {
		product.Brand = input.Brand
	}
	if input.Picture != nil {
		product.Picture = input.Picture
	}
	if input.Category != nil {
		product.Category = input.Category
	}
	if input.Barcode != nil {
		product.Barcode = input.Barcode
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Quantity != nil {
		product.Quantity = *input.Quantity
	}

	if err := validateProductValues(product.Name, product.Price, product.Quantity); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
	}
	return NewProductDTO(updated), nil
}

// DeleteProduct removes a single product.
func (s *service) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	if err := s.repo.Delete(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product")
	}
	return nil
}

// BulkDeleteProducts removes products best-effort: each id is attempted, and
// the report names exactly which ones failed and why. The call only errors
// when the input itself is invalid.
func (s *service) BulkDeleteProducts(ctx context.Context, ids []uuid.UUID) (*BulkDeleteReport, error) {
	if len(ids) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one product id is required")
	}

	report := &BulkDeleteReport{Deleted: make([]uuid.UUID, 0, len(ids))}
	var combined error
	for _, id := range ids {
		if err := s.repo.Delete(ctx, id); err != nil {
			reason := "delete failed"
			if errors.Is(err, gorm.ErrRecordNotFound) {
				reason = "product not found"
			}
			report.Failed = append(report.Failed, BulkDeleteFailed{ID: id, Reason: reason})
			combined = multierr.Append(combined, fmt.Errorf("delete %s: %w", id, err))
			continue
		}
		report.Deleted = append(report.Deleted, id)
	}

	if combined != nil {
		s.logg.Error(s.logg.WithField(ctx, "failed_count", len(report.Failed)), "bulk delete completed with failures", combined)
	}
	return report, nil
}

// GetProduct loads a single product.
func (s *service) GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error) {
	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return NewProductDTO(product), nil
}

// ListProducts applies search, category, and sort over the catalog and
// windows the result into a page.
func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error) {
	if input.Sort != "" && !input.Sort.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown sort key %q", input.Sort))
	}

	products, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}

	filtered := Filter(products, input.Query, input.Category)
	if input.Sort != "" {
		Sort(filtered, input.Sort, input.Dir)
	}

	start, end, meta := pagination.Window(input.Page, len(filtered))
	return &ProductListResult{
		Items: NewProductDTOs(filtered[start:end]),
		Meta:  meta,
	}, nil
}

// EnrichProduct re-runs the OpenFoodFacts lookup for an existing product.
// No candidate is NOT_FOUND and leaves the stored values untouched.
func (s *service) EnrichProduct(ctx context.Context, productID uuid.UUID, query string) (*ProductDTO, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "query is required")
	}

	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	lookup, err := s.fetcher.Search(ctx, trimmed)
	if err != nil {
		return nil, err
	}
	if lookup == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no openfoodfacts result")
	}

	applyLookup(product, lookup)
	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
	}
	return NewProductDTO(updated), nil
}

func (s *service) loadProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	return product, nil
}

func applyLookup(product *models.Product, lookup *nutrition.Lookup) {
	if lookup.Grade != nil {
		product.NutritionGrade = lookup.Grade
	}
	if !lookup.Facts.IsEmpty() {
		facts := lookup.Facts
		product.NutritionFacts = &facts
	}
}

func validateProductValues(name string, price decimal.Decimal, quantity int) error {
	if strings.TrimSpace(name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if quantity < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}
	return nil
}
