package controllers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	catalogsvc "github.com/trinitystore/trinity-backend/internal/catalog"
	"github.com/trinitystore/trinity-backend/pkg/logger"
)

type stubListCatalogService struct {
	lastInput catalogsvc.ListProductsInput
	called    bool
}

func (s *stubListCatalogService) CreateProduct(context.Context, catalogsvc.CreateProductInput) (*catalogsvc.ProductDTO, error) {
	panic("unimplemented")
}

func (s *stubListCatalogService) UpdateProduct(context.Context, uuid.UUID, catalogsvc.UpdateProductInput) (*catalogsvc.ProductDTO, error) {
	panic("unimplemented")
}

func (s *stubListCatalogService) DeleteProduct(context.Context, uuid.UUID) error {
	panic("unimplemented")
}

func (s *stubListCatalogService) BulkDeleteProducts(context.Context, []uuid.UUID) (*catalogsvc.BulkDeleteReport, error) {
	panic("unimplemented")
}

func (s *stubListCatalogService) GetProduct(context.Context, uuid.UUID) (*catalogsvc.ProductDTO, error) {
	panic("unimplemented")
}

func (s *stubListCatalogService) ListProducts(_ context.Context, input catalogsvc.ListProductsInput) (*catalogsvc.ProductListResult, error) {
	s.called = true
	s.lastInput = input
	return &catalogsvc.ProductListResult{}, nil
}

func (s *stubListCatalogService) EnrichProduct(context.Context, uuid.UUID, string) (*catalogsvc.ProductDTO, error) {
	panic("unimplemented")
}

func TestListProductsCategoryFilter(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})

	t.Run("unknown category rejected", func(t *testing.T) {
		stub := &stubListCatalogService{}
		req := httptest.NewRequest(http.MethodGet, "/api/products/?category=Gadgets", nil)
		rec := httptest.NewRecorder()
		ListProducts(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for unknown category, got %d", rec.Code)
		}
		if stub.called {
			t.Fatal("service should not be reached for an unknown category")
		}
	})

	t.Run("declared category accepted", func(t *testing.T) {
		stub := &stubListCatalogService{}
		req := httptest.NewRequest(http.MethodGet, "/api/products/?category=Beverages", nil)
		rec := httptest.NewRecorder()
		ListProducts(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if stub.lastInput.Category != "Beverages" {
			t.Fatalf("expected category passed through, got %q", stub.lastInput.Category)
		}
	})

	t.Run("empty category passes", func(t *testing.T) {
		stub := &stubListCatalogService{}
		req := httptest.NewRequest(http.MethodGet, "/api/products/", nil)
		rec := httptest.NewRecorder()
		ListProducts(stub, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})
}
