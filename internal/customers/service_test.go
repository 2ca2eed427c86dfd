package customers

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/trinitystore/trinity-backend/pkg/db/models"
	pkgerrors "github.com/trinitystore/trinity-backend/pkg/errors"
	"github.com/trinitystore/trinity-backend/pkg/logger"
	"github.com/trinitystore/trinity-backend/pkg/pagination"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.Customer{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	svc, err := NewService(NewRepository(conn), logger.New(logger.Options{ServiceName: "customers-test", Output: io.Discard}))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func strPtr(s string) *string { return &s }

func TestCustomerLifecycle(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateCustomer(ctx, CreateCustomerInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		City:      "London",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Fatal("expected generated id")
	}

	updated, err := svc.UpdateCustomer(ctx, created.ID, UpdateCustomerInput{
		Phone: strPtr("555-0100"),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Phone != "555-0100" {
		t.Fatalf("expected phone to be set, got %q", updated.Phone)
	}
	if updated.FirstName != "Ada" || updated.LastName != "Lovelace" {
		t.Fatalf("expected name untouched, got %q %q", updated.FirstName, updated.LastName)
	}

	fetched, err := svc.GetCustomer(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if fetched.City != "London" {
		t.Fatalf("expected city to survive the update, got %q", fetched.City)
	}

	if err := svc.DeleteCustomer(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	err = svc.DeleteCustomer(ctx, created.ID)
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestCreateCustomerRequiresFirstName(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CreateCustomer(context.Background(), CreateCustomerInput{FirstName: "   "})
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateCustomerDuplicateUserLink(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	if _, err := svc.CreateCustomer(ctx, CreateCustomerInput{UserID: &userID, FirstName: "First"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := svc.CreateCustomer(ctx, CreateCustomerInput{UserID: &userID, FirstName: "Second"})
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict for duplicate user link, got %v", err)
	}
}

func TestGetCustomerByUser(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	if _, err := svc.CreateCustomer(ctx, CreateCustomerInput{UserID: &userID, FirstName: "Ada"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	found, err := svc.GetCustomerByUser(ctx, userID)
	if err != nil {
		t.Fatalf("get by user: %v", err)
	}
	if found.FirstName != "Ada" {
		t.Fatalf("unexpected customer %q", found.FirstName)
	}

	_, err = svc.GetCustomerByUser(ctx, uuid.New())
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for unlinked user, got %v", err)
	}
}

func TestListCustomersOrdersByName(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"Zoe", "Ada", "Mona"} {
		if _, err := svc.CreateCustomer(ctx, CreateCustomerInput{FirstName: name}); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	result, err := svc.ListCustomers(ctx, pagination.Params{Page: 1, Limit: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(result.Items))
	}
	if result.Items[0].FirstName != "Ada" || result.Items[1].FirstName != "Mona" {
		t.Fatalf("expected name order, got %v", []string{result.Items[0].FirstName, result.Items[1].FirstName})
	}
	if result.Meta.TotalItems != 3 || result.Meta.TotalPages != 2 {
		t.Fatalf("unexpected meta %+v", result.Meta)
	}
}
