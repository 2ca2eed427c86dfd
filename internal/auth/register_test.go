package auth

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/trinitystore/trinity-backend/internal/customers"
	"github.com/trinitystore/trinity-backend/pkg/config"
	"github.com/trinitystore/trinity-backend/pkg/db"
	"github.com/trinitystore/trinity-backend/pkg/db/models"
	pkgerrors "github.com/trinitystore/trinity-backend/pkg/errors"
	"github.com/trinitystore/trinity-backend/pkg/security"
)

func newRegisterFixture(t *testing.T) (RegisterService, *gorm.DB) {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.User{}, &models.Customer{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	svc, err := NewRegisterService(RegisterServiceParams{
		DB:             db.NewWithConn(conn),
		PasswordConfig: config.PasswordConfig{},
	})
	if err != nil {
		t.Fatalf("new register service: %v", err)
	}
	return svc, conn
}

func TestRegisterCreatesUserAndCustomer(t *testing.T) {
	svc, conn := newRegisterFixture(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterRequest{
		Username:  "Ada",
		Email:     "Ada@Example.com",
		Password:  "super-secret",
		FirstName: "Ada",
		LastName:  "Lovelace",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Username != "ada" {
		t.Fatalf("expected lowercased username, got %q", user.Username)
	}
	if user.Role != "customer" {
		t.Fatalf("expected customer role, got %q", user.Role)
	}

	var stored models.User
	if err := conn.First(&stored, "username = ?", "ada").Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	if stored.PasswordHash == "super-secret" {
		t.Fatal("password must not be stored in the clear")
	}
	ok, err := security.VerifyPassword("super-secret", stored.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("stored hash should verify: ok=%v err=%v", ok, err)
	}

	customer, err := customers.NewRepository(conn).FindByUserID(ctx, stored.ID)
	if err != nil {
		t.Fatalf("expected linked customer row: %v", err)
	}
	if customer.FirstName != "Ada" || customer.LastName != "Lovelace" {
		t.Fatalf("unexpected customer name %q %q", customer.FirstName, customer.LastName)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _ := newRegisterFixture(t)
	ctx := context.Background()

	req := RegisterRequest{Username: "ada", Email: "ada@example.com", Password: "super-secret"}
	if _, err := svc.Register(ctx, req); err != nil {
		t.Fatalf("first register: %v", err)
	}

	req.Email = "other@example.com"
	_, err := svc.Register(ctx, req)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, conn := newRegisterFixture(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterRequest{Username: "ada", Email: "ada@example.com", Password: "super-secret"}); err != nil {
		t.Fatalf("first register: %v", err)
	}

	_, err := svc.Register(ctx, RegisterRequest{Username: "grace", Email: "ada@example.com", Password: "super-secret"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}

	// The rejected signup must not leave a user row behind.
	var count int64
	if err := conn.Model(&models.User{}).Where("username = ?", "grace").Count(&count).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	if count != 0 {
		t.Fatal("expected failed registration to roll back")
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newRegisterFixture(t)

	cases := []RegisterRequest{
		{Email: "a@b.com", Password: "pw"},
		{Username: "ada", Password: "pw"},
		{Username: "ada", Email: "a@b.com"},
	}
	for _, req := range cases {
		_, err := svc.Register(context.Background(), req)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error for %+v, got %v", req, err)
		}
	}
}

func TestRegisterDefaultsFirstNameToUsername(t *testing.T) {
	svc, conn := newRegisterFixture(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterRequest{Username: "grace", Email: "grace@example.com", Password: "super-secret"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	customer, err := customers.NewRepository(conn).FindByUserID(ctx, user.ID)
	if err != nil {
		t.Fatalf("load customer: %v", err)
	}
	if customer.FirstName != "grace" {
		t.Fatalf("expected first name fallback, got %q", customer.FirstName)
	}
}
