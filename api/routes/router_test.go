package routes

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/trinitystore/trinity-backend/internal/auth"
	"github.com/trinitystore/trinity-backend/internal/cart"
	"github.com/trinitystore/trinity-backend/internal/catalog"
	"github.com/trinitystore/trinity-backend/internal/customers"
	"github.com/trinitystore/trinity-backend/internal/dashboard"
	"github.com/trinitystore/trinity-backend/internal/invoices"
	"github.com/trinitystore/trinity-backend/internal/users"
	pkgAuth "github.com/trinitystore/trinity-backend/pkg/auth"
	"github.com/trinitystore/trinity-backend/pkg/auth/session"
	"github.com/trinitystore/trinity-backend/pkg/config"
	"github.com/trinitystore/trinity-backend/pkg/enums"
	"github.com/trinitystore/trinity-backend/pkg/logger"
	"github.com/trinitystore/trinity-backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(context.Context, string) (bool, error) {
	return true, nil
}

type stubAuthService struct{}

func (stubAuthService) Login(context.Context, auth.LoginRequest) (*auth.LoginResponse, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubAuthService) Refresh(context.Context, auth.RefreshRequest) (*auth.RefreshResponse, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubAuthService) Logout(context.Context, string) error {
	return nil
}

type stubRegisterService struct{}

func (stubRegisterService) Register(context.Context, auth.RegisterRequest) (*users.UserDTO, error) {
	return &users.UserDTO{}, nil
}

type stubCatalogService struct{}

func (stubCatalogService) CreateProduct(context.Context, catalog.CreateProductInput) (*catalog.ProductDTO, error) {
	return &catalog.ProductDTO{}, nil
}

func (stubCatalogService) UpdateProduct(context.Context, uuid.UUID, catalog.UpdateProductInput) (*catalog.ProductDTO, error) {
	return &catalog.ProductDTO{}, nil
}

func (stubCatalogService) DeleteProduct(context.Context, uuid.UUID) error {
	return nil
}

func (stubCatalogService) BulkDeleteProducts(context.Context, []uuid.UUID) (*catalog.BulkDeleteReport, error) {
	return &catalog.BulkDeleteReport{}, nil
}

func (stubCatalogService) GetProduct(context.Context, uuid.UUID) (*catalog.ProductDTO, error) {
	return &catalog.ProductDTO{}, nil
}

func (stubCatalogService) ListProducts(context.Context, catalog.ListProductsInput) (*catalog.ProductListResult, error) {
	return &catalog.ProductListResult{Items: []catalog.ProductDTO{}}, nil
}

func (stubCatalogService) EnrichProduct(context.Context, uuid.UUID, string) (*catalog.ProductDTO, error) {
	return &catalog.ProductDTO{}, nil
}

type stubLedger struct{}

func (stubLedger) Get(context.Context, uuid.UUID) (*cart.Cart, error) {
	return &cart.Cart{}, nil
}

func (stubLedger) AddItem(context.Context, uuid.UUID, uuid.UUID) (*cart.Cart, error) {
	return &cart.Cart{}, nil
}

func (stubLedger) RemoveItem(context.Context, uuid.UUID, uuid.UUID) (*cart.Cart, error) {
	return &cart.Cart{}, nil
}

func (stubLedger) SetQuantity(context.Context, uuid.UUID, uuid.UUID, int) (*cart.Cart, error) {
	return &cart.Cart{}, nil
}

func (stubLedger) Clear(context.Context, uuid.UUID) error {
	return nil
}

type stubInvoiceService struct{}

func (stubInvoiceService) Checkout(context.Context, uuid.UUID) (*invoices.InvoiceDTO, error) {
	return &invoices.InvoiceDTO{}, nil
}

func (stubInvoiceService) GetInvoice(context.Context, int64) (*invoices.InvoiceDTO, error) {
	return &invoices.InvoiceDTO{}, nil
}

func (stubInvoiceService) ListInvoices(context.Context, pagination.Params) (*invoices.InvoiceListResult, error) {
	return &invoices.InvoiceListResult{Items: []invoices.InvoiceDTO{}}, nil
}

func (stubInvoiceService) ListCustomerInvoices(context.Context, uuid.UUID, pagination.Params) (*invoices.InvoiceListResult, error) {
	return &invoices.InvoiceListResult{Items: []invoices.InvoiceDTO{}}, nil
}

func (stubInvoiceService) DeleteInvoice(context.Context, int64) error {
	return nil
}

type stubCustomerService struct{}

func (stubCustomerService) CreateCustomer(context.Context, customers.CreateCustomerInput) (*customers.CustomerDTO, error) {
	return &customers.CustomerDTO{}, nil
}

func (stubCustomerService) UpdateCustomer(context.Context, uuid.UUID, customers.UpdateCustomerInput) (*customers.CustomerDTO, error) {
	return &customers.CustomerDTO{}, nil
}

func (stubCustomerService) DeleteCustomer(context.Context, uuid.UUID) error {
	return nil
}

func (stubCustomerService) GetCustomer(context.Context, uuid.UUID) (*customers.CustomerDTO, error) {
	return &customers.CustomerDTO{}, nil
}

func (stubCustomerService) GetCustomerByUser(context.Context, uuid.UUID) (*customers.CustomerDTO, error) {
	return &customers.CustomerDTO{}, nil
}

func (stubCustomerService) ListCustomers(context.Context, pagination.Params) (*customers.CustomerListResult, error) {
	return &customers.CustomerListResult{Items: []customers.CustomerDTO{}}, nil
}

type stubDashboardService struct{}

func (stubDashboardService) KPIs(context.Context) (*dashboard.KPIReport, error) {
	return &dashboard.KPIReport{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "issuer",
			ExpirationMinutes: 60,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(Deps{
		Config:          cfg,
		Logger:          logg,
		DB:              stubPinger{},
		SessionChecker:  stubSessionChecker{},
		AuthService:     stubAuthService{},
		RegisterService: stubRegisterService{},
		CatalogService:  stubCatalogService{},
		CartLedger:      stubLedger{},
		InvoiceService:  stubInvoiceService{},
		CustomerService: stubCustomerService{},
		Dashboard:       stubDashboardService{},
	})
}

func buildToken(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID:   uuid.New(),
		Username: "router-test",
		Role:     role,
		JTI:      session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthEndpointsArePublic(t *testing.T) {
	router := newTestRouter(testConfig())

	for _, path := range []string{"/health/live", "/health/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, resp.Code)
		}
	}
}

func TestProductsRequireJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/products/", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestProductsReadableByCustomer(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/products/", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for customer read got %d", resp.Code)
	}
}

func TestProductWritesRequireAdmin(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	customer := httptest.NewRequest(http.MethodDelete, "/api/products/"+uuid.NewString()+"/", nil)
	customer.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, customer)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer delete got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodDelete, "/api/products/"+uuid.NewString()+"/", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin delete got %d", resp.Code)
	}
}

func TestCustomersAreAdminOnly(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	customer := httptest.NewRequest(http.MethodGet, "/api/customers/", nil)
	customer.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, customer)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodGet, "/api/customers/", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d", resp.Code)
	}
}

func TestDashboardIsAdminOnly(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	customer := httptest.NewRequest(http.MethodGet, "/api/dashboard/kpis/", nil)
	customer.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, customer)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer got %d", resp.Code)
	}
}

func TestCartIsPerUserAndAuthenticated(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	anon := httptest.NewRequest(http.MethodGet, "/api/cart/", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, anon)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for anonymous cart got %d", resp.Code)
	}

	authed := httptest.NewRequest(http.MethodGet, "/api/cart/", nil)
	authed.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleCustomer))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, authed)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for authed cart got %d", resp.Code)
	}
}

func TestCategoriesListedForAnyAuthedUser(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/categories/", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestLoginLimiterInertWithoutRedis(t *testing.T) {
	cfg := testConfig()
	cfg.AuthRateLimit = config.AuthRateLimitConfig{
		LoginWindow:        time.Minute,
		LoginIPLimit:       1,
		LoginUsernameLimit: 1,
	}
	router := newTestRouter(cfg)

	// No redis client is wired; the enabled policy must pass requests
	// straight through instead of panicking on a typed-nil store.
	for attempt := 1; attempt <= 3; attempt++ {
		req := httptest.NewRequest(http.MethodPost, "/api/token/", strings.NewReader(`{"username":"shopper","password":"pw"}`))
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code == http.StatusTooManyRequests {
			t.Fatalf("attempt %d throttled without a limiter store", attempt)
		}
	}
}
