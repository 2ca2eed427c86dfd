package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/trinitystore/trinity-backend/api/controllers"
	"github.com/trinitystore/trinity-backend/api/middleware"
	"github.com/trinitystore/trinity-backend/internal/auth"
	"github.com/trinitystore/trinity-backend/internal/cart"
	"github.com/trinitystore/trinity-backend/internal/catalog"
	"github.com/trinitystore/trinity-backend/internal/customers"
	"github.com/trinitystore/trinity-backend/internal/dashboard"
	"github.com/trinitystore/trinity-backend/internal/invoices"
	"github.com/trinitystore/trinity-backend/pkg/auth/session"
	"github.com/trinitystore/trinity-backend/pkg/config"
	"github.com/trinitystore/trinity-backend/pkg/db"
	"github.com/trinitystore/trinity-backend/pkg/logger"
	"github.com/trinitystore/trinity-backend/pkg/metrics"
	pkgredis "github.com/trinitystore/trinity-backend/pkg/redis"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config          *config.Config
	Logger          *logger.Logger
	DB              db.Pinger
	Redis           *pkgredis.Client
	SessionChecker  session.AccessSessionChecker
	Metrics         *metrics.HTTPMetrics
	Gatherer        prometheus.Gatherer
	AuthService     auth.Service
	RegisterService auth.RegisterService
	CatalogService  catalog.Service
	CartLedger      cart.Ledger
	InvoiceService  invoices.Service
	CustomerService customers.Service
	Dashboard       dashboard.Service
}

func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	// A typed nil *redis.Client must not reach the middleware interfaces.
	var cachePinger pkgredis.Pinger
	var idempotencyStore pkgredis.IdempotencyStore
	var rateLimitStore middleware.RateLimiterStore
	if d.Redis != nil {
		cachePinger = d.Redis
		idempotencyStore = d.Redis
		rateLimitStore = d.Redis
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
		middleware.Metrics(d.Metrics),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginUsernameLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterUsernameLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, d.DB, cachePinger, logg))
	})

	if d.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, rateLimitStore, logg)).Post("/token/", controllers.AuthLogin(d.AuthService, logg))
		r.Post("/token/refresh/", controllers.AuthRefresh(d.AuthService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, rateLimitStore, logg)).Post("/register/", controllers.Register(d.RegisterService, logg))
		r.Post("/logout/", controllers.AuthLogout(d.AuthService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, d.SessionChecker, logg))

			r.Get("/categories/", controllers.ListCategories())

			r.Route("/products", func(r chi.Router) {
				r.Get("/", controllers.ListProducts(d.CatalogService, logg))
				r.Get("/{id}/", controllers.GetProduct(d.CatalogService, logg))

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin(logg))
					r.Post("/", controllers.CreateProduct(d.CatalogService, logg))
					r.Put("/{id}/", controllers.UpdateProduct(d.CatalogService, logg))
					r.Delete("/{id}/", controllers.DeleteProduct(d.CatalogService, logg))
					r.Post("/bulk-delete/", controllers.BulkDeleteProducts(d.CatalogService, logg))
					r.Post("/{id}/enrich/", controllers.EnrichProduct(d.CatalogService, logg))
				})
			})

			r.Route("/customers", func(r chi.Router) {
				r.Use(middleware.RequireAdmin(logg))
				r.Get("/", controllers.ListCustomers(d.CustomerService, logg))
				r.Post("/", controllers.CreateCustomer(d.CustomerService, logg))
				r.Get("/{id}/", controllers.GetCustomer(d.CustomerService, logg))
				r.Put("/{id}/", controllers.UpdateCustomer(d.CustomerService, logg))
				r.Delete("/{id}/", controllers.DeleteCustomer(d.CustomerService, logg))
			})

			r.Route("/invoices", func(r chi.Router) {
				r.Get("/", controllers.ListInvoices(d.InvoiceService, logg))
				r.Get("/{id}/", controllers.GetInvoice(d.InvoiceService, d.CustomerService, logg))
				r.With(middleware.RequireAdmin(logg)).Delete("/{id}/", controllers.DeleteInvoice(d.InvoiceService, logg))
			})

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.GetCart(d.CartLedger, logg))
				r.Delete("/", controllers.CartClear(d.CartLedger, logg))
				r.Post("/items/", controllers.CartAddItem(d.CartLedger, logg))
				r.Put("/items/{productId}/", controllers.CartSetQuantity(d.CartLedger, logg))
				r.Delete("/items/{productId}/", controllers.CartRemoveItem(d.CartLedger, logg))
			})

			r.With(middleware.Idempotency(idempotencyStore, logg)).Post("/checkout/", controllers.Checkout(d.InvoiceService, logg))

			r.With(middleware.RequireAdmin(logg)).Get("/dashboard/kpis/", controllers.DashboardKPIs(d.Dashboard, logg))
		})
	})

	return r
}
