package main

import (
	"context"
	"errors"
	"flag"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/trinitystore/trinity-backend/internal/catalog"
	"github.com/trinitystore/trinity-backend/internal/customers"
	"github.com/trinitystore/trinity-backend/internal/nutrition"
	"github.com/trinitystore/trinity-backend/internal/users"
	"github.com/trinitystore/trinity-backend/pkg/config"
	"github.com/trinitystore/trinity-backend/pkg/db"
	"github.com/trinitystore/trinity-backend/pkg/enums"
	"github.com/trinitystore/trinity-backend/pkg/logger"
	"github.com/trinitystore/trinity-backend/pkg/migrate"
	"github.com/trinitystore/trinity-backend/pkg/security"
)

// groceryQueries is the fixed shopping list imported through OpenFoodFacts.
// Each query seeds one product; lookups that fail still insert an ungraded row.
var groceryQueries = []string{
	"whole milk",
	"greek yogurt",
	"cheddar cheese",
	"butter",
	"orange juice",
	"sourdough bread",
	"spaghetti",
	"basmati rice",
	"rolled oats",
	"olive oil",
	"dark chocolate",
	"peanut butter",
	"strawberry jam",
	"canned tuna",
	"tomato sauce",
	"frozen peas",
	"salted peanuts",
	"sparkling water",
	"ground coffee",
	"green tea",
}

// Seeded rows get a placeholder price; OpenFoodFacts does not carry pricing.
var defaultSeedPrice = decimal.NewFromFloat(2.50)

var demoCustomers = []customers.CreateCustomerInput{
	{FirstName: "Ada", LastName: "Lovelace", Phone: "555-0101", Address: "12 Analytical Way", City: "London", ZipCode: "N1 9GU", Country: "UK"},
	{FirstName: "Grace", LastName: "Hopper", Phone: "555-0102", Address: "7 Compiler Court", City: "Arlington", ZipCode: "22201", Country: "USA"},
	{FirstName: "Mona", LastName: "Sato", Phone: "555-0103", Address: "3-14 Market Street", City: "Osaka", ZipCode: "530-0001", Country: "Japan"},
}

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	adminUsername := flag.String("admin-username", "admin", "username for the seeded admin account")
	adminPassword := flag.String("admin-password", "", "password for the seeded admin account (required)")
	flag.Parse()

	if *adminPassword == "" {
		logg.Error(ctx, "missing -admin-password", errors.New("admin password is required"))
		os.Exit(1)
	}

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	err = migrate.MaybeRunDev(ctx, cfg, logg, dbClient)
	requireResource(ctx, logg, "migrations", err)

	seedAdmin(ctx, logg, cfg, dbClient, *adminUsername, *adminPassword)
	seedCustomers(ctx, logg, dbClient)
	seedCatalog(ctx, logg, cfg, dbClient)

	logg.Info(ctx, "seed complete")
}

func seedAdmin(ctx context.Context, logg *logger.Logger, cfg *config.Config, dbClient *db.Client, username, password string) {
	repo := users.NewRepository(dbClient.DB())

	if _, err := repo.FindByUsername(ctx, username); err == nil {
		logg.Info(logg.WithField(ctx, "username", username), "admin user already present")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		logg.Error(ctx, "lookup admin user", err)
		os.Exit(1)
	}

	hash, err := security.HashPassword(password, cfg.Password)
	requireResource(ctx, logg, "password hash", err)

	if _, err := repo.Create(ctx, users.CreateUserDTO{
		Username:     username,
		PasswordHash: hash,
		Role:         enums.UserRoleAdmin,
	}); err != nil {
		logg.Error(ctx, "create admin user", err)
		os.Exit(1)
	}
	logg.Info(logg.WithField(ctx, "username", username), "admin user created")
}

func seedCustomers(ctx context.Context, logg *logger.Logger, dbClient *db.Client) {
	svc, err := customers.NewService(customers.NewRepository(dbClient.DB()), logg)
	requireResource(ctx, logg, "customer service", err)

	for _, input := range demoCustomers {
		if _, err := svc.CreateCustomer(ctx, input); err != nil {
			logg.Warn(logg.WithFields(ctx, map[string]any{
				"first_name": input.FirstName,
				"error":      err.Error(),
			}), "skipping demo customer")
			continue
		}
	}
	logg.Info(ctx, "demo customers seeded")
}

func seedCatalog(ctx context.Context, logg *logger.Logger, cfg *config.Config, dbClient *db.Client) {
	svc, err := catalog.NewService(
		catalog.NewRepository(dbClient.DB()),
		nutrition.NewClient(cfg.OpenFoodFacts),
		logg,
	)
	requireResource(ctx, logg, "catalog service", err)

	seeded := 0
	for _, query := range groceryQueries {
		product, err := svc.CreateProduct(ctx, catalog.CreateProductInput{
			Name:        query,
			Price:       defaultSeedPrice,
			Quantity:    25,
			LookupQuery: query,
		})
		if err != nil {
			logg.Warn(logg.WithFields(ctx, map[string]any{
				"query": query,
				"error": err.Error(),
			}), "skipping grocery query")
			continue
		}
		seeded++
		logg.Info(logg.WithFields(ctx, map[string]any{
			"product_id": product.ID,
			"name":       product.Name,
		}), "product seeded")
	}
	logg.Info(logg.WithField(ctx, "count", seeded), "catalog seeded")
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, "resource not working: "+resource, err)
	os.Exit(1)
}
