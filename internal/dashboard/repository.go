package dashboard

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/trinitystore/trinity-backend/pkg/db/models"
)

// Repository runs the aggregate queries behind the admin dashboard.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Totals is the single-row aggregate snapshot of the store.
type Totals struct {
	Revenue        decimal.Decimal
	InventoryValue decimal.Decimal
	ProductCount   int64
	CustomerCount  int64
	InvoiceCount   int64
}

// LoadTotals gathers the counters and sums in one round trip per table.
func (r *Repository) LoadTotals(ctx context.Context) (*Totals, error) {
	var totals Totals

	row := struct {
		Count int64
		Sum   decimal.Decimal
	}{}
	if err := r.db.WithContext(ctx).Model(&models.Invoice{}).
		Select("COUNT(*) AS count, COALESCE(SUM(subtotal), 0) AS sum").
		Scan(&row).Error; err != nil {
		return nil, err
	}
	totals.InvoiceCount = row.Count
	totals.Revenue = row.Sum

	if err := r.db.WithContext(ctx).Model(&models.Product{}).
		Select("COUNT(*) AS count, COALESCE(SUM(price * quantity), 0) AS sum").
		Scan(&row).Error; err != nil {
		return nil, err
	}
	totals.ProductCount = row.Count
	totals.InventoryValue = row.Sum

	if err := r.db.WithContext(ctx).Model(&models.Customer{}).
		Count(&totals.CustomerCount).Error; err != nil {
		return nil, err
	}
	return &totals, nil
}

// RecentInvoices returns the newest invoices with their customer.
func (r *Repository) RecentInvoices(ctx context.Context, limit int) ([]models.Invoice, error) {
	var invoices []models.Invoice
	if err := r.db.WithContext(ctx).
		Preload("Customer").
		Order("id desc").
		Limit(limit).
		Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// TopProductsByInventoryValue ranks products by price times quantity.
func (r *Repository) TopProductsByInventoryValue(ctx context.Context, limit int) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).
		Order("price * quantity desc").
		Limit(limit).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}
