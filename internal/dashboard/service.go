package dashboard

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/trinitystore/trinity-backend/internal/catalog"
	"github.com/trinitystore/trinity-backend/internal/invoices"
	"github.com/trinitystore/trinity-backend/pkg/config"
	pkgerrors "github.com/trinitystore/trinity-backend/pkg/errors"
)

// Highlight limits for the dashboard lists.
const (
	recentInvoiceCount = 5
	topProductCount    = 5
)

// KPIReport is the admin dashboard payload.
type KPIReport struct {
	TotalRevenue   string                `json:"total_revenue"`
	TotalProducts  int64                 `json:"total_products"`
	TotalCustomers int64                 `json:"total_customers"`
	TotalInvoices  int64                 `json:"total_invoices"`
	AverageInvoice string                `json:"average_invoice"`
	InventoryValue string                `json:"inventory_value"`
	RecentInvoices []invoices.InvoiceDTO `json:"recent_invoices"`
	TopProducts    []TopProduct          `json:"top_products"`
}

// TopProduct ranks a product by the capital tied up in its stock.
type TopProduct struct {
	Product        catalog.ProductDTO `json:"product"`
	InventoryValue string             `json:"inventory_value"`
}

// Service computes the dashboard KPIs.
type Service interface {
	KPIs(ctx context.Context) (*KPIReport, error)
}

type service struct {
	repo     *Repository
	checkout config.CheckoutConfig
}

// NewService constructs a dashboard service instance.
func NewService(repo *Repository, checkout config.CheckoutConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("dashboard repository required")
	}
	return &service{repo: repo, checkout: checkout}, nil
}

// KPIs aggregates revenue, counts, inventory value, the five newest invoices,
// and the five products with the most capital in stock. Revenue applies the
// configured tax rate on top of the stored subtotals.
func (s *service) KPIs(ctx context.Context) (*KPIReport, error) {
	totals, err := s.repo.LoadTotals(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load totals")
	}

	recent, err := s.repo.RecentInvoices(ctx, recentInvoiceCount)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: recent invoices")
	}

	top, err := s.repo.TopProductsByInventoryValue(ctx, topProductCount)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: top products")
	}

	taxRate := s.checkout.TaxRateDecimal()
	revenue := totals.Revenue.Add(totals.Revenue.Mul(taxRate)).Round(2)

	average := decimal.Zero
	if totals.InvoiceCount > 0 {
		average = revenue.Div(decimal.NewFromInt(totals.InvoiceCount)).Round(2)
	}

	topProducts := make([]TopProduct, len(top))
	for i := range top {
		value := top[i].Price.Mul(decimal.NewFromInt(int64(top[i].Quantity)))
		topProducts[i] = TopProduct{
			Product:        *catalog.NewProductDTO(&top[i]),
			InventoryValue: value.StringFixed(2),
		}
	}

	return &KPIReport{
		TotalRevenue:   revenue.StringFixed(2),
		TotalProducts:  totals.ProductCount,
		TotalCustomers: totals.CustomerCount,
		TotalInvoices:  totals.InvoiceCount,
		AverageInvoice: average.StringFixed(2),
		InventoryValue: totals.InventoryValue.Round(2).StringFixed(2),
		RecentInvoices: invoices.NewInvoiceDTOs(recent, taxRate),
		TopProducts:    topProducts,
	}, nil
}
