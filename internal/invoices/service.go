package invoices

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/trinitystore/trinity-backend/internal/cart"
	"github.com/trinitystore/trinity-backend/pkg/config"
	"github.com/trinitystore/trinity-backend/pkg/db/models"
	"github.com/trinitystore/trinity-backend/pkg/enums"
	pkgerrors "github.com/trinitystore/trinity-backend/pkg/errors"
	"github.com/trinitystore/trinity-backend/pkg/logger"
	"github.com/trinitystore/trinity-backend/pkg/pagination"
)

// ErrEmptyCart signals a checkout attempt with nothing in the cart.
var ErrEmptyCart = pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type customerLoader interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Customer, error)
}

// Service exposes checkout and invoice history operations.
type Service interface {
	Checkout(ctx context.Context, userID uuid.UUID) (*InvoiceDTO, error)
	GetInvoice(ctx context.Context, id int64) (*InvoiceDTO, error)
	ListInvoices(ctx context.Context, params pagination.Params) (*InvoiceListResult, error)
	ListCustomerInvoices(ctx context.Context, userID uuid.UUID, params pagination.Params) (*InvoiceListResult, error)
	DeleteInvoice(ctx context.Context, id int64) error
}

type service struct {
	repo      *Repository
	tx        txRunner
	ledger    cart.Ledger
	customers customerLoader
	checkout  config.CheckoutConfig
	logg      *logger.Logger
}

// NewService constructs an invoice service instance.
func NewService(repo *Repository, tx txRunner, ledger cart.Ledger, customers customerLoader, checkout config.CheckoutConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("invoice repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("cart ledger required")
	}
	if customers == nil {
		return nil, fmt.Errorf("customer loader required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:      repo,
		tx:        tx,
		ledger:    ledger,
		customers: customers,
		checkout:  checkout,
		logg:      logg,
	}, nil
}

// Checkout converts the user's cart into a completed invoice. Every cart line
// is deep-copied into an invoice item, so the invoice stays correct no matter
// what happens to the catalog afterwards. The cart is cleared only after the
// invoice committed.
func (s *service) Checkout(ctx context.Context, userID uuid.UUID) (*InvoiceDTO, error) {
	userCart, err := s.ledger.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if userCart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	customer, err := s.customers.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no customer record for user")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load customer")
	}

	invoice := &models.Invoice{
		CustomerID: customer.ID,
		Status:     enums.InvoiceStatusCompleted,
		Subtotal:   userCart.Total(),
		Items:      snapshotItems(userCart),
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		created, err := s.repo.WithTx(tx).Create(ctx, invoice)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert invoice")
		}
		invoice = created
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checkout")
	}

	if err := s.ledger.Clear(ctx, userID); err != nil {
		// The invoice is committed; a stale cart is an annoyance, not a loss.
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
			"invoice_id": invoice.ID,
			"error":      err.Error(),
		}), "cart clear failed after checkout")
	}

	invoice.Customer = customer
	return NewInvoiceDTO(invoice, s.checkout.TaxRateDecimal()), nil
}

// GetInvoice loads a single invoice with its items.
func (s *service) GetInvoice(ctx context.Context, id int64) (*InvoiceDTO, error) {
	invoice, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invoice not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load invoice")
	}
	return NewInvoiceDTO(invoice, s.checkout.TaxRateDecimal()), nil
}

// ListInvoices returns all invoices, newest first.
func (s *service) ListInvoices(ctx context.Context, params pagination.Params) (*InvoiceListResult, error) {
	invoices, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list invoices")
	}
	return s.listResult(invoices, total, params), nil
}

// ListCustomerInvoices returns the calling user's own invoices.
func (s *service) ListCustomerInvoices(ctx context.Context, userID uuid.UUID, params pagination.Params) (*InvoiceListResult, error) {
	customer, err := s.customers.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// A user without a customer record has no purchase history.
			return s.listResult(nil, 0, params), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load customer")
	}

	invoices, total, err := s.repo.ListByCustomer(ctx, customer.ID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list customer invoices")
	}
	return s.listResult(invoices, total, params), nil
}

// DeleteInvoice removes an invoice. Routes restrict this to admins.
func (s *service) DeleteInvoice(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "invoice not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete invoice")
	}
	return nil
}

func (s *service) listResult(invoices []models.Invoice, total int64, params pagination.Params) *InvoiceListResult {
	_, _, meta := pagination.Window(params, int(total))
	return &InvoiceListResult{
		Items: NewInvoiceDTOs(invoices, s.checkout.TaxRateDecimal()),
		Meta:  meta,
	}
}

func snapshotItems(userCart *cart.Cart) []models.InvoiceItem {
	items := make([]models.InvoiceItem, len(userCart.Lines))
	for i, line := range userCart.Lines {
		productID := line.ProductID
		items[i] = models.InvoiceItem{
			ProductID:   &productID,
			ProductName: line.Name,
			UnitPrice:   line.UnitPrice,
			Quantity:    line.Quantity,
		}
	}
	return items
}
