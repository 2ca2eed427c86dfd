package invoices

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/trinitystore/trinity-backend/pkg/db/models"
	"github.com/trinitystore/trinity-backend/pkg/pagination"
)

// Repository wires invoice persistence to GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts the invoice together with its items.
func (r *Repository) Create(ctx context.Context, invoice *models.Invoice) (*models.Invoice, error) {
	if err := r.db.WithContext(ctx).Create(invoice).Error; err != nil {
		return nil, err
	}
	return invoice, nil
}

// FindByID loads the invoice with items and customer.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Customer").
		First(&invoice, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

// Delete removes the invoice; items cascade at the database level.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&models.Invoice{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List returns invoices newest first.
func (r *Repository) List(ctx context.Context, params pagination.Params) ([]models.Invoice, int64, error) {
	return r.list(ctx, r.db.WithContext(ctx), params)
}

// ListByCustomer returns one customer's invoices newest first.
func (r *Repository) ListByCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params) ([]models.Invoice, int64, error) {
	query := r.db.WithContext(ctx).Where("customer_id = ?", customerID)
	return r.list(ctx, query, params)
}

func (r *Repository) list(ctx context.Context, query *gorm.DB, params pagination.Params) ([]models.Invoice, int64, error) {
	var total int64
	if err := query.Session(&gorm.Session{}).Model(&models.Invoice{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	n := params.Normalize()
	var invoices []models.Invoice
	if err := query.
		Preload("Items").
		Preload("Customer").
		Order("id desc").
		Offset(n.Offset()).
		Limit(n.Limit).
		Find(&invoices).Error; err != nil {
		return nil, 0, err
	}
	return invoices, total, nil
}
