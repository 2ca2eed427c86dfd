package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InvoiceItem is a frozen line of an invoice. ProductID is kept for reporting
// but the name and unit price are copied at checkout time, so the line stays
// correct even if the product is renamed, repriced, or deleted.
type InvoiceItem struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	InvoiceID   int64           `gorm:"column:invoice_id;not null;index"`
	ProductID   *uuid.UUID      `gorm:"column:product_id;type:uuid"`
	ProductName string          `gorm:"column:product_name;not null"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2);not null"`
	Quantity    int             `gorm:"column:quantity;not null"`
}

// LineTotal is unit price times quantity.
func (it *InvoiceItem) LineTotal() decimal.Decimal {
	return it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

func (it *InvoiceItem) BeforeCreate(*gorm.DB) error {
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	return nil
}
