package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/trinitystore/trinity-backend/pkg/enums"
)

// Invoice records a completed sale. Line items carry a full snapshot of the
// product as sold, so later catalog edits never change historical totals.
// The tax amount is derived from the stored subtotal at read time rather than
// persisted, which keeps the row the single source of truth for money.
type Invoice struct {
	ID         int64               `gorm:"column:id;primaryKey;autoIncrement"`
	CustomerID uuid.UUID           `gorm:"column:customer_id;type:uuid;not null;index"`
	Customer   *Customer           `gorm:"foreignKey:CustomerID"`
	Status     enums.InvoiceStatus `gorm:"column:status;type:text;not null;default:completed"`
	Subtotal   decimal.Decimal     `gorm:"column:subtotal;type:numeric(10,2);not null"`
	Items      []InvoiceItem       `gorm:"foreignKey:InvoiceID"`
	CreatedAt  time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// Tax applies rate to the stored subtotal, rounded to cents.
func (i *Invoice) Tax(rate decimal.Decimal) decimal.Decimal {
	return i.Subtotal.Mul(rate).Round(2)
}

// Total is subtotal plus tax at the given rate.
func (i *Invoice) Total(rate decimal.Decimal) decimal.Decimal {
	return i.Subtotal.Add(i.Tax(rate))
}
