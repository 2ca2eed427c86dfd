package invoices

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/trinitystore/trinity-backend/pkg/db/models"
	"github.com/trinitystore/trinity-backend/pkg/pagination"
)

// InvoiceDTO is the invoice payload returned to clients. Tax and total are
// recomputed from the stored subtotal at read time.
type InvoiceDTO struct {
	ID           int64            `json:"id"`
	CustomerID   uuid.UUID        `json:"customer_id"`
	CustomerName string           `json:"customer_name,omitempty"`
	Status       string           `json:"status"`
	Subtotal     string           `json:"subtotal"`
	Tax          string           `json:"tax"`
	Total        string           `json:"total"`
	Items        []InvoiceItemDTO `json:"items"`
	CreatedAt    time.Time        `json:"created_at"`
}

// InvoiceItemDTO is one frozen line of the invoice.
type InvoiceItemDTO struct {
	ProductID   *uuid.UUID `json:"product_id,omitempty"`
	ProductName string     `json:"product_name"`
	UnitPrice   string     `json:"unit_price"`
	Quantity    int        `json:"quantity"`
	LineTotal   string     `json:"line_total"`
}

// InvoiceListResult is a page of invoices.
type InvoiceListResult struct {
	Items []InvoiceDTO    `json:"items"`
	Meta  pagination.Meta `json:"meta"`
}

// NewInvoiceDTO builds a DTO, deriving tax from the given fraction.
func NewInvoiceDTO(invoice *models.Invoice, taxRate decimal.Decimal) *InvoiceDTO {
	dto := &InvoiceDTO{
		ID:         invoice.ID,
		CustomerID: invoice.CustomerID,
		Status:     invoice.Status.String(),
		Subtotal:   invoice.Subtotal.StringFixed(2),
		Tax:        invoice.Tax(taxRate).StringFixed(2),
		Total:      invoice.Total(taxRate).StringFixed(2),
		Items:      make([]InvoiceItemDTO, len(invoice.Items)),
		CreatedAt:  invoice.CreatedAt,
	}
	if invoice.Customer != nil {
		dto.CustomerName = invoice.Customer.FirstName
	}
	for i := range invoice.Items {
		item := &invoice.Items[i]
		dto.Items[i] = InvoiceItemDTO{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice.StringFixed(2),
			Quantity:    item.Quantity,
			LineTotal:   item.LineTotal().StringFixed(2),
		}
	}
	return dto
}

// NewInvoiceDTOs maps a slice of invoices into DTOs.
func NewInvoiceDTOs(invoices []models.Invoice, taxRate decimal.Decimal) []InvoiceDTO {
	out := make([]InvoiceDTO, len(invoices))
	for i := range invoices {
		out[i] = *NewInvoiceDTO(&invoices[i], taxRate)
	}
	return out
}
