package customers

import (
	"time"

	"github.com/google/uuid"

	"github.com/trinitystore/trinity-backend/pkg/db/models"
	"github.com/trinitystore/trinity-backend/pkg/pagination"
)

// CustomerDTO is the customer payload returned to clients.
type CustomerDTO struct {
	ID        uuid.UUID  `json:"id"`
	UserID    *uuid.UUID `json:"user_id,omitempty"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Phone     string     `json:"phone"`
	Address   string     `json:"address"`
	City      string     `json:"city"`
	ZipCode   string     `json:"zip_code"`
	Country   string     `json:"country"`
	CreatedAt time.Time  `json:"created_at"`
}

// CustomerListResult is a page of customers.
type CustomerListResult struct {
	Items []CustomerDTO   `json:"items"`
	Meta  pagination.Meta `json:"meta"`
}

// NewCustomerDTO maps the model into its API shape.
func NewCustomerDTO(customer *models.Customer) *CustomerDTO {
	return &CustomerDTO{
		ID:        customer.ID,
		UserID:    customer.UserID,
		FirstName: customer.FirstName,
		LastName:  customer.LastName,
		Phone:     customer.Phone,
		Address:   customer.Address,
		City:      customer.City,
		ZipCode:   customer.ZipCode,
		Country:   customer.Country,
		CreatedAt: customer.CreatedAt,
	}
}

// NewCustomerDTOs maps a slice of customers into DTOs.
func NewCustomerDTOs(customers []models.Customer) []CustomerDTO {
	out := make([]CustomerDTO, len(customers))
	for i := range customers {
		out[i] = *NewCustomerDTO(&customers[i])
	}
	return out
}
