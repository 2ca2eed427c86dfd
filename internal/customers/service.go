package customers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/trinitystore/trinity-backend/pkg/db"
	"github.com/trinitystore/trinity-backend/pkg/db/models"
	pkgerrors "github.com/trinitystore/trinity-backend/pkg/errors"
	"github.com/trinitystore/trinity-backend/pkg/logger"
	"github.com/trinitystore/trinity-backend/pkg/pagination"
)

// Service manages the customer directory.
type Service interface {
	CreateCustomer(ctx context.Context, input CreateCustomerInput) (*CustomerDTO, error)
	UpdateCustomer(ctx context.Context, id uuid.UUID, input UpdateCustomerInput) (*CustomerDTO, error)
	DeleteCustomer(ctx context.Context, id uuid.UUID) error
	GetCustomer(ctx context.Context, id uuid.UUID) (*CustomerDTO, error)
	GetCustomerByUser(ctx context.Context, userID uuid.UUID) (*CustomerDTO, error)
	ListCustomers(ctx context.Context, params pagination.Params) (*CustomerListResult, error)
}

// CreateCustomerInput carries the fields accepted when registering a customer.
// UserID is set only when the row backs a self-registered login.
type CreateCustomerInput struct {
	UserID    *uuid.UUID
	FirstName string
	LastName  string
	Phone     string
	Address   string
	City      string
	ZipCode   string
	Country   string
}

// UpdateCustomerInput carries optional updates; nil fields stay untouched.
type UpdateCustomerInput struct {
	FirstName *string
	LastName  *string
	Phone     *string
	Address   *string
	City      *string
	ZipCode   *string
	Country   *string
}

type service struct {
	repo CustomerRepository
	logg *logger.Logger
}

// NewService constructs a customer service instance.
func NewService(repo CustomerRepository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) CreateCustomer(ctx context.Context, input CreateCustomerInput) (*CustomerDTO, error) {
	firstName := strings.TrimSpace(input.FirstName)
	if firstName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "first name is required")
	}

	customer := &models.Customer{
		UserID:    input.UserID,
		FirstName: firstName,
		LastName:  strings.TrimSpace(input.LastName),
		Phone:     strings.TrimSpace(input.Phone),
		Address:   strings.TrimSpace(input.Address),
		City:      strings.TrimSpace(input.City),
		ZipCode:   strings.TrimSpace(input.ZipCode),
		Country:   strings.TrimSpace(input.Country),
	}
	created, err := s.repo.Create(ctx, customer)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "user already has a customer record")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert customer")
	}
	return NewCustomerDTO(created), nil
}

func (s *service) UpdateCustomer(ctx context.Context, id uuid.UUID, input UpdateCustomerInput) (*CustomerDTO, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load customer")
	}

	if input.FirstName != nil {
		firstName := strings.TrimSpace(*input.FirstName)
		if firstName == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "first name is required")
		}
		customer.FirstName = firstName
	}
	if input.LastName != nil {
		customer.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Phone != nil {
		customer.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Address != nil {
		customer.Address = strings.TrimSpace(*input.Address)
	}
	if input.City != nil {
		customer.City = strings.TrimSpace(*input.City)
	}
	if input.ZipCode != nil {
		customer.ZipCode = strings.TrimSpace(*input.ZipCode)
	}
	if input.Country != nil {
		customer.Country = strings.TrimSpace(*input.Country)
	}

	updated, err := s.repo.Update(ctx, customer)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update customer")
	}
	return NewCustomerDTO(updated), nil
}

// DeleteCustomer removes a customer. Customers with invoices are protected by
// the foreign key and surface as a conflict.
func (s *service) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		if db.IsForeignKeyViolation(err) {
			return pkgerrors.New(pkgerrors.CodeConflict, "customer has invoices")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete customer")
	}
	return nil
}

func (s *service) GetCustomer(ctx context.Context, id uuid.UUID) (*CustomerDTO, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load customer")
	}
	return NewCustomerDTO(customer), nil
}

// GetCustomerByUser returns the caller's own customer record.
func (s *service) GetCustomerByUser(ctx context.Context, userID uuid.UUID) (*CustomerDTO, error) {
	customer, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no customer record for user")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load customer")
	}
	return NewCustomerDTO(customer), nil
}

func (s *service) ListCustomers(ctx context.Context, params pagination.Params) (*CustomerListResult, error) {
	customers, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list customers")
	}
	_, _, meta := pagination.Window(params, int(total))
	return &CustomerListResult{
		Items: NewCustomerDTOs(customers),
		Meta:  meta,
	}, nil
}
