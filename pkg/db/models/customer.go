package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer is the billing identity invoices are raised against. A customer row
// may exist without a login (walk-in sales entered by staff); when a user
// self-registers, a customer row is created alongside and linked by UserID.
type Customer struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	UserID    *uuid.UUID `gorm:"column:user_id;type:uuid;uniqueIndex"`
	FirstName string     `gorm:"column:first_name;not null"`
	LastName  string     `gorm:"column:last_name;not null;default:''"`
	Phone     string     `gorm:"column:phone;not null;default:''"`
	Address   string     `gorm:"column:address;not null;default:''"`
	City      string     `gorm:"column:city;not null;default:''"`
	ZipCode   string     `gorm:"column:zip_code;not null;default:''"`
	Country   string     `gorm:"column:country;not null;default:''"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// FullName joins first and last name, tolerating a blank last name.
func (c *Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

func (c *Customer) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
