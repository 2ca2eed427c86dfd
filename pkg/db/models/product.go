package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/trinitystore/trinity-backend/pkg/enums"
	"github.com/trinitystore/trinity-backend/pkg/types"
)

// Product is the canonical catalog record. The display category shown on the
// storefront is derived from name+category through the taxonomy, never stored.
type Product struct {
	ID             uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	Name           string                `gorm:"column:name;not null"`
	Brand          *string               `gorm:"column:brand"`
	Picture        *string               `gorm:"column:picture"`
	Category       *string               `gorm:"column:category"`
	Barcode        *string               `gorm:"column:barcode;uniqueIndex"`
	Price          decimal.Decimal       `gorm:"column:price;type:numeric(10,2);not null"`
	Quantity       int                   `gorm:"column:quantity;not null;default:0"`
	NutritionGrade *enums.NutritionGrade `gorm:"column:nutrition_grade;type:text"`
	NutritionFacts *types.NutritionFacts `gorm:"column:nutrition_facts;type:jsonb;serializer:json"`
	CreatedAt      time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns the id client-side so sqlite (which has no
// gen_random_uuid) behaves like Postgres.
func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
