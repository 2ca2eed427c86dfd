package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/trinitystore/trinity-backend/internal/nutrition"
	"github.com/trinitystore/trinity-backend/internal/taxonomy"
	"github.com/trinitystore/trinity-backend/pkg/db/models"
	"github.com/trinitystore/trinity-backend/pkg/pagination"
	"github.com/trinitystore/trinity-backend/pkg/types"
)

// ProductDTO is the catalog payload returned to clients. The display category
// and the nutrition badge color/label are derived at read time.
type ProductDTO struct {
	ID              uuid.UUID             `json:"id"`
	Name            string                `json:"name"`
	Brand           *string               `json:"brand,omitempty"`
	Picture         *string               `json:"picture,omitempty"`
	Category        *string               `json:"category,omitempty"`
	DisplayCategory string                `json:"display_category"`
	Barcode         *string               `json:"barcode,omitempty"`
	Price           string                `json:"price"`
	Quantity        int                   `json:"quantity"`
	NutritionGrade  *string               `json:"nutrition_grade,omitempty"`
	NutritionColor  string                `json:"nutrition_color"`
	NutritionLabel  string                `json:"nutrition_label"`
	NutritionFacts  *types.NutritionFacts `json:"nutrition_facts,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

// ProductListResult is a filtered, sorted page of the catalog.
type ProductListResult struct {
	Items []ProductDTO    `json:"items"`
	Meta  pagination.Meta `json:"meta"`
}

// BulkDeleteReport names which ids were removed and which failed, with the
// per-id reason.
type BulkDeleteReport struct {
	Deleted []uuid.UUID        `json:"deleted"`
	Failed  []BulkDeleteFailed `json:"failed"`
}

// BulkDeleteFailed describes a single failed deletion.
type BulkDeleteFailed struct {
	ID     uuid.UUID `json:"id"`
	Reason string    `json:"reason"`
}

// NewProductDTO builds a DTO from the persisted model.
func NewProductDTO(product *models.Product) *ProductDTO {
	dto := &ProductDTO{
		ID:              product.ID,
		Name:            product.Name,
		Brand:           product.Brand,
		Picture:         product.Picture,
		Category:        product.Category,
		DisplayCategory: string(taxonomy.Categorize(product.Name, deref(product.Category))),
		Barcode:         product.Barcode,
		Price:           product.Price.StringFixed(2),
		Quantity:        product.Quantity,
		NutritionColor:  nutrition.ColorFor(product.NutritionGrade),
		NutritionLabel:  nutrition.LabelFor(product.NutritionGrade),
		NutritionFacts:  product.NutritionFacts,
		CreatedAt:       product.CreatedAt,
		UpdatedAt:       product.UpdatedAt,
	}
	if product.NutritionGrade != nil {
		grade := product.NutritionGrade.String()
		dto.NutritionGrade = &grade
	}
	return dto
}

// NewProductDTOs maps a slice of models into DTOs.
func NewProductDTOs(products []models.Product) []ProductDTO {
	out := make([]ProductDTO, len(products))
	for i := range products {
		out[i] = *NewProductDTO(&products[i])
	}
	return out
}
