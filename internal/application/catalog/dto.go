package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/simudouane/backend/internal/domain/catalog"
	"github.com/simudouane/backend/internal/domain/shared"
)

// CreateCategoryRequest represents a request to create a new category
type CreateCategoryRequest struct {
	Name         string `json:"name" validate:"required,max=100"`
	Description  string `json:"description" validate:"max=2000"`
	HSCodePrefix string `json:"hs_code_prefix" validate:"max=20"`
}

// UpdateCategoryRequest represents a request to update a category.
// Nil fields are left unchanged.
type UpdateCategoryRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description  *string `json:"description" validate:"omitempty,max=2000"`
	HSCodePrefix *string `json:"hs_code_prefix" validate:"omitempty,max=20"`
}

// CategoryResponse represents a category in responses
type CategoryResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	HSCodePrefix string    `json:"hs_code_prefix,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Version      int       `json:"version"`
}

// CategoryListFilter represents filter options for the category list
type CategoryListFilter struct {
	Search   string `json:"search"`
	Page     int    `json:"page" validate:"gte=0"`
	PageSize int    `json:"page_size" validate:"gte=0,max=100"`
	OrderBy  string `json:"order_by"`
	OrderDir string `json:"order_dir" validate:"omitempty,oneof=asc desc ASC DESC"`
}

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Name                  string     `json:"name" validate:"required,max=255"`
	Description           string     `json:"description" validate:"max=2000"`
	HSCode                string     `json:"hs_code" validate:"required,max=20,hscode"`
	TariffSpecies         string     `json:"tariff_species" validate:"omitempty,oneof=VG1 MP BID BCC"`
	CategoryID            *uuid.UUID `json:"category_id"`
	IsLuxury              bool       `json:"is_luxury"`
	IsAlcoholTobacco      bool       `json:"is_alcohol_tobacco"`
	IsVehicle             bool       `json:"is_vehicle"`
	RequiresPhytosanitary bool       `json:"requires_phytosanitary"`
}

// UpdateProductRequest represents a request to update a product.
// Nil fields are left unchanged; ClearCategory detaches the category.
type UpdateProductRequest struct {
	Name                  *string    `json:"name" validate:"omitempty,min=1,max=255"`
	Description           *string    `json:"description" validate:"omitempty,max=2000"`
	HSCode                *string    `json:"hs_code" validate:"omitempty,min=1,max=20,hscode"`
	TariffSpecies         *string    `json:"tariff_species" validate:"omitempty,oneof=VG1 MP BID BCC"`
	CategoryID            *uuid.UUID `json:"category_id"`
	ClearCategory         bool       `json:"clear_category"`
	IsLuxury              *bool      `json:"is_luxury"`
	IsAlcoholTobacco      *bool      `json:"is_alcohol_tobacco"`
	IsVehicle             *bool      `json:"is_vehicle"`
	RequiresPhytosanitary *bool      `json:"requires_phytosanitary"`
}

// ProductResponse represents a product in responses
type ProductResponse struct {
	ID                    uuid.UUID  `json:"id"`
	Name                  string     `json:"name"`
	Description           string     `json:"description"`
	CategoryID            *uuid.UUID `json:"category_id"`
	TariffSpecies         string     `json:"tariff_species"`
	TariffSpeciesLabel    string     `json:"tariff_species_label"`
	HSCode                string     `json:"hs_code"`
	IsLuxury              bool       `json:"is_luxury"`
	IsAlcoholTobacco      bool       `json:"is_alcohol_tobacco"`
	IsVehicle             bool       `json:"is_vehicle"`
	RequiresPhytosanitary bool       `json:"requires_phytosanitary"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
	Version               int        `json:"version"`
}

// ProductListFilter represents filter options for the product list
type ProductListFilter struct {
	Search        string     `json:"search"`
	CategoryID    *uuid.UUID `json:"category_id"`
	TariffSpecies string     `json:"tariff_species" validate:"omitempty,oneof=VG1 MP BID BCC"`
	Page          int        `json:"page" validate:"gte=0"`
	PageSize      int        `json:"page_size" validate:"gte=0,max=100"`
	OrderBy       string     `json:"order_by"`
	OrderDir      string     `json:"order_dir" validate:"omitempty,oneof=asc desc ASC DESC"`
}

func (f CategoryListFilter) toDomain() shared.Filter {
	return shared.Filter{
		Page:     f.Page,
		PageSize: f.PageSize,
		OrderBy:  f.OrderBy,
		OrderDir: f.OrderDir,
		Search:   f.Search,
	}
}

func (f ProductListFilter) toDomain() catalog.ProductFilter {
	return catalog.ProductFilter{
		Filter: shared.Filter{
			Page:     f.Page,
			PageSize: f.PageSize,
			OrderBy:  f.OrderBy,
			OrderDir: f.OrderDir,
			Search:   f.Search,
		},
		CategoryID:    f.CategoryID,
		TariffSpecies: f.TariffSpecies,
	}
}

// ToCategoryResponse converts a domain Category to CategoryResponse
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:           c.ID,
		Name:         c.Name,
		Description:  c.Description,
		HSCodePrefix: c.HSCodePrefix,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
		Version:      c.Version,
	}
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:                    p.ID,
		Name:                  p.Name,
		Description:           p.Description,
		CategoryID:            p.CategoryID,
		TariffSpecies:         string(p.TariffSpecies),
		TariffSpeciesLabel:    p.TariffSpecies.Label(),
		HSCode:                p.HSCode,
		IsLuxury:              p.IsLuxury,
		IsAlcoholTobacco:      p.IsAlcoholTobacco,
		IsVehicle:             p.IsVehicle,
		RequiresPhytosanitary: p.RequiresPhytosanitary,
		CreatedAt:             p.CreatedAt,
		UpdatedAt:             p.UpdatedAt,
		Version:               p.Version,
	}
}

// ToProductResponses converts a slice of domain Products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}
