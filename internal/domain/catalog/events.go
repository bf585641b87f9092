package catalog

import (
	"github.com/google/uuid"

	"github.com/simudouane/backend/internal/domain/customs"
	"github.com/simudouane/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeProduct  = "Product"
	AggregateTypeCategory = "Category"
)

// Event type constants
const (
	EventTypeProductCreated       = "ProductCreated"
	EventTypeProductTariffChanged = "ProductTariffChanged"
	EventTypeCategoryCreated      = "CategoryCreated"
	EventTypeCategoryUpdated      = "CategoryUpdated"
)

// ProductChangedEvent carries a product's tariff attributes at the time of the change.
type ProductChangedEvent struct {
	shared.BaseDomainEvent
	ProductID     uuid.UUID             `json:"product_id"`
	Name          string                `json:"name"`
	HSCode        string                `json:"hs_code"`
	TariffSpecies customs.TariffSpecies `json:"tariff_species"`
}

// NewProductChangedEvent creates a ProductChangedEvent of the given type.
func NewProductChangedEvent(eventType string, p *Product) *ProductChangedEvent {
	return &ProductChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeProduct, p.ID),
		ProductID:       p.ID,
		Name:            p.Name,
		HSCode:          p.HSCode,
		TariffSpecies:   p.TariffSpecies,
	}
}

// CategoryChangedEvent is published when a category is created or updated.
type CategoryChangedEvent struct {
	shared.BaseDomainEvent
	CategoryID uuid.UUID `json:"category_id"`
	Name       string    `json:"name"`
}

// NewCategoryChangedEvent creates a CategoryChangedEvent of the given type.
func NewCategoryChangedEvent(eventType string, c *Category) *CategoryChangedEvent {
	return &CategoryChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeCategory, c.ID),
		CategoryID:      c.ID,
		Name:            c.Name,
	}
}
