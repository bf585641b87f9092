package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/simudouane/backend/internal/domain/shared"
)

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindByName(ctx context.Context, name string) (*Category, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Category, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	ExistsByHSCodePrefix(ctx context.Context, prefix string) (bool, error)
	Save(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProductFilter narrows product listings.
type ProductFilter struct {
	shared.Filter
	CategoryID    *uuid.UUID
	TariffSpecies string
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindByHSCode(ctx context.Context, hsCode string) (*Product, error)
	FindByName(ctx context.Context, name string) (*Product, error)
	FindAll(ctx context.Context, filter ProductFilter) ([]Product, error)
	Count(ctx context.Context, filter ProductFilter) (int64, error)
	ExistsByHSCode(ctx context.Context, hsCode string) (bool, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Save(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id uuid.UUID) error

	// DetachCategory clears the category of every product that references it.
	DetachCategory(ctx context.Context, categoryID uuid.UUID) (int64, error)
}
