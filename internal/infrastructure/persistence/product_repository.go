package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/simudouane/backend/internal/domain/catalog"
	"github.com/simudouane/backend/internal/domain/shared"
	"github.com/simudouane/backend/internal/infrastructure/persistence/models"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translate(err, "Product")
	}
	return model.ToDomain(), nil
}

// FindByHSCode finds a product by its HS code
func (r *GormProductRepository) FindByHSCode(ctx context.Context, hsCode string) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).Where("hs_code = ?", hsCode).First(&model).Error; err != nil {
		return nil, translate(err, "Product")
	}
	return model.ToDomain(), nil
}

// FindByName finds a product by its exact name
func (r *GormProductRepository) FindByName(ctx context.Context, name string) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&model).Error; err != nil {
		return nil, translate(err, "Product")
	}
	return model.ToDomain(), nil
}

// FindAll finds all products matching the filter
func (r *GormProductRepository) FindAll(ctx context.Context, filter catalog.ProductFilter) ([]catalog.Product, error) {
	var list []models.ProductModel
	query := paginate(r.filtered(ctx, filter), filter.Filter, ProductSortFields, "name", "ASC")
	if err := query.Find(&list).Error; err != nil {
		return nil, err
	}

	products := make([]catalog.Product, len(list))
	for i := range list {
		products[i] = *list[i].ToDomain()
	}
	return products, nil
}

// Count counts products matching the filter
func (r *GormProductRepository) Count(ctx context.Context, filter catalog.ProductFilter) (int64, error) {
	var count int64
	if err := r.filtered(ctx, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormProductRepository) filtered(ctx context.Context, filter catalog.ProductFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.ProductModel{})
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("LOWER(name) LIKE ?"+likeEscape+" OR hs_code LIKE ?"+likeEscape, pattern, pattern)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.TariffSpecies != "" {
		query = query.Where("tariff_species = ?", filter.TariffSpecies)
	}
	return query
}

// ExistsByHSCode checks if a product with the given HS code exists
func (r *GormProductRepository) ExistsByHSCode(ctx context.Context, hsCode string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("hs_code = ?", hsCode).
		Count(&count).Error
	return count > 0, err
}

// ExistsByName checks if a product with the given name exists
func (r *GormProductRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("name = ?", name).
		Count(&count).Error
	return count > 0, err
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	model := models.ProductModelFromDomain(product)
	return translate(r.db.WithContext(ctx).Save(model).Error, "Product")
}

// Delete deletes a product
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ProductModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DetachCategory clears category_id on every product of the category
func (r *GormProductRepository) DetachCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("category_id = ?", categoryID).
		Update("category_id", nil)
	return result.RowsAffected, result.Error
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)
