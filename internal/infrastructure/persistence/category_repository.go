package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/simudouane/backend/internal/domain/catalog"
	"github.com/simudouane/backend/internal/domain/shared"
	"github.com/simudouane/backend/internal/infrastructure/persistence/models"
)

// GormCategoryRepository implements CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// FindByID finds a category by its ID
func (r *GormCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	var model models.CategoryModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translate(err, "Category")
	}
	return model.ToDomain(), nil
}

// FindByName finds a category by its exact name
func (r *GormCategoryRepository) FindByName(ctx context.Context, name string) (*catalog.Category, error) {
	var model models.CategoryModel
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&model).Error; err != nil {
		return nil, translate(err, "Category")
	}
	return model.ToDomain(), nil
}

// FindAll finds all categories matching the filter
func (r *GormCategoryRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Category, error) {
	var list []models.CategoryModel
	query := paginate(r.filtered(ctx, filter), filter, CategorySortFields, "name", "ASC")
	if err := query.Find(&list).Error; err != nil {
		return nil, err
	}

	categories := make([]catalog.Category, len(list))
	for i := range list {
		categories[i] = *list[i].ToDomain()
	}
	return categories, nil
}

// Count counts categories matching the filter
func (r *GormCategoryRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.filtered(ctx, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormCategoryRepository) filtered(ctx context.Context, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.CategoryModel{})
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("LOWER(name) LIKE ?"+likeEscape+" OR LOWER(description) LIKE ?"+likeEscape, pattern, pattern)
	}
	return query
}

// ExistsByName checks if a category with the given name exists
func (r *GormCategoryRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CategoryModel{}).
		Where("name = ?", name).
		Count(&count).Error
	return count > 0, err
}

// ExistsByHSCodePrefix checks if a category already owns the given prefix
func (r *GormCategoryRepository) ExistsByHSCodePrefix(ctx context.Context, prefix string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CategoryModel{}).
		Where("hs_code_prefix = ?", prefix).
		Count(&count).Error
	return count > 0, err
}

// Save creates or updates a category
func (r *GormCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	model := models.CategoryModelFromDomain(category)
	return translate(r.db.WithContext(ctx).Save(model).Error, "Category")
}

// Delete deletes a category
func (r *GormCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.CategoryModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ catalog.CategoryRepository = (*GormCategoryRepository)(nil)
