package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/simudouane/backend/internal/domain/shared"
	"github.com/simudouane/backend/internal/domain/simulation"
	"github.com/simudouane/backend/internal/infrastructure/persistence/models"
)

// GormSimulationRepository implements simulation.Repository using GORM
type GormSimulationRepository struct {
	db *gorm.DB
}

// NewGormSimulationRepository creates a new GormSimulationRepository
func NewGormSimulationRepository(db *gorm.DB) *GormSimulationRepository {
	return &GormSimulationRepository{db: db}
}

// FindByID finds a simulation by its ID
func (r *GormSimulationRepository) FindByID(ctx context.Context, id uuid.UUID) (*simulation.Simulation, error) {
	var model models.SimulationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translate(err, "Simulation")
	}
	return model.ToDomain(), nil
}

// FindByPaymentCode finds a simulation by its payment code, ignoring case
func (r *GormSimulationRepository) FindByPaymentCode(ctx context.Context, code string) (*simulation.Simulation, error) {
	var model models.SimulationModel
	err := r.db.WithContext(ctx).
		Where("payment_code = ?", strings.ToUpper(strings.TrimSpace(code))).
		First(&model).Error
	if err != nil {
		return nil, translate(err, "Simulation")
	}
	return model.ToDomain(), nil
}

// FindAll finds all simulations matching the filter, newest first by default
func (r *GormSimulationRepository) FindAll(ctx context.Context, filter simulation.Filter) ([]simulation.Simulation, error) {
	var list []models.SimulationModel
	query := paginate(r.filtered(ctx, filter), filter.Filter, SimulationSortFields, "created_at", "DESC")
	if err := query.Find(&list).Error; err != nil {
		return nil, err
	}

	sims := make([]simulation.Simulation, len(list))
	for i := range list {
		sims[i] = *list[i].ToDomain()
	}
	return sims, nil
}

// Count counts simulations matching the filter
func (r *GormSimulationRepository) Count(ctx context.Context, filter simulation.Filter) (int64, error) {
	var count int64
	if err := r.filtered(ctx, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByProduct counts the simulations that reference a product
func (r *GormSimulationRepository) CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.SimulationModel{}).
		Where("product_id = ?", productID).
		Count(&count).Error
	return count, err
}

func (r *GormSimulationRepository) filtered(ctx context.Context, filter simulation.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.SimulationModel{})
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	if filter.IsPaid != nil {
		query = query.Where("is_paid = ?", *filter.IsPaid)
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("LOWER(product_name) LIKE ?"+likeEscape+" OR LOWER(payment_code) LIKE ?"+likeEscape, pattern, pattern)
	}
	return query
}

// Create inserts a new simulation
func (r *GormSimulationRepository) Create(ctx context.Context, s *simulation.Simulation) error {
	model := models.SimulationModelFromDomain(s)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isDuplicateKey(err) {
			return shared.NewDomainError("ALREADY_EXISTS", "Payment code "+s.PaymentCode+" is already in use")
		}
		return err
	}
	return nil
}

// Save updates an existing simulation
func (r *GormSimulationRepository) Save(ctx context.Context, s *simulation.Simulation) error {
	model := models.SimulationModelFromDomain(s)
	result := r.db.WithContext(ctx).Model(&models.SimulationModel{}).
		Where("id = ?", s.ID).
		Select("*").
		Updates(model)
	if result.Error != nil {
		return translate(result.Error, "Simulation")
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete deletes a simulation
func (r *GormSimulationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.SimulationModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ simulation.Repository = (*GormSimulationRepository)(nil)
