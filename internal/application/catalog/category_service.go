package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/simudouane/backend/internal/domain/catalog"
	"github.com/simudouane/backend/internal/domain/shared"
	"github.com/simudouane/backend/internal/infrastructure/telemetry"
	"github.com/simudouane/backend/internal/infrastructure/validation"
)

// CategoryService handles category-related business operations
type CategoryService struct {
	categoryRepo catalog.CategoryRepository
	productRepo  catalog.ProductRepository
	events       shared.EventPublisher
	logger       *zap.Logger
}

// NewCategoryService creates a new CategoryService. events may be nil.
func NewCategoryService(
	categoryRepo catalog.CategoryRepository,
	productRepo catalog.ProductRepository,
	events shared.EventPublisher,
	logger *zap.Logger,
) *CategoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CategoryService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		events:       events,
		logger:       logger,
	}
}

// Create creates a new category
func (s *CategoryService) Create(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "category", "create")
	defer span.End()

	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	exists, err := s.categoryRepo.ExistsByName(ctx, strings.TrimSpace(req.Name))
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Category with this name already exists")
	}
	if err := s.ensurePrefixFree(ctx, req.HSCodePrefix); err != nil {
		return nil, err
	}

	category, err := catalog.NewCategory(req.Name, req.Description, req.HSCodePrefix)
	if err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	s.publish(ctx, category)

	telemetry.SetAttributes(span, telemetry.SpanAttrCategoryID, category.ID.String())
	s.logger.Info("Category created",
		zap.String("category_id", category.ID.String()),
		zap.String("name", category.Name),
	)

	resp := ToCategoryResponse(category)
	return &resp, nil
}

// GetByID retrieves a category by ID
func (s *CategoryService) GetByID(ctx context.Context, id uuid.UUID) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(category)
	return &resp, nil
}

// List retrieves a page of categories and the total count
func (s *CategoryService) List(ctx context.Context, filter CategoryListFilter) ([]CategoryResponse, int64, error) {
	if err := validation.Struct(filter); err != nil {
		return nil, 0, err
	}
	domainFilter := filter.toDomain()

	categories, err := s.categoryRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.categoryRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]CategoryResponse, len(categories))
	for i := range categories {
		responses[i] = ToCategoryResponse(&categories[i])
	}
	return responses, total, nil
}

// Update updates an existing category
func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "category", "update", telemetry.SpanAttrCategoryID, id.String())
	defer span.End()

	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name, description, prefix := category.Name, category.Description, category.HSCodePrefix
	if req.Name != nil && strings.TrimSpace(*req.Name) != category.Name {
		name = strings.TrimSpace(*req.Name)
		exists, err := s.categoryRepo.ExistsByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Category with this name already exists")
		}
	}
	if req.Description != nil {
		description = *req.Description
	}
	if req.HSCodePrefix != nil && strings.TrimSpace(*req.HSCodePrefix) != category.HSCodePrefix {
		prefix = strings.TrimSpace(*req.HSCodePrefix)
		if err := s.ensurePrefixFree(ctx, prefix); err != nil {
			return nil, err
		}
	}

	if err := category.Update(name, description, prefix); err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	s.publish(ctx, category)

	resp := ToCategoryResponse(category)
	return &resp, nil
}

// Delete removes a category. Its products are kept and lose their category.
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "category", "delete", telemetry.SpanAttrCategoryID, id.String())
	defer span.End()

	if _, err := s.categoryRepo.FindByID(ctx, id); err != nil {
		return err
	}

	detached, err := s.productRepo.DetachCategory(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	s.logger.Info("Category deleted",
		zap.String("category_id", id.String()),
		zap.Int64("detached_products", detached),
	)
	return nil
}

func (s *CategoryService) ensurePrefixFree(ctx context.Context, prefix string) error {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return nil
	}
	exists, err := s.categoryRepo.ExistsByHSCodePrefix(ctx, prefix)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "Category with this HS code prefix already exists")
	}
	return nil
}

func (s *CategoryService) publish(ctx context.Context, category *catalog.Category) {
	events := category.GetDomainEvents()
	category.ClearDomainEvents()
	if s.events == nil || len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish category events",
			zap.String("category_id", category.ID.String()),
			zap.Error(err),
		)
	}
}
