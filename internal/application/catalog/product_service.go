package catalog

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/simudouane/backend/internal/domain/catalog"
	"github.com/simudouane/backend/internal/domain/customs"
	"github.com/simudouane/backend/internal/domain/shared"
	"github.com/simudouane/backend/internal/infrastructure/cache"
	"github.com/simudouane/backend/internal/infrastructure/telemetry"
	"github.com/simudouane/backend/internal/infrastructure/validation"
)

// ProductUsageCounter reports how many simulations reference a product.
type ProductUsageCounter interface {
	CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error)
}

// ProductService handles product-related business operations and serves
// tariff profiles to the duty calculator.
type ProductService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	usage        ProductUsageCounter
	profiles     cache.ProfileCache
	events       shared.EventPublisher
	logger       *zap.Logger
}

// ProductServiceOption configures a ProductService
type ProductServiceOption func(*ProductService)

// WithProfileCache caches tariff profiles served by LookupProfile.
func WithProfileCache(c cache.ProfileCache) ProductServiceOption {
	return func(s *ProductService) {
		s.profiles = c
	}
}

// WithEventPublisher publishes product events after each write.
func WithEventPublisher(p shared.EventPublisher) ProductServiceOption {
	return func(s *ProductService) {
		s.events = p
	}
}

// WithProductLogger sets the service logger.
func WithProductLogger(logger *zap.Logger) ProductServiceOption {
	return func(s *ProductService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	usage ProductUsageCounter,
	opts ...ProductServiceOption,
) *ProductService {
	s := &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		usage:        usage,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "product", "create")
	defer span.End()

	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if err := s.ensureUnique(ctx, strings.TrimSpace(req.Name), strings.TrimSpace(req.HSCode)); err != nil {
		return nil, err
	}
	if err := s.ensureCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	product, err := catalog.NewProduct(req.Name, req.HSCode, customs.TariffSpecies(req.TariffSpecies))
	if err != nil {
		return nil, err
	}
	if req.Description != "" {
		if err := product.Update(product.Name, req.Description); err != nil {
			return nil, err
		}
	}
	product.SetFlags(catalog.ProductFlags{
		IsLuxury:              req.IsLuxury,
		IsAlcoholTobacco:      req.IsAlcoholTobacco,
		IsVehicle:             req.IsVehicle,
		RequiresPhytosanitary: req.RequiresPhytosanitary,
	})
	product.SetCategory(req.CategoryID)

	if err := s.productRepo.Save(ctx, product); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	s.publish(ctx, product)

	telemetry.SetAttributes(span, telemetry.SpanAttrProductID, product.ID.String())
	s.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("hs_code", product.HSCode),
		zap.String("tariff_species", product.TariffSpecies.String()),
	)

	resp := ToProductResponse(product)
	return &resp, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// GetByHSCode retrieves a product by its CEMAC HS code
func (s *ProductService) GetByHSCode(ctx context.Context, hsCode string) (*ProductResponse, error) {
	product, err := s.productRepo.FindByHSCode(ctx, strings.TrimSpace(hsCode))
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// List retrieves a page of products and the total count
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	if err := validation.Struct(filter); err != nil {
		return nil, 0, err
	}
	domainFilter := filter.toDomain()

	products, err := s.productRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.productRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToProductResponses(products), total, nil
}

// Update updates an existing product. Tariff changes invalidate the cached
// profile so later computations use the new attributes.
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "product", "update", telemetry.SpanAttrProductID, id.String())
	defer span.End()

	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name, description := product.Name, product.Description
	if req.Name != nil && strings.TrimSpace(*req.Name) != product.Name {
		name = strings.TrimSpace(*req.Name)
		if err := s.ensureUnique(ctx, name, ""); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		description = *req.Description
	}
	if name != product.Name || description != product.Description {
		if err := product.Update(name, description); err != nil {
			return nil, err
		}
	}

	hsCode, species, flags := product.HSCode, product.TariffSpecies, product.Flags()
	if req.HSCode != nil && strings.TrimSpace(*req.HSCode) != product.HSCode {
		hsCode = strings.TrimSpace(*req.HSCode)
		if err := s.ensureUnique(ctx, "", hsCode); err != nil {
			return nil, err
		}
	}
	if req.TariffSpecies != nil {
		species = customs.TariffSpecies(*req.TariffSpecies)
	}
	applyFlag(&flags.IsLuxury, req.IsLuxury)
	applyFlag(&flags.IsAlcoholTobacco, req.IsAlcoholTobacco)
	applyFlag(&flags.IsVehicle, req.IsVehicle)
	applyFlag(&flags.RequiresPhytosanitary, req.RequiresPhytosanitary)

	tariffChanged := hsCode != product.HSCode || species != product.TariffSpecies || flags != product.Flags()
	if tariffChanged {
		if err := product.Reclassify(hsCode, species, flags); err != nil {
			return nil, err
		}
	}

	switch {
	case req.ClearCategory:
		product.SetCategory(nil)
	case req.CategoryID != nil:
		if err := s.ensureCategory(ctx, req.CategoryID); err != nil {
			return nil, err
		}
		product.SetCategory(req.CategoryID)
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if tariffChanged {
		s.invalidate(ctx, product.ID)
	}
	s.publish(ctx, product)

	resp := ToProductResponse(product)
	return &resp, nil
}

// Delete removes a product that no simulation references.
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "product", "delete", telemetry.SpanAttrProductID, id.String())
	defer span.End()

	if _, err := s.productRepo.FindByID(ctx, id); err != nil {
		return err
	}

	if s.usage != nil {
		used, err := s.usage.CountByProduct(ctx, id)
		if err != nil {
			telemetry.RecordError(span, err)
			return err
		}
		if used > 0 {
			return shared.NewDomainError("INVALID_STATE",
				"Product is referenced by "+strconv.FormatInt(used, 10)+" simulation(s) and cannot be deleted")
		}
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		telemetry.RecordError(span, err)
		return err
	}
	s.invalidate(ctx, id)

	s.logger.Info("Product deleted", zap.String("product_id", id.String()))
	return nil
}

// LookupProfile returns the tariff profile of a product, reading through the
// profile cache when one is configured. Cache failures fall back to the
// repository.
func (s *ProductService) LookupProfile(ctx context.Context, productID uuid.UUID) (customs.ProductTariffProfile, error) {
	if s.profiles != nil {
		profile, ok, err := s.profiles.Get(ctx, productID)
		if err != nil {
			s.logger.Warn("Profile cache read failed",
				zap.String("product_id", productID.String()),
				zap.Error(err),
			)
		} else if ok {
			return profile, nil
		}
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return customs.ProductTariffProfile{}, err
	}
	profile := product.Profile()

	if s.profiles != nil {
		if err := s.profiles.Set(ctx, productID, profile); err != nil {
			s.logger.Warn("Profile cache write failed",
				zap.String("product_id", productID.String()),
				zap.Error(err),
			)
		}
	}
	return profile, nil
}

// FindProduct returns the product entity itself.
func (s *ProductService) FindProduct(ctx context.Context, productID uuid.UUID) (*catalog.Product, error) {
	return s.productRepo.FindByID(ctx, productID)
}

// ensureUnique checks name and hsCode against existing products; empty
// values are not checked.
func (s *ProductService) ensureUnique(ctx context.Context, name, hsCode string) error {
	if name != "" {
		exists, err := s.productRepo.ExistsByName(ctx, name)
		if err != nil {
			return err
		}
		if exists {
			return shared.NewDomainError("ALREADY_EXISTS", "Product with this name already exists")
		}
	}
	if hsCode != "" {
		exists, err := s.productRepo.ExistsByHSCode(ctx, hsCode)
		if err != nil {
			return err
		}
		if exists {
			return shared.NewDomainError("ALREADY_EXISTS", "Product with this HS code already exists")
		}
	}
	return nil
}

func (s *ProductService) ensureCategory(ctx context.Context, categoryID *uuid.UUID) error {
	if categoryID == nil {
		return nil
	}
	if _, err := s.categoryRepo.FindByID(ctx, *categoryID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("INVALID_INPUT", "Category not found")
		}
		return err
	}
	return nil
}

func (s *ProductService) invalidate(ctx context.Context, productID uuid.UUID) {
	if s.profiles == nil {
		return
	}
	if err := s.profiles.Invalidate(ctx, productID); err != nil {
		s.logger.Warn("Profile cache invalidation failed",
			zap.String("product_id", productID.String()),
			zap.Error(err),
		)
	}
}

func (s *ProductService) publish(ctx context.Context, product *catalog.Product) {
	events := product.GetDomainEvents()
	product.ClearDomainEvents()
	if s.events == nil || len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish product events",
			zap.String("product_id", product.ID.String()),
			zap.Error(err),
		)
	}
}

func applyFlag(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

var _ customs.ProfileLookup = (*ProductService)(nil)
