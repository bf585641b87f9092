// Package seed loads the reference catalogue of categories and products.
//
// The catalogue ships embedded in the binary. Seeding is idempotent:
// categories are matched by name and products by HS code, so running it
// twice leaves the database unchanged.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/simudouane/backend/internal/domain/catalog"
	"github.com/simudouane/backend/internal/domain/customs"
	"github.com/simudouane/backend/internal/domain/shared"
)

//go:embed catalog.yaml
var embeddedCatalog []byte

// Catalog is the decoded catalogue document.
type Catalog struct {
	Categories []CategoryEntry `yaml:"categories"`
	Products   []ProductEntry  `yaml:"products"`
}

// CategoryEntry is one entry of the categories list.
type CategoryEntry struct {
	Name         string `yaml:"name"`
	Description  string `yaml:"description"`
	HSCodePrefix string `yaml:"hs_code_prefix"`
}

// ProductEntry is one entry of the products list.
type ProductEntry struct {
	Name           string `yaml:"name"`
	Category       string `yaml:"category"`
	TariffSpecies  string `yaml:"tariff_species"`
	HSCode         string `yaml:"hs_code"`
	Luxury         bool   `yaml:"luxury"`
	AlcoholTobacco bool   `yaml:"alcohol_tobacco"`
	Vehicle        bool   `yaml:"vehicle"`
	Phytosanitary  bool   `yaml:"phytosanitary"`
}

func (e ProductEntry) flags() catalog.ProductFlags {
	return catalog.ProductFlags{
		IsLuxury:              e.Luxury,
		IsAlcoholTobacco:      e.AlcoholTobacco,
		IsVehicle:             e.Vehicle,
		RequiresPhytosanitary: e.Phytosanitary,
	}
}

// DefaultCatalog decodes the embedded catalogue.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(embeddedCatalog)
}

// ParseCatalog decodes a catalogue document.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("seed: parse catalog: %w", err)
	}
	return &c, nil
}

// Result counts what a seeding run changed.
type Result struct {
	CategoriesCreated int `json:"categories_created"`
	ProductsCreated   int `json:"products_created"`
	ProductsUpdated   int `json:"products_updated"`
	ProductsSkipped   int `json:"products_skipped"`
}

// Seeder writes a catalogue through the catalog repositories.
type Seeder struct {
	categories catalog.CategoryRepository
	products   catalog.ProductRepository
	logger     *zap.Logger
}

// NewSeeder creates a new Seeder
func NewSeeder(categories catalog.CategoryRepository, products catalog.ProductRepository, logger *zap.Logger) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{categories: categories, products: products, logger: logger}
}

// Run seeds c. A product entry that fails validation is logged and skipped;
// repository failures abort the run.
func (s *Seeder) Run(ctx context.Context, c *Catalog) (Result, error) {
	var res Result
	categoryIDs := make(map[string]uuid.UUID, len(c.Categories))

	for _, entry := range c.Categories {
		id, created, err := s.ensureCategory(ctx, entry)
		if err != nil {
			return res, err
		}
		if created {
			res.CategoriesCreated++
		}
		categoryIDs[entry.Name] = id
	}

	for _, entry := range c.Products {
		var categoryID *uuid.UUID
		if id, ok := categoryIDs[entry.Category]; ok {
			categoryID = &id
		}

		created, updated, err := s.upsertProduct(ctx, entry, categoryID)
		switch {
		case errors.Is(err, shared.ErrInvalidInput):
			s.logger.Warn("Skipping invalid catalog product",
				zap.String("product", entry.Name),
				zap.String("hs_code", entry.HSCode),
				zap.Error(err),
			)
			res.ProductsSkipped++
		case err != nil:
			return res, err
		case created:
			res.ProductsCreated++
		case updated:
			res.ProductsUpdated++
		}
	}

	s.logger.Info("Catalog seeded",
		zap.Int("categories_created", res.CategoriesCreated),
		zap.Int("products_created", res.ProductsCreated),
		zap.Int("products_updated", res.ProductsUpdated),
		zap.Int("products_skipped", res.ProductsSkipped),
	)
	return res, nil
}

func (s *Seeder) ensureCategory(ctx context.Context, entry CategoryEntry) (uuid.UUID, bool, error) {
	existing, err := s.categories.FindByName(ctx, entry.Name)
	if err == nil {
		return existing.ID, false, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return uuid.Nil, false, fmt.Errorf("seed: find category %q: %w", entry.Name, err)
	}

	category, err := catalog.NewCategory(entry.Name, entry.Description, entry.HSCodePrefix)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("seed: category %q: %w", entry.Name, err)
	}
	if err := s.categories.Save(ctx, category); err != nil {
		return uuid.Nil, false, fmt.Errorf("seed: save category %q: %w", entry.Name, err)
	}
	return category.ID, true, nil
}

func (s *Seeder) upsertProduct(ctx context.Context, entry ProductEntry, categoryID *uuid.UUID) (created, updated bool, err error) {
	species := customs.SpeciesConsumptionGoods
	if entry.TariffSpecies != "" {
		species, err = customs.ParseTariffSpecies(entry.TariffSpecies)
		if err != nil {
			return false, false, shared.NewDomainError("INVALID_INPUT", err.Error())
		}
	}

	existing, err := s.products.FindByHSCode(ctx, entry.HSCode)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return false, false, fmt.Errorf("seed: find product %q: %w", entry.HSCode, err)
	}

	if existing == nil {
		p, err := catalog.NewProduct(entry.Name, entry.HSCode, species)
		if err != nil {
			return false, false, err
		}
		p.SetFlags(entry.flags())
		p.SetCategory(categoryID)
		if err := s.products.Save(ctx, p); err != nil {
			return false, false, fmt.Errorf("seed: save product %q: %w", entry.Name, err)
		}
		return true, false, nil
	}

	if !productChanged(existing, entry, species, categoryID) {
		return false, false, nil
	}
	if err := existing.Update(entry.Name, existing.Description); err != nil {
		return false, false, err
	}
	if err := existing.Reclassify(existing.HSCode, species, entry.flags()); err != nil {
		return false, false, err
	}
	existing.SetCategory(categoryID)
	if err := s.products.Save(ctx, existing); err != nil {
		return false, false, fmt.Errorf("seed: update product %q: %w", entry.Name, err)
	}
	return false, true, nil
}

func productChanged(p *catalog.Product, entry ProductEntry, species customs.TariffSpecies, categoryID *uuid.UUID) bool {
	if p.Name != entry.Name || p.TariffSpecies != species || p.Flags() != entry.flags() {
		return true
	}
	if (p.CategoryID == nil) != (categoryID == nil) {
		return true
	}
	return categoryID != nil && *p.CategoryID != *categoryID
}
