package catalog

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/simudouane/backend/internal/domain/customs"
	"github.com/simudouane/backend/internal/domain/shared"
)

// Product is a catalogued good with the tariff attributes the duty
// calculator needs.
type Product struct {
	shared.BaseAggregateRoot
	Name                  string
	Description           string
	CategoryID            *uuid.UUID
	TariffSpecies         customs.TariffSpecies
	HSCode                string
	IsLuxury              bool
	IsAlcoholTobacco      bool
	IsVehicle             bool
	RequiresPhytosanitary bool
}

// ProductFlags holds the boolean tariff attributes of a product.
type ProductFlags struct {
	IsLuxury              bool
	IsAlcoholTobacco      bool
	IsVehicle             bool
	RequiresPhytosanitary bool
}

// NewProduct creates a new product. An empty species defaults to consumption goods.
func NewProduct(name, hsCode string, species customs.TariffSpecies) (*Product, error) {
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	code, err := normalizeHSCode(hsCode)
	if err != nil {
		return nil, err
	}
	if species == "" {
		species = customs.SpeciesConsumptionGoods
	}
	if !species.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown tariff species: "+string(species))
	}

	p := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		HSCode:            code,
		TariffSpecies:     species,
	}
	p.AddDomainEvent(NewProductChangedEvent(EventTypeProductCreated, p))
	return p, nil
}

// Update changes the product's name and description.
func (p *Product) Update(name, description string) error {
	if err := validateProductName(name); err != nil {
		return err
	}
	p.Name = strings.TrimSpace(name)
	p.Description = description
	p.touch()
	return nil
}

// Reclassify changes the tariff attributes and emits ProductTariffChanged.
func (p *Product) Reclassify(hsCode string, species customs.TariffSpecies, flags ProductFlags) error {
	code, err := normalizeHSCode(hsCode)
	if err != nil {
		return err
	}
	if !species.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", "Unknown tariff species: "+string(species))
	}
	p.HSCode = code
	p.TariffSpecies = species
	p.SetFlags(flags)
	p.AddDomainEvent(NewProductChangedEvent(EventTypeProductTariffChanged, p))
	return nil
}

// SetFlags replaces the excise and phytosanitary flags.
func (p *Product) SetFlags(f ProductFlags) {
	p.IsLuxury = f.IsLuxury
	p.IsAlcoholTobacco = f.IsAlcoholTobacco
	p.IsVehicle = f.IsVehicle
	p.RequiresPhytosanitary = f.RequiresPhytosanitary
	p.touch()
}

// Flags returns the product's boolean tariff attributes.
func (p *Product) Flags() ProductFlags {
	return ProductFlags{
		IsLuxury:              p.IsLuxury,
		IsAlcoholTobacco:      p.IsAlcoholTobacco,
		IsVehicle:             p.IsVehicle,
		RequiresPhytosanitary: p.RequiresPhytosanitary,
	}
}

// SetCategory sets the product category; nil detaches it.
func (p *Product) SetCategory(categoryID *uuid.UUID) {
	p.CategoryID = categoryID
	p.touch()
}

// Profile returns the tariff profile consumed by customs.Calculator.
func (p *Product) Profile() customs.ProductTariffProfile {
	return customs.ProductTariffProfile{
		TariffSpecies:         p.TariffSpecies,
		IsLuxury:              p.IsLuxury,
		IsAlcoholOrTobacco:    p.IsAlcoholTobacco,
		IsVehicle:             p.IsVehicle,
		RequiresPhytosanitary: p.RequiresPhytosanitary,
	}
}

func (p *Product) touch() {
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

func validateProductName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_INPUT", "Product name cannot be empty")
	}
	if utf8.RuneCountInString(name) > 255 {
		return shared.NewDomainError("INVALID_INPUT", "Product name cannot exceed 255 characters")
	}
	return nil
}

// normalizeHSCode trims the code and checks it only holds digits and dots.
func normalizeHSCode(code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", shared.NewDomainError("INVALID_INPUT", "HS code cannot be empty")
	}
	if len(code) > 20 {
		return "", shared.NewDomainError("INVALID_INPUT", "HS code cannot exceed 20 characters")
	}
	for _, r := range code {
		if (r < '0' || r > '9') && r != '.' {
			return "", shared.NewDomainError("INVALID_INPUT", "HS code may only contain digits and dots")
		}
	}
	return code, nil
}
