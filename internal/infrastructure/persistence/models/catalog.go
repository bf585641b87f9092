package models

import (
	"github.com/google/uuid"

	"github.com/simudouane/backend/internal/domain/catalog"
	"github.com/simudouane/backend/internal/domain/customs"
)

// CategoryModel is the persistence model for the Category domain entity.
type CategoryModel struct {
	AggregateModel
	Name         string  `gorm:"type:varchar(100);not null;uniqueIndex"`
	Description  string  `gorm:"type:text"`
	HSCodePrefix *string `gorm:"type:varchar(20);uniqueIndex"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the persistence model to a domain Category entity.
func (m *CategoryModel) ToDomain() *catalog.Category {
	c := &catalog.Category{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Description:       m.Description,
	}
	if m.HSCodePrefix != nil {
		c.HSCodePrefix = *m.HSCodePrefix
	}
	return c
}

// FromDomain populates the persistence model from a domain Category entity.
// An empty prefix is stored as NULL so that several categories may omit it.
func (m *CategoryModel) FromDomain(c *catalog.Category) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.Name = c.Name
	m.Description = c.Description
	m.HSCodePrefix = nil
	if c.HSCodePrefix != "" {
		prefix := c.HSCodePrefix
		m.HSCodePrefix = &prefix
	}
}

// CategoryModelFromDomain creates a new persistence model from domain Category entity.
func CategoryModelFromDomain(c *catalog.Category) *CategoryModel {
	m := &CategoryModel{}
	m.FromDomain(c)
	return m
}

// ProductModel is the persistence model for the Product domain entity.
type ProductModel struct {
	AggregateModel
	Name                  string     `gorm:"type:varchar(255);not null;uniqueIndex"`
	Description           string     `gorm:"type:text"`
	CategoryID            *uuid.UUID `gorm:"type:uuid;index"`
	TariffSpecies         string     `gorm:"type:varchar(10);not null;index"`
	HSCode                string     `gorm:"column:hs_code;type:varchar(20);not null;uniqueIndex"`
	IsLuxury              bool       `gorm:"not null"`
	IsAlcoholTobacco      bool       `gorm:"not null"`
	IsVehicle             bool       `gorm:"not null"`
	RequiresPhytosanitary bool       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseAggregateRoot:     m.ToDomainAggregateRoot(),
		Name:                  m.Name,
		Description:           m.Description,
		CategoryID:            m.CategoryID,
		TariffSpecies:         customs.TariffSpecies(m.TariffSpecies),
		HSCode:                m.HSCode,
		IsLuxury:              m.IsLuxury,
		IsAlcoholTobacco:      m.IsAlcoholTobacco,
		IsVehicle:             m.IsVehicle,
		RequiresPhytosanitary: m.RequiresPhytosanitary,
	}
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.Name = p.Name
	m.Description = p.Description
	m.CategoryID = p.CategoryID
	m.TariffSpecies = string(p.TariffSpecies)
	m.HSCode = p.HSCode
	m.IsLuxury = p.IsLuxury
	m.IsAlcoholTobacco = p.IsAlcoholTobacco
	m.IsVehicle = p.IsVehicle
	m.RequiresPhytosanitary = p.RequiresPhytosanitary
}

// ProductModelFromDomain creates a new persistence model from domain Product entity.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}
