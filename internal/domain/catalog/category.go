package catalog

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/simudouane/backend/internal/domain/shared"
)

// Category groups products that share an HS code prefix.
type Category struct {
	shared.BaseAggregateRoot
	Name         string
	Description  string
	HSCodePrefix string // optional, unique when set
}

// NewCategory creates a new category
func NewCategory(name, description, hsCodePrefix string) (*Category, error) {
	c := &Category{BaseAggregateRoot: shared.NewBaseAggregateRoot()}
	if err := c.apply(name, description, hsCodePrefix); err != nil {
		return nil, err
	}
	c.AddDomainEvent(NewCategoryChangedEvent(EventTypeCategoryCreated, c))
	return c, nil
}

// Update replaces the category's descriptive fields.
func (c *Category) Update(name, description, hsCodePrefix string) error {
	if err := c.apply(name, description, hsCodePrefix); err != nil {
		return err
	}
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	c.AddDomainEvent(NewCategoryChangedEvent(EventTypeCategoryUpdated, c))
	return nil
}

func (c *Category) apply(name, description, hsCodePrefix string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_INPUT", "Category name cannot be empty")
	}
	if utf8.RuneCountInString(name) > 100 {
		return shared.NewDomainError("INVALID_INPUT", "Category name cannot exceed 100 characters")
	}
	prefix := strings.TrimSpace(hsCodePrefix)
	if len(prefix) > 20 {
		return shared.NewDomainError("INVALID_INPUT", "HS code prefix cannot exceed 20 characters")
	}
	c.Name = name
	c.Description = description
	c.HSCodePrefix = prefix
	return nil
}
