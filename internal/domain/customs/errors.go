package customs

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simudouane/backend/internal/domain/shared"
)

// InvalidInputError reports a declaration field holding a negative amount.
type InvalidInputError struct {
	Field string
	Value decimal.Decimal
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s must not be negative (got %s)", e.Field, e.Value.String())
}

// Is makes the error match shared.ErrInvalidInput.
func (e *InvalidInputError) Is(target error) bool {
	t, ok := target.(*shared.DomainError)
	return ok && t.Code == shared.ErrInvalidInput.Code
}

// ProductNotFoundError reports a declaration whose product profile could not be resolved.
type ProductNotFoundError struct {
	ProductID uuid.UUID
}

func (e *ProductNotFoundError) Error() string {
	if e.ProductID == uuid.Nil {
		return "product tariff profile not found"
	}
	return fmt.Sprintf("product %s not found", e.ProductID)
}

// Is makes the error match shared.ErrNotFound.
func (e *ProductNotFoundError) Is(target error) bool {
	t, ok := target.(*shared.DomainError)
	return ok && t.Code == shared.ErrNotFound.Code
}
