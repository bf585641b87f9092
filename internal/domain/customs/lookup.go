package customs

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/simudouane/backend/internal/domain/shared"
)

// ProfileLookup resolves the tariff profile of a catalogued product. A
// missing product is reported with an error matching shared.ErrNotFound.
type ProfileLookup interface {
	LookupProfile(ctx context.Context, productID uuid.UUID) (ProductTariffProfile, error)
}

// ComputeForProduct resolves decl.ProductID through lookup when no profile is
// attached, then runs Compute. Amount checks come first so a declaration that
// is both negative and unresolvable reports the negative field.
func (c *Calculator) ComputeForProduct(ctx context.Context, decl ImportDeclaration, lookup ProfileLookup) (DutyBreakdown, error) {
	if decl.Product == nil {
		probe := decl
		probe.Product = &ProductTariffProfile{}
		if err := probe.Validate(); err != nil {
			return DutyBreakdown{}, err
		}
		if decl.ProductID == uuid.Nil {
			return DutyBreakdown{}, &ProductNotFoundError{}
		}

		profile, err := lookup.LookupProfile(ctx, decl.ProductID)
		if errors.Is(err, shared.ErrNotFound) {
			return DutyBreakdown{}, &ProductNotFoundError{ProductID: decl.ProductID}
		}
		if err != nil {
			return DutyBreakdown{}, fmt.Errorf("lookup tariff profile: %w", err)
		}
		decl.Product = &profile
	}
	return c.Compute(decl)
}
