package persistence

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/simudouane/backend/internal/domain/shared"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	if strings.ToUpper(strings.TrimSpace(orderDir)) == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField returns sortField when it is whitelisted, defaultField otherwise.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CategorySortFields contains allowed sort fields for categories
var CategorySortFields = map[string]bool{
	"created_at":     true,
	"updated_at":     true,
	"name":           true,
	"hs_code_prefix": true,
}

// ProductSortFields contains allowed sort fields for products
var ProductSortFields = map[string]bool{
	"created_at":     true,
	"updated_at":     true,
	"name":           true,
	"hs_code":        true,
	"tariff_species": true,
}

// SimulationSortFields contains allowed sort fields for simulations
var SimulationSortFields = map[string]bool{
	"created_at":     true,
	"updated_at":     true,
	"total":          true,
	"declared_value": true,
	"paid_at":        true,
}

// paginate applies ordering and paging from filter. defaultDir is used when
// the filter does not name a direction.
func paginate(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultField, defaultDir string) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, allowed, defaultField)
	dir := defaultDir
	if strings.TrimSpace(filter.OrderDir) != "" {
		dir = ValidateSortOrder(filter.OrderDir)
	}
	return query.Order(fmt.Sprintf("%s %s", field, dir)).
		Offset(filter.Offset()).
		Limit(filter.Limit())
}

// likeEscaper escapes the LIKE wildcards of a search term. Queries using it
// must end each LIKE with likeEscape.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

const likeEscape = ` ESCAPE '\'`

// likePattern builds a case-insensitive LIKE pattern that works on both
// postgres and sqlite when matched against LOWER(column).
func likePattern(search string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(search))) + "%"
}

// isDuplicateKey reports unique constraint violations. GORM translates them
// when TranslateError is on; the message checks cover drivers that do not.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "SQLSTATE 23505")
}

// translate maps GORM errors to domain errors.
func translate(err error, entity string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case isDuplicateKey(err):
		return shared.NewDomainError("ALREADY_EXISTS", entity+" already exists")
	default:
		return err
	}
}
