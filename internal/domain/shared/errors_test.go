package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Is(t *testing.T) {
	err := NewDomainError("NOT_FOUND", "Product not found")

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(fmt.Errorf("lookup: %w", err), ErrNotFound))
	assert.False(t, errors.Is(err, ErrInvalidInput))
	assert.Equal(t, "Product not found", err.Error())
}

func TestNewPaginated(t *testing.T) {
	p := NewPaginated([]int{1, 2, 3}, 45, 2, 20)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, int64(45), p.Total)

	empty := NewPaginated([]int{}, 0, 1, 0)
	assert.Equal(t, 20, empty.PageSize)
	assert.Equal(t, 0, empty.TotalPages)
}

func TestFilter_Offset(t *testing.T) {
	f := DefaultFilter()
	assert.Equal(t, 0, f.Offset())
	f.Page = 3
	f.PageSize = 10
	assert.Equal(t, 20, f.Offset())
	assert.Equal(t, 10, f.Limit())
}
