package simulation

import (
	"strings"

	"github.com/google/uuid"
)

// DefaultPaymentCodeLength is the number of characters of a generated code.
const DefaultPaymentCodeLength = 10

// PaymentCodeGenerator produces payment confirmation codes.
type PaymentCodeGenerator interface {
	Generate() string
}

// UUIDCodeGenerator takes the leading characters of a random UUID, upper-cased.
type UUIDCodeGenerator struct {
	Length int
}

// NewUUIDCodeGenerator returns a generator; lengths outside 4..32 fall back to the default.
func NewUUIDCodeGenerator(length int) UUIDCodeGenerator {
	if length < 4 || length > 32 {
		length = DefaultPaymentCodeLength
	}
	return UUIDCodeGenerator{Length: length}
}

// Generate returns a new code. Dashes are dropped so every character is hex;
// lengths above 32 are capped there.
func (g UUIDCodeGenerator) Generate() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	n := g.Length
	if n <= 0 {
		n = DefaultPaymentCodeLength
	}
	if n > len(raw) {
		n = len(raw)
	}
	return strings.ToUpper(raw[:n])
}
