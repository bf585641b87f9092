package valueobject

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Currency represents a currency code (ISO 4217)
type Currency string

const (
	XAF Currency = "XAF" // Central African CFA franc (default)
	EUR Currency = "EUR" // Euro
	USD Currency = "USD" // US Dollar
)

// DefaultCurrency is the default currency for the system
const DefaultCurrency = XAF

// MoneyScale is the number of decimal places kept on stored amounts.
const MoneyScale int32 = 2

// Money is a value object representing monetary amounts.
// It is immutable: all operations return new Money instances.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoney creates a new Money with the specified amount and currency
func NewMoney(amount decimal.Decimal, currency Currency) (Money, error) {
	if currency == "" {
		return Money{}, errors.New("currency cannot be empty")
	}
	return Money{amount: amount, currency: currency}, nil
}

// NewMoneyXAF creates Money in XAF
func NewMoneyXAF(amount decimal.Decimal) Money {
	return Money{amount: amount, currency: XAF}
}

// Amount returns the decimal amount
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the currency code
func (m Money) Currency() Currency {
	return m.currency
}

// Round returns the amount rounded half away from zero to MoneyScale places.
func (m Money) Round() Money {
	return Money{amount: RoundHalfUp(m.amount), currency: m.currency}
}

// Equals checks if two Money values are equal
func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// String returns a string representation of the money
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.StringFixed(MoneyScale), m.currency)
}

// RoundHalfUp rounds d to two decimal places, halves away from zero.
// decimal.Round is used rather than RoundBank.
func RoundHalfUp(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyScale)
}
