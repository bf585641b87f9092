// Package export renders simulations as printable statements and
// spreadsheet histories.
package export

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/simudouane/backend/internal/domain/simulation"
)

// DefaultCurrency is used when no currency label is configured.
const DefaultCurrency = "FCFA"

var amountPrinter = message.NewPrinter(language.French)

// FormatAmount renders d the way French statements print money: thousands
// grouped by spaces, a comma before the two decimals and the currency label
// last, e.g. "1 234 567,50 FCFA".
func FormatAmount(d decimal.Decimal, currency string) string {
	d = d.Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	whole := d.Truncate(0)
	cents := d.Sub(whole).Shift(2).IntPart()

	// the French locale groups with non-breaking spaces, which the PDF core
	// fonts cannot encode
	grouped := strings.Map(plainSpace, amountPrinter.Sprintf("%d", whole.IntPart()))

	s := fmt.Sprintf("%s%s,%02d", sign, grouped, cents)
	if currency != "" {
		s += " " + currency
	}
	return s
}

func plainSpace(r rune) rune {
	if unicode.IsSpace(r) {
		return ' '
	}
	return r
}

func paymentMethodLabel(m simulation.PaymentMethod) string {
	switch m {
	case simulation.PaymentOrangeMoney:
		return "Orange Money"
	case simulation.PaymentMTNMoMo:
		return "MTN Mobile Money"
	}
	return "-"
}

func statusLabel(s *simulation.Simulation) string {
	if s.IsPaid {
		return "Payée"
	}
	return "En attente de paiement"
}

func currencyOrDefault(currency string) string {
	if currency == "" {
		return DefaultCurrency
	}
	return currency
}
