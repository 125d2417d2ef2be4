// Package core holds the domain model shared by storage, reporting, and
// the HTTP layer: entities, calendar dates, and money helpers.
//
// Monetary amounts are decimal.Decimal throughout. Sums accumulate in
// full precision; rounding happens exactly once, when a reported figure
// is finalized.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a signed decimal amount, accepting a comma as the
// decimal separator for imported bank exports.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", ".")
	}
	return decimal.NewFromString(s)
}

// Round2 finalizes a currency figure at two decimal places.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Percentage returns part/total expressed as a percent rounded to one
// decimal place, or zero when total is zero.
func Percentage(part, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return part.Div(total).Mul(decimal.NewFromInt(100)).Round(1)
}
