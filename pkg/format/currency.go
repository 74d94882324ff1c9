// Package format renders amounts for human-readable reports.
package format

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Currency returns a currency string with a dollar sign and thousands separators (e.g., "-$1,234.56").
func Currency(amount decimal.Decimal) string {
	formatted := formatPositiveCurrency(amount.Abs())
	if amount.Round(2).IsNegative() {
		return "-$" + formatted
	}
	return "$" + formatted
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,234.56").
func NumericCurrency(amount decimal.Decimal) string {
	sign := ""
	if amount.Round(2).IsNegative() {
		sign = "-"
	}
	return sign + formatPositiveCurrency(amount.Abs())
}

// Percent renders a percentage with the given number of decimals (e.g., "56.1%").
func Percent(value decimal.Decimal, places int32) string {
	return value.StringFixed(places) + "%"
}

func formatPositiveCurrency(value decimal.Decimal) string {
	formatted := value.StringFixed(2)
	parts := strings.SplitN(formatted, ".", 2)
	intPart := parts[0]
	decPart := "00"
	if len(parts) == 2 {
		decPart = parts[1]
	}

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	return intPart + "." + decPart
}
