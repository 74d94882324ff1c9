// Package testutil provides common utility functions for testing.
package testutil

import (
	"testing"
	"time"

	"github.com/iwvelando/loan-amortization/pkg/datetime"
	"github.com/shopspring/decimal"
)

// MustDecimal parses a decimal string and panics on error.
// This is intended for use in tests where the string is known to be valid.
func MustDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// Date parses a YYYY-MM-DD string and panics on error.
func Date(s string) time.Time {
	return datetime.MustParseTime(datetime.DateLayout, s)
}

// AssertDecimalEqual fails the test when got and want differ in value.
// Trailing zeros are ignored, so 10000 equals 10000.00.
func AssertDecimalEqual(t testing.TB, field string, got, want decimal.Decimal) {
	t.Helper()
	if !got.Equal(want) {
		t.Errorf("%s = %s, expected %s", field, got, want)
	}
}

// AssertDecimalBetween fails the test when got lies outside [low, high].
func AssertDecimalBetween(t testing.TB, field string, got, low, high decimal.Decimal) {
	t.Helper()
	if got.LessThan(low) || got.GreaterThan(high) {
		t.Errorf("%s = %s, expected range [%s, %s]", field, got, low, high)
	}
}
