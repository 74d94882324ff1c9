// Package mathutil provides common mathematical utility functions on exact
// decimal values.
package mathutil

import (
	"github.com/iwvelando/loan-amortization/pkg/constants"
	"github.com/shopspring/decimal"
)

var (
	half    = decimal.New(5, -1)
	hundred = decimal.NewFromInt(constants.PercentageMultiplier)
)

// RoundMoney rounds a value to the given number of decimal places with ties
// going away from zero (2.345 -> 2.35, -2.345 -> -2.35).
func RoundMoney(val decimal.Decimal, places int32) decimal.Decimal {
	if places < 0 {
		places = 0
	}
	unit := decimal.New(1, -places)
	abs := val.Abs().Add(half.Mul(unit)).Truncate(places)
	if val.Sign() < 0 {
		return abs.Neg()
	}
	return abs
}

// Round rounds a value to two decimals, i.e. to represent real currency.
func Round(val decimal.Decimal) decimal.Decimal {
	return RoundMoney(val, constants.DefaultCurrencyDecimals)
}

// Clamp limits val to the closed range [lower, upper].
func Clamp(val, lower, upper decimal.Decimal) decimal.Decimal {
	if val.LessThan(lower) {
		return lower
	}
	if val.GreaterThan(upper) {
		return upper
	}
	return val
}

// Min returns the smaller of two values
func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

// Max returns the larger of two values
func Max(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// Percentage returns value as a percentage of total rounded to places, and
// zero when total is zero.
func Percentage(value, total decimal.Decimal, places int32) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return RoundMoney(value.Mul(hundred).DivRound(total, places+constants.PowerPrecision), places)
}

// PowInt raises base to a non-negative integer exponent by repeated squaring,
// rounding every intermediate product to precision decimal places.
func PowInt(base decimal.Decimal, exp int, precision int32) decimal.Decimal {
	result := decimal.NewFromInt(1)
	for exp > 0 {
		if exp&1 == 1 {
			result = result.Mul(base).Round(precision)
		}
		base = base.Mul(base).Round(precision)
		exp >>= 1
	}
	return result
}
