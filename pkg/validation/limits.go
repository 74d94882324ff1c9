package validation

import (
	"fmt"

	"github.com/iwvelando/loan-amortization/pkg/amortization"
	"github.com/iwvelando/loan-amortization/pkg/constants"
)

// ValidateTermMonths rejects loan terms longer than constants.MaxTermMonths.
// Non-positive terms are left to amortization.NewLoanTerms.
func ValidateTermMonths(termMonths int) error {
	if termMonths > constants.MaxTermMonths {
		return fmt.Errorf("%w: term months must be <= %d, got %d",
			amortization.ErrInvalidArgument, constants.MaxTermMonths, termMonths)
	}
	return nil
}

// ValidateCurrencyDecimals rejects currency precisions above
// constants.MaxCurrencyDecimals.
func ValidateCurrencyDecimals(decimals int) error {
	if decimals > constants.MaxCurrencyDecimals {
		return fmt.Errorf("%w: currency decimals must be <= %d, got %d",
			amortization.ErrInvalidArgument, constants.MaxCurrencyDecimals, decimals)
	}
	return nil
}
