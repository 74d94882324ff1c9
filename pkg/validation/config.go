// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"
	"time"

	"github.com/iwvelando/loan-amortization/pkg/datetime"
)

// ValidateLumpSumDate reports lump sums that no payment window can pick up:
// those on or before the day one month ahead of the first payment's window and
// those after the maturity date.
func ValidateLumpSumDate(label string, lumpSumDate, startDate time.Time, termMonths int) string {
	firstWindowOpen := datetime.AddMonths(startDate, -1)
	maturity := datetime.AddMonths(startDate, termMonths-1)

	if !lumpSumDate.After(firstWindowOpen) {
		return fmt.Sprintf("%s is dated %s, on or before the first payment window opens (%s), and will never be applied",
			label, datetime.FormatDate(lumpSumDate), datetime.FormatDate(firstWindowOpen))
	}
	if lumpSumDate.After(maturity) {
		return fmt.Sprintf("%s is dated %s, after the loan matures (%s), and will never be applied",
			label, datetime.FormatDate(lumpSumDate), datetime.FormatDate(maturity))
	}
	return ""
}

// ConfigValidator checks a loaded configuration for settings that are valid
// but probably not what the user meant.
type ConfigValidator struct {
	Loan      LoanConfig
	Scenarios []ScenarioConfig
}

type LoanConfig struct {
	StartDate  string
	TermMonths int
}

type ScenarioConfig struct {
	Name     string
	Active   bool
	LumpSums []LumpSumConfig
}

type LumpSumConfig struct {
	Date string
}

// ValidateAll validates the entire configuration and returns warnings
func (cv *ConfigValidator) ValidateAll() []string {
	var warnings []string

	startDate, err := datetime.ParseDate(cv.Loan.StartDate)
	if err != nil {
		return append(warnings, fmt.Sprintf("loan start date %q is not a valid date", cv.Loan.StartDate))
	}

	seen := make(map[string]bool, len(cv.Scenarios))
	active := 0
	for _, scenario := range cv.Scenarios {
		if seen[scenario.Name] {
			warnings = append(warnings, fmt.Sprintf("scenario name '%s' is used more than once", scenario.Name))
		}
		seen[scenario.Name] = true

		if !scenario.Active {
			continue
		}
		active++

		for i, lumpSum := range scenario.LumpSums {
			label := fmt.Sprintf("Scenario '%s' lump sum %d", scenario.Name, i+1)
			date, err := datetime.ParseDate(lumpSum.Date)
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("%s has invalid date %q", label, lumpSum.Date))
				continue
			}
			if warning := ValidateLumpSumDate(label, date, startDate, cv.Loan.TermMonths); warning != "" {
				warnings = append(warnings, warning)
			}
		}
	}

	if len(cv.Scenarios) > 0 && active == 0 {
		warnings = append(warnings, "no scenario is active; only the base schedule will be computed")
	}

	return warnings
}
