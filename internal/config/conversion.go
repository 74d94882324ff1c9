package config

import (
	"fmt"

	"github.com/iwvelando/loan-amortization/pkg/amortization"
	"github.com/iwvelando/loan-amortization/pkg/datetime"
	"github.com/iwvelando/loan-amortization/pkg/validation"
	"github.com/shopspring/decimal"
)

// ToLoanTerms parses the configured loan into amortization.LoanTerms.
func (loan Loan) ToLoanTerms() (amortization.LoanTerms, error) {
	principal, err := parseAmount("loan.principal", loan.Principal)
	if err != nil {
		return amortization.LoanTerms{}, err
	}
	rate, err := parseAmount("loan.annualRatePercent", loan.AnnualRatePercent)
	if err != nil {
		return amortization.LoanTerms{}, err
	}
	start, err := datetime.ParseDate(loan.StartDate)
	if err != nil {
		return amortization.LoanTerms{}, fmt.Errorf("%w: loan.startDate %q: %v", amortization.ErrInvalidArgument, loan.StartDate, err)
	}
	if err := validation.ValidateTermMonths(loan.TermMonths); err != nil {
		return amortization.LoanTerms{}, fmt.Errorf("loan.termMonths: %w", err)
	}
	return amortization.NewLoanTerms(principal, rate, loan.TermMonths, start)
}

// ToCalcOptions parses the configured options into amortization.CalcOptions.
func (o Options) ToCalcOptions() (amortization.CalcOptions, error) {
	timing, err := amortization.ParsePaymentTiming(o.PaymentTiming)
	if err != nil {
		return amortization.CalcOptions{}, err
	}
	mode, err := amortization.ParseCalcMode(o.Mode)
	if err != nil {
		return amortization.CalcOptions{}, err
	}
	matching, err := amortization.ParseMatchPolicy(o.Matching)
	if err != nil {
		return amortization.CalcOptions{}, err
	}
	if err := validation.ValidateCurrencyDecimals(o.CurrencyDecimals); err != nil {
		return amortization.CalcOptions{}, fmt.Errorf("options.currencyDecimals: %w", err)
	}
	options, err := amortization.NewCalcOptions(o.CurrencyDecimals, timing, mode)
	if err != nil {
		return amortization.CalcOptions{}, err
	}
	return options.WithMatching(matching), nil
}

// ToPlan parses the scenario into an amortization.ExtraPaymentPlan. An empty
// recurring amount means no recurring extra principal.
func (s Scenario) ToPlan() (amortization.ExtraPaymentPlan, error) {
	recurring := decimal.Zero
	if s.RecurringExtraPrincipal != "" {
		var err error
		recurring, err = parseAmount(fmt.Sprintf("scenario %q recurringExtraPrincipal", s.Name), s.RecurringExtraPrincipal)
		if err != nil {
			return amortization.ExtraPaymentPlan{}, err
		}
	}

	lumpSums := make([]amortization.ExtraPayment, 0, len(s.LumpSums))
	for i, ls := range s.LumpSums {
		field := fmt.Sprintf("scenario %q lumpSums[%d]", s.Name, i)
		date, err := datetime.ParseDate(ls.Date)
		if err != nil {
			return amortization.ExtraPaymentPlan{}, fmt.Errorf("%w: %s.date %q: %v", amortization.ErrInvalidArgument, field, ls.Date, err)
		}
		amount, err := parseAmount(field+".amount", ls.Amount)
		if err != nil {
			return amortization.ExtraPaymentPlan{}, err
		}
		payment, err := amortization.NewExtraPayment(date, amount)
		if err != nil {
			return amortization.ExtraPaymentPlan{}, fmt.Errorf("%s: %w", field, err)
		}
		lumpSums = append(lumpSums, payment)
	}

	return amortization.NewExtraPaymentPlan(recurring, lumpSums...)
}

func parseAmount(field, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s %q is not a number", amortization.ErrInvalidArgument, field, value)
	}
	return d, nil
}
