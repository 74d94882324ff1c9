package config

import (
	"errors"
	"testing"

	"github.com/iwvelando/loan-amortization/pkg/amortization"
	"github.com/iwvelando/loan-amortization/pkg/testutil"
)

func TestLoanToLoanTerms(t *testing.T) {
	tests := []struct {
		name    string
		loan    Loan
		wantErr bool
	}{
		{"valid", Loan{Principal: "10000", AnnualRatePercent: "5", TermMonths: 12, StartDate: "2024-01-31"}, false},
		{"zero principal", Loan{Principal: "0", AnnualRatePercent: "5", TermMonths: 12, StartDate: "2024-01-31"}, false},
		{"bad principal", Loan{Principal: "ten", AnnualRatePercent: "5", TermMonths: 12, StartDate: "2024-01-31"}, true},
		{"missing rate", Loan{Principal: "10000", TermMonths: 12, StartDate: "2024-01-31"}, true},
		{"negative rate", Loan{Principal: "10000", AnnualRatePercent: "-1", TermMonths: 12, StartDate: "2024-01-31"}, true},
		{"zero term", Loan{Principal: "10000", AnnualRatePercent: "5", TermMonths: 0, StartDate: "2024-01-31"}, true},
		{"term beyond a century", Loan{Principal: "10000", AnnualRatePercent: "5", TermMonths: 2000000000, StartDate: "2024-01-31"}, true},
		{"bad date", Loan{Principal: "10000", AnnualRatePercent: "5", TermMonths: 12, StartDate: "2024-13-01"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			terms, err := tt.loan.ToLoanTerms()
			if tt.wantErr {
				if !errors.Is(err, amortization.ErrInvalidArgument) {
					t.Errorf("ToLoanTerms() error = %v, expected ErrInvalidArgument", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ToLoanTerms() unexpected error = %v", err)
			}
			testutil.AssertDecimalEqual(t, "Principal", terms.Principal(), testutil.MustDecimal(tt.loan.Principal))
			if !terms.StartDate().Equal(testutil.Date(tt.loan.StartDate)) {
				t.Errorf("StartDate = %v, expected %s", terms.StartDate(), tt.loan.StartDate)
			}
		})
	}
}

func TestOptionsToCalcOptions(t *testing.T) {
	tests := []struct {
		name     string
		options  Options
		wantErr  error
		matching amortization.MatchPolicy
	}{
		{"defaults", Options{CurrencyDecimals: 2}, nil, amortization.MatchWindow},
		{"exact date", Options{CurrencyDecimals: 2, Matching: "exact-date"}, nil, amortization.MatchExactDate},
		{"unknown matching", Options{CurrencyDecimals: 2, Matching: "nearest"}, amortization.ErrInvalidArgument, 0},
		{"negative decimals", Options{CurrencyDecimals: -1}, amortization.ErrInvalidArgument, 0},
		{"too many decimals", Options{CurrencyDecimals: 4294967298}, amortization.ErrInvalidArgument, 0},
		{"recast", Options{CurrencyDecimals: 2, Mode: "recast"}, amortization.ErrUnimplementedMode, 0},
		{"beginning of period", Options{CurrencyDecimals: 2, PaymentTiming: "beginning-of-period"}, amortization.ErrUnimplementedMode, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			options, err := tt.options.ToCalcOptions()
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("ToCalcOptions() error = %v, expected %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ToCalcOptions() unexpected error = %v", err)
			}
			if options.Matching() != tt.matching {
				t.Errorf("Matching() = %v, expected %v", options.Matching(), tt.matching)
			}
		})
	}
}

func TestScenarioToPlan(t *testing.T) {
	scenario := Scenario{
		Name:                    "bonus",
		RecurringExtraPrincipal: "150.25",
		LumpSums: []LumpSum{
			{Date: "2024-06-01", Amount: "1000"},
			{Date: "2024-12-01", Amount: "2500.50"},
		},
	}
	plan, err := scenario.ToPlan()
	if err != nil {
		t.Fatalf("ToPlan() error = %v", err)
	}
	testutil.AssertDecimalEqual(t, "RecurringExtraPrincipal", plan.RecurringExtraPrincipal(), testutil.MustDecimal("150.25"))
	lumpSums := plan.LumpSums()
	if len(lumpSums) != 2 {
		t.Fatalf("len(LumpSums) = %d, expected 2", len(lumpSums))
	}
	testutil.AssertDecimalEqual(t, "LumpSums[1].Amount", lumpSums[1].Amount(), testutil.MustDecimal("2500.50"))

	empty, err := Scenario{Name: "none"}.ToPlan()
	if err != nil {
		t.Fatalf("ToPlan() on empty scenario error = %v", err)
	}
	if !empty.IsZero() {
		t.Errorf("empty scenario should produce a zero plan")
	}

	bad := []Scenario{
		{Name: "negative recurring", RecurringExtraPrincipal: "-1"},
		{Name: "bad amount", LumpSums: []LumpSum{{Date: "2024-06-01", Amount: "lots"}}},
		{Name: "bad date", LumpSums: []LumpSum{{Date: "June 1", Amount: "10"}}},
		{Name: "negative lump sum", LumpSums: []LumpSum{{Date: "2024-06-01", Amount: "-5"}}},
	}
	for _, s := range bad {
		t.Run(s.Name, func(t *testing.T) {
			if _, err := s.ToPlan(); !errors.Is(err, amortization.ErrInvalidArgument) {
				t.Errorf("ToPlan() error = %v, expected ErrInvalidArgument", err)
			}
		})
	}
}
