package config

import (
	"strings"
	"testing"

	"github.com/iwvelando/loan-amortization/pkg/amortization"
	"github.com/iwvelando/loan-amortization/pkg/testutil"
)

func TestLoadConfiguration(t *testing.T) {
	tests := []struct {
		name       string
		configPath string
		wantError  bool
	}{
		{
			name:       "Non-existent config file",
			configPath: "nonexistent.yaml",
			wantError:  true,
		},
		{
			name:       "Example config file",
			configPath: "testdata/config.yaml",
			wantError:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadConfiguration(tt.configPath)
			if tt.wantError {
				if err == nil {
					t.Errorf("LoadConfiguration() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Errorf("LoadConfiguration() error = %v", err)
				return
			}
			if config == nil {
				t.Errorf("LoadConfiguration() returned nil config")
			}
		})
	}
}

func TestLoadConfigurationStructure(t *testing.T) {
	config, err := LoadConfiguration("testdata/config.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if config.Logging.Level != "debug" || config.Logging.Format != "console" {
		t.Errorf("Logging = %+v, expected debug/console", config.Logging)
	}
	if config.Output.Format != "csv" {
		t.Errorf("Output.Format = %q, expected csv", config.Output.Format)
	}
	if config.Loan.Principal != "200000" {
		t.Errorf("Loan.Principal = %q, expected 200000", config.Loan.Principal)
	}
	if config.Loan.AnnualRatePercent != "6.5" {
		t.Errorf("Loan.AnnualRatePercent = %q, expected 6.5", config.Loan.AnnualRatePercent)
	}
	if config.Loan.TermMonths != 360 {
		t.Errorf("Loan.TermMonths = %d, expected 360", config.Loan.TermMonths)
	}
	if config.Loan.StartDate != "2024-01-15" {
		t.Errorf("Loan.StartDate = %q, expected 2024-01-15", config.Loan.StartDate)
	}
	if len(config.Scenarios) != 3 {
		t.Fatalf("len(Scenarios) = %d, expected 3", len(config.Scenarios))
	}
	bonus := config.Scenarios[1]
	if len(bonus.LumpSums) != 2 || bonus.LumpSums[0].Amount != "10000.5" {
		t.Errorf("bonus lump sums = %+v", bonus.LumpSums)
	}
	if got := len(config.ActiveScenarios()); got != 2 {
		t.Errorf("ActiveScenarios() returned %d, expected 2", got)
	}
}

func TestLoadConfigurationDefaults(t *testing.T) {
	yaml := `
loan:
  principal: 1000
  annualRatePercent: 5
  termMonths: 12
  startDate: "2025-01-01"
`
	config, err := LoadConfigurationFromReader(strings.NewReader(yaml))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}
	if config.Options.CurrencyDecimals != 2 {
		t.Errorf("Options.CurrencyDecimals = %d, expected default 2", config.Options.CurrencyDecimals)
	}
	if config.Output.Format != "pretty" {
		t.Errorf("Output.Format = %q, expected default pretty", config.Output.Format)
	}
	if len(config.Scenarios) != 0 {
		t.Errorf("expected no scenarios, got %d", len(config.Scenarios))
	}
}

func TestLoadConfigurationEnvOverride(t *testing.T) {
	t.Setenv("AMORTIZATION_LOAN_PRINCIPAL", "150000")
	t.Setenv("AMORTIZATION_OUTPUT_FORMAT", "json")

	config, err := LoadConfiguration("testdata/config.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if config.Loan.Principal != "150000" {
		t.Errorf("Loan.Principal = %q, expected env override 150000", config.Loan.Principal)
	}
	if config.Output.Format != "json" {
		t.Errorf("Output.Format = %q, expected env override json", config.Output.Format)
	}
}

func TestLoadConfigurationFromReaderInvalid(t *testing.T) {
	if _, err := LoadConfigurationFromReader(strings.NewReader("loan: [unterminated")); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestValidate(t *testing.T) {
	config, err := LoadConfiguration("testdata/config.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if warnings := config.Validate(); len(warnings) != 0 {
		t.Errorf("Validate() returned unexpected warnings %v", warnings)
	}

	config.Scenarios[1].LumpSums = append(config.Scenarios[1].LumpSums, LumpSum{Date: "2060-01-01", Amount: "1"})
	warnings := config.Validate()
	if len(warnings) != 1 || !strings.Contains(warnings[0], "after the loan matures") {
		t.Errorf("Validate() = %v, expected one maturity warning", warnings)
	}
}

func TestScheduleFromConfiguration(t *testing.T) {
	config, err := LoadConfiguration("testdata/config.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	terms, err := config.Loan.ToLoanTerms()
	if err != nil {
		t.Fatalf("ToLoanTerms() error = %v", err)
	}
	options, err := config.Options.ToCalcOptions()
	if err != nil {
		t.Fatalf("ToCalcOptions() error = %v", err)
	}
	plan, err := config.Scenarios[0].ToPlan()
	if err != nil {
		t.Fatalf("ToPlan() error = %v", err)
	}

	base, err := amortization.GenerateBaseSchedule(terms, options)
	if err != nil {
		t.Fatalf("GenerateBaseSchedule() error = %v", err)
	}
	extras, err := amortization.GenerateSchedule(terms, plan, options)
	if err != nil {
		t.Fatalf("GenerateSchedule() error = %v", err)
	}

	testutil.AssertDecimalEqual(t, "MonthlyPayment", base.Summary().MonthlyPayment, testutil.MustDecimal("1264.14"))
	if extras.Summary().TotalPayments >= base.Summary().TotalPayments {
		t.Errorf("extra principal did not shorten the term: %d >= %d",
			extras.Summary().TotalPayments, base.Summary().TotalPayments)
	}
}
