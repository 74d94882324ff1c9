package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/iwvelando/loan-amortization/pkg/amortization"
	"github.com/iwvelando/loan-amortization/pkg/constants"
	"github.com/iwvelando/loan-amortization/pkg/testutil"
)

func buildScenarios(t *testing.T) []Scenario {
	t.Helper()
	terms, err := amortization.NewLoanTerms(testutil.MustDecimal("1200"), testutil.MustDecimal("0"), 12, testutil.Date("2025-07-15"))
	if err != nil {
		t.Fatalf("NewLoanTerms failed: %v", err)
	}
	base, err := amortization.GenerateBaseSchedule(terms, amortization.DefaultCalcOptions())
	if err != nil {
		t.Fatalf("GenerateBaseSchedule failed: %v", err)
	}
	plan, err := amortization.NewExtraPaymentPlan(testutil.MustDecimal("100"))
	if err != nil {
		t.Fatalf("NewExtraPaymentPlan failed: %v", err)
	}
	extras, err := amortization.GenerateSchedule(terms, plan, amortization.DefaultCalcOptions())
	if err != nil {
		t.Fatalf("GenerateSchedule failed: %v", err)
	}
	comparison := amortization.Compare(base.Summary(), extras.Summary())
	return []Scenario{
		{Name: constants.BaseScenarioName, Result: base},
		{Name: constants.ExtrasScenarioName, Result: extras, Comparison: &comparison},
	}
}

func TestGroupByYear(t *testing.T) {
	scenarios := buildScenarios(t)
	years := GroupByYear(scenarios[0].Result.Rows())

	if len(years) != 2 {
		t.Fatalf("GroupByYear returned %d years, expected 2", len(years))
	}

	tests := []struct {
		year          int
		payments      int
		principal     string
		endingBalance string
	}{
		{2025, 6, "600", "600"},
		{2026, 6, "600", "0"},
	}
	for i, tt := range tests {
		got := years[i]
		if got.Year != tt.year {
			t.Errorf("years[%d].Year = %d, expected %d", i, got.Year, tt.year)
		}
		if got.Payments != tt.payments {
			t.Errorf("years[%d].Payments = %d, expected %d", i, got.Payments, tt.payments)
		}
		testutil.AssertDecimalEqual(t, "Principal", got.Principal, testutil.MustDecimal(tt.principal))
		testutil.AssertDecimalEqual(t, "EndingBalance", got.EndingBalance, testutil.MustDecimal(tt.endingBalance))
		testutil.AssertDecimalEqual(t, "Interest", got.Interest, testutil.MustDecimal("0"))
	}
}

func TestGroupByYearEmpty(t *testing.T) {
	if years := GroupByYear(nil); len(years) != 0 {
		t.Errorf("GroupByYear(nil) returned %d years, expected 0", len(years))
	}
}

func TestPrettyFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := PrettyFormat(&buf, buildScenarios(t)); err != nil {
		t.Fatalf("PrettyFormat failed: %v", err)
	}
	output := buf.String()

	expected := []string{
		"--- Results for scenario base ---",
		"--- Results for scenario extras ---",
		"Monthly payment | $100.00",
		"Payments        | 12 (1 yr)",
		"Payments        | 6 (6 mo)",
		"Payoff date     | 2026-06-15",
		"Payoff date     | 2025-12-15",
		"Total interest  | $0.00",
		"Interest saved  | $0.00",
		"Payments saved  | 6",
		"Year | Payments | Interest | Principal | Extra principal | Ending balance",
		"2025 | 6 | $0.00 | $600.00 | $0.00 | $600.00",
		"2025 | 6 | $0.00 | $1,200.00 | $600.00 | $0.00",
	}
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("PrettyFormat output missing %q\n%s", want, output)
		}
	}
	if strings.Count(output, "Interest saved") != 1 {
		t.Errorf("comparison should only be printed for the extras scenario")
	}
}

func TestCsvFormat(t *testing.T) {
	var buf bytes.Buffer
	scenarios := buildScenarios(t)
	if err := CsvFormat(&buf, scenarios[0]); err != nil {
		t.Fatalf("CsvFormat failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 13 {
		t.Fatalf("CsvFormat wrote %d lines, expected 13", len(lines))
	}
	if lines[0] != strings.Join(constants.CSVHeader, ",") {
		t.Errorf("CsvFormat header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "1,2025-07-15,") {
		t.Errorf("CsvFormat first row = %q", lines[1])
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := JSONFormat(&buf, buildScenarios(t)); err != nil {
		t.Fatalf("JSONFormat failed: %v", err)
	}

	var decoded []struct {
		Name   string `json:"name"`
		Result struct {
			Summary struct {
				TotalPayments int    `json:"totalPayments"`
				PayoffDate    string `json:"payoffDate"`
			} `json:"summary"`
			Rows []json.RawMessage `json:"rows"`
		} `json:"result"`
		Comparison *struct {
			PaymentsSaved int `json:"paymentsSaved"`
		} `json:"comparison"`
		Years []YearSummary `json:"years"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("JSONFormat produced invalid JSON: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("decoded %d scenarios, expected 2", len(decoded))
	}
	if decoded[0].Comparison != nil {
		t.Errorf("base scenario should not carry a comparison")
	}
	if decoded[1].Comparison == nil || decoded[1].Comparison.PaymentsSaved != 6 {
		t.Errorf("extras comparison = %+v, expected 6 payments saved", decoded[1].Comparison)
	}
	if decoded[0].Result.Summary.PayoffDate != "2026-06-15" {
		t.Errorf("base payoff date = %q", decoded[0].Result.Summary.PayoffDate)
	}
	if len(decoded[1].Result.Rows) != 6 {
		t.Errorf("extras rows = %d, expected 6", len(decoded[1].Result.Rows))
	}
	if len(decoded[1].Years) != 1 {
		t.Errorf("extras years = %d, expected 1", len(decoded[1].Years))
	}
}
