// Package output provides utilities for formatting and displaying schedule results.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iwvelando/loan-amortization/pkg/amortization"
	"github.com/iwvelando/loan-amortization/pkg/constants"
	"github.com/iwvelando/loan-amortization/pkg/datetime"
	"github.com/iwvelando/loan-amortization/pkg/export"
	"github.com/iwvelando/loan-amortization/pkg/format"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Scenario is one computed schedule to report. Comparison is set for
// schedules that carry extra payments and compares them to the base.
type Scenario struct {
	Name       string                      `json:"name"`
	Result     amortization.ScheduleResult `json:"result"`
	Comparison *amortization.Comparison    `json:"comparison,omitempty"`
}

// YearSummary aggregates the rows of one calendar year.
type YearSummary struct {
	Year           int             `json:"year"`
	Payments       int             `json:"payments"`
	Interest       decimal.Decimal `json:"interest"`
	Principal      decimal.Decimal `json:"principal"`
	ExtraPrincipal decimal.Decimal `json:"extraPrincipal"`
	TotalPaid      decimal.Decimal `json:"totalPaid"`
	EndingBalance  decimal.Decimal `json:"endingBalance"`
}

// GroupByYear sums rows per calendar year of their payment date, in order.
func GroupByYear(rows []amortization.ScheduleRow) []YearSummary {
	var years []YearSummary
	for _, row := range rows {
		year := row.PaymentDate.Year()
		if len(years) == 0 || years[len(years)-1].Year != year {
			years = append(years, YearSummary{
				Year:           year,
				Interest:       decimal.Zero,
				Principal:      decimal.Zero,
				ExtraPrincipal: decimal.Zero,
				TotalPaid:      decimal.Zero,
			})
		}
		y := &years[len(years)-1]
		y.Payments++
		y.Interest = y.Interest.Add(row.Interest)
		y.Principal = y.Principal.Add(row.TotalPrincipal)
		y.ExtraPrincipal = y.ExtraPrincipal.Add(row.ExtraPrincipal)
		y.TotalPaid = y.TotalPaid.Add(row.Interest).Add(row.TotalPrincipal)
		y.EndingBalance = row.EndingBalance
	}
	return years
}

// PrettyFormat writes a human-readable summary and yearly table per scenario.
func PrettyFormat(w io.Writer, scenarios []Scenario) error {
	p := message.NewPrinter(language.English)
	for i, scenario := range scenarios {
		summary := scenario.Result.Summary()
		lines := []string{
			fmt.Sprintf("--- Results for scenario %s ---\n", scenario.Name),
			fmt.Sprintf("Monthly payment | %s\n", format.Currency(summary.MonthlyPayment)),
			p.Sprintf("Payments        | %d (%s)\n", summary.TotalPayments, summary.EffectiveTerm()),
			fmt.Sprintf("Payoff date     | %s\n", datetime.FormatDate(summary.PayoffDate)),
			fmt.Sprintf("Total interest  | %s\n", format.Currency(summary.TotalInterest)),
			fmt.Sprintf("Total paid      | %s\n", format.Currency(summary.TotalPaid)),
			fmt.Sprintf("Interest share  | %s\n", format.Percent(summary.InterestShare(), constants.InterestShareDecimals)),
		}
		if c := scenario.Comparison; c != nil {
			lines = append(lines,
				fmt.Sprintf("Interest saved  | %s\n", format.Currency(c.InterestSaved)),
				p.Sprintf("Payments saved  | %d\n", c.PaymentsSaved),
			)
		}
		lines = append(lines,
			"\n",
			"Year | Payments | Interest | Principal | Extra principal | Ending balance\n",
			"____ | ________ | ________ | _________ | _______________ | ______________\n",
		)
		for _, y := range GroupByYear(scenario.Result.Rows()) {
			lines = append(lines, fmt.Sprintf("%d | %d | %s | %s | %s | %s\n",
				y.Year, y.Payments,
				format.Currency(y.Interest), format.Currency(y.Principal),
				format.Currency(y.ExtraPrincipal), format.Currency(y.EndingBalance)))
		}
		if len(scenarios) > 1 && i < len(scenarios)-1 {
			lines = append(lines, "\n")
		}
		for _, line := range lines {
			if _, err := io.WriteString(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}

// CsvFormat writes the rows of a single scenario in the export CSV format.
func CsvFormat(w io.Writer, scenario Scenario) error {
	_, err := io.WriteString(w, export.ExportSchedule(scenario.Result.Rows()))
	return err
}

// JSONFormat writes every scenario, its yearly totals and comparison as JSON.
func JSONFormat(w io.Writer, scenarios []Scenario) error {
	type jsonScenario struct {
		Scenario
		Years []YearSummary `json:"years"`
	}
	out := make([]jsonScenario, 0, len(scenarios))
	for _, s := range scenarios {
		out = append(out, jsonScenario{Scenario: s, Years: GroupByYear(s.Result.Rows())})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
