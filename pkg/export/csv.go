// Package export serializes amortization schedules to CSV text. It performs
// no I/O of its own; callers decide where the text goes.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iwvelando/loan-amortization/pkg/amortization"
	"github.com/iwvelando/loan-amortization/pkg/constants"
	"github.com/iwvelando/loan-amortization/pkg/datetime"
	"github.com/shopspring/decimal"
)

// ExportSchedule renders rows as comma-separated text: one header line with
// the 13 column names followed by one line per row. Dates are YYYY-MM-DD and
// amounts have exactly two decimals with a '.' separator.
func ExportSchedule(rows []amortization.ScheduleRow) string {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	// Writes to a strings.Builder cannot fail.
	_ = w.Write(constants.CSVHeader)
	for _, row := range rows {
		_ = w.Write(formatRow(row))
	}
	w.Flush()

	return sb.String()
}

func formatRow(row amortization.ScheduleRow) []string {
	return []string{
		strconv.Itoa(row.PaymentNumber),
		datetime.FormatDate(row.PaymentDate),
		amount(row.ScheduledPayment),
		amount(row.Interest),
		amount(row.ScheduledPrincipal),
		amount(row.ExtraPrincipal),
		amount(row.TotalPrincipal),
		amount(row.EndingBalance),
		amount(row.CumulativeInterest),
		amount(row.CumulativeTotalPaid),
		amount(row.CumulativePrincipal),
		amount(row.PercentPaidOff),
		amount(row.InterestPercentOfPayment),
	}
}

func amount(d decimal.Decimal) string {
	return d.StringFixed(constants.ExportDecimals)
}

// ParseSchedule reads CSV produced by ExportSchedule back into rows. Columns
// are located by header name, so their order does not matter.
func ParseSchedule(r io.Reader) ([]amortization.ScheduleRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := toIndex(headers)
	for _, k := range constants.CSVHeader {
		if _, ok := col[k]; !ok {
			return nil, fmt.Errorf("missing column: %s", k)
		}
	}

	var rows []amortization.ScheduleRow
	for line := 2; ; line++ {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		row, err := parseRow(rec, col)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRow(rec []string, col map[string]int) (amortization.ScheduleRow, error) {
	var row amortization.ScheduleRow
	var err error

	if row.PaymentNumber, err = strconv.Atoi(strings.TrimSpace(rec[col["PaymentNumber"]])); err != nil {
		return row, fmt.Errorf("PaymentNumber: %w", err)
	}
	if row.PaymentDate, err = datetime.ParseDate(strings.TrimSpace(rec[col["PaymentDate"]])); err != nil {
		return row, fmt.Errorf("PaymentDate: %w", err)
	}

	amounts := []struct {
		name string
		dst  *decimal.Decimal
	}{
		{"ScheduledPayment", &row.ScheduledPayment},
		{"Interest", &row.Interest},
		{"ScheduledPrincipal", &row.ScheduledPrincipal},
		{"ExtraPrincipal", &row.ExtraPrincipal},
		{"TotalPrincipal", &row.TotalPrincipal},
		{"EndingBalance", &row.EndingBalance},
		{"CumulativeInterest", &row.CumulativeInterest},
		{"CumulativeTotalPaid", &row.CumulativeTotalPaid},
		{"CumulativePrincipal", &row.CumulativePrincipal},
		{"PercentPaidOff", &row.PercentPaidOff},
		{"InterestPercentOfPayment", &row.InterestPercentOfPayment},
	}
	for _, a := range amounts {
		v, err := decimal.NewFromString(strings.TrimSpace(rec[col[a.name]]))
		if err != nil {
			return row, fmt.Errorf("%s: %w", a.name, err)
		}
		*a.dst = v
	}
	return row, nil
}

func toIndex(headers []string) map[string]int {
	m := make(map[string]int, len(headers))
	for i, h := range headers {
		m[strings.TrimSpace(h)] = i
	}
	return m
}
