package export

import (
	"fmt"
	"strings"
	"testing"

	"github.com/iwvelando/loan-amortization/pkg/amortization"
	"github.com/iwvelando/loan-amortization/pkg/testutil"
)

const expectedHeader = "PaymentNumber,PaymentDate,ScheduledPayment,Interest,ScheduledPrincipal,ExtraPrincipal," +
	"TotalPrincipal,EndingBalance,CumulativeInterest,CumulativeTotalPaid,CumulativePrincipal," +
	"PercentPaidOff,InterestPercentOfPayment"

func generate(t *testing.T, principal, rate string, term int, recurring string) amortization.ScheduleResult {
	t.Helper()
	terms, err := amortization.NewLoanTerms(testutil.MustDecimal(principal), testutil.MustDecimal(rate), term, testutil.Date("2026-03-01"))
	if err != nil {
		t.Fatalf("NewLoanTerms() error = %v", err)
	}
	lump, err := amortization.NewExtraPayment(testutil.Date("2026-08-01"), testutil.MustDecimal("10000"))
	if err != nil {
		t.Fatalf("NewExtraPayment() error = %v", err)
	}
	plan, err := amortization.NewExtraPaymentPlan(testutil.MustDecimal(recurring), lump)
	if err != nil {
		t.Fatalf("NewExtraPaymentPlan() error = %v", err)
	}
	result, err := amortization.GenerateSchedule(terms, plan, amortization.DefaultCalcOptions())
	if err != nil {
		t.Fatalf("GenerateSchedule() error = %v", err)
	}
	return result
}

func TestExportScheduleHeader(t *testing.T) {
	out := ExportSchedule(nil)
	if out != expectedHeader+"\n" {
		t.Errorf("ExportSchedule(nil) = %q, expected only the header line", out)
	}
}

func TestExportScheduleFormatting(t *testing.T) {
	result := generate(t, "12000", "0", 12, "0")
	out := ExportSchedule(result.Rows())
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")

	if len(lines) != result.Len()+1 {
		t.Fatalf("expected %d lines, got %d", result.Len()+1, len(lines))
	}
	if lines[0] != expectedHeader {
		t.Errorf("header = %q", lines[0])
	}

	expectedFirst := "1,2026-03-01,1000.00,0.00,1000.00,0.00,1000.00,11000.00,0.00,1000.00,1000.00,8.33,0.00"
	if lines[1] != expectedFirst {
		t.Errorf("first row = %q, expected %q", lines[1], expectedFirst)
	}

	for i, line := range lines[1:] {
		fields := strings.Split(line, ",")
		if len(fields) != 13 {
			t.Fatalf("line %d has %d fields", i+2, len(fields))
		}
		for _, f := range fields[2:] {
			dot := strings.IndexByte(f, '.')
			if dot < 0 || len(f)-dot-1 != 2 {
				t.Errorf("line %d field %q does not have two decimals", i+2, f)
			}
		}
	}
}

func TestExportLargeAmountsHaveNoSeparators(t *testing.T) {
	result := generate(t, "1250000", "7.125", 360, "0")
	out := ExportSchedule(result.Rows()[:1])
	if strings.Contains(out, "1,250") || strings.Contains(out, "\"") {
		t.Errorf("unexpected thousands separator or quoting: %q", out)
	}
}

func TestExportRoundTrip(t *testing.T) {
	tests := []struct {
		principal string
		rate      string
		term      int
		recurring string
	}{
		{"300000", "6.5", 360, "0"},
		{"300000", "6.5", 360, "200"},
		{"25000", "4.5", 60, "33.33"},
		{"12000", "0", 12, "0"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s@%s+%s", tt.principal, tt.rate, tt.recurring), func(t *testing.T) {
			result := generate(t, tt.principal, tt.rate, tt.term, tt.recurring)
			original := result.Rows()

			parsed, err := ParseSchedule(strings.NewReader(ExportSchedule(original)))
			if err != nil {
				t.Fatalf("ParseSchedule() error = %v", err)
			}
			if len(parsed) != len(original) {
				t.Fatalf("expected %d rows, got %d", len(original), len(parsed))
			}

			for i := range original {
				o, p := original[i], parsed[i]
				if o.PaymentNumber != p.PaymentNumber || !o.PaymentDate.Equal(p.PaymentDate) {
					t.Fatalf("row %d identity mismatch: %d/%v vs %d/%v", i, o.PaymentNumber, o.PaymentDate, p.PaymentNumber, p.PaymentDate)
				}
				label := fmt.Sprintf("row %d ", o.PaymentNumber)
				testutil.AssertDecimalEqual(t, label+"ScheduledPayment", p.ScheduledPayment, o.ScheduledPayment)
				testutil.AssertDecimalEqual(t, label+"Interest", p.Interest, o.Interest)
				testutil.AssertDecimalEqual(t, label+"ScheduledPrincipal", p.ScheduledPrincipal, o.ScheduledPrincipal)
				testutil.AssertDecimalEqual(t, label+"ExtraPrincipal", p.ExtraPrincipal, o.ExtraPrincipal)
				testutil.AssertDecimalEqual(t, label+"TotalPrincipal", p.TotalPrincipal, o.TotalPrincipal)
				testutil.AssertDecimalEqual(t, label+"EndingBalance", p.EndingBalance, o.EndingBalance)
				testutil.AssertDecimalEqual(t, label+"CumulativeInterest", p.CumulativeInterest, o.CumulativeInterest)
				testutil.AssertDecimalEqual(t, label+"CumulativeTotalPaid", p.CumulativeTotalPaid, o.CumulativeTotalPaid)
				testutil.AssertDecimalEqual(t, label+"CumulativePrincipal", p.CumulativePrincipal, o.CumulativePrincipal)
				testutil.AssertDecimalEqual(t, label+"PercentPaidOff", p.PercentPaidOff, o.PercentPaidOff)
				testutil.AssertDecimalEqual(t, label+"InterestPercentOfPayment", p.InterestPercentOfPayment, o.InterestPercentOfPayment)
			}
		})
	}
}

func TestParseScheduleColumnOrder(t *testing.T) {
	input := "PaymentDate,PaymentNumber,ScheduledPayment,Interest,ScheduledPrincipal,ExtraPrincipal,TotalPrincipal," +
		"EndingBalance,CumulativeInterest,CumulativeTotalPaid,CumulativePrincipal,PercentPaidOff,InterestPercentOfPayment\n" +
		"2026-03-01,1,1896.20,1625.00,271.20,0.00,271.20,299728.80,1625.00,1896.20,271.20,0.09,85.70\n"

	rows, err := ParseSchedule(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseSchedule() error = %v", err)
	}
	if len(rows) != 1 || rows[0].PaymentNumber != 1 {
		t.Fatalf("unexpected rows: %+v", rows)
	}
	testutil.AssertDecimalEqual(t, "EndingBalance", rows[0].EndingBalance, testutil.MustDecimal("299728.80"))
}

func TestParseScheduleErrors(t *testing.T) {
	valid := ExportSchedule(generate(t, "12000", "0", 12, "0").Rows()[:1])

	tests := []struct {
		name  string
		input string
	}{
		{"Empty input", ""},
		{"Missing column", strings.Replace(valid, "InterestPercentOfPayment", "Other", 1)},
		{"Bad number", strings.Replace(valid, "1000.00", "1,000.00", 1)},
		{"Bad payment number", strings.Replace(valid, "\n1,", "\nx,", 1)},
		{"Bad date", strings.Replace(valid, "2026-03-01", "03/01/2026", 1)},
		{"Bad amount", strings.Replace(valid, "11000.00", "eleven", 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseSchedule(strings.NewReader(tt.input)); err == nil {
				t.Errorf("expected error")
			}
		})
	}
}
