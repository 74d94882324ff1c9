// Package amortization computes fixed-rate loan amortization schedules with
// optional extra principal payments. All currency values are exact decimals.
package amortization

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/iwvelando/loan-amortization/pkg/constants"
	"github.com/iwvelando/loan-amortization/pkg/datetime"
	"github.com/iwvelando/loan-amortization/pkg/mathutil"
	"github.com/shopspring/decimal"
)

// LoanTerms defines the core terms of a fixed-rate loan. StartDate is the
// date of payment #1.
type LoanTerms struct {
	principal                 decimal.Decimal
	annualInterestRatePercent decimal.Decimal
	termMonths                int
	startDate                 time.Time
}

// NewLoanTerms validates and returns loan terms. The start date is
// truncated to its calendar day.
func NewLoanTerms(principal, annualInterestRatePercent decimal.Decimal, termMonths int, startDate time.Time) (LoanTerms, error) {
	terms := LoanTerms{
		principal:                 principal,
		annualInterestRatePercent: annualInterestRatePercent,
		termMonths:                termMonths,
		startDate:                 datetime.TruncateToDay(startDate),
	}
	if err := terms.validate(); err != nil {
		return LoanTerms{}, err
	}
	return terms, nil
}

func (t LoanTerms) validate() error {
	if t.principal.IsNegative() {
		return fmt.Errorf("%w: principal must be >= 0, got %s", ErrInvalidArgument, t.principal)
	}
	if t.annualInterestRatePercent.IsNegative() {
		return fmt.Errorf("%w: annual interest rate must be >= 0, got %s", ErrInvalidArgument, t.annualInterestRatePercent)
	}
	if t.termMonths <= 0 {
		return fmt.Errorf("%w: term months must be > 0, got %d", ErrInvalidArgument, t.termMonths)
	}
	return nil
}

// Principal is the original loan balance.
func (t LoanTerms) Principal() decimal.Decimal { return t.principal }

// AnnualInterestRatePercent is the nominal annual rate, 6.5 meaning 6.5%.
func (t LoanTerms) AnnualInterestRatePercent() decimal.Decimal { return t.annualInterestRatePercent }

// TermMonths is the number of scheduled payments.
func (t LoanTerms) TermMonths() int { return t.termMonths }

// StartDate is the date of the first payment.
func (t LoanTerms) StartDate() time.Time { return t.startDate }

// MaturityDate is the date of the last scheduled payment.
func (t LoanTerms) MaturityDate() time.Time {
	return datetime.AddMonths(t.startDate, t.termMonths-1)
}

// ExtraPayment is a one-time extra principal contribution.
type ExtraPayment struct {
	date   time.Time
	amount decimal.Decimal
}

// NewExtraPayment validates and returns a lump sum. The date is truncated to
// its calendar day.
func NewExtraPayment(date time.Time, amount decimal.Decimal) (ExtraPayment, error) {
	if amount.IsNegative() {
		return ExtraPayment{}, fmt.Errorf("%w: extra payment amount must be >= 0, got %s", ErrInvalidArgument, amount)
	}
	return ExtraPayment{date: datetime.TruncateToDay(date), amount: amount}, nil
}

// Date is the day the lump sum is paid.
func (p ExtraPayment) Date() time.Time { return p.date }

// Amount is the lump sum value.
func (p ExtraPayment) Amount() decimal.Decimal { return p.amount }

// ExtraPaymentPlan is a recurring extra principal applied every period plus
// any number of lump sums. The zero value is the plan with no extras.
type ExtraPaymentPlan struct {
	recurringExtraPrincipal decimal.Decimal
	lumpSums                []ExtraPayment
}

// ZeroPlan returns the plan with no recurring extra and no lump sums.
func ZeroPlan() ExtraPaymentPlan {
	return ExtraPaymentPlan{}
}

// NewExtraPaymentPlan validates and returns an extra payment plan. The lump
// sums are copied.
func NewExtraPaymentPlan(recurringExtraPrincipal decimal.Decimal, lumpSums ...ExtraPayment) (ExtraPaymentPlan, error) {
	plan := ExtraPaymentPlan{recurringExtraPrincipal: recurringExtraPrincipal}
	if len(lumpSums) > 0 {
		plan.lumpSums = append([]ExtraPayment(nil), lumpSums...)
	}
	if err := plan.validate(); err != nil {
		return ExtraPaymentPlan{}, err
	}
	return plan, nil
}

func (p ExtraPaymentPlan) validate() error {
	if p.recurringExtraPrincipal.IsNegative() {
		return fmt.Errorf("%w: recurring extra principal must be >= 0, got %s", ErrInvalidArgument, p.recurringExtraPrincipal)
	}
	for i, lump := range p.lumpSums {
		if lump.amount.IsNegative() {
			return fmt.Errorf("%w: lump sum %d amount must be >= 0, got %s", ErrInvalidArgument, i, lump.amount)
		}
	}
	return nil
}

// RecurringExtraPrincipal is added to every period.
func (p ExtraPaymentPlan) RecurringExtraPrincipal() decimal.Decimal { return p.recurringExtraPrincipal }

// LumpSums returns a copy of the one-time extra payments.
func (p ExtraPaymentPlan) LumpSums() []ExtraPayment {
	return append([]ExtraPayment(nil), p.lumpSums...)
}

// IsZero reports whether the plan adds nothing to the base schedule.
func (p ExtraPaymentPlan) IsZero() bool {
	if !p.recurringExtraPrincipal.IsZero() {
		return false
	}
	for _, lump := range p.lumpSums {
		if !lump.amount.IsZero() {
			return false
		}
	}
	return true
}

// ScheduleRow is one payment period of a schedule. Rows are produced by the
// engine and are treated as values.
type ScheduleRow struct {
	PaymentNumber            int             `json:"paymentNumber"`
	PaymentDate              time.Time       `json:"-"`
	ScheduledPayment         decimal.Decimal `json:"scheduledPayment"`
	Interest                 decimal.Decimal `json:"interest"`
	ScheduledPrincipal       decimal.Decimal `json:"scheduledPrincipal"`
	ExtraPrincipal           decimal.Decimal `json:"extraPrincipal"`
	TotalPrincipal           decimal.Decimal `json:"totalPrincipal"`
	EndingBalance            decimal.Decimal `json:"endingBalance"`
	CumulativeInterest       decimal.Decimal `json:"cumulativeInterest"`
	CumulativeTotalPaid      decimal.Decimal `json:"cumulativeTotalPaid"`
	CumulativePrincipal      decimal.Decimal `json:"cumulativePrincipal"`
	PercentPaidOff           decimal.Decimal `json:"percentPaidOff"`
	InterestPercentOfPayment decimal.Decimal `json:"interestPercentOfPayment"`
}

// MarshalJSON renders the payment date as YYYY-MM-DD.
func (r ScheduleRow) MarshalJSON() ([]byte, error) {
	type plain ScheduleRow
	return json.Marshal(struct {
		plain
		PaymentDate string `json:"paymentDate"`
	}{plain: plain(r), PaymentDate: datetime.FormatDate(r.PaymentDate)})
}

// ScheduleSummary aggregates a schedule.
type ScheduleSummary struct {
	MonthlyPayment decimal.Decimal `json:"monthlyPayment"`
	TotalPayments  int             `json:"totalPayments"`
	TotalInterest  decimal.Decimal `json:"totalInterest"`
	TotalPaid      decimal.Decimal `json:"totalPaid"`
	PayoffDate     time.Time       `json:"-"`
}

// MarshalJSON renders the payoff date as YYYY-MM-DD and adds the derived
// effective term and interest share.
func (s ScheduleSummary) MarshalJSON() ([]byte, error) {
	type plain ScheduleSummary
	return json.Marshal(struct {
		plain
		PayoffDate    string          `json:"payoffDate"`
		EffectiveTerm string          `json:"effectiveTerm"`
		InterestShare decimal.Decimal `json:"interestShare"`
	}{
		plain:         plain(s),
		PayoffDate:    datetime.FormatDate(s.PayoffDate),
		EffectiveTerm: s.EffectiveTerm(),
		InterestShare: s.InterestShare(),
	})
}

// EffectiveTerm renders the number of payments as years and months, e.g.
// "29 yr 3 mo".
func (s ScheduleSummary) EffectiveTerm() string {
	years := s.TotalPayments / constants.MonthsPerYear
	months := s.TotalPayments % constants.MonthsPerYear
	switch {
	case years > 0 && months > 0:
		return fmt.Sprintf("%d yr %d mo", years, months)
	case years > 0:
		return fmt.Sprintf("%d yr", years)
	case months > 0:
		return fmt.Sprintf("%d mo", months)
	default:
		return "-"
	}
}

// InterestShare is total interest as a percentage of total paid, rounded to
// one decimal place.
func (s ScheduleSummary) InterestShare() decimal.Decimal {
	if !s.TotalPaid.IsPositive() {
		return decimal.Zero
	}
	return mathutil.Percentage(s.TotalInterest, s.TotalPaid, constants.InterestShareDecimals)
}

// ScheduleResult is the full output of a schedule computation. Each engine
// call returns a fresh result owned by the caller.
type ScheduleResult struct {
	rows    []ScheduleRow
	summary ScheduleSummary
}

// Rows returns a copy of the schedule rows in payment order.
func (r ScheduleResult) Rows() []ScheduleRow {
	return append([]ScheduleRow(nil), r.rows...)
}

// Len is the number of rows.
func (r ScheduleResult) Len() int { return len(r.rows) }

// Row returns the row at index i.
func (r ScheduleResult) Row(i int) ScheduleRow { return r.rows[i] }

// LastRow returns the payoff row.
func (r ScheduleResult) LastRow() ScheduleRow { return r.rows[len(r.rows)-1] }

// Summary returns the schedule summary.
func (r ScheduleResult) Summary() ScheduleSummary { return r.summary }

// MarshalJSON renders the result as {"summary": ..., "rows": [...]}.
func (r ScheduleResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Summary ScheduleSummary `json:"summary"`
		Rows    []ScheduleRow   `json:"rows"`
	}{Summary: r.summary, Rows: r.rows})
}
