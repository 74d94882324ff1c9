package amortization

import (
	"fmt"

	"github.com/iwvelando/loan-amortization/pkg/constants"
	"github.com/iwvelando/loan-amortization/pkg/datetime"
	"github.com/iwvelando/loan-amortization/pkg/mathutil"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	one            = decimal.NewFromInt(1)
	hundred        = decimal.NewFromInt(constants.PercentageMultiplier)
	monthsPerYear  = decimal.NewFromInt(constants.MonthsPerYear)
	ratePrecision  = int32(constants.PowerPrecision)
	defaultEngine  = NewEngine(nil)
	paymentDecimal = int32(constants.PaymentDecimals)
)

// Engine generates amortization schedules. It holds no state besides its
// logger and is safe for concurrent use.
type Engine struct {
	logger *zap.Logger
}

// NewEngine creates a new engine instance
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

// GenerateBaseSchedule generates the schedule with no extra payments.
func GenerateBaseSchedule(terms LoanTerms, options CalcOptions) (ScheduleResult, error) {
	return defaultEngine.GenerateBaseSchedule(terms, options)
}

// GenerateSchedule generates the schedule for the given terms, extra payment
// plan and options.
func GenerateSchedule(terms LoanTerms, extras ExtraPaymentPlan, options CalcOptions) (ScheduleResult, error) {
	return defaultEngine.GenerateSchedule(terms, extras, options)
}

// MonthlyRate converts an annual percentage rate into the periodic rate
// (annual / 100 / 12).
func MonthlyRate(annualInterestRatePercent decimal.Decimal) decimal.Decimal {
	if annualInterestRatePercent.IsZero() {
		return decimal.Zero
	}
	return annualInterestRatePercent.DivRound(hundred.Mul(monthsPerYear), ratePrecision)
}

// ComputeMonthlyPayment returns the fixed payment that amortizes principal
// over numPeriods at monthlyRate, rounded to cents half away from zero:
//
//	payment = P * r / (1 - (1+r)^-n)
//
// or P / n when the rate is zero.
func ComputeMonthlyPayment(principal, monthlyRate decimal.Decimal, numPeriods int) (decimal.Decimal, error) {
	if !principal.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: principal must be > 0, got %s", ErrInvalidArgument, principal)
	}
	if numPeriods <= 0 {
		return decimal.Zero, fmt.Errorf("%w: number of periods must be > 0, got %d", ErrInvalidArgument, numPeriods)
	}
	if monthlyRate.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: monthly rate must be >= 0, got %s", ErrInvalidArgument, monthlyRate)
	}

	n := decimal.NewFromInt(int64(numPeriods))
	if monthlyRate.IsZero() {
		return mathutil.RoundMoney(principal.DivRound(n, ratePrecision), paymentDecimal), nil
	}

	// P*r/(1-(1+r)^-n) == P*r*f/(f-1) with f = (1+r)^n
	factor := mathutil.PowInt(one.Add(monthlyRate), numPeriods, ratePrecision)
	payment := principal.Mul(monthlyRate).Mul(factor).DivRound(factor.Sub(one), ratePrecision)
	return mathutil.RoundMoney(payment, paymentDecimal), nil
}

// GenerateBaseSchedule generates the schedule with no extra payments.
func (e *Engine) GenerateBaseSchedule(terms LoanTerms, options CalcOptions) (ScheduleResult, error) {
	return e.GenerateSchedule(terms, ZeroPlan(), options)
}

// GenerateSchedule creates a complete amortization schedule. The scheduled
// payment stays fixed; extra principal shortens the term. The loop ends when
// the balance reaches zero or at the final scheduled period, where any
// residual balance is paid off.
func (e *Engine) GenerateSchedule(terms LoanTerms, extras ExtraPaymentPlan, options CalcOptions) (ScheduleResult, error) {
	if err := terms.validate(); err != nil {
		return ScheduleResult{}, err
	}
	if err := extras.validate(); err != nil {
		return ScheduleResult{}, err
	}
	if err := options.validate(); err != nil {
		return ScheduleResult{}, err
	}

	if terms.principal.IsZero() {
		return zeroPrincipalSchedule(terms), nil
	}

	decimals := options.currencyDecimals
	round := func(d decimal.Decimal) decimal.Decimal {
		return mathutil.RoundMoney(d, decimals)
	}

	r := MonthlyRate(terms.annualInterestRatePercent)
	scheduledPayment, err := ComputeMonthlyPayment(terms.principal, r, terms.termMonths)
	if err != nil {
		return ScheduleResult{}, err
	}

	e.logger.Debug(fmt.Sprintf("generating schedule for %s at %s%% over %d months, payment %s",
		terms.principal, terms.annualInterestRatePercent, terms.termMonths, scheduledPayment),
		zap.String("op", "amortization.GenerateSchedule"),
		zap.String("mode", options.mode.String()),
		zap.String("matching", options.matching.String()),
	)

	rows := make([]ScheduleRow, 0, min(terms.termMonths, constants.MaxTermMonths))
	balance := terms.principal
	cumulativeInterest := decimal.Zero
	cumulativeTotalPaid := decimal.Zero
	cumulativePrincipal := decimal.Zero
	previousPaymentDate := datetime.AddMonths(terms.startDate, -1)

	for paymentNumber := 1; balance.IsPositive(); paymentNumber++ {
		paymentDate := datetime.AddMonths(terms.startDate, paymentNumber-1)

		interest := round(balance.Mul(r))
		scheduledPrincipal := round(scheduledPayment.Sub(interest))
		lumpSum := options.matching.lumpSum(previousPaymentDate, paymentDate, extras)
		if lumpSum.IsPositive() {
			e.logger.Debug(fmt.Sprintf("%s: applying lump sum %s to payment %d",
				datetime.FormatDate(paymentDate), lumpSum, paymentNumber),
				zap.String("op", "amortization.GenerateSchedule"),
			)
		}
		extraPrincipal := round(extras.recurringExtraPrincipal.Add(lumpSum))
		totalPrincipal := mathutil.Clamp(scheduledPrincipal.Add(extraPrincipal), decimal.Zero, balance)
		endingBalance := round(balance.Sub(totalPrincipal))
		actualPayment := scheduledPayment

		final := !endingBalance.IsPositive() || paymentNumber >= terms.termMonths
		if final {
			if endingBalance.IsPositive() {
				e.logger.Debug(fmt.Sprintf("%s: final scheduled payment %d clears residual balance %s",
					datetime.FormatDate(paymentDate), paymentNumber, endingBalance),
					zap.String("op", "amortization.GenerateSchedule"),
				)
			}
			totalPrincipal = balance
			actualPayment = round(interest.Add(totalPrincipal))
			endingBalance = decimal.Zero
			scheduledPrincipal = round(mathutil.Max(totalPrincipal.Sub(extraPrincipal), decimal.Zero))
		}

		cumulativeInterest = cumulativeInterest.Add(interest)
		cumulativeTotalPaid = cumulativeTotalPaid.Add(actualPayment).Add(extraPrincipal)
		cumulativePrincipal = cumulativePrincipal.Add(totalPrincipal)

		rows = append(rows, ScheduleRow{
			PaymentNumber:            paymentNumber,
			PaymentDate:              paymentDate,
			ScheduledPayment:         actualPayment,
			Interest:                 interest,
			ScheduledPrincipal:       scheduledPrincipal,
			ExtraPrincipal:           extraPrincipal,
			TotalPrincipal:           totalPrincipal,
			EndingBalance:            endingBalance,
			CumulativeInterest:       cumulativeInterest,
			CumulativeTotalPaid:      cumulativeTotalPaid,
			CumulativePrincipal:      cumulativePrincipal,
			PercentPaidOff:           mathutil.Percentage(cumulativePrincipal, terms.principal, decimals),
			InterestPercentOfPayment: mathutil.Percentage(interest, actualPayment.Add(extraPrincipal), decimals),
		})

		if final {
			break
		}
		balance = endingBalance
		previousPaymentDate = paymentDate
	}

	last := rows[len(rows)-1]
	summary := ScheduleSummary{
		MonthlyPayment: scheduledPayment,
		TotalPayments:  len(rows),
		TotalInterest:  last.CumulativeInterest,
		TotalPaid:      terms.principal.Add(last.CumulativeInterest),
		PayoffDate:     last.PaymentDate,
	}

	e.logger.Debug(fmt.Sprintf("schedule paid off on %s after %d payments with %s interest",
		datetime.FormatDate(summary.PayoffDate), summary.TotalPayments, summary.TotalInterest),
		zap.String("op", "amortization.GenerateSchedule"),
	)

	return ScheduleResult{rows: rows, summary: summary}, nil
}

// zeroPrincipalSchedule returns the single all-zero row for a loan with
// nothing to repay.
func zeroPrincipalSchedule(terms LoanTerms) ScheduleResult {
	row := ScheduleRow{
		PaymentNumber:            1,
		PaymentDate:              terms.startDate,
		ScheduledPayment:         decimal.Zero,
		Interest:                 decimal.Zero,
		ScheduledPrincipal:       decimal.Zero,
		ExtraPrincipal:           decimal.Zero,
		TotalPrincipal:           decimal.Zero,
		EndingBalance:            decimal.Zero,
		CumulativeInterest:       decimal.Zero,
		CumulativeTotalPaid:      decimal.Zero,
		CumulativePrincipal:      decimal.Zero,
		PercentPaidOff:           hundred,
		InterestPercentOfPayment: decimal.Zero,
	}
	return ScheduleResult{
		rows: []ScheduleRow{row},
		summary: ScheduleSummary{
			MonthlyPayment: decimal.Zero,
			TotalPayments:  1,
			TotalInterest:  decimal.Zero,
			TotalPaid:      decimal.Zero,
			PayoffDate:     terms.startDate,
		},
	}
}
