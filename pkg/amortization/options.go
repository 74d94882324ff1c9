package amortization

import (
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/loan-amortization/pkg/constants"
)

// PaymentTiming describes when interest is applied relative to the payment.
type PaymentTiming int

const (
	// EndOfPeriod accrues interest for the full period and takes the payment
	// at the period end.
	EndOfPeriod PaymentTiming = iota
	// BeginningOfPeriod is reserved and rejected.
	BeginningOfPeriod
)

func (t PaymentTiming) String() string {
	switch t {
	case EndOfPeriod:
		return "end-of-period"
	case BeginningOfPeriod:
		return "beginning-of-period"
	default:
		return fmt.Sprintf("PaymentTiming(%d)", int(t))
	}
}

// ParsePaymentTiming converts a config string into a PaymentTiming. An empty
// string selects EndOfPeriod.
func ParsePaymentTiming(s string) (PaymentTiming, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "end-of-period", "end":
		return EndOfPeriod, nil
	case "beginning-of-period", "beginning":
		return BeginningOfPeriod, nil
	default:
		return 0, fmt.Errorf("%w: unknown payment timing %q", ErrInvalidArgument, s)
	}
}

// CalcMode selects how extra principal affects the schedule.
type CalcMode int

const (
	// KeepPayment leaves the scheduled payment unchanged so extra principal
	// shortens the term.
	KeepPayment CalcMode = iota
	// Recast is reserved and rejected.
	Recast
)

func (m CalcMode) String() string {
	switch m {
	case KeepPayment:
		return "keep-payment"
	case Recast:
		return "recast"
	default:
		return fmt.Sprintf("CalcMode(%d)", int(m))
	}
}

// ParseCalcMode converts a config string into a CalcMode. An empty string
// selects KeepPayment.
func ParseCalcMode(s string) (CalcMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "keep-payment", "keep":
		return KeepPayment, nil
	case "recast":
		return Recast, nil
	default:
		return 0, fmt.Errorf("%w: unknown calculation mode %q", ErrInvalidArgument, s)
	}
}

// MatchPolicy selects how lump sums are attributed to payment periods.
type MatchPolicy int

const (
	// MatchWindow attributes a lump sum to the first payment on or after its
	// date, i.e. the payment whose window (previous payment, this payment]
	// contains it.
	MatchWindow MatchPolicy = iota
	// MatchExactDate attributes a lump sum only to a payment on the same
	// calendar date.
	MatchExactDate
)

func (p MatchPolicy) String() string {
	switch p {
	case MatchWindow:
		return "window"
	case MatchExactDate:
		return "exact-date"
	default:
		return fmt.Sprintf("MatchPolicy(%d)", int(p))
	}
}

// ParseMatchPolicy converts a config string into a MatchPolicy. An empty
// string selects MatchWindow.
func ParseMatchPolicy(s string) (MatchPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "window":
		return MatchWindow, nil
	case "exact-date", "exact":
		return MatchExactDate, nil
	default:
		return 0, fmt.Errorf("%w: unknown lump sum matching policy %q", ErrInvalidArgument, s)
	}
}

// CalcOptions controls rounding and calculation mode. Build it with
// NewCalcOptions or DefaultCalcOptions.
type CalcOptions struct {
	currencyDecimals int32
	paymentTiming    PaymentTiming
	mode             CalcMode
	matching         MatchPolicy
}

// NewCalcOptions validates and returns calculation options using the window
// matching policy.
func NewCalcOptions(currencyDecimals int, timing PaymentTiming, mode CalcMode) (CalcOptions, error) {
	if currencyDecimals < 0 {
		return CalcOptions{}, fmt.Errorf("%w: currency decimals must be >= 0, got %d", ErrInvalidArgument, currencyDecimals)
	}
	if int64(currencyDecimals) > math.MaxInt32 {
		return CalcOptions{}, fmt.Errorf("%w: currency decimals out of range, got %d", ErrInvalidArgument, currencyDecimals)
	}
	o := CalcOptions{
		currencyDecimals: int32(currencyDecimals),
		paymentTiming:    timing,
		mode:             mode,
		matching:         MatchWindow,
	}
	if err := o.validate(); err != nil {
		return CalcOptions{}, err
	}
	return o, nil
}

// DefaultCalcOptions returns two currency decimals, end-of-period timing,
// keep-payment mode and window matching.
func DefaultCalcOptions() CalcOptions {
	return CalcOptions{
		currencyDecimals: constants.DefaultCurrencyDecimals,
		paymentTiming:    EndOfPeriod,
		mode:             KeepPayment,
		matching:         MatchWindow,
	}
}

// WithMatching returns a copy of the options using the given lump sum
// matching policy.
func (o CalcOptions) WithMatching(policy MatchPolicy) CalcOptions {
	o.matching = policy
	return o
}

// CurrencyDecimals is the number of decimal places currency values are rounded to.
func (o CalcOptions) CurrencyDecimals() int { return int(o.currencyDecimals) }

// PaymentTiming returns the configured payment timing.
func (o CalcOptions) PaymentTiming() PaymentTiming { return o.paymentTiming }

// Mode returns the configured calculation mode.
func (o CalcOptions) Mode() CalcMode { return o.mode }

// Matching returns the configured lump sum matching policy.
func (o CalcOptions) Matching() MatchPolicy { return o.matching }

func (o CalcOptions) validate() error {
	if o.currencyDecimals < 0 {
		return fmt.Errorf("%w: currency decimals must be >= 0, got %d", ErrInvalidArgument, o.currencyDecimals)
	}
	switch o.paymentTiming {
	case EndOfPeriod:
	case BeginningOfPeriod:
		return fmt.Errorf("%w: payment timing %s", ErrUnimplementedMode, o.paymentTiming)
	default:
		return fmt.Errorf("%w: unknown payment timing %s", ErrInvalidArgument, o.paymentTiming)
	}
	switch o.mode {
	case KeepPayment:
	case Recast:
		return fmt.Errorf("%w: %s", ErrUnimplementedMode, o.mode)
	default:
		return fmt.Errorf("%w: unknown calculation mode %s", ErrInvalidArgument, o.mode)
	}
	switch o.matching {
	case MatchWindow, MatchExactDate:
	default:
		return fmt.Errorf("%w: unknown lump sum matching policy %s", ErrInvalidArgument, o.matching)
	}
	return nil
}
