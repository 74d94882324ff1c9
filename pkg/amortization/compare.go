package amortization

import (
	"encoding/json"
	"time"

	"github.com/iwvelando/loan-amortization/pkg/datetime"
	"github.com/shopspring/decimal"
)

// Comparison describes what an extra payment plan saves against the base
// schedule for the same terms.
type Comparison struct {
	InterestSaved    decimal.Decimal `json:"interestSaved"`
	PaymentsSaved    int             `json:"paymentsSaved"`
	MonthsEarlier    int             `json:"monthsEarlier"`
	PayoffDateBase   time.Time       `json:"-"`
	PayoffDateExtras time.Time       `json:"-"`
}

// Compare reports the interest and payments saved by withExtras relative to
// base.
func Compare(base, withExtras ScheduleSummary) Comparison {
	return Comparison{
		InterestSaved:    base.TotalInterest.Sub(withExtras.TotalInterest),
		PaymentsSaved:    base.TotalPayments - withExtras.TotalPayments,
		MonthsEarlier:    datetime.MonthsBetween(withExtras.PayoffDate, base.PayoffDate),
		PayoffDateBase:   base.PayoffDate,
		PayoffDateExtras: withExtras.PayoffDate,
	}
}

// MarshalJSON renders both payoff dates as YYYY-MM-DD.
func (c Comparison) MarshalJSON() ([]byte, error) {
	type plain Comparison
	return json.Marshal(struct {
		plain
		PayoffDateBase   string `json:"payoffDateBase"`
		PayoffDateExtras string `json:"payoffDateExtras"`
	}{
		plain:            plain(c),
		PayoffDateBase:   datetime.FormatDate(c.PayoffDateBase),
		PayoffDateExtras: datetime.FormatDate(c.PayoffDateExtras),
	})
}
