package amortization

import (
	"time"

	"github.com/shopspring/decimal"
)

// LumpSumFor returns the sum of the plan's lump sums dated after
// previousPaymentDate and on or before paymentDate. A lump sum therefore
// lands on the first scheduled payment on or after its date: with payments
// on the 18th, a lump sum on the 10th applies to that month's payment.
func LumpSumFor(previousPaymentDate, paymentDate time.Time, plan ExtraPaymentPlan) decimal.Decimal {
	if len(plan.lumpSums) == 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, lump := range plan.lumpSums {
		if lump.date.After(previousPaymentDate) && !lump.date.After(paymentDate) {
			sum = sum.Add(lump.amount)
		}
	}
	return sum
}

// LumpSumOnDate returns the sum of the plan's lump sums dated exactly on
// paymentDate. Lump sums on any other day are never applied.
func LumpSumOnDate(paymentDate time.Time, plan ExtraPaymentPlan) decimal.Decimal {
	if len(plan.lumpSums) == 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, lump := range plan.lumpSums {
		if lump.date.Equal(paymentDate) {
			sum = sum.Add(lump.amount)
		}
	}
	return sum
}

func (p MatchPolicy) lumpSum(previousPaymentDate, paymentDate time.Time, plan ExtraPaymentPlan) decimal.Decimal {
	if p == MatchExactDate {
		return LumpSumOnDate(paymentDate, plan)
	}
	return LumpSumFor(previousPaymentDate, paymentDate, plan)
}
