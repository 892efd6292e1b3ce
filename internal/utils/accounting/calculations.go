package accounting

import (
	"github.com/sahakari/coop_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

var (
	hundred      = decimal.NewFromInt(100)
	monthsInYear = decimal.NewFromInt(12)
)

// HasValidScale reports whether the amount has at most two decimal places,
// the smallest unit the ledger accepts.
func HasValidScale(amount decimal.Decimal) bool {
	return amount.Exponent() >= -2
}

// ComputeTotalRepayment applies simple annual interest pro-rated by duration:
// principal + principal * rate/100 * months/12, rounded to two decimal places.
// The result is frozen onto the loan at creation time.
func ComputeTotalRepayment(principal decimal.Decimal, annualRate decimal.Decimal, durationMonths int) decimal.Decimal {
	months := decimal.NewFromInt(int64(durationMonths))
	interest := principal.Mul(annualRate).Div(hundred).Mul(months).Div(monthsInYear)
	return principal.Add(interest).Round(2)
}

// ComputeMonthlyPayment divides the total repayment evenly over the duration,
// rounded to two decimal places.
func ComputeMonthlyPayment(totalRepayment decimal.Decimal, durationMonths int) decimal.Decimal {
	return totalRepayment.Div(decimal.NewFromInt(int64(durationMonths))).Round(2)
}

// SplitRepayment apportions a repayment between principal and interest
// pro-rata to the loan's overall principal/interest ratio. The interest part
// is rounded to two decimal places and the principal part absorbs the
// remainder so the two always sum to the amount.
func SplitRepayment(loan domain.Loan, amount decimal.Decimal) (principal, interest decimal.Decimal) {
	if loan.TotalRepayment.IsZero() {
		return amount, decimal.Zero
	}
	totalInterest := loan.TotalRepayment.Sub(loan.Principal)
	interest = amount.Mul(totalInterest).Div(loan.TotalRepayment).Round(2)
	principal = amount.Sub(interest)
	return principal, interest
}
