package accounting_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/sahakari/coop_backend/internal/core/domain"
	"github.com/sahakari/coop_backend/internal/utils/accounting"
)

func TestHasValidScale(t *testing.T) {
	assert.True(t, accounting.HasValidScale(decimal.RequireFromString("100")))
	assert.True(t, accounting.HasValidScale(decimal.RequireFromString("100.5")))
	assert.True(t, accounting.HasValidScale(decimal.RequireFromString("100.55")))
	assert.False(t, accounting.HasValidScale(decimal.RequireFromString("100.555")))
	assert.False(t, accounting.HasValidScale(decimal.RequireFromString("0.001")))
}

func TestComputeTotalRepayment(t *testing.T) {
	tests := []struct {
		name      string
		principal string
		rate      string
		months    int
		want      string
	}{
		{"one year at ten percent", "10000", "10", 12, "11000"},
		{"six months at ten percent", "10000", "10", 6, "10500"},
		{"three months at twelve percent", "5000", "12", 3, "5150"},
		{"zero rate", "10000", "0", 12, "10000"},
		{"rounding", "1000", "7.5", 7, "1043.75"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := accounting.ComputeTotalRepayment(
				decimal.RequireFromString(tt.principal),
				decimal.RequireFromString(tt.rate),
				tt.months,
			)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s, want %s", got, tt.want)
		})
	}
}

func TestComputeMonthlyPayment(t *testing.T) {
	got := accounting.ComputeMonthlyPayment(decimal.RequireFromString("11000"), 12)
	assert.True(t, got.Equal(decimal.RequireFromString("916.67")), "got %s", got)

	got = accounting.ComputeMonthlyPayment(decimal.RequireFromString("10500"), 6)
	assert.True(t, got.Equal(decimal.RequireFromString("1750")), "got %s", got)
}

func TestSplitRepayment(t *testing.T) {
	loan := domain.Loan{
		Principal:      decimal.RequireFromString("10000"),
		TotalRepayment: decimal.RequireFromString("11000"),
	}

	principal, interest := accounting.SplitRepayment(loan, decimal.RequireFromString("1100"))
	assert.True(t, interest.Equal(decimal.RequireFromString("100")), "interest %s", interest)
	assert.True(t, principal.Equal(decimal.RequireFromString("1000")), "principal %s", principal)
}

func TestSplitRepaymentSumsToAmount(t *testing.T) {
	loan := domain.Loan{
		Principal:      decimal.RequireFromString("3333.33"),
		TotalRepayment: decimal.RequireFromString("3611.11"),
	}
	amount := decimal.RequireFromString("123.45")

	principal, interest := accounting.SplitRepayment(loan, amount)
	assert.True(t, principal.Add(interest).Equal(amount), "split %s + %s != %s", principal, interest, amount)
	assert.True(t, interest.Exponent() >= -2)
}

func TestSplitRepaymentZeroTotal(t *testing.T) {
	principal, interest := accounting.SplitRepayment(domain.Loan{}, decimal.RequireFromString("50"))
	assert.True(t, principal.Equal(decimal.RequireFromString("50")))
	assert.True(t, interest.IsZero())
}
