package dto

import "github.com/shopspring/decimal"

// HomeResponse is the role-aware dashboard payload.
type HomeResponse struct {
	Role           string          `json:"role"`
	Name           string          `json:"name"`
	SavingsBalance decimal.Decimal `json:"savings_balance"`
	SharesBalance  decimal.Decimal `json:"shares_balance"`

	// Member fields
	ActiveLoan       *LoanResponse    `json:"active_loan,omitempty"`
	DividendExpected *decimal.Decimal `json:"dividend_expected,omitempty"`

	// Manager fields
	PendingLoanRequests *int64           `json:"pending_loan_requests,omitempty"`
	TotalMembers        *int64           `json:"total_members,omitempty"`
	TotalSavings        *decimal.Decimal `json:"total_savings,omitempty"`
}
