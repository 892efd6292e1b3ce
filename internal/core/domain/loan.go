package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanStatus is the state of a loan within its lifecycle.
type LoanStatus string

const (
	LoanRequested LoanStatus = "Requested"
	LoanApproved  LoanStatus = "Approved"
	LoanRejected  LoanStatus = "Rejected"
	LoanClosed    LoanStatus = "Closed"
)

// CanTransitionTo reports whether the state machine permits moving from s to next.
// Requested may become Approved or Rejected; Approved may become Closed.
// Rejected and Closed are terminal.
func (s LoanStatus) CanTransitionTo(next LoanStatus) bool {
	switch s {
	case LoanRequested:
		return next == LoanApproved || next == LoanRejected
	case LoanApproved:
		return next == LoanClosed
	default:
		return false
	}
}

// Loan represents a member loan. The interest rate is copied from the rate
// table at creation time and never re-read afterwards.
type Loan struct {
	LoanID         string          `json:"loanID"`
	UserID         string          `json:"userID"`
	Principal      decimal.Decimal `json:"principal"`
	DurationMonths int             `json:"durationMonths"`
	InterestRate   decimal.Decimal `json:"interestRate"` // annual percentage, frozen at creation
	TotalRepayment decimal.Decimal `json:"totalRepayment"`
	MonthlyPayment decimal.Decimal `json:"monthlyPayment"`
	Outstanding    decimal.Decimal `json:"outstanding"`
	Reason         string          `json:"reason"`
	Status         LoanStatus      `json:"status"`
	ApprovedBy     *string         `json:"approvedBy,omitempty"`
	DisbursedAt    *time.Time      `json:"disbursedAt,omitempty"`
	PaidOffAt      *time.Time      `json:"paidOffAt,omitempty"`
	AuditFields
}

// LoanPayment records one repayment against a loan, split into the portion
// that reduced principal and the portion that covered interest.
type LoanPayment struct {
	PaymentID string          `json:"paymentID"`
	LoanID    string          `json:"loanID"`
	Amount    decimal.Decimal `json:"amount"`
	Principal decimal.Decimal `json:"principal"`
	Interest  decimal.Decimal `json:"interest"`
	PaidAt    time.Time       `json:"paidAt"`
	CreatedBy string          `json:"createdBy"`
}
