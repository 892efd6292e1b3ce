package dto

import (
	"time"

	"github.com/sahakari/coop_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RequestLoanRequest is the payload for a member loan request.
type RequestLoanRequest struct {
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	DurationMonths int             `json:"duration_months" binding:"required"`
	Reason         string          `json:"reason" binding:"required"`
}

// CreateLoanRequest is the payload for the manager's direct loan creation.
type CreateLoanRequest struct {
	UserID         string          `json:"user_id" binding:"required"`
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	DurationMonths int             `json:"duration_months" binding:"required"`
	Reason         string          `json:"reason" binding:"required"`
}

// UpdateLoanStatusRequest is the payload for a manager's loan decision.
type UpdateLoanStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// RepayLoanRequest is the payload for a loan repayment.
type RepayLoanRequest struct {
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Reference string          `json:"reference,omitempty"`
}

// LoanResponse is the API representation of a loan.
type LoanResponse struct {
	LoanID         string          `json:"loan_id"`
	UserID         string          `json:"user_id"`
	Principal      decimal.Decimal `json:"principal"`
	DurationMonths int             `json:"duration_months"`
	InterestRate   decimal.Decimal `json:"interest_rate"`
	TotalRepayment decimal.Decimal `json:"total_repayment"`
	MonthlyPayment decimal.Decimal `json:"monthly_payment"`
	Outstanding    decimal.Decimal `json:"outstanding"`
	Reason         string          `json:"reason"`
	Status         string          `json:"status"`
	ApprovedBy     *string         `json:"approved_by,omitempty"`
	DisbursedAt    *time.Time      `json:"disbursed_at,omitempty"`
	PaidOffAt      *time.Time      `json:"paid_off_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ToLoanResponse converts a domain Loan to its API representation.
func ToLoanResponse(l *domain.Loan) LoanResponse {
	return LoanResponse{
		LoanID:         l.LoanID,
		UserID:         l.UserID,
		Principal:      l.Principal,
		DurationMonths: l.DurationMonths,
		InterestRate:   l.InterestRate,
		TotalRepayment: l.TotalRepayment,
		MonthlyPayment: l.MonthlyPayment,
		Outstanding:    l.Outstanding,
		Reason:         l.Reason,
		Status:         string(l.Status),
		ApprovedBy:     l.ApprovedBy,
		DisbursedAt:    l.DisbursedAt,
		PaidOffAt:      l.PaidOffAt,
		CreatedAt:      l.CreatedAt,
	}
}

// ToLoanResponses converts a slice of domain Loans.
func ToLoanResponses(loans []domain.Loan) []LoanResponse {
	out := make([]LoanResponse, len(loans))
	for i := range loans {
		out[i] = ToLoanResponse(&loans[i])
	}
	return out
}

// LoanPaymentResponse is one entry in a loan's repayment history.
type LoanPaymentResponse struct {
	PaymentID string          `json:"payment_id"`
	Amount    decimal.Decimal `json:"amount"`
	Principal decimal.Decimal `json:"principal"`
	Interest  decimal.Decimal `json:"interest"`
	PaidAt    time.Time       `json:"paid_at"`
}

// LoanDetailResponse is a loan with borrower details and repayment history.
type LoanDetailResponse struct {
	LoanResponse
	BorrowerName  string                `json:"borrower_name"`
	BorrowerPhone string                `json:"borrower_phone"`
	Payments      []LoanPaymentResponse `json:"payments"`
}

// MemberLoansResponse is a member's own loan list with aggregate dues.
type MemberLoansResponse struct {
	Loans           []LoanResponse  `json:"loans"`
	TotalDue        decimal.Decimal `json:"total_due"`
	MonthlyPayments decimal.Decimal `json:"monthly_payments"`
}
