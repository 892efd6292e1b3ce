package services

import (
	"context"

	"github.com/sahakari/coop_backend/internal/core/domain"
	"github.com/sahakari/coop_backend/internal/dto"
)

// LoanSvcFacade defines the loan lifecycle operations.
type LoanSvcFacade interface {
	// RequestLoan creates a loan in the requested state for the calling member.
	RequestLoan(ctx context.Context, req dto.RequestLoanRequest, memberID string) (*domain.Loan, error)

	// CreateDirect creates an already-approved, disbursed loan (manager shortcut).
	CreateDirect(ctx context.Context, req dto.CreateLoanRequest, managerID string) (*domain.Loan, error)

	// Decide approves or rejects a requested loan. Approval disburses the
	// principal into the ledger atomically.
	Decide(ctx context.Context, loanID string, approve bool, managerID string) (*domain.Loan, error)

	// Close transitions an approved loan to closed without a ledger effect.
	Close(ctx context.Context, loanID string, managerID string) (*domain.Loan, error)

	// Repay records a repayment against an approved loan.
	Repay(ctx context.Context, loanID string, req dto.RepayLoanRequest, actorID string) (*domain.Loan, *domain.Transaction, error)

	// GetLoanDetail returns a loan with borrower details and payment history.
	GetLoanDetail(ctx context.Context, loanID string) (*dto.LoanDetailResponse, error)

	// ListForMember returns a member's loans with aggregate dues.
	ListForMember(ctx context.Context, memberID string) (*dto.MemberLoansResponse, error)

	// ListForManager returns all loans, pending requests first.
	ListForManager(ctx context.Context) ([]domain.Loan, error)
}
