package repositories

import (
	"context"
	"time"

	"github.com/sahakari/coop_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LoanReader defines read operations for loan data
type LoanReader interface {
	// FindLoanByID retrieves a specific loan.
	FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error)

	// ListLoansByUser retrieves all loans for a member, newest first.
	ListLoansByUser(ctx context.Context, userID string) ([]domain.Loan, error)

	// ListLoans retrieves all loans for the manager view, pending requests first.
	ListLoans(ctx context.Context) ([]domain.Loan, error)

	// ListLoanPayments retrieves the repayment history of a loan, oldest first.
	ListLoanPayments(ctx context.Context, loanID string) ([]domain.LoanPayment, error)
}

// LoanWriter defines write operations for loan data
type LoanWriter interface {
	// SaveLoan persists a new loan.
	SaveLoan(ctx context.Context, loan domain.Loan) error

	// SaveDisbursedLoan persists an already-approved loan together with its
	// disbursement ledger entry in one database transaction. Either both rows
	// land or neither does.
	SaveDisbursedLoan(ctx context.Context, loan domain.Loan, txn domain.Transaction) error

	// DisburseLoan transitions a requested loan to approved and appends the
	// disbursement ledger entry in one database transaction. The loan row is
	// locked; if its status is no longer "Requested" the call fails with
	// apperrors.ErrConflict and nothing is written.
	DisburseLoan(ctx context.Context, loanID string, approverID string, txn domain.Transaction, now time.Time) (*domain.Loan, error)

	// RejectLoan transitions a requested loan to rejected. Fails with
	// apperrors.ErrConflict when the loan is not in the requested state.
	RejectLoan(ctx context.Context, loanID string, approverID string, now time.Time) (*domain.Loan, error)

	// RepayLoan reduces the loan's outstanding balance, appends the repayment
	// ledger entry and the principal/interest split row in one database
	// transaction. The loan row is locked, so concurrent repayments against
	// the same loan serialize. Returns apperrors.ErrConflict when the loan is
	// not approved and apperrors.ErrOverRepayment when amount exceeds the
	// outstanding balance. When the outstanding
	// balance reaches exactly zero the loan is closed in the same transaction.
	RepayLoan(ctx context.Context, loanID string, amount decimal.Decimal, actorID string, now time.Time) (*domain.Loan, *domain.Transaction, error)

	// CloseLoan transitions an approved loan to closed without touching the
	// ledger. Fails with apperrors.ErrConflict when the loan is not approved.
	CloseLoan(ctx context.Context, loanID string, actorID string, now time.Time) (*domain.Loan, error)
}

// LoanRepositoryFacade combines all loan-related repository interfaces
type LoanRepositoryFacade interface {
	LoanReader
	LoanWriter
}
