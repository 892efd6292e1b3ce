package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/sahakari/coop_backend/internal/apperrors"
	"github.com/sahakari/coop_backend/internal/core/domain"
	portsrepo "github.com/sahakari/coop_backend/internal/core/ports/repositories"
	"github.com/sahakari/coop_backend/internal/models"
	"github.com/sahakari/coop_backend/internal/utils/accounting"
	"github.com/sahakari/coop_backend/internal/utils/mapping"
)

const loanColumns = `
	loan_id, user_id, principal, duration_months, interest_rate, total_repayment,
	monthly_payment, outstanding, reason, status, approved_by, disbursed_at, paid_off_at,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxLoanRepository struct {
	BaseRepository
}

// newPgxLoanRepository creates a new repository for loan data.
func newPgxLoanRepository(pool *pgxpool.Pool) portsrepo.LoanRepositoryFacade {
	return &PgxLoanRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxLoanRepository implements portsrepo.LoanRepositoryFacade
var _ portsrepo.LoanRepositoryFacade = (*PgxLoanRepository)(nil)

func scanLoan(row pgx.Row) (*models.Loan, error) {
	var m models.Loan
	err := row.Scan(
		&m.LoanID,
		&m.UserID,
		&m.Principal,
		&m.DurationMonths,
		&m.InterestRate,
		&m.TotalRepayment,
		&m.MonthlyPayment,
		&m.Outstanding,
		&m.Reason,
		&m.Status,
		&m.ApprovedBy,
		&m.DisbursedAt,
		&m.PaidOffAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// FindLoanByID retrieves a loan by its ID.
func (r *PgxLoanRepository) FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE loan_id = $1;`

	m, err := scanLoan(r.Pool.QueryRow(ctx, query, loanID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find loan by ID "+loanID, err)
	}

	loan := mapping.ToDomainLoan(*m)
	return &loan, nil
}

// ListLoansByUser retrieves all loans for a member, newest first.
func (r *PgxLoanRepository) ListLoansByUser(ctx context.Context, userID string) ([]domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE user_id = $1 ORDER BY created_at DESC;`

	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list loans for user "+userID, err)
	}
	defer rows.Close()

	return collectLoans(rows)
}

// ListLoans retrieves all loans for the manager view, pending requests first,
// newest first within each group.
func (r *PgxLoanRepository) ListLoans(ctx context.Context) ([]domain.Loan, error) {
	query := `
		SELECT ` + loanColumns + `
		FROM loans
		ORDER BY (status = 'Requested') DESC, created_at DESC;
	`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list loans", err)
	}
	defer rows.Close()

	return collectLoans(rows)
}

func collectLoans(rows pgx.Rows) ([]domain.Loan, error) {
	var ms []models.Loan
	for rows.Next() {
		m, err := scanLoan(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan loan row", err)
		}
		ms = append(ms, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating loan rows", err)
	}
	return mapping.ToDomainLoanSlice(ms), nil
}

// ListLoanPayments retrieves the repayment history of a loan, oldest first.
func (r *PgxLoanRepository) ListLoanPayments(ctx context.Context, loanID string) ([]domain.LoanPayment, error) {
	query := `
		SELECT payment_id, loan_id, amount, principal, interest, paid_at, created_by
		FROM loan_payments
		WHERE loan_id = $1
		ORDER BY paid_at ASC;
	`

	rows, err := r.Pool.Query(ctx, query, loanID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list payments for loan "+loanID, err)
	}
	defer rows.Close()

	var payments []domain.LoanPayment
	for rows.Next() {
		var m models.LoanPayment
		if err := rows.Scan(&m.PaymentID, &m.LoanID, &m.Amount, &m.Principal, &m.Interest, &m.PaidAt, &m.CreatedBy); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan loan payment row", err)
		}
		payments = append(payments, mapping.ToDomainLoanPayment(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating loan payment rows", err)
	}
	return payments, nil
}

// loanExecer covers both the pool and an open transaction.
type loanExecer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func insertLoan(ctx context.Context, db loanExecer, loan domain.Loan) error {
	m := mapping.ToModelLoan(loan)
	query := `
		INSERT INTO loans (
			loan_id, user_id, principal, duration_months, interest_rate, total_repayment,
			monthly_payment, outstanding, reason, status, approved_by, disbursed_at, paid_off_at,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err := db.Exec(ctx, query,
		m.LoanID,
		m.UserID,
		m.Principal,
		m.DurationMonths,
		m.InterestRate,
		m.TotalRepayment,
		m.MonthlyPayment,
		m.Outstanding,
		m.Reason,
		m.Status,
		m.ApprovedBy,
		m.DisbursedAt,
		m.PaidOffAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert loan "+m.LoanID, err)
	}
	return nil
}

// SaveLoan persists a new loan.
func (r *PgxLoanRepository) SaveLoan(ctx context.Context, loan domain.Loan) error {
	return insertLoan(ctx, r.Pool, loan)
}

// SaveDisbursedLoan persists an already-approved loan and its disbursement
// ledger entry in one database transaction, so a manager-created loan never
// exists without its disbursement.
func (r *PgxLoanRepository) SaveDisbursedLoan(ctx context.Context, loan domain.Loan, txn domain.Transaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := insertLoan(ctx, tx, loan); err != nil {
		return err
	}
	if _, err := insertTransactionInTx(ctx, tx, txn); err != nil {
		return apperrors.NewAppError(500, "failed to insert disbursement for loan "+loan.LoanID, err)
	}

	return r.Commit(ctx, tx)
}

// lockLoan fetches a loan row FOR UPDATE inside an open transaction.
func lockLoan(ctx context.Context, tx pgx.Tx, loanID string) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE loan_id = $1 FOR UPDATE;`
	m, err := scanLoan(tx.QueryRow(ctx, query, loanID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to lock loan "+loanID, err)
	}
	loan := mapping.ToDomainLoan(*m)
	return &loan, nil
}

// DisburseLoan transitions a requested loan to approved and appends the
// disbursement ledger entry atomically. Concurrent deciders serialize on the
// row lock; the loser sees a non-requested status and gets ErrConflict.
func (r *PgxLoanRepository) DisburseLoan(ctx context.Context, loanID string, approverID string, txn domain.Transaction, now time.Time) (*domain.Loan, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	loan, err := lockLoan(ctx, tx, loanID)
	if err != nil {
		return nil, err
	}
	if loan.Status != domain.LoanRequested {
		return nil, fmt.Errorf("%w: loan status is %s, expected %s", apperrors.ErrConflict, loan.Status, domain.LoanRequested)
	}

	_, err = tx.Exec(ctx, `
		UPDATE loans
		SET status = $2, approved_by = $3, disbursed_at = $4, last_updated_at = $4, last_updated_by = $3
		WHERE loan_id = $1;
	`, loanID, string(domain.LoanApproved), approverID, now)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to approve loan "+loanID, err)
	}

	if _, err := insertTransactionInTx(ctx, tx, txn); err != nil {
		return nil, apperrors.NewAppError(500, "failed to insert disbursement transaction for loan "+loanID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	loan.Status = domain.LoanApproved
	loan.ApprovedBy = &approverID
	loan.DisbursedAt = &now
	loan.LastUpdatedAt = now
	loan.LastUpdatedBy = approverID
	return loan, nil
}

// RejectLoan transitions a requested loan to rejected.
func (r *PgxLoanRepository) RejectLoan(ctx context.Context, loanID string, approverID string, now time.Time) (*domain.Loan, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	loan, err := lockLoan(ctx, tx, loanID)
	if err != nil {
		return nil, err
	}
	if loan.Status != domain.LoanRequested {
		return nil, fmt.Errorf("%w: loan status is %s, expected %s", apperrors.ErrConflict, loan.Status, domain.LoanRequested)
	}

	_, err = tx.Exec(ctx, `
		UPDATE loans
		SET status = $2, approved_by = $3, last_updated_at = $4, last_updated_by = $3
		WHERE loan_id = $1;
	`, loanID, string(domain.LoanRejected), approverID, now)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to reject loan "+loanID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	loan.Status = domain.LoanRejected
	loan.ApprovedBy = &approverID
	loan.LastUpdatedAt = now
	loan.LastUpdatedBy = approverID
	return loan, nil
}

// RepayLoan reduces a loan's outstanding balance, appends the repayment
// ledger entry and the principal/interest split row atomically. When the
// outstanding balance hits exactly zero the loan closes in the same
// transaction.
func (r *PgxLoanRepository) RepayLoan(ctx context.Context, loanID string, amount decimal.Decimal, actorID string, now time.Time) (*domain.Loan, *domain.Transaction, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer r.Rollback(ctx, tx)

	loan, err := lockLoan(ctx, tx, loanID)
	if err != nil {
		return nil, nil, err
	}
	if loan.Status != domain.LoanApproved {
		return nil, nil, fmt.Errorf("%w: loan status is %s, expected %s", apperrors.ErrConflict, loan.Status, domain.LoanApproved)
	}
	if amount.GreaterThan(loan.Outstanding) {
		return nil, nil, fmt.Errorf("%w: amount %s, outstanding %s", apperrors.ErrOverRepayment, amount.String(), loan.Outstanding.String())
	}

	newOutstanding := loan.Outstanding.Sub(amount)
	closed := newOutstanding.IsZero()

	status := loan.Status
	var paidOffAt *time.Time
	if closed {
		status = domain.LoanClosed
		paidOffAt = &now
	}

	_, err = tx.Exec(ctx, `
		UPDATE loans
		SET outstanding = $2, status = $3, paid_off_at = $4, last_updated_at = $5, last_updated_by = $6
		WHERE loan_id = $1;
	`, loanID, newOutstanding, string(status), paidOffAt, now, actorID)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to update outstanding for loan "+loanID, err)
	}

	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		UserID:        loan.UserID,
		LoanID:        &loan.LoanID,
		Type:          domain.LoanRepayment,
		Amount:        amount,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}
	seq, err := insertTransactionInTx(ctx, tx, txn)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to insert repayment transaction for loan "+loanID, err)
	}
	txn.Seq = seq

	principalPart, interestPart := accounting.SplitRepayment(*loan, amount)
	_, err = tx.Exec(ctx, `
		INSERT INTO loan_payments (payment_id, loan_id, amount, principal, interest, paid_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`, uuid.NewString(), loanID, amount, principalPart, interestPart, now, actorID)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to insert payment split for loan "+loanID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, nil, err
	}

	loan.Outstanding = newOutstanding
	loan.Status = status
	loan.PaidOffAt = paidOffAt
	loan.LastUpdatedAt = now
	loan.LastUpdatedBy = actorID
	return loan, &txn, nil
}

// CloseLoan transitions an approved loan to closed without a ledger effect.
// The remaining outstanding balance is left as written off.
func (r *PgxLoanRepository) CloseLoan(ctx context.Context, loanID string, actorID string, now time.Time) (*domain.Loan, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	loan, err := lockLoan(ctx, tx, loanID)
	if err != nil {
		return nil, err
	}
	if loan.Status != domain.LoanApproved {
		return nil, fmt.Errorf("%w: loan status is %s, expected %s", apperrors.ErrConflict, loan.Status, domain.LoanApproved)
	}

	_, err = tx.Exec(ctx, `
		UPDATE loans
		SET status = $2, paid_off_at = $3, last_updated_at = $3, last_updated_by = $4
		WHERE loan_id = $1;
	`, loanID, string(domain.LoanClosed), now, actorID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to close loan "+loanID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	loan.Status = domain.LoanClosed
	loan.PaidOffAt = &now
	loan.LastUpdatedAt = now
	loan.LastUpdatedBy = actorID
	return loan, nil
}
