package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sahakari/coop_backend/internal/apperrors"
	"github.com/sahakari/coop_backend/internal/core/domain"
	portsrepo "github.com/sahakari/coop_backend/internal/core/ports/repositories"
	"github.com/sahakari/coop_backend/internal/models"
	"github.com/sahakari/coop_backend/internal/utils/mapping"
)

type PgxAuditRepository struct {
	BaseRepository
}

// newPgxAuditRepository creates a new repository for audit aggregations.
func newPgxAuditRepository(pool *pgxpool.Pool) portsrepo.AuditRepository {
	return &PgxAuditRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxAuditRepository implements portsrepo.AuditRepository
var _ portsrepo.AuditRepository = (*PgxAuditRepository)(nil)

// GetSummaryTotals computes the headline figures across the whole ledger.
// TotalAssets is member savings plus money currently out on loan. TotalProfit
// is left for the service layer, which nets operational costs against the
// interest earned.
func (r *PgxAuditRepository) GetSummaryTotals(ctx context.Context) (*domain.AuditSummary, error) {
	query := `
		SELECT
			COALESCE((SELECT SUM(savings_balance) FROM users WHERE is_active), 0)
				+ COALESCE((SELECT SUM(outstanding) FROM loans WHERE status = 'Approved'), 0),
			COALESCE((SELECT SUM(amount) FROM transactions WHERE type = 'deposit'), 0),
			COALESCE((SELECT SUM(amount) FROM transactions WHERE type = 'loan_disbursement'), 0),
			COALESCE((SELECT SUM(outstanding) FROM loans WHERE status = 'Approved'), 0),
			COALESCE((SELECT SUM(amount) FROM transactions WHERE type = 'loan_repayment'), 0),
			COALESCE((SELECT SUM(interest) FROM loan_payments), 0),
			COALESCE((SELECT SUM(savings_balance) FROM users WHERE is_active), 0),
			COALESCE((SELECT SUM(shares_balance) FROM users WHERE is_active), 0),
			(SELECT COUNT(*) FROM users WHERE role = 'member' AND is_active);
	`

	var s domain.AuditSummary
	err := r.Pool.QueryRow(ctx, query).Scan(
		&s.TotalAssets,
		&s.TotalDeposits,
		&s.TotalLoansDisbursed,
		&s.TotalOutstanding,
		&s.TotalLoansRepaid,
		&s.TotalInterestEarned,
		&s.TotalSavings,
		&s.TotalShares,
		&s.TotalMembers,
	)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to compute audit summary totals", err)
	}
	return &s, nil
}

// ListOutstandingLoans returns approved loans with a positive outstanding
// balance, joined with borrower details. A loan counts as blockchain verified
// only when every one of its ledger entries is anchored.
func (r *PgxAuditRepository) ListOutstandingLoans(ctx context.Context) ([]domain.OutstandingLoanRow, error) {
	query := `
		SELECT
			l.loan_id, l.user_id, l.principal, l.duration_months, l.interest_rate,
			l.total_repayment, l.monthly_payment, l.outstanding, l.reason, l.status,
			l.approved_by, l.disbursed_at, l.paid_off_at,
			l.created_at, l.created_by, l.last_updated_at, l.last_updated_by,
			u.name, u.phone_number,
			l.total_repayment - l.outstanding,
			l.disbursed_at + make_interval(months => l.duration_months),
			COALESCE((SELECT BOOL_AND(t.verified) FROM transactions t WHERE t.loan_id = l.loan_id), FALSE)
		FROM loans l
		JOIN users u ON u.user_id = l.user_id
		WHERE l.status = 'Approved' AND l.outstanding > 0
		ORDER BY l.disbursed_at ASC;
	`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list outstanding loans", err)
	}
	defer rows.Close()

	var out []domain.OutstandingLoanRow
	for rows.Next() {
		var m models.Loan
		var row domain.OutstandingLoanRow
		err := rows.Scan(
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
			&row.BorrowerName,
			&row.BorrowerPhone,
			&row.AmountRepaid,
			&row.ExpectedRepayment,
			&row.BlockchainVerified,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan outstanding loan row", err)
		}
		row.Loan = mapping.ToDomainLoan(m)
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating outstanding loan rows", err)
	}
	return out, nil
}

// ListTransactions returns ledger entries joined with member details, newest first.
func (r *PgxAuditRepository) ListTransactions(ctx context.Context, filter portsrepo.TransactionFilter) ([]domain.AuditTransactionRow, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT
			t.transaction_id, t.user_id, t.loan_id, t.type, t.amount, t.reference,
			t.verified, t.blockchain_tx_hash, t.block_number, t.seq,
			t.created_at, t.created_by, t.last_updated_at, t.last_updated_by,
			u.name, u.phone_number
		FROM transactions t
		JOIN users u ON u.user_id = t.user_id
		WHERE TRUE
	`)

	var args []any
	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		fmt.Fprintf(&sb, " AND t.user_id = $%d", len(args))
	}
	if filter.Type != nil {
		args = append(args, string(*filter.Type))
		fmt.Fprintf(&sb, " AND t.type = $%d", len(args))
	}
	if filter.VerifiedOnly {
		sb.WriteString(" AND t.verified = TRUE")
	}
	sb.WriteString(" ORDER BY t.created_at DESC, t.seq DESC")
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		fmt.Fprintf(&sb, " OFFSET $%d", len(args))
	}
	sb.WriteString(";")

	rows, err := r.Pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list audit transactions", err)
	}
	defer rows.Close()

	var out []domain.AuditTransactionRow
	for rows.Next() {
		var m models.Transaction
		var row domain.AuditTransactionRow
		err := rows.Scan(
			&m.TransactionID,
			&m.UserID,
			&m.LoanID,
			&m.Type,
			&m.Amount,
			&m.Reference,
			&m.Verified,
			&m.BlockchainTxHash,
			&m.BlockNumber,
			&m.Seq,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
			&row.UserName,
			&row.UserPhone,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan audit transaction row", err)
		}
		row.Transaction = mapping.ToDomainTransaction(m)
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating audit transaction rows", err)
	}
	return out, nil
}

// GetBlockchainStatus computes anchoring coverage over the whole ledger.
func (r *PgxAuditRepository) GetBlockchainStatus(ctx context.Context) (*domain.BlockchainStatus, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE verified),
			COUNT(*) FILTER (WHERE NOT verified),
			MAX(block_number)
		FROM transactions;
	`

	var s domain.BlockchainStatus
	err := r.Pool.QueryRow(ctx, query).Scan(
		&s.TotalTransactions,
		&s.VerifiedTransactions,
		&s.UnverifiedTransactions,
		&s.LastBlockNumber,
	)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to compute blockchain status", err)
	}
	if s.TotalTransactions > 0 {
		s.VerificationRate = float64(s.VerifiedTransactions) / float64(s.TotalTransactions) * 100
	}
	return &s, nil
}

// GetUserReport computes the per-member audit drill-down.
func (r *PgxAuditRepository) GetUserReport(ctx context.Context, userID string) (*domain.UserAuditReport, error) {
	query := `
		SELECT
			u.user_id, u.name, u.phone_number, u.savings_balance, u.shares_balance,
			COALESCE((SELECT SUM(amount) FROM transactions WHERE user_id = u.user_id AND type = 'deposit'), 0),
			COALESCE((SELECT SUM(amount) FROM transactions WHERE user_id = u.user_id AND type = 'loan_disbursement'), 0),
			COALESCE((SELECT SUM(amount) FROM transactions WHERE user_id = u.user_id AND type = 'loan_repayment'), 0),
			COALESCE((SELECT SUM(outstanding) FROM loans WHERE user_id = u.user_id AND status = 'Approved'), 0),
			(SELECT COUNT(*) FROM transactions WHERE user_id = u.user_id),
			(SELECT COUNT(*) FILTER (WHERE verified) FROM transactions WHERE user_id = u.user_id),
			(SELECT MAX(created_at) FROM transactions WHERE user_id = u.user_id)
		FROM users u
		WHERE u.user_id = $1;
	`

	var rep domain.UserAuditReport
	var verifiedCount int64
	err := r.Pool.QueryRow(ctx, query, userID).Scan(
		&rep.UserID,
		&rep.Name,
		&rep.PhoneNumber,
		&rep.SavingsBalance,
		&rep.SharesBalance,
		&rep.TotalDeposits,
		&rep.TotalLoansBorrowed,
		&rep.TotalLoansRepaid,
		&rep.OutstandingBalance,
		&rep.TransactionCount,
		&verifiedCount,
		&rep.LastTransactionDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to compute audit report for user "+userID, err)
	}
	if rep.TransactionCount > 0 {
		rep.VerificationRate = float64(verifiedCount) / float64(rep.TransactionCount) * 100
	}
	return &rep, nil
}
