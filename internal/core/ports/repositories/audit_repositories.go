package repositories

import (
	"context"

	"github.com/sahakari/coop_backend/internal/core/domain"
)

// AuditRepository provides the aggregation queries behind the audit reports.
// All methods read committed data only; none of them mutate state.
type AuditRepository interface {
	// GetSummaryTotals computes the headline figures across the whole ledger.
	GetSummaryTotals(ctx context.Context) (*domain.AuditSummary, error)

	// ListOutstandingLoans returns approved loans with a positive outstanding
	// balance, joined with borrower details and per-loan anchoring status.
	ListOutstandingLoans(ctx context.Context) ([]domain.OutstandingLoanRow, error)

	// ListTransactions returns ledger entries joined with member details,
	// newest first.
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]domain.AuditTransactionRow, error)

	// GetBlockchainStatus computes anchoring coverage over the whole ledger.
	GetBlockchainStatus(ctx context.Context) (*domain.BlockchainStatus, error)

	// GetUserReport computes the per-member audit drill-down.
	GetUserReport(ctx context.Context, userID string) (*domain.UserAuditReport, error)
}
