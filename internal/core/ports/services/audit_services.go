package services

import (
	"context"

	"github.com/sahakari/coop_backend/internal/core/domain"
	"github.com/sahakari/coop_backend/internal/dto"
)

// AuditSvcFacade defines the reconciliation reports for auditors.
type AuditSvcFacade interface {
	// GetSummary computes the headline figures across the whole ledger.
	GetSummary(ctx context.Context) (*domain.AuditSummary, error)

	// GetOutstandingLoans returns active loans with borrower and anchoring detail.
	GetOutstandingLoans(ctx context.Context) ([]domain.OutstandingLoanRow, error)

	// GetTransactions returns ledger entries joined with member detail, newest first.
	GetTransactions(ctx context.Context, params dto.AuditTransactionsParams) ([]domain.AuditTransactionRow, error)

	// GetBlockchainStatus computes anchoring coverage and a health band.
	GetBlockchainStatus(ctx context.Context) (*domain.BlockchainStatus, error)

	// GetUserReport computes the per-member audit drill-down.
	GetUserReport(ctx context.Context, userID string) (*domain.UserAuditReport, error)
}
