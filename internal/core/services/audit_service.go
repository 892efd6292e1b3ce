package services

import (
	"context"
	"fmt"

	"github.com/sahakari/coop_backend/internal/apperrors"
	"github.com/sahakari/coop_backend/internal/core/domain"
	portsrepo "github.com/sahakari/coop_backend/internal/core/ports/repositories"
	portssvc "github.com/sahakari/coop_backend/internal/core/ports/services"
	"github.com/sahakari/coop_backend/internal/dto"
	"github.com/sahakari/coop_backend/internal/platform/config"
	"github.com/shopspring/decimal"
)

const defaultAuditLimit = 500

// auditService assembles the reconciliation reports for auditors.
type auditService struct {
	auditRepo        portsrepo.AuditRepository
	operationalCosts decimal.Decimal
}

// NewAuditService creates a new audit service.
func NewAuditService(auditRepo portsrepo.AuditRepository, cfg *config.Config) portssvc.AuditSvcFacade {
	return &auditService{
		auditRepo:        auditRepo,
		operationalCosts: cfg.OperationalCosts,
	}
}

// Ensure auditService implements the portssvc.AuditSvcFacade interface
var _ portssvc.AuditSvcFacade = (*auditService)(nil)

// GetSummary computes the headline figures. Profit is the interest earned to
// date net of the configured operational costs.
func (s *auditService) GetSummary(ctx context.Context) (*domain.AuditSummary, error) {
	summary, err := s.auditRepo.GetSummaryTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute audit summary: %w", err)
	}
	summary.TotalProfit = summary.TotalInterestEarned.Sub(s.operationalCosts)
	return summary, nil
}

func (s *auditService) GetOutstandingLoans(ctx context.Context) ([]domain.OutstandingLoanRow, error) {
	rows, err := s.auditRepo.ListOutstandingLoans(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list outstanding loans: %w", err)
	}
	return rows, nil
}

func (s *auditService) GetTransactions(ctx context.Context, params dto.AuditTransactionsParams) ([]domain.AuditTransactionRow, error) {
	filter := portsrepo.TransactionFilter{
		VerifiedOnly: params.VerifiedOnly,
		Limit:        params.Limit,
		Offset:       params.Offset,
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultAuditLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if params.Type != "" {
		txnType := domain.TransactionType(params.Type)
		switch txnType {
		case domain.Deposit, domain.LoanDisbursement, domain.LoanRepayment:
			filter.Type = &txnType
		default:
			return nil, fmt.Errorf("%w: unknown transaction type %q", apperrors.ErrValidation, params.Type)
		}
	}

	rows, err := s.auditRepo.ListTransactions(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit transactions: %w", err)
	}
	return rows, nil
}

func (s *auditService) GetBlockchainStatus(ctx context.Context) (*domain.BlockchainStatus, error) {
	status, err := s.auditRepo.GetBlockchainStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute blockchain status: %w", err)
	}
	return status, nil
}

func (s *auditService) GetUserReport(ctx context.Context, userID string) (*domain.UserAuditReport, error) {
	report, err := s.auditRepo.GetUserReport(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute audit report for user %s: %w", userID, err)
	}
	return report, nil
}
