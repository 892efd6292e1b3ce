package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sahakari/coop_backend/internal/apperrors"
	"github.com/sahakari/coop_backend/internal/core/domain"
	portsrepo "github.com/sahakari/coop_backend/internal/core/ports/repositories"
	portssvc "github.com/sahakari/coop_backend/internal/core/ports/services"
	"github.com/sahakari/coop_backend/internal/dto"
	"github.com/sahakari/coop_backend/internal/events"
	"github.com/sahakari/coop_backend/internal/middleware"
	"github.com/sahakari/coop_backend/internal/utils/accounting"
)

const defaultTransactionLimit = 100

// AnchorEnqueuer schedules a committed ledger entry for on-chain anchoring.
// The boolean reports whether the entry was accepted; a full queue or a
// disabled anchoring pipeline returns false and the entry is picked up later
// by the rescanner.
type AnchorEnqueuer interface {
	Enqueue(txn domain.Transaction) bool
}

// ledgerService provides the append and read operations of the ledger.
type ledgerService struct {
	ledgerRepo portsrepo.LedgerRepositoryFacade
	userRepo   portsrepo.UserRepositoryFacade
	anchor     AnchorEnqueuer
	publisher  events.Publisher
}

// NewLedgerService creates a new ledger service. anchor may be nil when
// anchoring is disabled.
func NewLedgerService(ledgerRepo portsrepo.LedgerRepositoryFacade, userRepo portsrepo.UserRepositoryFacade, anchor AnchorEnqueuer, publisher events.Publisher) portssvc.LedgerSvcFacade {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &ledgerService{
		ledgerRepo: ledgerRepo,
		userRepo:   userRepo,
		anchor:     anchor,
		publisher:  publisher,
	}
}

// Ensure ledgerService implements the portssvc.LedgerSvcFacade interface
var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// Deposit validates and records a savings deposit. Members deposit to their
// own account; managers may deposit on behalf of any active member.
func (s *ledgerService) Deposit(ctx context.Context, req dto.DepositRequest, actorID string) (*domain.Transaction, *domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, nil, fmt.Errorf("%w: deposit amount must be positive", apperrors.ErrValidation)
	}
	if !accounting.HasValidScale(req.Amount) {
		return nil, nil, fmt.Errorf("%w: deposit amount has more than two decimal places", apperrors.ErrValidation)
	}

	targetID := req.UserID
	if targetID == "" {
		targetID = actorID
	}
	if targetID != actorID {
		actor, err := s.userRepo.FindUserByID(ctx, actorID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load depositing user %s: %w", actorID, err)
		}
		if actor.Role != domain.RoleManager {
			return nil, nil, fmt.Errorf("%w: only managers can deposit on behalf of another member", apperrors.ErrForbidden)
		}
	}

	target, err := s.userRepo.FindUserByID(ctx, targetID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load deposit target %s: %w", targetID, err)
	}
	if !target.IsActive {
		return nil, nil, fmt.Errorf("%w: user %s is inactive", apperrors.ErrValidation, targetID)
	}

	now := time.Now()
	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		UserID:        targetID,
		Type:          domain.Deposit,
		Amount:        req.Amount,
		Reference:     strings.TrimSpace(req.Reference),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	saved, err := s.ledgerRepo.SaveDeposit(ctx, txn)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to record deposit: %w", err)
	}

	// Re-read for the post-deposit balance.
	target, err = s.userRepo.FindUserByID(ctx, targetID)
	if err != nil {
		return nil, nil, fmt.Errorf("deposit recorded but failed to reload user %s: %w", targetID, err)
	}

	s.afterCommit(ctx, logger, *saved)
	return saved, target, nil
}

// afterCommit schedules anchoring and publishes the recorded event. Both are
// best effort; the ledger write has already committed.
func (s *ledgerService) afterCommit(ctx context.Context, logger *slog.Logger, txn domain.Transaction) {
	if s.anchor != nil && !s.anchor.Enqueue(txn) {
		logger.Warn("anchoring queue rejected transaction, rescanner will retry", "transactionID", txn.TransactionID)
	}
	err := s.publisher.Publish(ctx, events.LedgerEvent{
		Name:          events.TransactionRecorded,
		TransactionID: txn.TransactionID,
		UserID:        txn.UserID,
		Type:          string(txn.Type),
		Amount:        txn.Amount,
		OccurredAt:    txn.CreatedAt,
	})
	if err != nil {
		logger.Warn("failed to publish ledger event", "transactionID", txn.TransactionID, "error", err)
	}
}

func (s *ledgerService) GetTransactionsForUser(ctx context.Context, userID string, limit, offset int) ([]domain.Transaction, error) {
	if limit <= 0 || limit > defaultTransactionLimit {
		limit = defaultTransactionLimit
	}
	if offset < 0 {
		offset = 0
	}
	txns, err := s.ledgerRepo.ListTransactionsByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for user %s: %w", userID, err)
	}
	return txns, nil
}

func (s *ledgerService) MarkAnchored(ctx context.Context, transactionID string, blockchainTxHash string, blockNumber int64) error {
	return s.ledgerRepo.MarkTransactionAnchored(ctx, transactionID, blockchainTxHash, blockNumber)
}

func (s *ledgerService) ListUnverified(ctx context.Context, limit int) ([]domain.Transaction, error) {
	if limit <= 0 || limit > defaultTransactionLimit {
		limit = defaultTransactionLimit
	}
	return s.ledgerRepo.ListUnverifiedTransactions(ctx, limit)
}
