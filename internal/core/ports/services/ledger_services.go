package services

import (
	"context"

	"github.com/sahakari/coop_backend/internal/core/domain"
	"github.com/sahakari/coop_backend/internal/dto"
)

// LedgerSvcFacade defines the append and read operations of the ledger.
type LedgerSvcFacade interface {
	// Deposit validates and records a savings deposit for a member. The actor
	// must be the target member, or a manager depositing on a member's behalf.
	Deposit(ctx context.Context, req dto.DepositRequest, actorID string) (*domain.Transaction, *domain.User, error)

	// GetTransactionsForUser returns a member's ledger entries in insertion order.
	GetTransactionsForUser(ctx context.Context, userID string, limit, offset int) ([]domain.Transaction, error)

	// MarkAnchored flips the anchoring fields of a ledger entry exactly once.
	MarkAnchored(ctx context.Context, transactionID string, blockchainTxHash string, blockNumber int64) error

	// ListUnverified returns entries not yet anchored, oldest first.
	ListUnverified(ctx context.Context, limit int) ([]domain.Transaction, error)
}
