package repositories

import (
	"context"

	"github.com/sahakari/coop_backend/internal/core/domain"
)

// TransactionFilter narrows ledger listings. Nil fields mean "no constraint".
type TransactionFilter struct {
	UserID       *string
	Type         *domain.TransactionType
	VerifiedOnly bool
	Limit        int
	Offset       int
}

// TransactionAppender defines the atomic append operation of the ledger.
type TransactionAppender interface {
	// SaveDeposit appends a deposit transaction and increases the target
	// user's savings balance in a single database transaction. The user row
	// is locked for the duration, so concurrent deposits serialize.
	SaveDeposit(ctx context.Context, txn domain.Transaction) (*domain.Transaction, error)
}

// TransactionReader defines read operations over the ledger.
type TransactionReader interface {
	// FindTransactionByID retrieves a single ledger entry.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactionsByUser returns a user's entries in insertion order (oldest first).
	ListTransactionsByUser(ctx context.Context, userID string, limit int, offset int) ([]domain.Transaction, error)

	// ListUnverifiedTransactions returns entries not yet anchored on chain,
	// oldest first, capped at limit.
	ListUnverifiedTransactions(ctx context.Context, limit int) ([]domain.Transaction, error)
}

// AnchorMarker flips the anchoring fields of a ledger entry after on-chain confirmation.
type AnchorMarker interface {
	// MarkTransactionAnchored records the blockchain transaction hash and block
	// number for an entry. It succeeds at most once per entry: a second call
	// returns apperrors.ErrConflict, an unknown ID returns apperrors.ErrNotFound.
	MarkTransactionAnchored(ctx context.Context, transactionID string, blockchainTxHash string, blockNumber int64) error
}

// LedgerRepositoryFacade combines all ledger repository interfaces
type LedgerRepositoryFacade interface {
	TransactionAppender
	TransactionReader
	AnchorMarker
}
