package anchor

import (
	"context"

	"github.com/sahakari/coop_backend/internal/core/domain"
)

// Submitter abstracts the blockchain write path so the worker pool can be
// exercised without a chain connection.
type Submitter interface {
	// Submit sends the ledger entry's fingerprint to the chain and returns the
	// blockchain transaction hash. It does not wait for inclusion in a block.
	Submit(ctx context.Context, txn domain.Transaction, fingerprint string) (string, error)

	// WaitConfirmation blocks until the submitted transaction lands in a block
	// (or ctx expires) and returns the block number.
	WaitConfirmation(ctx context.Context, blockchainTxHash string) (int64, error)
}

// Marker flips the anchoring fields of a ledger entry after confirmation.
type Marker interface {
	MarkAnchored(ctx context.Context, transactionID string, blockchainTxHash string, blockNumber int64) error
}
