package events

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Event names published to the ledger stream.
const (
	TransactionRecorded = "ledger.transaction.recorded"
	TransactionAnchored = "ledger.transaction.anchored"
)

// LedgerEvent is the payload published for downstream consumers.
type LedgerEvent struct {
	Name             string          `json:"name"`
	TransactionID    string          `json:"transaction_id"`
	UserID           string          `json:"user_id"`
	Type             string          `json:"type"`
	Amount           decimal.Decimal `json:"amount"`
	BlockchainTxHash string          `json:"blockchain_tx_hash,omitempty"`
	BlockNumber      int64           `json:"block_number,omitempty"`
	OccurredAt       time.Time       `json:"occurred_at"`
}

// Publisher emits ledger events to an external stream. Implementations must
// be safe for concurrent use; publishing failures are logged by callers, not
// propagated, since the ledger write has already committed.
type Publisher interface {
	Publish(ctx context.Context, event LedgerEvent) error
	Close() error
}

// NoopPublisher discards all events. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, event LedgerEvent) error { return nil }
func (NoopPublisher) Close() error                                         { return nil }
