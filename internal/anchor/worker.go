package anchor

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/sahakari/coop_backend/internal/apperrors"
	"github.com/sahakari/coop_backend/internal/core/domain"
	"github.com/sahakari/coop_backend/internal/events"
)

// Options tunes the worker pool.
type Options struct {
	Workers       int
	QueueSize     int
	MaxAttempts   int
	RetryBase     time.Duration
	SubmitTimeout time.Duration
	ConfirmWindow time.Duration
}

// Client anchors ledger entries on chain asynchronously. Enqueue never
// blocks the caller: a full queue drops the job and the periodic rescan
// picks the entry up again later. A nil Submitter disables anchoring
// entirely; entries then simply stay unverified.
type Client struct {
	submitter Submitter
	marker    Marker
	publisher events.Publisher
	logger    *slog.Logger
	opts      Options

	queue    chan domain.Transaction
	mu       sync.Mutex
	inFlight map[string]struct{}

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// NewClient creates the anchoring client. submitter may be nil, which yields
// a disabled client that drops every job.
func NewClient(submitter Submitter, marker Marker, publisher events.Publisher, logger *slog.Logger, opts Options) *Client {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &Client{
		submitter: submitter,
		marker:    marker,
		publisher: publisher,
		logger:    logger,
		opts:      opts,
		queue:     make(chan domain.Transaction, opts.QueueSize),
		inFlight:  make(map[string]struct{}),
	}
}

// Enabled reports whether a chain connection is configured.
func (c *Client) Enabled() bool {
	return c.submitter != nil
}

// Start launches the worker pool.
func (c *Client) Start() {
	if !c.Enabled() {
		c.logger.Warn("Blockchain anchoring disabled: no submitter configured")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel

	for i := 0; i < c.opts.Workers; i++ {
		c.wg.Add(1)
		go c.worker(ctx)
	}
	c.logger.Info("Anchor workers started", slog.Int("workers", c.opts.Workers))
}

// Stop cancels in-flight work and waits for the workers to exit.
func (c *Client) Stop() {
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
}

// Enqueue schedules a ledger entry for anchoring. It returns false when the
// entry was dropped (disabled client, already in flight, or full queue).
func (c *Client) Enqueue(txn domain.Transaction) bool {
	if !c.Enabled() {
		return false
	}
	if txn.Verified {
		return false
	}

	c.mu.Lock()
	if _, dup := c.inFlight[txn.TransactionID]; dup {
		c.mu.Unlock()
		return false
	}
	c.inFlight[txn.TransactionID] = struct{}{}
	c.mu.Unlock()

	select {
	case c.queue <- txn:
		return true
	default:
		// Queue full: drop and let the rescan requeue it later
		c.release(txn.TransactionID)
		c.logger.Warn("Anchor queue full, dropping job", slog.String("transaction_id", txn.TransactionID))
		return false
	}
}

func (c *Client) release(transactionID string) {
	c.mu.Lock()
	delete(c.inFlight, transactionID)
	c.mu.Unlock()
}

func (c *Client) worker(ctx context.Context) {
	defer c.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case txn := <-c.queue:
			c.anchorWithRetry(ctx, txn)
			c.release(txn.TransactionID)
		}
	}
}

// anchorWithRetry runs the submit/confirm/mark sequence with bounded
// exponential backoff. Exhausting the attempts leaves the entry unverified;
// it surfaces only through the audit reports and the periodic rescan.
func (c *Client) anchorWithRetry(ctx context.Context, txn domain.Transaction) {
	logger := c.logger.With(slog.String("transaction_id", txn.TransactionID))

	backoff := c.opts.RetryBase
	for attempt := 1; attempt <= c.opts.MaxAttempts; attempt++ {
		err := c.anchorOnce(ctx, txn)
		if err == nil {
			return
		}
		if errors.Is(err, context.Canceled) {
			return
		}
		logger.Warn("Anchor attempt failed",
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()),
		)
		if attempt == c.opts.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		backoff *= 2
	}

	logger.Error("Anchoring gave up, transaction stays unverified", slog.Int("attempts", c.opts.MaxAttempts))
}

func (c *Client) anchorOnce(ctx context.Context, txn domain.Transaction) error {
	fingerprint, err := Fingerprint(txn)
	if err != nil {
		return err
	}

	submitCtx, cancelSubmit := context.WithTimeout(ctx, c.opts.SubmitTimeout)
	blockchainTxHash, err := c.submitter.Submit(submitCtx, txn, fingerprint)
	cancelSubmit()
	if err != nil {
		return err
	}

	confirmCtx, cancelConfirm := context.WithTimeout(ctx, c.opts.ConfirmWindow)
	blockNumber, err := c.submitter.WaitConfirmation(confirmCtx, blockchainTxHash)
	cancelConfirm()
	if err != nil {
		return err
	}

	err = c.marker.MarkAnchored(ctx, txn.TransactionID, blockchainTxHash, blockNumber)
	if err != nil {
		// Conflict means another path anchored it first; that is success here.
		if errors.Is(err, apperrors.ErrConflict) {
			return nil
		}
		return err
	}

	c.logger.Info("Transaction anchored",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("blockchain_tx_hash", blockchainTxHash),
		slog.Int64("block_number", blockNumber),
	)

	if err := c.publisher.Publish(ctx, events.LedgerEvent{
		Name:             events.TransactionAnchored,
		TransactionID:    txn.TransactionID,
		UserID:           txn.UserID,
		Type:             string(txn.Type),
		Amount:           txn.Amount,
		BlockchainTxHash: blockchainTxHash,
		BlockNumber:      blockNumber,
		OccurredAt:       time.Now().UTC(),
	}); err != nil {
		c.logger.Warn("Failed to publish anchored event", slog.String("error", err.Error()))
	}

	return nil
}
