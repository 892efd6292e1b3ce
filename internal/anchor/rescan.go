package anchor

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/sahakari/coop_backend/internal/core/domain"
)

// rescanBatchSize caps how many unverified entries one sweep requeues.
const rescanBatchSize = 100

// UnverifiedLister supplies ledger entries that still need anchoring.
// Implemented by the ledger service.
type UnverifiedLister interface {
	ListUnverified(ctx context.Context, limit int) ([]domain.Transaction, error)
}

// Rescanner periodically re-enqueues unverified ledger entries, covering
// jobs that were dropped on a full queue or exhausted their retries.
type Rescanner struct {
	client *Client
	lister UnverifiedLister
	logger *slog.Logger
	cron   *cron.Cron
}

// NewRescanner schedules a sweep on the given cron expression (@every
// shorthand accepted).
func NewRescanner(client *Client, lister UnverifiedLister, logger *slog.Logger, spec string) (*Rescanner, error) {
	r := &Rescanner{
		client: client,
		lister: lister,
		logger: logger,
		cron:   cron.New(),
	}
	if _, err := r.cron.AddFunc(spec, r.sweep); err != nil {
		return nil, err
	}
	return r, nil
}

// Start begins the schedule. No-op when anchoring is disabled.
func (r *Rescanner) Start() {
	if !r.client.Enabled() {
		return
	}
	r.cron.Start()
}

// Stop halts the schedule and waits for a running sweep to finish.
func (r *Rescanner) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
}

func (r *Rescanner) sweep() {
	ctx := context.Background()

	txns, err := r.lister.ListUnverified(ctx, rescanBatchSize)
	if err != nil {
		r.logger.Error("Anchor rescan failed to list unverified transactions", slog.String("error", err.Error()))
		return
	}
	if len(txns) == 0 {
		return
	}

	requeued := 0
	for _, txn := range txns {
		if r.client.Enqueue(txn) {
			requeued++
		}
	}
	r.logger.Info("Anchor rescan requeued unverified transactions",
		slog.Int("found", len(txns)),
		slog.Int("requeued", requeued),
	)
}
