package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sahakari/coop_backend/internal/apperrors"
	"github.com/sahakari/coop_backend/internal/core/domain"
	portsrepo "github.com/sahakari/coop_backend/internal/core/ports/repositories"
	"github.com/sahakari/coop_backend/internal/models"
	"github.com/sahakari/coop_backend/internal/utils/mapping"
)

const transactionColumns = `
	transaction_id, user_id, loan_id, type, amount, reference, verified,
	blockchain_tx_hash, block_number, seq,
	created_at, created_by, last_updated_at, last_updated_by`

const insertTransactionQuery = `
	INSERT INTO transactions (
		transaction_id, user_id, loan_id, type, amount, reference, verified,
		created_at, created_by, last_updated_at, last_updated_by
	)
	VALUES ($1, $2, $3, $4, $5, $6, FALSE, $7, $8, $9, $10)
	RETURNING seq;
`

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository for the transaction ledger.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerRepositoryFacade
var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.UserID,
		&m.LoanID,
		&m.Type,
		&m.Amount,
		&m.Reference,
		&m.Verified,
		&m.BlockchainTxHash,
		&m.BlockNumber,
		&m.Seq,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// insertTransactionInTx appends a ledger entry inside an open database
// transaction. Shared by the deposit path here and the loan repository's
// disbursement/repayment paths.
func insertTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) (int64, error) {
	m := mapping.ToModelTransaction(txn)
	var seq int64
	err := tx.QueryRow(ctx, insertTransactionQuery,
		m.TransactionID,
		m.UserID,
		m.LoanID,
		m.Type,
		m.Amount,
		m.Reference,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	).Scan(&seq)
	if err != nil {
		return 0, err
	}
	return seq, nil
}

// SaveDeposit appends a deposit entry and increases the target user's savings
// balance in one database transaction. The user row is locked first, so
// concurrent deposits against the same account serialize and the balance
// always equals the sum of its ledger entries.
func (r *PgxLedgerRepository) SaveDeposit(ctx context.Context, txn domain.Transaction) (*domain.Transaction, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	// Lock the user row for the duration of the transaction
	var exists bool
	err = tx.QueryRow(ctx, `SELECT TRUE FROM users WHERE user_id = $1 FOR UPDATE;`, txn.UserID).Scan(&exists)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to lock user row for deposit", err)
	}

	seq, err := insertTransactionInTx(ctx, tx, txn)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to insert deposit transaction "+txn.TransactionID, err)
	}
	txn.Seq = seq

	_, err = tx.Exec(ctx, `
		UPDATE users
		SET savings_balance = savings_balance + $2, last_updated_at = $3, last_updated_by = $4
		WHERE user_id = $1;
	`, txn.UserID, txn.Amount, txn.CreatedAt, txn.CreatedBy)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to update savings balance for user "+txn.UserID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &txn, nil
}

// FindTransactionByID retrieves a single ledger entry.
func (r *PgxLedgerRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`

	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find transaction by ID "+transactionID, err)
	}

	txn := mapping.ToDomainTransaction(*m)
	return &txn, nil
}

// ListTransactionsByUser returns a user's entries in insertion order (oldest
// first). The seq column breaks ties between entries created at the same
// instant.
func (r *PgxLedgerRepository) ListTransactionsByUser(ctx context.Context, userID string, limit int, offset int) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at ASC, seq ASC
		LIMIT $2 OFFSET $3;
	`

	rows, err := r.Pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list transactions for user "+userID, err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// ListUnverifiedTransactions returns entries not yet anchored, oldest first.
func (r *PgxLedgerRepository) ListUnverifiedTransactions(ctx context.Context, limit int) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE verified = FALSE
		ORDER BY created_at ASC, seq ASC
		LIMIT $1;
	`

	rows, err := r.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list unverified transactions", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

func collectTransactions(rows pgx.Rows) ([]domain.Transaction, error) {
	var ms []models.Transaction
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan transaction row", err)
		}
		ms = append(ms, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating transaction rows", err)
	}
	return mapping.ToDomainTransactionSlice(ms), nil
}

// MarkTransactionAnchored records the anchoring triplet exactly once. The
// WHERE verified = FALSE guard makes a second confirmation a no-op at the
// database level; the follow-up existence check distinguishes "already
// anchored" from "no such transaction".
func (r *PgxLedgerRepository) MarkTransactionAnchored(ctx context.Context, transactionID string, blockchainTxHash string, blockNumber int64) error {
	query := `
		UPDATE transactions
		SET verified = TRUE, blockchain_tx_hash = $2, block_number = $3, last_updated_at = NOW()
		WHERE transaction_id = $1 AND verified = FALSE;
	`

	tag, err := r.Pool.Exec(ctx, query, transactionID, blockchainTxHash, blockNumber)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark transaction anchored "+transactionID, err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var exists bool
	err = r.Pool.QueryRow(ctx, `SELECT TRUE FROM transactions WHERE transaction_id = $1;`, transactionID).Scan(&exists)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return apperrors.NewAppError(500, "failed to check transaction "+transactionID, err)
	}
	return apperrors.ErrConflict
}
