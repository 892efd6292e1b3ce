package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

// Transaction represents a row in the transactions ledger table.
// The seq column is a bigserial used as a stable tiebreaker when ordering
// by created_at.
type Transaction struct {
	TransactionID    string          `db:"transaction_id"`
	UserID           string          `db:"user_id"`
	LoanID           sql.NullString  `db:"loan_id"`
	Type             string          `db:"type"`
	Amount           decimal.Decimal `db:"amount"`
	Reference        string          `db:"reference"`
	Verified         bool            `db:"verified"`
	BlockchainTxHash sql.NullString  `db:"blockchain_tx_hash"`
	BlockNumber      sql.NullInt64   `db:"block_number"`
	Seq              int64           `db:"seq"`
	AuditFields
}
