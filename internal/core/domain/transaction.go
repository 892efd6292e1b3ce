package domain

import "github.com/shopspring/decimal"

// TransactionType distinguishes the three kinds of ledger movements.
type TransactionType string

const (
	Deposit          TransactionType = "deposit"
	LoanDisbursement TransactionType = "loan_disbursement"
	LoanRepayment    TransactionType = "loan_repayment"
)

// Transaction is a single immutable entry in the append-only ledger.
// Once written, its amount and type never change; only the anchoring
// fields (Verified, BlockchainTxHash, BlockNumber) flip after on-chain
// confirmation.
type Transaction struct {
	TransactionID    string          `json:"transactionID"`
	UserID           string          `json:"userID"`
	LoanID           *string         `json:"loanID,omitempty"`
	Type             TransactionType `json:"type"`
	Amount           decimal.Decimal `json:"amount"`
	Reference        string          `json:"reference,omitempty"`
	Verified         bool            `json:"verified"`
	BlockchainTxHash *string         `json:"blockchainTxHash,omitempty"`
	BlockNumber      *int64          `json:"blockNumber,omitempty"`
	Seq              int64           `json:"-"` // insertion order tiebreaker, assigned by the database
	AuditFields
}
