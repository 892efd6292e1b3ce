package dto

import (
	"time"

	"github.com/sahakari/coop_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DepositRequest is the payload for recording a savings deposit.
// UserID is honored only for managers; members always deposit to themselves.
type DepositRequest struct {
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	UserID    string          `json:"user_id,omitempty"`
	Reference string          `json:"reference,omitempty"`
}

// TransactionResponse is the API representation of a ledger entry.
type TransactionResponse struct {
	TransactionID    string          `json:"transaction_id"`
	UserID           string          `json:"user_id"`
	LoanID           *string         `json:"loan_id,omitempty"`
	Type             string          `json:"type"`
	Amount           decimal.Decimal `json:"amount"`
	Reference        string          `json:"reference,omitempty"`
	Verified         bool            `json:"verified"`
	BlockchainTxHash *string         `json:"blockchain_tx_hash,omitempty"`
	BlockNumber      *int64          `json:"block_number,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

// ToTransactionResponse converts a domain Transaction to its API representation.
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:    t.TransactionID,
		UserID:           t.UserID,
		LoanID:           t.LoanID,
		Type:             string(t.Type),
		Amount:           t.Amount,
		Reference:        t.Reference,
		Verified:         t.Verified,
		BlockchainTxHash: t.BlockchainTxHash,
		BlockNumber:      t.BlockNumber,
		CreatedAt:        t.CreatedAt,
	}
}

// ToTransactionResponses converts a slice of domain Transactions.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, len(txns))
	for i := range txns {
		out[i] = ToTransactionResponse(&txns[i])
	}
	return out
}

// DepositResponse wraps the recorded entry and the member's new balance.
type DepositResponse struct {
	Transaction TransactionResponse `json:"transaction"`
	NewBalance  decimal.Decimal     `json:"new_balance"`
}
