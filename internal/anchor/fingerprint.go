package anchor

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/sahakari/coop_backend/internal/core/domain"
)

// Fingerprint computes the sha256 digest of a ledger entry's immutable fields,
// hex encoded. The digest is what gets anchored on chain, so it must only
// cover fields that never change after the entry is written. Keys are sorted
// by json.Marshal, which keeps the digest canonical.
func Fingerprint(txn domain.Transaction) (string, error) {
	account := txn.UserID
	loanID := ""
	if txn.LoanID != nil {
		loanID = *txn.LoanID
	}

	data := map[string]interface{}{
		"transaction_id": txn.TransactionID,
		"type":           string(txn.Type),
		"account":        account,
		"loan_id":        loanID,
		"amount":         txn.Amount.String(),
		"reference":      txn.Reference,
		"timestamp":      txn.CreatedAt.UTC().Unix(),
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return "", err
	}

	hash := sha256.Sum256(jsonData)
	return hex.EncodeToString(hash[:]), nil
}
