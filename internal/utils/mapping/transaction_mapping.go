package mapping

import (
	"database/sql"

	"github.com/sahakari/coop_backend/internal/core/domain"
	"github.com/sahakari/coop_backend/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	m := models.Transaction{
		TransactionID: d.TransactionID,
		UserID:        d.UserID,
		Type:          string(d.Type),
		Amount:        d.Amount,
		Reference:     d.Reference,
		Verified:      d.Verified,
		Seq:           d.Seq,
		AuditFields:   toModelAuditFields(d.AuditFields),
	}
	if d.LoanID != nil {
		m.LoanID = sql.NullString{String: *d.LoanID, Valid: true}
	}
	if d.BlockchainTxHash != nil {
		m.BlockchainTxHash = sql.NullString{String: *d.BlockchainTxHash, Valid: true}
	}
	if d.BlockNumber != nil {
		m.BlockNumber = sql.NullInt64{Int64: *d.BlockNumber, Valid: true}
	}
	return m
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	d := domain.Transaction{
		TransactionID: m.TransactionID,
		UserID:        m.UserID,
		Type:          domain.TransactionType(m.Type),
		Amount:        m.Amount,
		Reference:     m.Reference,
		Verified:      m.Verified,
		Seq:           m.Seq,
		AuditFields:   toDomainAuditFields(m.AuditFields),
	}
	if m.LoanID.Valid {
		d.LoanID = &m.LoanID.String
	}
	if m.BlockchainTxHash.Valid {
		d.BlockchainTxHash = &m.BlockchainTxHash.String
	}
	if m.BlockNumber.Valid {
		d.BlockNumber = &m.BlockNumber.Int64
	}
	return d
}

// ToDomainTransactionSlice converts a slice of model Transactions to domain Transactions
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}
