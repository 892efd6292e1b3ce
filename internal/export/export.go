// Package export serializes audit transaction listings into downloadable
// files. Both formats emit the same rows in the same order as the
// interactive audit listing; only the container differs.
package export

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/sahakari/coop_backend/internal/core/domain"
)

// Format selects the output container.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatExcel Format = "excel"
)

// ParseFormat maps the query parameter value onto a Format, defaulting to excel.
func ParseFormat(raw string) (Format, error) {
	switch raw {
	case "", string(FormatExcel):
		return FormatExcel, nil
	case string(FormatCSV):
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", raw)
	}
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Filename returns the attachment filename, stamped with the given date.
func (f Format) Filename(now time.Time) string {
	ext := "xlsx"
	if f == FormatCSV {
		ext = "csv"
	}
	return fmt.Sprintf("transactions_export_%s.%s", now.Format("2006-01-02"), ext)
}

// WriteTransactions serializes the rows into w using the selected format.
func WriteTransactions(w io.Writer, format Format, rows []domain.AuditTransactionRow) error {
	if format == FormatCSV {
		return writeCSV(w, rows)
	}
	return writeExcel(w, rows)
}

var exportHeaders = []string{
	"Transaction ID", "Date & Time", "Type", "User ID", "User Name", "User Phone",
	"Amount", "Reference", "Loan ID", "Blockchain Verified", "Blockchain Hash", "Block Number",
}

func exportRecord(row domain.AuditTransactionRow) []string {
	loanID := ""
	if row.LoanID != nil {
		loanID = *row.LoanID
	}
	verified := "No"
	if row.Verified {
		verified = "Yes"
	}
	blockchainHash := ""
	if row.BlockchainTxHash != nil {
		blockchainHash = *row.BlockchainTxHash
	}
	blockNumber := ""
	if row.BlockNumber != nil {
		blockNumber = strconv.FormatInt(*row.BlockNumber, 10)
	}
	return []string{
		row.TransactionID,
		row.CreatedAt.Format(time.RFC3339),
		string(row.Type),
		row.UserID,
		row.UserName,
		row.UserPhone,
		row.Amount.StringFixed(2),
		row.Reference,
		loanID,
		verified,
		blockchainHash,
		blockNumber,
	}
}
