package export

import (
	"encoding/csv"
	"io"

	"github.com/sahakari/coop_backend/internal/core/domain"
)

func writeCSV(w io.Writer, rows []domain.AuditTransactionRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeaders); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(exportRecord(row)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
