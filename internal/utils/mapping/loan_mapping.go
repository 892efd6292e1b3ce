package mapping

import (
	"database/sql"

	"github.com/sahakari/coop_backend/internal/core/domain"
	"github.com/sahakari/coop_backend/internal/models"
)

// ToModelLoan converts a domain Loan to a model Loan
func ToModelLoan(d domain.Loan) models.Loan {
	m := models.Loan{
		LoanID:         d.LoanID,
		UserID:         d.UserID,
		Principal:      d.Principal,
		DurationMonths: d.DurationMonths,
		InterestRate:   d.InterestRate,
		TotalRepayment: d.TotalRepayment,
		MonthlyPayment: d.MonthlyPayment,
		Outstanding:    d.Outstanding,
		Reason:         d.Reason,
		Status:         string(d.Status),
		AuditFields:    toModelAuditFields(d.AuditFields),
	}
	if d.ApprovedBy != nil {
		m.ApprovedBy = sql.NullString{String: *d.ApprovedBy, Valid: true}
	}
	if d.DisbursedAt != nil {
		m.DisbursedAt = sql.NullTime{Time: *d.DisbursedAt, Valid: true}
	}
	if d.PaidOffAt != nil {
		m.PaidOffAt = sql.NullTime{Time: *d.PaidOffAt, Valid: true}
	}
	return m
}

// ToDomainLoan converts a model Loan to a domain Loan
func ToDomainLoan(m models.Loan) domain.Loan {
	d := domain.Loan{
		LoanID:         m.LoanID,
		UserID:         m.UserID,
		Principal:      m.Principal,
		DurationMonths: m.DurationMonths,
		InterestRate:   m.InterestRate,
		TotalRepayment: m.TotalRepayment,
		MonthlyPayment: m.MonthlyPayment,
		Outstanding:    m.Outstanding,
		Reason:         m.Reason,
		Status:         domain.LoanStatus(m.Status),
		AuditFields:    toDomainAuditFields(m.AuditFields),
	}
	if m.ApprovedBy.Valid {
		d.ApprovedBy = &m.ApprovedBy.String
	}
	if m.DisbursedAt.Valid {
		d.DisbursedAt = &m.DisbursedAt.Time
	}
	if m.PaidOffAt.Valid {
		d.PaidOffAt = &m.PaidOffAt.Time
	}
	return d
}

// ToDomainLoanSlice converts a slice of model Loans to domain Loans
func ToDomainLoanSlice(ms []models.Loan) []domain.Loan {
	ds := make([]domain.Loan, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLoan(m)
	}
	return ds
}

// ToDomainLoanPayment converts a model LoanPayment to a domain LoanPayment
func ToDomainLoanPayment(m models.LoanPayment) domain.LoanPayment {
	return domain.LoanPayment{
		PaymentID: m.PaymentID,
		LoanID:    m.LoanID,
		Amount:    m.Amount,
		Principal: m.Principal,
		Interest:  m.Interest,
		PaidAt:    m.PaidAt,
		CreatedBy: m.CreatedBy,
	}
}
