package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Loan represents a row in the loans table.
type Loan struct {
	LoanID         string          `db:"loan_id"`
	UserID         string          `db:"user_id"`
	Principal      decimal.Decimal `db:"principal"`
	DurationMonths int             `db:"duration_months"`
	InterestRate   decimal.Decimal `db:"interest_rate"`
	TotalRepayment decimal.Decimal `db:"total_repayment"`
	MonthlyPayment decimal.Decimal `db:"monthly_payment"`
	Outstanding    decimal.Decimal `db:"outstanding"`
	Reason         string          `db:"reason"`
	Status         string          `db:"status"`
	ApprovedBy     sql.NullString  `db:"approved_by"`
	DisbursedAt    sql.NullTime    `db:"disbursed_at"`
	PaidOffAt      sql.NullTime    `db:"paid_off_at"`
	AuditFields
}

// LoanPayment represents a row in the loan_payments table.
type LoanPayment struct {
	PaymentID string          `db:"payment_id"`
	LoanID    string          `db:"loan_id"`
	Amount    decimal.Decimal `db:"amount"`
	Principal decimal.Decimal `db:"principal"`
	Interest  decimal.Decimal `db:"interest"`
	PaidAt    time.Time       `db:"paid_at"`
	CreatedBy string          `db:"created_by"`
}
