package models

import "github.com/shopspring/decimal"

// User represents a row in the users table.
type User struct {
	UserID         string          `db:"user_id"`
	Name           string          `db:"name"`
	PhoneNumber    string          `db:"phone_number"`
	Email          string          `db:"email"`
	Role           string          `db:"role"`
	SavingsBalance decimal.Decimal `db:"savings_balance"`
	SharesBalance  decimal.Decimal `db:"shares_balance"`
	PasswordHash   string          `db:"password_hash"`
	IsActive       bool            `db:"is_active"`
	AuditFields
}
