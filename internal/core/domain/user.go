package domain

import "github.com/shopspring/decimal"

// UserRole defines what a member of the cooperative is allowed to do.
type UserRole string

const (
	RoleMember  UserRole = "member"
	RoleManager UserRole = "manager"
	RoleAuditor UserRole = "auditor"
)

// User represents a member of the cooperative in the domain.
type User struct {
	UserID         string          `json:"userID"` // Primary Key (UUID)
	Name           string          `json:"name"`
	PhoneNumber    string          `json:"phoneNumber"`
	Email          string          `json:"email,omitempty"`
	Role           UserRole        `json:"role"`
	SavingsBalance decimal.Decimal `json:"savingsBalance"`
	SharesBalance  decimal.Decimal `json:"sharesBalance"`
	PasswordHash   string          `json:"-"`
	IsActive       bool            `json:"isActive"`
	AuditFields
}
