package dto

import (
	"github.com/sahakari/coop_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// UserResponse is the API representation of a member.
type UserResponse struct {
	UserID         string          `json:"user_id"`
	Name           string          `json:"name"`
	PhoneNumber    string          `json:"phone_number"`
	Email          string          `json:"email,omitempty"`
	Role           string          `json:"role"`
	SavingsBalance decimal.Decimal `json:"savings_balance"`
	SharesBalance  decimal.Decimal `json:"shares_balance"`
	IsActive       bool            `json:"is_active"`
}

// ToUserResponse converts a domain User to its API representation.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID:         u.UserID,
		Name:           u.Name,
		PhoneNumber:    u.PhoneNumber,
		Email:          u.Email,
		Role:           string(u.Role),
		SavingsBalance: u.SavingsBalance,
		SharesBalance:  u.SharesBalance,
		IsActive:       u.IsActive,
	}
}

// ToUserResponses converts a slice of domain Users.
func ToUserResponses(users []domain.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = ToUserResponse(&users[i])
	}
	return out
}

// SearchUsersParams carries the query parameters of the user search endpoint.
type SearchUsersParams struct {
	Search string `form:"search"`
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
}
