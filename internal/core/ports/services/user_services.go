package services

import (
	"context"

	"github.com/sahakari/coop_backend/internal/core/domain"
	"github.com/sahakari/coop_backend/internal/dto"
)

// UserReaderSvc defines read operations for user data
type UserReaderSvc interface {
	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// GetUserRole retrieves just the role of a user, used by the role middleware.
	GetUserRole(ctx context.Context, userID string) (domain.UserRole, error)

	// SearchUsers retrieves active users matching the search term.
	SearchUsers(ctx context.Context, params dto.SearchUsersParams) ([]domain.User, error)
}

// UserAuthSvc defines operations for user authentication
type UserAuthSvc interface {
	// AuthenticateUser authenticates a user with phone number and password.
	AuthenticateUser(ctx context.Context, phoneNumber, password string) (*domain.User, error)
}

// UserSvcFacade combines all user-related service interfaces
type UserSvcFacade interface {
	UserReaderSvc
	UserAuthSvc
}
