package services

import (
	"context"
	"fmt"

	"github.com/sahakari/coop_backend/internal/apperrors"
	"github.com/sahakari/coop_backend/internal/core/domain"
	portsrepo "github.com/sahakari/coop_backend/internal/core/ports/repositories"
	portssvc "github.com/sahakari/coop_backend/internal/core/ports/services"
	"github.com/sahakari/coop_backend/internal/dto"
	"github.com/sahakari/coop_backend/internal/middleware"
	"github.com/sahakari/coop_backend/internal/utils"
)

const defaultSearchLimit = 50

// userService provides member lookup and authentication.
type userService struct {
	userRepo portsrepo.UserRepositoryFacade
}

// NewUserService creates a new user service.
func NewUserService(userRepo portsrepo.UserRepositoryFacade) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo}
}

// Ensure userService implements the portssvc.UserSvcFacade interface
var _ portssvc.UserSvcFacade = (*userService)(nil)

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", userID, err)
	}
	return user, nil
}

func (s *userService) GetUserRole(ctx context.Context, userID string) (domain.UserRole, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve role for user %s: %w", userID, err)
	}
	if !user.IsActive {
		return "", apperrors.ErrForbidden
	}
	return user.Role, nil
}

func (s *userService) SearchUsers(ctx context.Context, params dto.SearchUsersParams) ([]domain.User, error) {
	limit := params.Limit
	if limit <= 0 || limit > defaultSearchLimit {
		limit = defaultSearchLimit
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	users, err := s.userRepo.SearchUsers(ctx, params.Search, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	return users, nil
}

// AuthenticateUser verifies the phone number and password pair. Failures are
// reported as ErrUnauthorized without distinguishing unknown numbers from bad
// passwords.
func (s *userService) AuthenticateUser(ctx context.Context, phoneNumber, password string) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userRepo.FindUserByPhone(ctx, phoneNumber)
	if err != nil {
		logger.Warn("login attempt for unknown phone number")
		return nil, apperrors.ErrUnauthorized
	}
	if !user.IsActive {
		logger.Warn("login attempt for inactive user", "userID", user.UserID)
		return nil, apperrors.ErrUnauthorized
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		logger.Warn("login attempt with wrong password", "userID", user.UserID)
		return nil, apperrors.ErrUnauthorized
	}
	return user, nil
}
