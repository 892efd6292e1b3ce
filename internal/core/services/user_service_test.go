package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/sahakari/coop_backend/internal/apperrors"
	"github.com/sahakari/coop_backend/internal/core/domain"
	portssvc "github.com/sahakari/coop_backend/internal/core/ports/services"
	"github.com/sahakari/coop_backend/internal/core/services"
	"github.com/sahakari/coop_backend/internal/utils"
)

type UserServiceTestSuite struct {
	suite.Suite
	mockRepo *MockUserRepository
	service  portssvc.UserSvcFacade
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockUserRepository)
	suite.service = services.NewUserService(suite.mockRepo)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_Success() {
	ctx := context.Background()
	hash, err := utils.HashPassword("correct horse")
	suite.Require().NoError(err)

	user := &domain.User{
		UserID:       uuid.NewString(),
		PhoneNumber:  "+9779800000001",
		PasswordHash: hash,
		IsActive:     true,
	}
	suite.mockRepo.On("FindUserByPhone", ctx, user.PhoneNumber).Return(user, nil).Once()

	got, err := suite.service.AuthenticateUser(ctx, user.PhoneNumber, "correct horse")

	suite.Require().NoError(err)
	suite.Equal(user.UserID, got.UserID)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_WrongPassword() {
	ctx := context.Background()
	hash, err := utils.HashPassword("correct horse")
	suite.Require().NoError(err)

	user := &domain.User{
		UserID:       uuid.NewString(),
		PhoneNumber:  "+9779800000001",
		PasswordHash: hash,
		IsActive:     true,
	}
	suite.mockRepo.On("FindUserByPhone", ctx, user.PhoneNumber).Return(user, nil).Once()

	_, err = suite.service.AuthenticateUser(ctx, user.PhoneNumber, "wrong horse")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_UnknownPhone() {
	ctx := context.Background()
	suite.mockRepo.On("FindUserByPhone", ctx, "+9779899999999").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.AuthenticateUser(ctx, "+9779899999999", "whatever")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *UserServiceTestSuite) TestAuthenticateUser_InactiveUser() {
	ctx := context.Background()
	hash, err := utils.HashPassword("pw")
	suite.Require().NoError(err)

	user := &domain.User{
		UserID:       uuid.NewString(),
		PhoneNumber:  "+9779800000002",
		PasswordHash: hash,
		IsActive:     false,
	}
	suite.mockRepo.On("FindUserByPhone", ctx, user.PhoneNumber).Return(user, nil).Once()

	_, err = suite.service.AuthenticateUser(ctx, user.PhoneNumber, "pw")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *UserServiceTestSuite) TestGetUserRole_InactiveForbidden() {
	ctx := context.Background()
	userID := uuid.NewString()
	suite.mockRepo.On("FindUserByID", ctx, userID).Return(&domain.User{
		UserID:   userID,
		Role:     domain.RoleManager,
		IsActive: false,
	}, nil).Once()

	_, err := suite.service.GetUserRole(ctx, userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
