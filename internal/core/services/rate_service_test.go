package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/sahakari/coop_backend/internal/apperrors"
	"github.com/sahakari/coop_backend/internal/core/domain"
	portssvc "github.com/sahakari/coop_backend/internal/core/ports/services"
	"github.com/sahakari/coop_backend/internal/core/services"
	"github.com/sahakari/coop_backend/internal/dto"
)

type RateServiceTestSuite struct {
	suite.Suite
	mockRepo *MockRateRepository
	service  portssvc.RateSvcFacade
}

func (suite *RateServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockRateRepository)
	suite.service = services.NewRateService(suite.mockRepo)
}

func (suite *RateServiceTestSuite) TestSetRate_Success() {
	ctx := context.Background()
	managerID := uuid.NewString()

	suite.mockRepo.On("UpsertRate", ctx, mock.MatchedBy(func(r domain.InterestRate) bool {
		return r.DurationMonths == 12 &&
			r.Rate.Equal(decimal.RequireFromString("10.5")) &&
			r.CreatedBy == managerID
	})).Return(&domain.InterestRate{
		RateID:         uuid.NewString(),
		DurationMonths: 12,
		Rate:           decimal.RequireFromString("10.5"),
	}, nil).Once()

	rate, err := suite.service.SetRate(ctx, dto.SetRateRequest{
		DurationMonths: 12,
		Rate:           decimal.RequireFromString("10.5"),
	}, managerID)

	suite.Require().NoError(err)
	suite.Equal(12, rate.DurationMonths)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *RateServiceTestSuite) TestSetRate_Validation() {
	ctx := context.Background()

	_, err := suite.service.SetRate(ctx, dto.SetRateRequest{DurationMonths: 0, Rate: decimal.RequireFromString("10")}, uuid.NewString())
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.SetRate(ctx, dto.SetRateRequest{DurationMonths: 12, Rate: decimal.RequireFromString("-1")}, uuid.NewString())
	suite.ErrorIs(err, apperrors.ErrValidation)

	suite.mockRepo.AssertNotCalled(suite.T(), "UpsertRate")
}

func (suite *RateServiceTestSuite) TestResolveRate_MissingDuration() {
	ctx := context.Background()
	suite.mockRepo.On("FindRateByDuration", ctx, 7).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.ResolveRate(ctx, 7)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNoRateForDuration)
}

func TestRateServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RateServiceTestSuite))
}
