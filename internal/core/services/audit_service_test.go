package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/sahakari/coop_backend/internal/apperrors"
	"github.com/sahakari/coop_backend/internal/core/domain"
	portsrepo "github.com/sahakari/coop_backend/internal/core/ports/repositories"
	portssvc "github.com/sahakari/coop_backend/internal/core/ports/services"
	"github.com/sahakari/coop_backend/internal/core/services"
	"github.com/sahakari/coop_backend/internal/dto"
	"github.com/sahakari/coop_backend/internal/platform/config"
)

type AuditServiceTestSuite struct {
	suite.Suite
	mockRepo *MockAuditRepository
	service  portssvc.AuditSvcFacade
}

func (suite *AuditServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAuditRepository)
	suite.service = services.NewAuditService(suite.mockRepo, &config.Config{
		OperationalCosts: decimal.RequireFromString("200"),
	})
}

func (suite *AuditServiceTestSuite) TestGetSummary_ProfitNetsOperationalCosts() {
	ctx := context.Background()
	suite.mockRepo.On("GetSummaryTotals", ctx).Return(&domain.AuditSummary{
		TotalInterestEarned: decimal.RequireFromString("750"),
	}, nil).Once()

	summary, err := suite.service.GetSummary(ctx)

	suite.Require().NoError(err)
	suite.True(summary.TotalProfit.Equal(decimal.RequireFromString("550")), "profit %s", summary.TotalProfit)
}

func (suite *AuditServiceTestSuite) TestGetSummary_ProfitCanBeNegative() {
	ctx := context.Background()
	suite.mockRepo.On("GetSummaryTotals", ctx).Return(&domain.AuditSummary{
		TotalInterestEarned: decimal.RequireFromString("50"),
	}, nil).Once()

	summary, err := suite.service.GetSummary(ctx)

	suite.Require().NoError(err)
	suite.True(summary.TotalProfit.Equal(decimal.RequireFromString("-150")))
}

func (suite *AuditServiceTestSuite) TestGetTransactions_TypeFilter() {
	ctx := context.Background()

	suite.mockRepo.On("ListTransactions", ctx, portsrepo.TransactionFilter{
		Type:  typePtr(domain.Deposit),
		Limit: 500,
	}).Return([]domain.AuditTransactionRow{}, nil).Once()

	_, err := suite.service.GetTransactions(ctx, dto.AuditTransactionsParams{Type: "deposit"})
	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AuditServiceTestSuite) TestGetTransactions_RejectsUnknownType() {
	ctx := context.Background()

	_, err := suite.service.GetTransactions(ctx, dto.AuditTransactionsParams{Type: "withdrawal"})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "ListTransactions")
}

func typePtr(t domain.TransactionType) *domain.TransactionType {
	return &t
}

func TestAuditServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuditServiceTestSuite))
}
