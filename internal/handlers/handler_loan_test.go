package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/sahakari/coop_backend/internal/core/domain"
	portssvc "github.com/sahakari/coop_backend/internal/core/ports/services"
	"github.com/sahakari/coop_backend/internal/dto"
	"github.com/sahakari/coop_backend/internal/handlers"
	"github.com/sahakari/coop_backend/internal/platform/config"
	"github.com/sahakari/coop_backend/internal/utils"
)

// --- Mock LoanService ---
type MockLoanService struct {
	mock.Mock
}

func (m *MockLoanService) RequestLoan(ctx context.Context, req dto.RequestLoanRequest, memberID string) (*domain.Loan, error) {
	args := m.Called(ctx, req, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}
func (m *MockLoanService) CreateDirect(ctx context.Context, req dto.CreateLoanRequest, managerID string) (*domain.Loan, error) {
	args := m.Called(ctx, req, managerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}
func (m *MockLoanService) Decide(ctx context.Context, loanID string, approve bool, managerID string) (*domain.Loan, error) {
	args := m.Called(ctx, loanID, approve, managerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}
func (m *MockLoanService) Close(ctx context.Context, loanID string, managerID string) (*domain.Loan, error) {
	args := m.Called(ctx, loanID, managerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}
func (m *MockLoanService) Repay(ctx context.Context, loanID string, req dto.RepayLoanRequest, actorID string) (*domain.Loan, *domain.Transaction, error) {
	args := m.Called(ctx, loanID, req, actorID)
	var loan *domain.Loan
	if args.Get(0) != nil {
		loan = args.Get(0).(*domain.Loan)
	}
	var txn *domain.Transaction
	if args.Get(1) != nil {
		txn = args.Get(1).(*domain.Transaction)
	}
	return loan, txn, args.Error(2)
}
func (m *MockLoanService) GetLoanDetail(ctx context.Context, loanID string) (*dto.LoanDetailResponse, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LoanDetailResponse), args.Error(1)
}
func (m *MockLoanService) ListForMember(ctx context.Context, memberID string) (*dto.MemberLoansResponse, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.MemberLoansResponse), args.Error(1)
}
func (m *MockLoanService) ListForManager(ctx context.Context) ([]domain.Loan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Loan), args.Error(1)
}

var _ portssvc.LoanSvcFacade = (*MockLoanService)(nil)

// --- Test Suite ---
type LoanHandlerTestSuite struct {
	suite.Suite
	router          *gin.Engine
	mockLoanService *MockLoanService
	mockUserService *MockUserService
	jwtSecret       string
	managerID       string
}

func (suite *LoanHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.managerID = "manager-1"

	suite.mockLoanService = new(MockLoanService)
	suite.mockUserService = new(MockUserService)
	suite.mockUserService.On("GetUserRole", mock.Anything, suite.managerID).Return(domain.RoleManager, nil)

	cfg := &config.Config{JWTSecret: suite.jwtSecret}
	services := &portssvc.ServiceContainer{
		User: suite.mockUserService,
		Loan: suite.mockLoanService,
	}
	handlers.RegisterRoutes(suite.router, cfg, services)
}

func (suite *LoanHandlerTestSuite) generateTestToken(userID string) string {
	token, err := utils.GenerateJWT(userID, suite.jwtSecret, time.Hour, "coop-test")
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return token
}

func (suite *LoanHandlerTestSuite) postStatus(loanID, status string) *httptest.ResponseRecorder {
	payload, err := json.Marshal(dto.UpdateLoanStatusRequest{Status: status})
	suite.Require().NoError(err)

	req := httptest.NewRequest(http.MethodPost, "/loans/"+loanID+"/update_status", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(suite.managerID))
	rec := httptest.NewRecorder()
	suite.router.ServeHTTP(rec, req)
	return rec
}

func sampleLoan(status domain.LoanStatus) *domain.Loan {
	return &domain.Loan{
		LoanID:         "loan-1",
		UserID:         "member-1",
		Principal:      decimal.RequireFromString("10000"),
		DurationMonths: 12,
		InterestRate:   decimal.RequireFromString("10"),
		TotalRepayment: decimal.RequireFromString("11000"),
		MonthlyPayment: decimal.RequireFromString("916.67"),
		Outstanding:    decimal.RequireFromString("11000"),
		Status:         status,
	}
}

// The decision payload uses the capitalized status names; the response echoes
// them back the same way.
func (suite *LoanHandlerTestSuite) TestUpdateStatusApproved() {
	suite.mockLoanService.On("Decide", mock.Anything, "loan-1", true, suite.managerID).
		Return(sampleLoan(domain.LoanApproved), nil).Once()

	rec := suite.postStatus("loan-1", "Approved")

	suite.Equal(http.StatusOK, rec.Code)

	var resp dto.LoanResponse
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	suite.Equal("Approved", resp.Status)
	suite.mockLoanService.AssertExpectations(suite.T())
}

func (suite *LoanHandlerTestSuite) TestUpdateStatusRejected() {
	suite.mockLoanService.On("Decide", mock.Anything, "loan-1", false, suite.managerID).
		Return(sampleLoan(domain.LoanRejected), nil).Once()

	rec := suite.postStatus("loan-1", "Rejected")

	suite.Equal(http.StatusOK, rec.Code)
	suite.mockLoanService.AssertExpectations(suite.T())
}

func (suite *LoanHandlerTestSuite) TestUpdateStatusClosed() {
	suite.mockLoanService.On("Close", mock.Anything, "loan-1", suite.managerID).
		Return(sampleLoan(domain.LoanClosed), nil).Once()

	rec := suite.postStatus("loan-1", "Closed")

	suite.Equal(http.StatusOK, rec.Code)
	suite.mockLoanService.AssertExpectations(suite.T())
}

func (suite *LoanHandlerTestSuite) TestUpdateStatusAcceptsAnyCase() {
	suite.mockLoanService.On("Decide", mock.Anything, "loan-1", true, suite.managerID).
		Return(sampleLoan(domain.LoanApproved), nil).Twice()

	for _, status := range []string{"approved", "APPROVED"} {
		rec := suite.postStatus("loan-1", status)
		suite.Equal(http.StatusOK, rec.Code, "status %q", status)
	}
	suite.mockLoanService.AssertExpectations(suite.T())
}

func (suite *LoanHandlerTestSuite) TestUpdateStatusUnknownValue() {
	rec := suite.postStatus("loan-1", "Paid")

	suite.Equal(http.StatusBadRequest, rec.Code)

	var body map[string]string
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	suite.Equal("Status must be Approved, Rejected or Closed", body["error"])
	suite.mockLoanService.AssertNotCalled(suite.T(), "Decide", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockLoanService.AssertNotCalled(suite.T(), "Close", mock.Anything, mock.Anything, mock.Anything)
}

func TestLoanHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(LoanHandlerTestSuite))
}
