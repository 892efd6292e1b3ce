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

type LoanServiceTestSuite struct {
	suite.Suite
	mockLoanRepo *MockLoanRepository
	mockUserRepo *MockUserRepository
	mockRateRepo *MockRateRepository
	enqueuer     *fakeEnqueuer
	publisher    *capturePublisher
	service      portssvc.LoanSvcFacade
}

func (suite *LoanServiceTestSuite) SetupTest() {
	suite.mockLoanRepo = new(MockLoanRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockRateRepo = new(MockRateRepository)
	suite.enqueuer = newFakeEnqueuer()
	suite.publisher = &capturePublisher{}

	rateSvc := services.NewRateService(suite.mockRateRepo)
	suite.service = services.NewLoanService(suite.mockLoanRepo, suite.mockUserRepo, rateSvc, suite.enqueuer, suite.publisher)
}

func (suite *LoanServiceTestSuite) expectRate(months int, rate string) {
	suite.mockRateRepo.On("FindRateByDuration", mock.Anything, months).Return(&domain.InterestRate{
		RateID:         uuid.NewString(),
		DurationMonths: months,
		Rate:           decimal.RequireFromString(rate),
	}, nil)
}

func (suite *LoanServiceTestSuite) TestRequestLoan_Success() {
	ctx := context.Background()
	memberID := uuid.NewString()
	suite.expectRate(12, "10")

	suite.mockLoanRepo.On("SaveLoan", ctx, mock.MatchedBy(func(l domain.Loan) bool {
		return l.UserID == memberID &&
			l.Status == domain.LoanRequested &&
			l.TotalRepayment.Equal(decimal.RequireFromString("11000")) &&
			l.MonthlyPayment.Equal(decimal.RequireFromString("916.67")) &&
			l.Outstanding.Equal(l.TotalRepayment) &&
			l.InterestRate.Equal(decimal.RequireFromString("10"))
	})).Return(nil).Once()

	loan, err := suite.service.RequestLoan(ctx, dto.RequestLoanRequest{
		Amount:         decimal.RequireFromString("10000"),
		DurationMonths: 12,
		Reason:         "business stock purchase",
	}, memberID)

	suite.Require().NoError(err)
	suite.Require().NotNil(loan)
	suite.Equal(domain.LoanRequested, loan.Status)
	suite.True(loan.Outstanding.Equal(decimal.RequireFromString("11000")))
	suite.mockLoanRepo.AssertExpectations(suite.T())
}

func (suite *LoanServiceTestSuite) TestRequestLoan_ValidationFailures() {
	ctx := context.Background()
	memberID := uuid.NewString()

	cases := []dto.RequestLoanRequest{
		{Amount: decimal.RequireFromString("-5"), DurationMonths: 12, Reason: "valid reason"},
		{Amount: decimal.RequireFromString("100.555"), DurationMonths: 12, Reason: "valid reason"},
		{Amount: decimal.RequireFromString("100"), DurationMonths: 0, Reason: "valid reason"},
		{Amount: decimal.RequireFromString("100"), DurationMonths: 361, Reason: "valid reason"},
		{Amount: decimal.RequireFromString("100"), DurationMonths: 12, Reason: "ab"},
	}
	for _, req := range cases {
		_, err := suite.service.RequestLoan(ctx, req, memberID)
		suite.Require().Error(err)
		suite.ErrorIs(err, apperrors.ErrValidation)
	}
	suite.mockLoanRepo.AssertNotCalled(suite.T(), "SaveLoan")
}

func (suite *LoanServiceTestSuite) TestRequestLoan_NoRateForDuration() {
	ctx := context.Background()
	suite.mockRateRepo.On("FindRateByDuration", mock.Anything, 9).Return(nil, apperrors.ErrNotFound)

	_, err := suite.service.RequestLoan(ctx, dto.RequestLoanRequest{
		Amount:         decimal.RequireFromString("100"),
		DurationMonths: 9,
		Reason:         "new sewing machine",
	}, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNoRateForDuration)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LoanServiceTestSuite) TestDecide_ApproveDisbursesAndEnqueues() {
	ctx := context.Background()
	managerID := uuid.NewString()
	loanID := uuid.NewString()
	memberID := uuid.NewString()

	requested := &domain.Loan{
		LoanID:    loanID,
		UserID:    memberID,
		Principal: decimal.RequireFromString("10000"),
		Status:    domain.LoanRequested,
	}
	approved := *requested
	approved.Status = domain.LoanApproved

	suite.mockLoanRepo.On("FindLoanByID", ctx, loanID).Return(requested, nil).Once()
	suite.mockLoanRepo.On("DisburseLoan", ctx, loanID, managerID, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.Type == domain.LoanDisbursement &&
			txn.UserID == memberID &&
			txn.LoanID != nil && *txn.LoanID == loanID &&
			txn.Amount.Equal(requested.Principal)
	}), mock.Anything).Return(&approved, nil).Once()

	loan, err := suite.service.Decide(ctx, loanID, true, managerID)

	suite.Require().NoError(err)
	suite.Equal(domain.LoanApproved, loan.Status)
	suite.Len(suite.enqueuer.queuedIDs(), 1)
	suite.Require().Len(suite.publisher.published(), 1)
	suite.Equal(string(domain.LoanDisbursement), suite.publisher.published()[0].Type)
	suite.mockLoanRepo.AssertExpectations(suite.T())
}

func (suite *LoanServiceTestSuite) TestDecide_Reject() {
	ctx := context.Background()
	managerID := uuid.NewString()
	loanID := uuid.NewString()

	rejected := &domain.Loan{LoanID: loanID, Status: domain.LoanRejected}
	suite.mockLoanRepo.On("RejectLoan", ctx, loanID, managerID, mock.Anything).Return(rejected, nil).Once()

	loan, err := suite.service.Decide(ctx, loanID, false, managerID)

	suite.Require().NoError(err)
	suite.Equal(domain.LoanRejected, loan.Status)
	suite.Empty(suite.enqueuer.queuedIDs())
	suite.mockLoanRepo.AssertNotCalled(suite.T(), "DisburseLoan")
}

func (suite *LoanServiceTestSuite) TestDecide_ConflictPropagates() {
	ctx := context.Background()
	loanID := uuid.NewString()

	approved := &domain.Loan{LoanID: loanID, Status: domain.LoanApproved, Principal: decimal.New(1, 2)}
	suite.mockLoanRepo.On("FindLoanByID", ctx, loanID).Return(approved, nil).Once()
	suite.mockLoanRepo.On("DisburseLoan", ctx, loanID, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, apperrors.ErrConflict).Once()

	_, err := suite.service.Decide(ctx, loanID, true, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Empty(suite.enqueuer.queuedIDs())
}

func (suite *LoanServiceTestSuite) TestRepay_Success() {
	ctx := context.Background()
	loanID := uuid.NewString()
	actorID := uuid.NewString()
	amount := decimal.RequireFromString("500")

	after := &domain.Loan{LoanID: loanID, Status: domain.LoanApproved, Outstanding: decimal.RequireFromString("10500")}
	txn := &domain.Transaction{TransactionID: uuid.NewString(), Type: domain.LoanRepayment, Amount: amount}

	suite.mockLoanRepo.On("RepayLoan", ctx, loanID, amount, actorID, mock.Anything).Return(after, txn, nil).Once()

	loan, got, err := suite.service.Repay(ctx, loanID, dto.RepayLoanRequest{Amount: amount}, actorID)

	suite.Require().NoError(err)
	suite.Equal(after.LoanID, loan.LoanID)
	suite.Equal(txn.TransactionID, got.TransactionID)
	suite.Equal([]string{txn.TransactionID}, suite.enqueuer.queuedIDs())
	suite.Require().Len(suite.publisher.published(), 1)
}

func (suite *LoanServiceTestSuite) TestRepay_RejectsInvalidAmounts() {
	ctx := context.Background()

	_, _, err := suite.service.Repay(ctx, uuid.NewString(), dto.RepayLoanRequest{Amount: decimal.Zero}, uuid.NewString())
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, _, err = suite.service.Repay(ctx, uuid.NewString(), dto.RepayLoanRequest{Amount: decimal.RequireFromString("10.009")}, uuid.NewString())
	suite.ErrorIs(err, apperrors.ErrValidation)

	suite.mockLoanRepo.AssertNotCalled(suite.T(), "RepayLoan")
}

func (suite *LoanServiceTestSuite) TestRepay_OverRepaymentPropagates() {
	ctx := context.Background()
	loanID := uuid.NewString()

	suite.mockLoanRepo.On("RepayLoan", ctx, loanID, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, nil, apperrors.ErrOverRepayment).Once()

	_, _, err := suite.service.Repay(ctx, loanID, dto.RepayLoanRequest{Amount: decimal.RequireFromString("99999")}, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrOverRepayment)
	suite.Empty(suite.enqueuer.queuedIDs())
}

func (suite *LoanServiceTestSuite) TestListForMember_Aggregates() {
	ctx := context.Background()
	memberID := uuid.NewString()

	loans := []domain.Loan{
		{LoanID: uuid.NewString(), Status: domain.LoanApproved, Outstanding: decimal.RequireFromString("5000"), MonthlyPayment: decimal.RequireFromString("450")},
		{LoanID: uuid.NewString(), Status: domain.LoanApproved, Outstanding: decimal.RequireFromString("1200.50"), MonthlyPayment: decimal.RequireFromString("100.25")},
		{LoanID: uuid.NewString(), Status: domain.LoanClosed, Outstanding: decimal.Zero, MonthlyPayment: decimal.RequireFromString("99")},
		{LoanID: uuid.NewString(), Status: domain.LoanRequested, Outstanding: decimal.RequireFromString("777"), MonthlyPayment: decimal.RequireFromString("77")},
	}
	suite.mockLoanRepo.On("ListLoansByUser", ctx, memberID).Return(loans, nil).Once()

	resp, err := suite.service.ListForMember(ctx, memberID)

	suite.Require().NoError(err)
	suite.Len(resp.Loans, 4)
	suite.True(resp.TotalDue.Equal(decimal.RequireFromString("6200.50")), "total due %s", resp.TotalDue)
	suite.True(resp.MonthlyPayments.Equal(decimal.RequireFromString("550.25")), "monthly %s", resp.MonthlyPayments)
}

func (suite *LoanServiceTestSuite) TestCreateDirect_InactiveBorrower() {
	ctx := context.Background()
	borrowerID := uuid.NewString()

	suite.mockUserRepo.On("FindUserByID", ctx, borrowerID).Return(&domain.User{
		UserID:   borrowerID,
		IsActive: false,
	}, nil).Once()

	_, err := suite.service.CreateDirect(ctx, dto.CreateLoanRequest{
		UserID:         borrowerID,
		Amount:         decimal.RequireFromString("1000"),
		DurationMonths: 6,
		Reason:         "school fees",
	}, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockLoanRepo.AssertNotCalled(suite.T(), "SaveLoan")
	suite.mockLoanRepo.AssertNotCalled(suite.T(), "SaveDisbursedLoan")
}

func (suite *LoanServiceTestSuite) TestCreateDirect_SavesLoanAndDisbursementTogether() {
	ctx := context.Background()
	borrowerID := uuid.NewString()
	managerID := uuid.NewString()
	suite.expectRate(12, "10")

	suite.mockUserRepo.On("FindUserByID", ctx, borrowerID).Return(&domain.User{
		UserID:   borrowerID,
		IsActive: true,
	}, nil).Once()

	var recordedTxnID string
	suite.mockLoanRepo.On("SaveDisbursedLoan", ctx,
		mock.MatchedBy(func(l domain.Loan) bool {
			return l.UserID == borrowerID &&
				l.Status == domain.LoanApproved &&
				l.ApprovedBy != nil && *l.ApprovedBy == managerID &&
				l.DisbursedAt != nil &&
				l.TotalRepayment.Equal(decimal.RequireFromString("11000")) &&
				l.Outstanding.Equal(l.TotalRepayment)
		}),
		mock.MatchedBy(func(txn domain.Transaction) bool {
			recordedTxnID = txn.TransactionID
			return txn.UserID == borrowerID &&
				txn.Type == domain.LoanDisbursement &&
				txn.Amount.Equal(decimal.RequireFromString("10000")) &&
				txn.LoanID != nil
		}),
	).Return(nil).Once()

	loan, err := suite.service.CreateDirect(ctx, dto.CreateLoanRequest{
		UserID:         borrowerID,
		Amount:         decimal.RequireFromString("10000"),
		DurationMonths: 12,
		Reason:         "equipment purchase",
	}, managerID)

	suite.Require().NoError(err)
	suite.Require().NotNil(loan)
	suite.Equal(domain.LoanApproved, loan.Status)

	// Loan and disbursement go through one repository call; the two-step
	// request-then-disburse path is not used.
	suite.mockLoanRepo.AssertNotCalled(suite.T(), "SaveLoan")
	suite.mockLoanRepo.AssertNotCalled(suite.T(), "DisburseLoan")
	suite.mockLoanRepo.AssertExpectations(suite.T())

	suite.Contains(suite.enqueuer.queuedIDs(), recordedTxnID)
	published := suite.publisher.published()
	suite.Require().Len(published, 1)
	suite.Equal(recordedTxnID, published[0].TransactionID)
}

func (suite *LoanServiceTestSuite) TestCreateDirect_WriteFailureLeavesNothingBehind() {
	ctx := context.Background()
	borrowerID := uuid.NewString()
	suite.expectRate(6, "8")

	suite.mockUserRepo.On("FindUserByID", ctx, borrowerID).Return(&domain.User{
		UserID:   borrowerID,
		IsActive: true,
	}, nil).Once()
	suite.mockLoanRepo.On("SaveDisbursedLoan", ctx, mock.Anything, mock.Anything).
		Return(apperrors.NewAppError(500, "insert failed", nil)).Once()

	_, err := suite.service.CreateDirect(ctx, dto.CreateLoanRequest{
		UserID:         borrowerID,
		Amount:         decimal.RequireFromString("1000"),
		DurationMonths: 6,
		Reason:         "school fees",
	}, uuid.NewString())

	suite.Require().Error(err)
	suite.mockLoanRepo.AssertNotCalled(suite.T(), "SaveLoan")
	suite.mockLoanRepo.AssertNotCalled(suite.T(), "DisburseLoan")
	suite.Empty(suite.enqueuer.queuedIDs())
	suite.Empty(suite.publisher.published())
}

func TestLoanServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LoanServiceTestSuite))
}
