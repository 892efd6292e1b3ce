package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sahakari/coop_backend/internal/apperrors"
	"github.com/sahakari/coop_backend/internal/core/domain"
	portsrepo "github.com/sahakari/coop_backend/internal/core/ports/repositories"
	portssvc "github.com/sahakari/coop_backend/internal/core/ports/services"
	"github.com/sahakari/coop_backend/internal/dto"
	"github.com/sahakari/coop_backend/internal/events"
	"github.com/sahakari/coop_backend/internal/middleware"
	"github.com/sahakari/coop_backend/internal/utils/accounting"
)

const (
	minLoanDurationMonths = 1
	maxLoanDurationMonths = 360
	minLoanReasonLength   = 4
)

// loanService provides the loan lifecycle operations.
type loanService struct {
	loanRepo  portsrepo.LoanRepositoryFacade
	userRepo  portsrepo.UserRepositoryFacade
	rateSvc   portssvc.RateSvcFacade
	anchor    AnchorEnqueuer
	publisher events.Publisher
}

// NewLoanService creates a new loan service. anchor may be nil when anchoring
// is disabled.
func NewLoanService(loanRepo portsrepo.LoanRepositoryFacade, userRepo portsrepo.UserRepositoryFacade, rateSvc portssvc.RateSvcFacade, anchor AnchorEnqueuer, publisher events.Publisher) portssvc.LoanSvcFacade {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &loanService{
		loanRepo:  loanRepo,
		userRepo:  userRepo,
		rateSvc:   rateSvc,
		anchor:    anchor,
		publisher: publisher,
	}
}

// Ensure loanService implements the portssvc.LoanSvcFacade interface
var _ portssvc.LoanSvcFacade = (*loanService)(nil)

func validateLoanInput(amount decimal.Decimal, durationMonths int, reason string) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: loan amount must be positive", apperrors.ErrValidation)
	}
	if !accounting.HasValidScale(amount) {
		return fmt.Errorf("%w: loan amount has more than two decimal places", apperrors.ErrValidation)
	}
	if durationMonths < minLoanDurationMonths || durationMonths > maxLoanDurationMonths {
		return fmt.Errorf("%w: loan duration must be between %d and %d months", apperrors.ErrValidation, minLoanDurationMonths, maxLoanDurationMonths)
	}
	if len(strings.TrimSpace(reason)) < minLoanReasonLength {
		return fmt.Errorf("%w: loan reason must be at least %d characters", apperrors.ErrValidation, minLoanReasonLength)
	}
	return nil
}

// buildLoan assembles a loan in the requested state, freezing the interest
// rate in effect at creation time.
func (s *loanService) buildLoan(ctx context.Context, userID string, amount decimal.Decimal, durationMonths int, reason string, creatorID string, now time.Time) (*domain.Loan, error) {
	rate, err := s.rateSvc.ResolveRate(ctx, durationMonths)
	if err != nil {
		return nil, err
	}

	total := accounting.ComputeTotalRepayment(amount, rate.Rate, durationMonths)
	loan := domain.Loan{
		LoanID:         uuid.NewString(),
		UserID:         userID,
		Principal:      amount,
		DurationMonths: durationMonths,
		InterestRate:   rate.Rate,
		TotalRepayment: total,
		MonthlyPayment: accounting.ComputeMonthlyPayment(total, durationMonths),
		Outstanding:    total,
		Reason:         strings.TrimSpace(reason),
		Status:         domain.LoanRequested,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}
	return &loan, nil
}

// RequestLoan creates a loan in the requested state for the calling member.
func (s *loanService) RequestLoan(ctx context.Context, req dto.RequestLoanRequest, memberID string) (*domain.Loan, error) {
	if err := validateLoanInput(req.Amount, req.DurationMonths, req.Reason); err != nil {
		return nil, err
	}

	loan, err := s.buildLoan(ctx, memberID, req.Amount, req.DurationMonths, req.Reason, memberID, time.Now())
	if err != nil {
		return nil, err
	}
	if err := s.loanRepo.SaveLoan(ctx, *loan); err != nil {
		return nil, fmt.Errorf("failed to save loan request: %w", err)
	}
	return loan, nil
}

// CreateDirect creates a loan for a member and disburses it immediately.
func (s *loanService) CreateDirect(ctx context.Context, req dto.CreateLoanRequest, managerID string) (*domain.Loan, error) {
	if err := validateLoanInput(req.Amount, req.DurationMonths, req.Reason); err != nil {
		return nil, err
	}

	borrower, err := s.userRepo.FindUserByID(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load borrower %s: %w", req.UserID, err)
	}
	if !borrower.IsActive {
		return nil, fmt.Errorf("%w: user %s is inactive", apperrors.ErrValidation, req.UserID)
	}

	now := time.Now()
	loan, err := s.buildLoan(ctx, req.UserID, req.Amount, req.DurationMonths, req.Reason, managerID, now)
	if err != nil {
		return nil, err
	}

	// Created directly in the approved state; the loan and its disbursement
	// are written in one repository transaction so neither exists alone.
	loan.Status = domain.LoanApproved
	loan.ApprovedBy = &managerID
	loan.DisbursedAt = &now

	txn := buildDisbursement(loan, managerID, now)
	if err := s.loanRepo.SaveDisbursedLoan(ctx, *loan, txn); err != nil {
		return nil, fmt.Errorf("failed to save disbursed loan: %w", err)
	}

	s.notifyRecorded(ctx, txn, now)
	return loan, nil
}

// Decide approves or rejects a requested loan. Approval disburses the
// principal into the ledger atomically.
func (s *loanService) Decide(ctx context.Context, loanID string, approve bool, managerID string) (*domain.Loan, error) {
	now := time.Now()
	if !approve {
		loan, err := s.loanRepo.RejectLoan(ctx, loanID, managerID, now)
		if err != nil {
			return nil, fmt.Errorf("failed to reject loan %s: %w", loanID, err)
		}
		return loan, nil
	}

	loan, err := s.loanRepo.FindLoanByID(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to load loan %s: %w", loanID, err)
	}
	return s.disburse(ctx, loan, managerID, now)
}

// disburse transitions the loan to approved and appends the disbursement
// ledger entry. The repository re-checks the status under a row lock, so a
// stale read here surfaces as ErrConflict.
func (s *loanService) disburse(ctx context.Context, loan *domain.Loan, managerID string, now time.Time) (*domain.Loan, error) {
	txn := buildDisbursement(loan, managerID, now)

	approved, err := s.loanRepo.DisburseLoan(ctx, loan.LoanID, managerID, txn, now)
	if err != nil {
		return nil, fmt.Errorf("failed to disburse loan %s: %w", loan.LoanID, err)
	}

	s.notifyRecorded(ctx, txn, now)
	return approved, nil
}

// buildDisbursement assembles the ledger entry that moves the principal to
// the borrower.
func buildDisbursement(loan *domain.Loan, managerID string, now time.Time) domain.Transaction {
	return domain.Transaction{
		TransactionID: uuid.NewString(),
		UserID:        loan.UserID,
		LoanID:        &loan.LoanID,
		Type:          domain.LoanDisbursement,
		Amount:        loan.Principal,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     managerID,
			LastUpdatedAt: now,
			LastUpdatedBy: managerID,
		},
	}
}

// notifyRecorded runs the post-commit side effects of a ledger write:
// anchoring enqueue and the recorded event. Both are best effort.
func (s *loanService) notifyRecorded(ctx context.Context, txn domain.Transaction, now time.Time) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if s.anchor != nil && !s.anchor.Enqueue(txn) {
		logger.Warn("anchoring queue rejected disbursement, rescanner will retry", "transactionID", txn.TransactionID)
	}
	if err := s.publisher.Publish(ctx, events.LedgerEvent{
		Name:          events.TransactionRecorded,
		TransactionID: txn.TransactionID,
		UserID:        txn.UserID,
		Type:          string(txn.Type),
		Amount:        txn.Amount,
		OccurredAt:    now,
	}); err != nil {
		logger.Warn("failed to publish ledger event", "transactionID", txn.TransactionID, "error", err)
	}
}

// Close transitions an approved loan to closed without a ledger effect.
func (s *loanService) Close(ctx context.Context, loanID string, managerID string) (*domain.Loan, error) {
	loan, err := s.loanRepo.CloseLoan(ctx, loanID, managerID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to close loan %s: %w", loanID, err)
	}
	return loan, nil
}

// Repay records a repayment against an approved loan.
func (s *loanService) Repay(ctx context.Context, loanID string, req dto.RepayLoanRequest, actorID string) (*domain.Loan, *domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, nil, fmt.Errorf("%w: repayment amount must be positive", apperrors.ErrValidation)
	}
	if !accounting.HasValidScale(req.Amount) {
		return nil, nil, fmt.Errorf("%w: repayment amount has more than two decimal places", apperrors.ErrValidation)
	}

	loan, txn, err := s.loanRepo.RepayLoan(ctx, loanID, req.Amount, actorID, time.Now())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to repay loan %s: %w", loanID, err)
	}

	if s.anchor != nil && !s.anchor.Enqueue(*txn) {
		logger.Warn("anchoring queue rejected repayment, rescanner will retry", "transactionID", txn.TransactionID)
	}
	if err := s.publisher.Publish(ctx, events.LedgerEvent{
		Name:          events.TransactionRecorded,
		TransactionID: txn.TransactionID,
		UserID:        txn.UserID,
		Type:          string(txn.Type),
		Amount:        txn.Amount,
		OccurredAt:    txn.CreatedAt,
	}); err != nil {
		logger.Warn("failed to publish ledger event", "transactionID", txn.TransactionID, "error", err)
	}
	return loan, txn, nil
}

// GetLoanDetail returns a loan with borrower details and payment history.
func (s *loanService) GetLoanDetail(ctx context.Context, loanID string) (*dto.LoanDetailResponse, error) {
	loan, err := s.loanRepo.FindLoanByID(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to load loan %s: %w", loanID, err)
	}

	borrower, err := s.userRepo.FindUserByID(ctx, loan.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load borrower %s: %w", loan.UserID, err)
	}

	payments, err := s.loanRepo.ListLoanPayments(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to load payments for loan %s: %w", loanID, err)
	}

	detail := dto.LoanDetailResponse{
		LoanResponse:  dto.ToLoanResponse(loan),
		BorrowerName:  borrower.Name,
		BorrowerPhone: borrower.PhoneNumber,
		Payments:      make([]dto.LoanPaymentResponse, len(payments)),
	}
	for i, p := range payments {
		detail.Payments[i] = dto.LoanPaymentResponse{
			PaymentID: p.PaymentID,
			Amount:    p.Amount,
			Principal: p.Principal,
			Interest:  p.Interest,
			PaidAt:    p.PaidAt,
		}
	}
	return &detail, nil
}

// ListForMember returns a member's loans with aggregate dues across the
// approved ones.
func (s *loanService) ListForMember(ctx context.Context, memberID string) (*dto.MemberLoansResponse, error) {
	loans, err := s.loanRepo.ListLoansByUser(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to list loans for member %s: %w", memberID, err)
	}

	resp := dto.MemberLoansResponse{
		Loans:           dto.ToLoanResponses(loans),
		TotalDue:        decimal.Zero,
		MonthlyPayments: decimal.Zero,
	}
	for _, l := range loans {
		if l.Status == domain.LoanApproved {
			resp.TotalDue = resp.TotalDue.Add(l.Outstanding)
			resp.MonthlyPayments = resp.MonthlyPayments.Add(l.MonthlyPayment)
		}
	}
	return &resp, nil
}

// ListForManager returns all loans, pending requests first.
func (s *loanService) ListForManager(ctx context.Context) ([]domain.Loan, error) {
	return s.loanRepo.ListLoans(ctx)
}
