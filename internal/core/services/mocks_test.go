package services_test

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/sahakari/coop_backend/internal/core/domain"
	portsrepo "github.com/sahakari/coop_backend/internal/core/ports/repositories"
	"github.com/sahakari/coop_backend/internal/events"
)

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByPhone(ctx context.Context, phoneNumber string) (*domain.User, error) {
	args := m.Called(ctx, phoneNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) SearchUsers(ctx context.Context, search string, limit int, offset int) ([]domain.User, error) {
	args := m.Called(ctx, search, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// --- Mock LedgerRepository ---
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) SaveDeposit(ctx context.Context, txn domain.Transaction) (*domain.Transaction, error) {
	args := m.Called(ctx, txn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerRepository) ListTransactionsByUser(ctx context.Context, userID string, limit int, offset int) ([]domain.Transaction, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockLedgerRepository) ListUnverifiedTransactions(ctx context.Context, limit int) ([]domain.Transaction, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockLedgerRepository) MarkTransactionAnchored(ctx context.Context, transactionID string, blockchainTxHash string, blockNumber int64) error {
	args := m.Called(ctx, transactionID, blockchainTxHash, blockNumber)
	return args.Error(0)
}

// --- Mock LoanRepository ---
type MockLoanRepository struct {
	mock.Mock
}

func (m *MockLoanRepository) FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) ListLoansByUser(ctx context.Context, userID string) ([]domain.Loan, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) ListLoans(ctx context.Context) ([]domain.Loan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) ListLoanPayments(ctx context.Context, loanID string) ([]domain.LoanPayment, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LoanPayment), args.Error(1)
}

func (m *MockLoanRepository) SaveLoan(ctx context.Context, loan domain.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

func (m *MockLoanRepository) SaveDisbursedLoan(ctx context.Context, loan domain.Loan, txn domain.Transaction) error {
	args := m.Called(ctx, loan, txn)
	return args.Error(0)
}

func (m *MockLoanRepository) DisburseLoan(ctx context.Context, loanID string, approverID string, txn domain.Transaction, now time.Time) (*domain.Loan, error) {
	args := m.Called(ctx, loanID, approverID, txn, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) RejectLoan(ctx context.Context, loanID string, approverID string, now time.Time) (*domain.Loan, error) {
	args := m.Called(ctx, loanID, approverID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) RepayLoan(ctx context.Context, loanID string, amount decimal.Decimal, actorID string, now time.Time) (*domain.Loan, *domain.Transaction, error) {
	args := m.Called(ctx, loanID, amount, actorID, now)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.Loan), args.Get(1).(*domain.Transaction), args.Error(2)
}

func (m *MockLoanRepository) CloseLoan(ctx context.Context, loanID string, actorID string, now time.Time) (*domain.Loan, error) {
	args := m.Called(ctx, loanID, actorID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

// --- Mock RateRepository ---
type MockRateRepository struct {
	mock.Mock
}

func (m *MockRateRepository) FindRateByDuration(ctx context.Context, durationMonths int) (*domain.InterestRate, error) {
	args := m.Called(ctx, durationMonths)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InterestRate), args.Error(1)
}

func (m *MockRateRepository) ListRates(ctx context.Context) ([]domain.InterestRate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InterestRate), args.Error(1)
}

func (m *MockRateRepository) UpsertRate(ctx context.Context, rate domain.InterestRate) (*domain.InterestRate, error) {
	args := m.Called(ctx, rate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InterestRate), args.Error(1)
}

// --- Mock AuditRepository ---
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) GetSummaryTotals(ctx context.Context) (*domain.AuditSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuditSummary), args.Error(1)
}

func (m *MockAuditRepository) ListOutstandingLoans(ctx context.Context) ([]domain.OutstandingLoanRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OutstandingLoanRow), args.Error(1)
}

func (m *MockAuditRepository) ListTransactions(ctx context.Context, filter portsrepo.TransactionFilter) ([]domain.AuditTransactionRow, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuditTransactionRow), args.Error(1)
}

func (m *MockAuditRepository) GetBlockchainStatus(ctx context.Context) (*domain.BlockchainStatus, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BlockchainStatus), args.Error(1)
}

func (m *MockAuditRepository) GetUserReport(ctx context.Context, userID string) (*domain.UserAuditReport, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserAuditReport), args.Error(1)
}

// --- Test doubles for the anchoring and event plumbing ---

// fakeEnqueuer records everything handed to it.
type fakeEnqueuer struct {
	mu     sync.Mutex
	queued []domain.Transaction
	accept bool
}

func newFakeEnqueuer() *fakeEnqueuer {
	return &fakeEnqueuer{accept: true}
}

func (f *fakeEnqueuer) Enqueue(txn domain.Transaction) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queued = append(f.queued, txn)
	return f.accept
}

func (f *fakeEnqueuer) queuedIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]string, len(f.queued))
	for i, txn := range f.queued {
		ids[i] = txn.TransactionID
	}
	return ids
}

// capturePublisher records published events.
type capturePublisher struct {
	mu     sync.Mutex
	events []events.LedgerEvent
}

func (p *capturePublisher) Publish(ctx context.Context, event events.LedgerEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturePublisher) Close() error { return nil }

func (p *capturePublisher) published() []events.LedgerEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.LedgerEvent, len(p.events))
	copy(out, p.events)
	return out
}
