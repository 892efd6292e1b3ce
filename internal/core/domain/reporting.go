package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuditSummary holds the headline figures for the audit dashboard.
type AuditSummary struct {
	TotalAssets         decimal.Decimal `json:"totalAssets"`
	TotalDeposits       decimal.Decimal `json:"totalDeposits"`
	TotalLoansDisbursed decimal.Decimal `json:"totalLoansDisbursed"`
	TotalOutstanding    decimal.Decimal `json:"totalOutstanding"`
	TotalLoansRepaid    decimal.Decimal `json:"totalLoansRepaid"`
	TotalInterestEarned decimal.Decimal `json:"totalInterestEarned"`
	TotalProfit         decimal.Decimal `json:"totalProfit"`
	TotalSavings        decimal.Decimal `json:"totalSavings"`
	TotalShares         decimal.Decimal `json:"totalShares"`
	TotalMembers        int64           `json:"totalMembers"`
}

// OutstandingLoanRow is one active loan in the auditor's outstanding-loans report.
type OutstandingLoanRow struct {
	Loan
	BorrowerName       string          `json:"borrowerName"`
	BorrowerPhone      string          `json:"borrowerPhone"`
	AmountRepaid       decimal.Decimal `json:"amountRepaid"`
	ExpectedRepayment  *time.Time      `json:"expectedRepaymentDate,omitempty"`
	BlockchainVerified bool            `json:"blockchainVerified"`
}

// AuditTransactionRow is a ledger entry joined with the member it belongs to.
type AuditTransactionRow struct {
	Transaction
	UserName  string `json:"userName"`
	UserPhone string `json:"userPhone"`
}

// BlockchainStatus summarizes how much of the ledger is anchored on chain.
type BlockchainStatus struct {
	TotalTransactions      int64   `json:"totalTransactions"`
	VerifiedTransactions   int64   `json:"verifiedTransactions"`
	UnverifiedTransactions int64   `json:"unverifiedTransactions"`
	VerificationRate       float64 `json:"verificationRate"`
	LastBlockNumber        *int64  `json:"lastBlockNumber,omitempty"`
}

// UserAuditReport is the per-member drill-down for auditors.
type UserAuditReport struct {
	UserID              string          `json:"userID"`
	Name                string          `json:"name"`
	PhoneNumber         string          `json:"phoneNumber"`
	SavingsBalance      decimal.Decimal `json:"savingsBalance"`
	SharesBalance       decimal.Decimal `json:"sharesBalance"`
	TotalDeposits       decimal.Decimal `json:"totalDeposits"`
	TotalLoansBorrowed  decimal.Decimal `json:"totalLoansBorrowed"`
	TotalLoansRepaid    decimal.Decimal `json:"totalLoansRepaid"`
	OutstandingBalance  decimal.Decimal `json:"outstandingBalance"`
	TransactionCount    int64           `json:"transactionCount"`
	VerificationRate    float64         `json:"verificationRate"`
	LastTransactionDate *time.Time      `json:"lastTransactionDate,omitempty"`
}
