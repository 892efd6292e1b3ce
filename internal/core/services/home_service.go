package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/sahakari/coop_backend/internal/core/domain"
	portsrepo "github.com/sahakari/coop_backend/internal/core/ports/repositories"
	portssvc "github.com/sahakari/coop_backend/internal/core/ports/services"
	"github.com/sahakari/coop_backend/internal/dto"
)

// homeService assembles the role-aware dashboard payload.
type homeService struct {
	userRepo portsrepo.UserRepositoryFacade
	loanRepo portsrepo.LoanRepositoryFacade
	auditSvc portssvc.AuditSvcFacade
}

// NewHomeService creates a new home service.
func NewHomeService(userRepo portsrepo.UserRepositoryFacade, loanRepo portsrepo.LoanRepositoryFacade, auditSvc portssvc.AuditSvcFacade) portssvc.HomeSvcFacade {
	return &homeService{
		userRepo: userRepo,
		loanRepo: loanRepo,
		auditSvc: auditSvc,
	}
}

// Ensure homeService implements the portssvc.HomeSvcFacade interface
var _ portssvc.HomeSvcFacade = (*homeService)(nil)

func (s *homeService) GetHome(ctx context.Context, userID string) (*dto.HomeResponse, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", userID, err)
	}

	resp := dto.HomeResponse{
		Role:           string(user.Role),
		Name:           user.Name,
		SavingsBalance: user.SavingsBalance,
		SharesBalance:  user.SharesBalance,
	}

	switch user.Role {
	case domain.RoleMember:
		if err := s.fillMemberFields(ctx, user, &resp); err != nil {
			return nil, err
		}
	case domain.RoleManager:
		if err := s.fillManagerFields(ctx, &resp); err != nil {
			return nil, err
		}
	}
	return &resp, nil
}

// fillMemberFields adds the member's active loan and the dividend their
// shareholding would earn out of the cooperative's profit to date.
func (s *homeService) fillMemberFields(ctx context.Context, user *domain.User, resp *dto.HomeResponse) error {
	loans, err := s.loanRepo.ListLoansByUser(ctx, user.UserID)
	if err != nil {
		return fmt.Errorf("failed to list loans for user %s: %w", user.UserID, err)
	}
	for i := range loans {
		if loans[i].Status == domain.LoanApproved {
			active := dto.ToLoanResponse(&loans[i])
			resp.ActiveLoan = &active
			break
		}
	}

	summary, err := s.auditSvc.GetSummary(ctx)
	if err != nil {
		return fmt.Errorf("failed to compute summary for dividend: %w", err)
	}
	dividend := decimal.Zero
	if summary.TotalShares.IsPositive() && summary.TotalProfit.IsPositive() {
		dividend = summary.TotalProfit.Mul(user.SharesBalance).Div(summary.TotalShares).Round(2)
	}
	resp.DividendExpected = &dividend
	return nil
}

// fillManagerFields adds cooperative-wide counters for the manager dashboard.
func (s *homeService) fillManagerFields(ctx context.Context, resp *dto.HomeResponse) error {
	loans, err := s.loanRepo.ListLoans(ctx)
	if err != nil {
		return fmt.Errorf("failed to list loans: %w", err)
	}
	var pending int64
	for i := range loans {
		if loans[i].Status == domain.LoanRequested {
			pending++
		}
	}

	summary, err := s.auditSvc.GetSummary(ctx)
	if err != nil {
		return fmt.Errorf("failed to compute summary for manager dashboard: %w", err)
	}

	resp.PendingLoanRequests = &pending
	resp.TotalMembers = &summary.TotalMembers
	resp.TotalSavings = &summary.TotalSavings
	return nil
}
