package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sahakari/coop_backend/internal/core/domain"
	portssvc "github.com/sahakari/coop_backend/internal/core/ports/services"
	"github.com/sahakari/coop_backend/internal/dto"
	"github.com/sahakari/coop_backend/internal/middleware"
)

// loanHandler handles the loan lifecycle endpoints.
type loanHandler struct {
	loanService portssvc.LoanSvcFacade
}

func newLoanHandler(ls portssvc.LoanSvcFacade) *loanHandler {
	return &loanHandler{loanService: ls}
}

// requestLoan godoc
// @Summary Request a loan
// @Description Creates a loan request for the authenticated member using the current rate for the chosen duration
// @Tags loans
// @Accept  json
// @Produce  json
// @Param   loan body dto.RequestLoanRequest true "Loan request"
// @Success 201 {object} dto.LoanResponse
// @Failure 400 {object} map[string]string "Invalid input or no rate for duration"
// @Security BearerAuth
// @Router /loans/request [post]
func (h *loanHandler) requestLoan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RequestLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	memberID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	loan, err := h.loanService.RequestLoan(c.Request.Context(), req, memberID)
	if err != nil {
		respondError(c, logger, err, "Failed to create loan request")
		return
	}

	c.JSON(http.StatusCreated, dto.ToLoanResponse(loan))
}

// addLoan godoc
// @Summary Create and disburse a loan directly
// @Description Manager shortcut that creates a loan for a member and disburses it immediately
// @Tags loans
// @Accept  json
// @Produce  json
// @Param   loan body dto.CreateLoanRequest true "Loan details"
// @Success 201 {object} dto.LoanResponse
// @Failure 400 {object} map[string]string "Invalid input or no rate for duration"
// @Security BearerAuth
// @Router /loans/add [post]
func (h *loanHandler) addLoan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	managerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	loan, err := h.loanService.CreateDirect(c.Request.Context(), req, managerID)
	if err != nil {
		respondError(c, logger, err, "Failed to create loan")
		return
	}

	c.JSON(http.StatusCreated, dto.ToLoanResponse(loan))
}

// listManagerLoans godoc
// @Summary List all loans
// @Description Returns every loan in the cooperative, pending requests first
// @Tags loans
// @Produce  json
// @Success 200 {array} dto.LoanResponse
// @Security BearerAuth
// @Router /loans/manager [get]
func (h *loanHandler) listManagerLoans(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	loans, err := h.loanService.ListForManager(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to list loans")
		return
	}

	c.JSON(http.StatusOK, dto.ToLoanResponses(loans))
}

// listMemberLoans godoc
// @Summary List the authenticated member's loans
// @Tags loans
// @Produce  json
// @Success 200 {object} dto.MemberLoansResponse
// @Security BearerAuth
// @Router /loans/member [get]
func (h *loanHandler) listMemberLoans(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	memberID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resp, err := h.loanService.ListForMember(c.Request.Context(), memberID)
	if err != nil {
		respondError(c, logger, err, "Failed to list loans")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getLoan godoc
// @Summary Get a loan with borrower details and payment history
// @Tags loans
// @Produce  json
// @Param   id path string true "Loan ID"
// @Success 200 {object} dto.LoanDetailResponse
// @Failure 404 {object} map[string]string "Loan not found"
// @Security BearerAuth
// @Router /loans/{id} [get]
func (h *loanHandler) getLoan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	detail, err := h.loanService.GetLoanDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to load loan")
		return
	}

	c.JSON(http.StatusOK, detail)
}

// updateLoanStatus godoc
// @Summary Approve, reject or close a loan
// @Description Approving a requested loan disburses the principal into the ledger. Closing is only valid for approved loans.
// @Tags loans
// @Accept  json
// @Produce  json
// @Param   id path string true "Loan ID"
// @Param   decision body dto.UpdateLoanStatusRequest true "Target status: Approved, Rejected or Closed"
// @Success 200 {object} dto.LoanResponse
// @Failure 400 {object} map[string]string "Invalid status"
// @Failure 409 {object} map[string]string "Loan is not in a state that allows this transition"
// @Security BearerAuth
// @Router /loans/{id}/update_status [post]
func (h *loanHandler) updateLoanStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.UpdateLoanStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	managerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	loanID := c.Param("id")
	var loan *domain.Loan
	var err error
	// Status matching is case-insensitive; the canonical forms are the
	// capitalized ones the frontend sends.
	switch strings.ToLower(req.Status) {
	case strings.ToLower(string(domain.LoanApproved)):
		loan, err = h.loanService.Decide(c.Request.Context(), loanID, true, managerID)
	case strings.ToLower(string(domain.LoanRejected)):
		loan, err = h.loanService.Decide(c.Request.Context(), loanID, false, managerID)
	case strings.ToLower(string(domain.LoanClosed)):
		loan, err = h.loanService.Close(c.Request.Context(), loanID, managerID)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be Approved, Rejected or Closed"})
		return
	}
	if err != nil {
		respondError(c, logger, err, "Failed to update loan status")
		return
	}

	c.JSON(http.StatusOK, dto.ToLoanResponse(loan))
}

// repayLoan godoc
// @Summary Record a loan repayment
// @Description Reduces the outstanding balance and appends the repayment to the ledger. The loan closes automatically when the balance reaches zero.
// @Tags loans
// @Accept  json
// @Produce  json
// @Param   id path string true "Loan ID"
// @Param   repayment body dto.RepayLoanRequest true "Repayment amount"
// @Success 200 {object} dto.LoanResponse
// @Failure 400 {object} map[string]string "Invalid amount or over-repayment"
// @Failure 409 {object} map[string]string "Loan is not approved"
// @Security BearerAuth
// @Router /loans/{id}/repay [post]
func (h *loanHandler) repayLoan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RepayLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	loan, _, err := h.loanService.Repay(c.Request.Context(), c.Param("id"), req, actorID)
	if err != nil {
		respondError(c, logger, err, "Failed to record repayment")
		return
	}

	c.JSON(http.StatusOK, dto.ToLoanResponse(loan))
}
