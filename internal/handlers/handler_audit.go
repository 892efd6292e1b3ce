package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/sahakari/coop_backend/internal/core/ports/services"
	"github.com/sahakari/coop_backend/internal/dto"
	"github.com/sahakari/coop_backend/internal/export"
	"github.com/sahakari/coop_backend/internal/middleware"
)

// auditHandler serves the reconciliation reports and the export endpoint.
type auditHandler struct {
	auditService portssvc.AuditSvcFacade
}

func newAuditHandler(as portssvc.AuditSvcFacade) *auditHandler {
	return &auditHandler{auditService: as}
}

// summary godoc
// @Summary Get the cooperative-wide audit summary
// @Tags audit
// @Produce  json
// @Success 200 {object} dto.AuditSummaryResponse
// @Security BearerAuth
// @Router /audit/summary [get]
func (h *auditHandler) summary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	summary, err := h.auditService.GetSummary(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to compute audit summary")
		return
	}

	c.JSON(http.StatusOK, dto.ToAuditSummaryResponse(summary))
}

// outstandingLoans godoc
// @Summary List active loans with borrower and anchoring detail
// @Tags audit
// @Produce  json
// @Success 200 {array} dto.OutstandingLoanResponse
// @Security BearerAuth
// @Router /audit/loans/outstanding [get]
func (h *auditHandler) outstandingLoans(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	rows, err := h.auditService.GetOutstandingLoans(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to list outstanding loans")
		return
	}

	c.JSON(http.StatusOK, dto.ToOutstandingLoanResponses(rows))
}

// transactions godoc
// @Summary List ledger entries with member detail
// @Tags audit
// @Produce  json
// @Param   type query string false "Filter by transaction type"
// @Param   verified_only query bool false "Only anchored entries"
// @Param   limit query int false "Page size"
// @Param   offset query int false "Page offset"
// @Success 200 {object} dto.AuditTransactionsResponse
// @Security BearerAuth
// @Router /audit/transactions [get]
func (h *auditHandler) transactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.AuditTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	rows, err := h.auditService.GetTransactions(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list transactions")
		return
	}

	c.JSON(http.StatusOK, dto.ToAuditTransactionsResponse(rows))
}

// exportTransactions godoc
// @Summary Export ledger entries as CSV or Excel
// @Description Streams the filtered transaction listing as a downloadable file. Format defaults to excel. The same filters and defaults apply as on the listing endpoint, so the file holds exactly the rows the listing would show.
// @Tags audit
// @Produce  application/octet-stream
// @Param   format query string false "csv or excel"
// @Param   type query string false "Filter by transaction type"
// @Param   verified_only query bool false "Only anchored entries"
// @Param   limit query int false "Page size"
// @Param   offset query int false "Page offset"
// @Success 200 {file} file
// @Failure 400 {object} map[string]string "Unknown format"
// @Security BearerAuth
// @Router /audit/transactions/export [get]
func (h *auditHandler) exportTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var params dto.AuditTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	// Same params as the listing endpoint, defaults included, so the file
	// contains exactly the rows the listing would return.
	rows, err := h.auditService.GetTransactions(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to load transactions for export")
		return
	}

	filename := format.Filename(time.Now())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", format.ContentType())
	c.Status(http.StatusOK)

	if err := export.WriteTransactions(c.Writer, format, rows); err != nil {
		// Headers are already out; all we can do is log.
		logger.Error("Failed to stream export", slog.String("error", err.Error()))
	}
}

// blockchainStatus godoc
// @Summary Get anchoring coverage over the whole ledger
// @Tags audit
// @Produce  json
// @Success 200 {object} dto.BlockchainStatusResponse
// @Security BearerAuth
// @Router /audit/blockchain/status [get]
func (h *auditHandler) blockchainStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	status, err := h.auditService.GetBlockchainStatus(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to compute blockchain status")
		return
	}

	c.JSON(http.StatusOK, dto.ToBlockchainStatusResponse(status))
}

// userReport godoc
// @Summary Get the audit drill-down for one member
// @Tags audit
// @Produce  json
// @Param   id path string true "User ID"
// @Success 200 {object} dto.UserAuditReportResponse
// @Failure 404 {object} map[string]string "User not found"
// @Security BearerAuth
// @Router /audit/users/{id} [get]
func (h *auditHandler) userReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	report, err := h.auditService.GetUserReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to compute user audit report")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserAuditReportResponse(report))
}
