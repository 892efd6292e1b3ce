package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/sahakari/coop_backend/internal/core/ports/services"
	"github.com/sahakari/coop_backend/internal/dto"
	"github.com/sahakari/coop_backend/internal/middleware"
)

// rateHandler handles the interest rate table endpoints.
type rateHandler struct {
	rateService portssvc.RateSvcFacade
}

func newRateHandler(rs portssvc.RateSvcFacade) *rateHandler {
	return &rateHandler{rateService: rs}
}

// listRates godoc
// @Summary List the interest rate table
// @Tags rates
// @Produce  json
// @Success 200 {array} dto.RateResponse
// @Security BearerAuth
// @Router /interest_rates [get]
func (h *rateHandler) listRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	rates, err := h.rateService.ListRates(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to list interest rates")
		return
	}

	c.JSON(http.StatusOK, dto.ToRateResponses(rates))
}

// setRate godoc
// @Summary Create or replace the rate for a duration
// @Description Existing loans keep the rate they were created with; only new requests see the change
// @Tags rates
// @Accept  json
// @Produce  json
// @Param   rate body dto.SetRateRequest true "Duration and annual rate"
// @Success 200 {object} dto.RateResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /interest_rates/set [post]
func (h *rateHandler) setRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.SetRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	managerID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	rate, err := h.rateService.SetRate(c.Request.Context(), req, managerID)
	if err != nil {
		respondError(c, logger, err, "Failed to set interest rate")
		return
	}

	c.JSON(http.StatusOK, dto.ToRateResponse(rate))
}
