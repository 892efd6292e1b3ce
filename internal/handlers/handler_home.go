package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/sahakari/coop_backend/internal/core/ports/services"
	"github.com/sahakari/coop_backend/internal/middleware"
)

// homeHandler serves the role-aware dashboard.
type homeHandler struct {
	homeService portssvc.HomeSvcFacade
}

func newHomeHandler(hs portssvc.HomeSvcFacade) *homeHandler {
	return &homeHandler{homeService: hs}
}

// home godoc
// @Summary Get the dashboard for the authenticated user
// @Description Members see their balances, active loan and expected dividend; managers additionally see cooperative-wide counters
// @Tags home
// @Produce  json
// @Success 200 {object} dto.HomeResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /home [get]
func (h *homeHandler) home(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	resp, err := h.homeService.GetHome(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to load dashboard")
		return
	}

	c.JSON(http.StatusOK, resp)
}
