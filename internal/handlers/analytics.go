// internal/handlers/analytics.go
package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tunetrust/tunetrust-backend/internal/i18n"
	"github.com/tunetrust/tunetrust-backend/internal/services"
	"github.com/tunetrust/tunetrust-backend/internal/utils"
)

type AnalyticsHandler struct {
	analyticsService *services.AnalyticsService
}

func NewAnalyticsHandler(analyticsService *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
	}
}

// GET /analytics/songs/:id
func (h *AnalyticsHandler) GetSongAnalytics(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid song ID", nil)
		return
	}

	analytics, err := h.analyticsService.GetSongAnalytics(id)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, i18n.KeySongNotFound)
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, analytics)
}

// GET /analytics/me
func (h *AnalyticsHandler) GetMyAnalytics(c *gin.Context) {
	auth, exists := utils.GetAuthFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	analytics, err := h.analyticsService.GetArtistAnalytics(auth.UserID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, analytics)
}

// GET /analytics/platform (admin)
func (h *AnalyticsHandler) GetPlatformStats(c *gin.Context) {
	stats, err := h.analyticsService.GetPlatformStats()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, stats)
}
