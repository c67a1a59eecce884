// internal/handlers/crowdfunding.go
package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tunetrust/tunetrust-backend/internal/i18n"
	"github.com/tunetrust/tunetrust-backend/internal/models"
	"github.com/tunetrust/tunetrust-backend/internal/services"
	"github.com/tunetrust/tunetrust-backend/internal/utils"
)

type CrowdfundingHandler struct {
	crowdfundingService *services.CrowdfundingService
}

func NewCrowdfundingHandler(crowdfundingService *services.CrowdfundingService) *CrowdfundingHandler {
	return &CrowdfundingHandler{
		crowdfundingService: crowdfundingService,
	}
}

// POST /campaigns
func (h *CrowdfundingHandler) CreateCampaign(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	auth, exists := utils.GetAuthFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	campaign, err := h.crowdfundingService.CreateCampaign(auth, &req)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, i18n.KeySongNotFound)
			return
		}
		if strings.Contains(err.Error(), "unauthorized") {
			utils.ForbiddenResponse(c, err.Error())
			return
		}
		if strings.Contains(err.Error(), "already has an active campaign") {
			utils.ConflictResponse(c, err.Error())
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyCampaignCreated),
		"campaign": campaign,
	})
}

// GET /campaigns
func (h *CrowdfundingHandler) ListCampaigns(c *gin.Context) {
	params := services.CampaignSearchParams{
		PaginationParams: utils.GetPaginationParams(c),
	}

	if ownerIDStr := c.Query("owner_id"); ownerIDStr != "" {
		if ownerID, err := uuid.Parse(ownerIDStr); err == nil {
			params.OwnerID = &ownerID
		}
	}
	if status := c.Query("status"); status != "" {
		campStatus := models.CampaignStatus(status)
		params.Status = &campStatus
	}

	result, err := h.crowdfundingService.ListCampaigns(params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, *result)
}

// GET /campaigns/:id
func (h *CrowdfundingHandler) GetCampaign(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid campaign ID", nil)
		return
	}

	campaign, err := h.crowdfundingService.GetCampaign(id)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, i18n.KeyCampaignNotFound)
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, campaign)
}

// POST /campaigns/:id/contribute
func (h *CrowdfundingHandler) Contribute(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	auth, exists := utils.GetAuthFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid campaign ID", nil)
		return
	}

	var req services.ContributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	response, err := h.crowdfundingService.Contribute(auth, id, &req)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, i18n.KeyCampaignNotFound)
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":      i18n.T(lang, i18n.KeyContributionMade),
		"contribution": response.Contribution,
		"client_secret": response.ClientSecret,
	})
}

// POST /contributions/:id/confirm
func (h *CrowdfundingHandler) ConfirmContribution(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid contribution ID", nil)
		return
	}

	contribution, err := h.crowdfundingService.ConfirmContribution(id)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "contribution")
			return
		}
		if strings.Contains(err.Error(), "already processed") {
			utils.ConflictResponse(c, err.Error())
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, contribution)
}

// POST /campaigns/:id/withdraw
func (h *CrowdfundingHandler) Withdraw(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	auth, exists := utils.GetAuthFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid campaign ID", nil)
		return
	}

	campaign, err := h.crowdfundingService.Withdraw(auth, id)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, i18n.KeyCampaignNotFound)
			return
		}
		if strings.Contains(err.Error(), "unauthorized") {
			utils.ForbiddenResponse(c, err.Error())
			return
		}
		if strings.Contains(err.Error(), "already withdrawn") {
			utils.ConflictResponse(c, err.Error())
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyCampaignWithdrawn),
		"campaign": campaign,
	})
}
