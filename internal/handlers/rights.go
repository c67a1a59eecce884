// internal/handlers/rights.go
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

type RightsHandler struct {
	rightsService *services.RightsService
}

func NewRightsHandler(rightsService *services.RightsService) *RightsHandler {
	return &RightsHandler{
		rightsService: rightsService,
	}
}

// POST /rights-requests
func (h *RightsHandler) CreateRightsRequest(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	auth, exists := utils.GetAuthFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.CreateRightsRequestInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	request, err := h.rightsService.CreateRightsRequest(auth, &req)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, i18n.KeySongNotFound)
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyRightsRequestCreated),
		"request": request,
	})
}

// GET /rights-requests?view=owned|requests|sent
func (h *RightsHandler) ListRightsRequests(c *gin.Context) {
	auth, exists := utils.GetAuthFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	params := services.RightsSearchParams{
		PaginationParams: utils.GetPaginationParams(c),
	}
	if status := c.Query("status"); status != "" {
		reqStatus := models.RequestStatus(status)
		params.Status = &reqStatus
	}

	view := c.DefaultQuery("view", services.RightsViewSent)

	result, err := h.rightsService.ListRightsRequests(auth, view, params)
	if err != nil {
		if strings.Contains(err.Error(), "unknown view") {
			utils.BadRequestResponse(c, err.Error(), nil)
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, *result)
}

// GET /rights-requests/:id
func (h *RightsHandler) GetRightsRequest(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid rights request ID", nil)
		return
	}

	request, err := h.rightsService.GetRightsRequest(id)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, i18n.KeyRightsRequestNotFound)
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, request)
}

// POST /rights-requests/:id/decision
func (h *RightsHandler) DecideRightsRequest(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	auth, exists := utils.GetAuthFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid rights request ID", nil)
		return
	}

	var req services.DecideRightsRequestInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	request, err := h.rightsService.DecideRightsRequest(auth, id, &req)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, i18n.KeyRightsRequestNotFound)
			return
		}
		if strings.Contains(err.Error(), "unauthorized") {
			utils.ForbiddenResponse(c, err.Error())
			return
		}
		if strings.Contains(err.Error(), "already processed") {
			utils.ConflictResponse(c, i18n.T(lang, i18n.KeyRightsRequestDecided))
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	messageKey := i18n.KeyRightsRequestAccepted
	switch request.Status {
	case models.RequestStatusConfirmed:
		messageKey = i18n.KeyRightsRequestConfirmed
	case models.RequestStatusRejected:
		messageKey = i18n.KeyRightsRequestRejected
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, messageKey),
		"request": request,
	})
}
