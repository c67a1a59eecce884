// internal/handlers/license.go
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

type LicenseHandler struct {
	licenseService *services.LicenseService
}

func NewLicenseHandler(licenseService *services.LicenseService) *LicenseHandler {
	return &LicenseHandler{
		licenseService: licenseService,
	}
}

// POST /licenses
func (h *LicenseHandler) IssueLicense(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	auth, exists := utils.GetAuthFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.IssueLicenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	license, err := h.licenseService.IssueLicense(auth, &req)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, i18n.KeySongNotFound)
			return
		}
		if strings.Contains(err.Error(), "unauthorized") {
			utils.ForbiddenResponse(c, err.Error())
			return
		}
		if strings.Contains(err.Error(), "conflicting license") {
			utils.ConflictResponse(c, err.Error())
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyLicenseIssued),
		"license": license,
	})
}

// GET /licenses
func (h *LicenseHandler) ListLicenses(c *gin.Context) {
	auth, exists := utils.GetAuthFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	params := services.LicenseSearchParams{
		PaginationParams: utils.GetPaginationParams(c),
	}

	if songIDStr := c.Query("song_id"); songIDStr != "" {
		if songID, err := uuid.Parse(songIDStr); err == nil {
			params.SongID = &songID
		}
	}
	if status := c.Query("status"); status != "" {
		licStatus := models.LicenseStatus(status)
		params.Status = &licStatus
	}

	// Default scope: licenses the caller holds or issued
	switch c.DefaultQuery("role", "licensee") {
	case "issuer":
		params.IssuerID = &auth.UserID
	default:
		params.LicenseeID = &auth.UserID
	}

	result, err := h.licenseService.ListLicenses(params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, *result)
}

// GET /licenses/:id
func (h *LicenseHandler) GetLicense(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid license ID", nil)
		return
	}

	license, err := h.licenseService.GetLicense(id)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, i18n.KeyLicenseNotFound)
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, license)
}

// GET /licenses/:id/verify
func (h *LicenseHandler) VerifyLicense(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid license ID", nil)
		return
	}

	valid, license, err := h.licenseService.VerifyLicense(id)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, i18n.KeyLicenseNotFound)
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"valid":   valid,
		"license": license,
	})
}

// POST /licenses/:id/transfer
func (h *LicenseHandler) TransferLicense(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	auth, exists := utils.GetAuthFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid license ID", nil)
		return
	}

	var req services.TransferLicenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	license, err := h.licenseService.TransferLicense(auth, id, &req)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, i18n.KeyLicenseNotFound)
			return
		}
		if strings.Contains(err.Error(), "unauthorized") {
			utils.ForbiddenResponse(c, err.Error())
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyLicenseTransferred),
		"license": license,
	})
}

// POST /licenses/:id/revoke
func (h *LicenseHandler) RevokeLicense(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	auth, exists := utils.GetAuthFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid license ID", nil)
		return
	}

	license, err := h.licenseService.RevokeLicense(auth, id)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, i18n.KeyLicenseNotFound)
			return
		}
		if strings.Contains(err.Error(), "unauthorized") {
			utils.ForbiddenResponse(c, err.Error())
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyLicenseRevoked),
		"license": license,
	})
}
