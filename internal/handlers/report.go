// internal/handlers/report.go
package handlers

import (
	"encoding/json"
	"mime/multipart"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tunetrust/tunetrust-backend/internal/i18n"
	"github.com/tunetrust/tunetrust-backend/internal/models"
	"github.com/tunetrust/tunetrust-backend/internal/services"
	"github.com/tunetrust/tunetrust-backend/internal/utils"
)

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// GET /reports/issue-types
func (h *ReportHandler) GetIssueTypes(c *gin.Context) {
	utils.SuccessResponse(c, models.IssueTypes)
}

// POST /reports — multipart form: "metadata" JSON field + optional "evidence" part
func (h *ReportHandler) CreateReport(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	auth, exists := utils.GetAuthFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	metadata := c.PostForm("metadata")
	if metadata == "" {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationRequired, "metadata"), nil)
		return
	}

	var req services.CreateReportRequest
	if err := json.Unmarshal([]byte(metadata), &req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "metadata"), err.Error())
		return
	}

	var file multipart.File
	var header *multipart.FileHeader
	if f, h, err := c.Request.FormFile("evidence"); err == nil {
		file = f
		header = h
		defer f.Close()
	}

	report, err := h.reportService.CreateReport(auth, &req, file, header)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, i18n.KeySongNotFound)
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyReportSubmitted),
		"report":  report,
	})
}

// GET /reports
func (h *ReportHandler) ListReports(c *gin.Context) {
	auth, exists := utils.GetAuthFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	params := services.ReportSearchParams{
		PaginationParams: utils.GetPaginationParams(c),
	}
	if status := c.Query("status"); status != "" {
		repStatus := models.ReportStatus(status)
		params.Status = &repStatus
	}

	result, err := h.reportService.ListReports(auth, params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, *result)
}

// GET /reports/:id
func (h *ReportHandler) GetReport(c *gin.Context) {
	auth, exists := utils.GetAuthFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid report ID", nil)
		return
	}

	report, err := h.reportService.GetReport(auth, id)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, i18n.KeyReportNotFound)
			return
		}
		if strings.Contains(err.Error(), "unauthorized") {
			utils.ForbiddenResponse(c, err.Error())
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, report)
}

// POST /reports/:id/resolve (admin)
func (h *ReportHandler) ResolveReport(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	auth, exists := utils.GetAuthFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid report ID", nil)
		return
	}

	var req services.ResolveReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	report, err := h.reportService.ResolveReport(auth, id, &req)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, i18n.KeyReportNotFound)
			return
		}
		if strings.Contains(err.Error(), "unauthorized") {
			utils.ForbiddenResponse(c, err.Error())
			return
		}
		if strings.Contains(err.Error(), "already processed") {
			utils.ConflictResponse(c, err.Error())
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyReportResolved),
		"report":  report,
	})
}
