// internal/services/report_service.go
package services

import (
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/tunetrust/tunetrust-backend/internal/models"
	"github.com/tunetrust/tunetrust-backend/internal/utils"
)

type ReportService struct {
	db                  *gorm.DB
	storageService      *StorageService
	notificationService *NotificationService
}

type CreateReportRequest struct {
	SongID    uuid.UUID `json:"song_id" validate:"required"`
	IssueType string    `json:"issue_type" validate:"required"`
	Evidence  string    `json:"evidence,omitempty" validate:"omitempty,max=255"`
}

type ResolveReportRequest struct {
	Status     models.ReportStatus `json:"status" validate:"required,oneof=resolved dismissed"`
	AdminNotes string              `json:"admin_notes,omitempty" validate:"omitempty,max=2000"`
}

type ReportSearchParams struct {
	utils.PaginationParams
	Status *models.ReportStatus `json:"status,omitempty"`
}

func NewReportService(db *gorm.DB, storageService *StorageService, notificationService *NotificationService) *ReportService {
	return &ReportService{
		db:                  db,
		storageService:      storageService,
		notificationService: notificationService,
	}
}

func (s *ReportService) CreateReport(auth utils.AuthContext, req *CreateReportRequest, file multipart.File, header *multipart.FileHeader) (*models.IssueReport, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if !models.ValidIssueType(req.IssueType) {
		return nil, fmt.Errorf("invalid issue type: %s", req.IssueType)
	}

	// Verify the song exists
	var song models.Song
	if err := s.db.First(&song, req.SongID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("song not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	report := &models.IssueReport{
		SongID:     req.SongID,
		ReporterID: auth.UserID,
		IssueType:  req.IssueType,
		Evidence:   req.Evidence,
		Status:     models.ReportStatusUnderReview,
	}

	// Optional evidence attachment
	if file != nil && header != nil {
		result, err := s.storageService.UploadFile(file, header, s.storageService.GetDefaultUploadOptions("evidence"))
		if err != nil {
			return nil, fmt.Errorf("failed to upload evidence: %w", err)
		}
		report.EvidenceURL = result.URL
		if report.Evidence == "" {
			report.Evidence = header.Filename
		}
	}

	if err := s.db.Create(report).Error; err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}

	return report, nil
}

func (s *ReportService) ListReports(auth utils.AuthContext, params ReportSearchParams) (*utils.PaginationResult, error) {
	query := s.db.Model(&models.IssueReport{})

	// Admins see everything; users see their own reports
	if auth.UserType != string(models.UserTypeAdmin) {
		query = query.Where("reporter_id = ?", auth.UserID)
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count reports: %w", err)
	}

	var reports []models.IssueReport
	query = utils.ApplySort(query, params.PaginationParams, []string{"created_at", "status", "issue_type"})
	query = utils.ApplyPagination(query, params.PaginationParams)
	if err := query.Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	result := utils.CreatePaginationResult(reports, total, params.PaginationParams)
	return &result, nil
}

func (s *ReportService) GetReport(auth utils.AuthContext, reportID uuid.UUID) (*models.IssueReport, error) {
	var report models.IssueReport
	if err := s.db.Preload("Song").First(&report, reportID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("report not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if report.ReporterID != auth.UserID && auth.UserType != string(models.UserTypeAdmin) {
		return nil, errors.New("unauthorized to view this report")
	}

	return &report, nil
}

// ResolveReport is an admin operation closing out an open report.
func (s *ReportService) ResolveReport(auth utils.AuthContext, reportID uuid.UUID, req *ResolveReportRequest) (*models.IssueReport, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if auth.UserType != string(models.UserTypeAdmin) {
		return nil, errors.New("unauthorized to resolve reports")
	}

	var report models.IssueReport
	if err := s.db.First(&report, reportID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("report not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if report.Status != models.ReportStatusUnderReview {
		return nil, errors.New("report already processed")
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":      req.Status,
		"admin_notes": req.AdminNotes,
		"resolved_by": auth.UserID,
		"resolved_at": now,
	}
	if err := s.db.Model(&report).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve report: %w", err)
	}

	report.Status = req.Status
	report.AdminNotes = req.AdminNotes
	report.ResolvedBy = &auth.UserID
	report.ResolvedAt = &now

	go func() {
		var reporter models.User
		if err := s.db.First(&reporter, report.ReporterID).Error; err != nil {
			return
		}
		if err := s.notificationService.SendReportResolvedNotification(&report, &reporter); err != nil {
			logrus.WithError(err).WithField("report_id", report.ID).Warn("Failed to send resolution notification")
		}
	}()

	return &report, nil
}
