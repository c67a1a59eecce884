// internal/services/license_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/tunetrust/tunetrust-backend/internal/models"
	"github.com/tunetrust/tunetrust-backend/internal/utils"
)

type LicenseService struct {
	db                  *gorm.DB
	notificationService *NotificationService
	ledgerService       *LedgerService
}

type IssueLicenseRequest struct {
	SongID      uuid.UUID              `json:"song_id" validate:"required"`
	LicenseeID  uuid.UUID              `json:"licensee_id" validate:"required"`
	Price       float64                `json:"price" validate:"gte=0"`
	UsageType   models.UsageType       `json:"usage_type" validate:"required,oneof=streaming commercial sync sampling"`
	Region      string                 `json:"region,omitempty" validate:"omitempty,max=100"`
	IsExclusive bool                   `json:"is_exclusive,omitempty"`
	ExpiresAt   *time.Time             `json:"expires_at,omitempty"`
	Terms       map[string]interface{} `json:"terms,omitempty"`
}

type TransferLicenseRequest struct {
	NewLicenseeID uuid.UUID `json:"new_licensee_id" validate:"required"`
}

type LicenseSearchParams struct {
	utils.PaginationParams
	SongID     *uuid.UUID            `json:"song_id,omitempty"`
	LicenseeID *uuid.UUID            `json:"licensee_id,omitempty"`
	IssuerID   *uuid.UUID            `json:"issuer_id,omitempty"`
	Status     *models.LicenseStatus `json:"status,omitempty"`
}

func NewLicenseService(db *gorm.DB, notificationService *NotificationService, ledgerService *LedgerService) *LicenseService {
	return &LicenseService{
		db:                  db,
		notificationService: notificationService,
		ledgerService:       ledgerService,
	}
}

func (s *LicenseService) IssueLicense(auth utils.AuthContext, req *IssueLicenseRequest) (*models.License, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	// Get the song
	var song models.Song
	if err := s.db.First(&song, req.SongID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("song not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if song.Status != models.SongStatusActive {
		return nil, errors.New("song is not available for licensing")
	}

	// Only a rights-holder may issue licenses
	if !song.ArtistIDs().Contains(auth.UserID.String()) {
		return nil, errors.New("unauthorized to issue licenses for this song")
	}

	// Verify licensee exists and is active
	var licensee models.User
	if err := s.db.First(&licensee, req.LicenseeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("licensee not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if licensee.Status != models.UserStatusActive {
		return nil, errors.New("licensee account is not active")
	}
	if licensee.ID == auth.UserID {
		return nil, errors.New("cannot issue a license to yourself")
	}

	// Exclusivity check: an exclusive license tolerates no other active
	// license for the same usage type, and vice versa.
	var conflicting int64
	query := s.db.Model(&models.License{}).
		Where("song_id = ? AND usage_type = ? AND status = ?", req.SongID, req.UsageType, models.LicenseStatusActive)
	if !req.IsExclusive {
		query = query.Where("is_exclusive = ?", true)
	}
	if err := query.Count(&conflicting).Error; err != nil {
		return nil, fmt.Errorf("failed to check license conflicts: %w", err)
	}
	if conflicting > 0 {
		return nil, errors.New("conflicting license exists for this usage type")
	}

	if req.ExpiresAt != nil && req.ExpiresAt.Before(time.Now()) {
		return nil, errors.New("expiry must be in the future")
	}

	region := req.Region
	if region == "" {
		region = "global"
	}

	license := &models.License{
		SongID:      req.SongID,
		IssuerID:    auth.UserID,
		LicenseeID:  req.LicenseeID,
		Price:       req.Price,
		UsageType:   req.UsageType,
		Region:      region,
		IsExclusive: req.IsExclusive,
		ExpiresAt:   req.ExpiresAt,
		Status:      models.LicenseStatusActive,
		Terms:       models.JSONB(req.Terms),
	}

	if err := s.db.Create(license).Error; err != nil {
		return nil, fmt.Errorf("failed to create license: %w", err)
	}

	// Anchor the grant
	if hash, err := s.ledgerService.CreateLicenseRecord(license.ID, license.SongID, license.LicenseeID); err != nil {
		logrus.WithError(err).WithField("license_id", license.ID).Warn("Failed to anchor license grant")
	} else {
		license.LedgerHash = hash
		if err := s.db.Model(license).Update("ledger_hash", hash).Error; err != nil {
			logrus.WithError(err).WithField("license_id", license.ID).Warn("Failed to store ledger hash")
		}
	}

	go func() {
		if err := s.notificationService.SendLicenseIssuedNotification(license, &licensee, song.SongName); err != nil {
			logrus.WithError(err).WithField("license_id", license.ID).Warn("Failed to send license notification")
		}
	}()

	return license, nil
}

func (s *LicenseService) GetLicense(licenseID uuid.UUID) (*models.License, error) {
	var license models.License
	if err := s.db.Preload("Song").Preload("Licensee").First(&license, licenseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("license not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &license, nil
}

func (s *LicenseService) ListLicenses(params LicenseSearchParams) (*utils.PaginationResult, error) {
	query := s.db.Model(&models.License{})

	if params.SongID != nil {
		query = query.Where("song_id = ?", *params.SongID)
	}
	if params.LicenseeID != nil {
		query = query.Where("licensee_id = ?", *params.LicenseeID)
	}
	if params.IssuerID != nil {
		query = query.Where("issuer_id = ?", *params.IssuerID)
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count licenses: %w", err)
	}

	var licenses []models.License
	query = utils.ApplySort(query, params.PaginationParams, []string{"created_at", "price", "status"})
	query = utils.ApplyPagination(query, params.PaginationParams)
	if err := query.Find(&licenses).Error; err != nil {
		return nil, fmt.Errorf("failed to list licenses: %w", err)
	}

	result := utils.CreatePaginationResult(licenses, total, params.PaginationParams)
	return &result, nil
}

// VerifyLicense reports whether a license currently grants usage rights,
// expiring it lazily when its end date has passed.
func (s *LicenseService) VerifyLicense(licenseID uuid.UUID) (bool, *models.License, error) {
	var license models.License
	if err := s.db.First(&license, licenseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil, errors.New("license not found")
		}
		return false, nil, fmt.Errorf("database error: %w", err)
	}

	now := time.Now()
	if license.Status == models.LicenseStatusActive && license.ExpiresAt != nil && now.After(*license.ExpiresAt) {
		license.Status = models.LicenseStatusExpired
		if err := s.db.Model(&license).Update("status", models.LicenseStatusExpired).Error; err != nil {
			return false, nil, fmt.Errorf("failed to expire license: %w", err)
		}
	}

	return license.Valid(now), &license, nil
}

// TransferLicense moves a license to a new holder. Only the current
// licensee may transfer, and only while the license is valid.
func (s *LicenseService) TransferLicense(auth utils.AuthContext, licenseID uuid.UUID, req *TransferLicenseRequest) (*models.License, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var license models.License
	if err := s.db.First(&license, licenseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("license not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if license.LicenseeID != auth.UserID {
		return nil, errors.New("unauthorized to transfer this license")
	}

	if !license.Valid(time.Now()) {
		return nil, errors.New("license is not active")
	}

	var newLicensee models.User
	if err := s.db.First(&newLicensee, req.NewLicenseeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("new licensee not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if newLicensee.Status != models.UserStatusActive {
		return nil, errors.New("new licensee account is not active")
	}
	if newLicensee.ID == auth.UserID {
		return nil, errors.New("license is already held by this user")
	}

	if err := s.db.Model(&license).Update("licensee_id", req.NewLicenseeID).Error; err != nil {
		return nil, fmt.Errorf("failed to transfer license: %w", err)
	}
	license.LicenseeID = req.NewLicenseeID

	// Re-anchor under the new holder
	if hash, err := s.ledgerService.CreateLicenseRecord(license.ID, license.SongID, license.LicenseeID); err != nil {
		logrus.WithError(err).WithField("license_id", license.ID).Warn("Failed to anchor license transfer")
	} else {
		license.LedgerHash = hash
		if err := s.db.Model(&license).Update("ledger_hash", hash).Error; err != nil {
			logrus.WithError(err).WithField("license_id", license.ID).Warn("Failed to store ledger hash")
		}
	}

	return &license, nil
}

// RevokeLicense ends a license early. Only the issuer or an admin may revoke.
func (s *LicenseService) RevokeLicense(auth utils.AuthContext, licenseID uuid.UUID) (*models.License, error) {
	var license models.License
	if err := s.db.First(&license, licenseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("license not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if license.IssuerID != auth.UserID && auth.UserType != string(models.UserTypeAdmin) {
		return nil, errors.New("unauthorized to revoke this license")
	}

	if license.Status != models.LicenseStatusActive {
		return nil, errors.New("only active licenses can be revoked")
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":     models.LicenseStatusRevoked,
		"revoked_at": now,
	}
	if err := s.db.Model(&license).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to revoke license: %w", err)
	}

	license.Status = models.LicenseStatusRevoked
	license.RevokedAt = &now
	return &license, nil
}
