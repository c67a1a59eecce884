// internal/services/crowdfunding_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"
	"gorm.io/gorm"

	"github.com/tunetrust/tunetrust-backend/internal/config"
	"github.com/tunetrust/tunetrust-backend/internal/models"
	"github.com/tunetrust/tunetrust-backend/internal/utils"
)

type CrowdfundingService struct {
	db                  *gorm.DB
	config              *config.Config
	notificationService *NotificationService
}

type CreateCampaignRequest struct {
	SongID       uuid.UUID  `json:"song_id" validate:"required"`
	Title        string     `json:"title" validate:"required,min=1,max=255"`
	Description  string     `json:"description,omitempty" validate:"omitempty,max=2000"`
	TargetAmount float64    `json:"target_amount" validate:"required,gt=0"`
	Deadline     *time.Time `json:"deadline,omitempty"`
}

type ContributeRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

type ContributionIntentResponse struct {
	Contribution *models.Contribution `json:"contribution"`
	ClientSecret string               `json:"client_secret,omitempty"`
}

type CampaignSearchParams struct {
	utils.PaginationParams
	OwnerID *uuid.UUID             `json:"owner_id,omitempty"`
	Status  *models.CampaignStatus `json:"status,omitempty"`
}

func NewCrowdfundingService(db *gorm.DB, cfg *config.Config, notificationService *NotificationService) *CrowdfundingService {
	// Initialize Stripe
	stripe.Key = cfg.Payment.StripeSecretKey

	return &CrowdfundingService{
		db:                  db,
		config:              cfg,
		notificationService: notificationService,
	}
}

func (s *CrowdfundingService) CreateCampaign(auth utils.AuthContext, req *CreateCampaignRequest) (*models.Campaign, error) {
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

	// Only a rights-holder may run a campaign for a song
	if !song.ArtistIDs().Contains(auth.UserID.String()) {
		return nil, errors.New("unauthorized to start a campaign for this song")
	}

	// One active campaign per song
	var existing int64
	if err := s.db.Model(&models.Campaign{}).
		Where("song_id = ? AND status IN (?, ?)", req.SongID, models.CampaignStatusActive, models.CampaignStatusFunded).
		Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to check existing campaigns: %w", err)
	}
	if existing > 0 {
		return nil, errors.New("song already has an active campaign")
	}

	if req.Deadline != nil && req.Deadline.Before(time.Now()) {
		return nil, errors.New("deadline must be in the future")
	}

	campaign := &models.Campaign{
		SongID:       req.SongID,
		OwnerID:      auth.UserID,
		Title:        req.Title,
		Description:  req.Description,
		TargetAmount: req.TargetAmount,
		Deadline:     req.Deadline,
		Status:       models.CampaignStatusActive,
	}

	if err := s.db.Create(campaign).Error; err != nil {
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}

	return campaign, nil
}

func (s *CrowdfundingService) GetCampaign(campaignID uuid.UUID) (*models.Campaign, error) {
	var campaign models.Campaign
	if err := s.db.Preload("Song").Preload("Owner").First(&campaign, campaignID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("campaign not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &campaign, nil
}

func (s *CrowdfundingService) ListCampaigns(params CampaignSearchParams) (*utils.PaginationResult, error) {
	query := s.db.Model(&models.Campaign{})

	if params.OwnerID != nil {
		query = query.Where("owner_id = ?", *params.OwnerID)
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.Search != "" {
		query = query.Where("title LIKE ?", "%"+params.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count campaigns: %w", err)
	}

	var campaigns []models.Campaign
	query = utils.ApplySort(query, params.PaginationParams, []string{"created_at", "target_amount", "current_amount", "status"})
	query = utils.ApplyPagination(query, params.PaginationParams)
	if err := query.Find(&campaigns).Error; err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}

	result := utils.CreatePaginationResult(campaigns, total, params.PaginationParams)
	return &result, nil
}

// Contribute opens a pending contribution backed by a Stripe payment
// intent. The contribution counts toward the campaign only once the
// payment is confirmed.
func (s *CrowdfundingService) Contribute(auth utils.AuthContext, campaignID uuid.UUID, req *ContributeRequest) (*ContributionIntentResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var campaign models.Campaign
	if err := s.db.First(&campaign, campaignID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("campaign not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if campaign.Status != models.CampaignStatusActive {
		return nil, errors.New("campaign is not accepting contributions")
	}
	if campaign.Deadline != nil && time.Now().After(*campaign.Deadline) {
		return nil, errors.New("campaign deadline has passed")
	}
	if campaign.OwnerID == auth.UserID {
		return nil, errors.New("cannot contribute to your own campaign")
	}

	contribution := &models.Contribution{
		CampaignID:    campaignID,
		ContributorID: auth.UserID,
		Amount:        req.Amount,
		Status:        models.ContributionStatusPending,
	}

	var clientSecret string
	if s.config.Payment.StripeSecretKey != "" {
		params := &stripe.PaymentIntentParams{
			Amount:   stripe.Int64(int64(req.Amount * 100)),
			Currency: stripe.String("usd"),
		}
		params.AddMetadata("campaign_id", campaignID.String())
		params.AddMetadata("contributor_id", auth.UserID.String())

		pi, err := paymentintent.New(params)
		if err != nil {
			return nil, fmt.Errorf("failed to create payment intent: %w", err)
		}
		contribution.PaymentReference = pi.ID
		clientSecret = pi.ClientSecret
	}

	if err := s.db.Create(contribution).Error; err != nil {
		return nil, fmt.Errorf("failed to create contribution: %w", err)
	}

	return &ContributionIntentResponse{
		Contribution: contribution,
		ClientSecret: clientSecret,
	}, nil
}

// ConfirmContribution settles a pending contribution after the payment
// provider reports success, and rolls its amount into the campaign.
func (s *CrowdfundingService) ConfirmContribution(contributionID uuid.UUID) (*models.Contribution, error) {
	var contribution models.Contribution
	if err := s.db.First(&contribution, contributionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("contribution not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if contribution.Status != models.ContributionStatusPending {
		return nil, errors.New("contribution already processed")
	}

	// Verify with Stripe when a payment reference exists
	if contribution.PaymentReference != "" && s.config.Payment.StripeSecretKey != "" {
		pi, err := paymentintent.Get(contribution.PaymentReference, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to get payment intent: %w", err)
		}
		if pi.Status != stripe.PaymentIntentStatusSucceeded {
			return nil, fmt.Errorf("payment not completed: %s", pi.Status)
		}
	}

	now := time.Now()
	var campaign models.Campaign

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&contribution).Updates(map[string]interface{}{
			"status":       models.ContributionStatusCompleted,
			"completed_at": now,
		}).Error; err != nil {
			return fmt.Errorf("failed to update contribution: %w", err)
		}

		if err := tx.Model(&models.Campaign{}).
			Where("id = ?", contribution.CampaignID).
			Updates(map[string]interface{}{
				"current_amount": gorm.Expr("current_amount + ?", contribution.Amount),
				"supporters":     gorm.Expr("supporters + 1"),
			}).Error; err != nil {
			return fmt.Errorf("failed to update campaign totals: %w", err)
		}

		if err := tx.First(&campaign, contribution.CampaignID).Error; err != nil {
			return fmt.Errorf("campaign not found: %w", err)
		}

		if campaign.Status == models.CampaignStatusActive && campaign.Funded() {
			if err := tx.Model(&campaign).Update("status", models.CampaignStatusFunded).Error; err != nil {
				return fmt.Errorf("failed to mark campaign funded: %w", err)
			}
			campaign.Status = models.CampaignStatusFunded
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	contribution.Status = models.ContributionStatusCompleted
	contribution.CompletedAt = &now

	if campaign.Status == models.CampaignStatusFunded {
		go func() {
			var owner models.User
			if err := s.db.First(&owner, campaign.OwnerID).Error; err != nil {
				return
			}
			if err := s.notificationService.SendCampaignFundedNotification(&campaign, &owner); err != nil {
				logrus.WithError(err).WithField("campaign_id", campaign.ID).Warn("Failed to send funded notification")
			}
		}()
	}

	return &contribution, nil
}

// Withdraw closes a funded campaign and releases its balance to the
// owner. It is a one-shot operation.
func (s *CrowdfundingService) Withdraw(auth utils.AuthContext, campaignID uuid.UUID) (*models.Campaign, error) {
	var campaign models.Campaign
	if err := s.db.First(&campaign, campaignID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("campaign not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if campaign.OwnerID != auth.UserID {
		return nil, errors.New("unauthorized to withdraw from this campaign")
	}

	if campaign.Status == models.CampaignStatusWithdrawn {
		return nil, errors.New("campaign funds already withdrawn")
	}

	if !campaign.Funded() {
		return nil, errors.New("campaign has not reached its target")
	}

	now := time.Now()
	// Status guard makes the withdrawal one-shot under concurrency.
	res := s.db.Model(&models.Campaign{}).
		Where("id = ? AND status = ?", campaign.ID, models.CampaignStatusFunded).
		Updates(map[string]interface{}{
			"status":       models.CampaignStatusWithdrawn,
			"withdrawn_at": now,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to withdraw: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, errors.New("campaign funds already withdrawn")
	}

	campaign.Status = models.CampaignStatusWithdrawn
	campaign.WithdrawnAt = &now
	return &campaign, nil
}
