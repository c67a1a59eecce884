// internal/services/rights_service.go
package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/tunetrust/tunetrust-backend/internal/models"
	"github.com/tunetrust/tunetrust-backend/internal/utils"
)

// RightsService owns the multi-party rights-transfer workflow. A request
// snapshots the song's rights-holder set at creation time; every holder
// in that snapshot must accept before the transfer finalizes, and any
// single rejection ends the request.
type RightsService struct {
	db                  *gorm.DB
	notificationService *NotificationService
	ledgerService       *LedgerService
}

type CreateRightsRequestInput struct {
	SongID    uuid.UUID        `json:"song_id" validate:"required"`
	RightType models.RightType `json:"right_type" validate:"required,right_type"`
	Offer     float64          `json:"offer,omitempty" validate:"omitempty,gte=0"`
	Details   string           `json:"details,omitempty" validate:"omitempty,max=2000"`
}

type DecideRightsRequestInput struct {
	Action string `json:"action" validate:"required,oneof=accept reject"`
}

type RightsSearchParams struct {
	utils.PaginationParams
	Status *models.RequestStatus `json:"status,omitempty"`
}

// rights request views
const (
	RightsViewOwned    = "owned"
	RightsViewIncoming = "requests"
	RightsViewSent     = "sent"
)

// decideMaxRetries bounds the optimistic-lock retry loop. Conflicts only
// occur when two holders decide the same request at the same instant, so
// a handful of attempts is plenty.
const decideMaxRetries = 5

var errVersionConflict = errors.New("version conflict")

func NewRightsService(db *gorm.DB, notificationService *NotificationService, ledgerService *LedgerService) *RightsService {
	return &RightsService{
		db:                  db,
		notificationService: notificationService,
		ledgerService:       ledgerService,
	}
}

func (s *RightsService) CreateRightsRequest(auth utils.AuthContext, input *CreateRightsRequestInput) (*models.RightsRequest, error) {
	// Validate request
	if err := utils.ValidateStruct(input); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	// Verify requester exists and is eligible
	var requestor models.User
	if err := s.db.First(&requestor, auth.UserID).Error; err != nil {
		return nil, fmt.Errorf("requestor not found: %w", err)
	}

	if requestor.Status != models.UserStatusActive {
		return nil, errors.New("requestor account is not active")
	}

	// Get the song and snapshot its rights-holder set
	var song models.Song
	if err := s.db.First(&song, input.SongID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("song not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if song.Status == models.SongStatusSuspended {
		return nil, errors.New("song is suspended")
	}

	artistIDs := song.ArtistIDs()
	if len(artistIDs) == 0 {
		return nil, errors.New("song has no rights holders")
	}

	request := &models.RightsRequest{
		SongID:          song.ID,
		SongName:        song.SongName,
		RequestorID:     requestor.ID,
		RequestorEmail:  requestor.Email,
		RequestorName:   requestor.DisplayName,
		RightType:       input.RightType,
		Offer:           input.Offer,
		Details:         input.Details,
		ArtistIDs:       artistIDs,
		ArtistEmails:    artistEmails(&song),
		AcceptedArtists: models.StringList{},
		Status:          models.RequestStatusPending,
	}

	if err := s.db.Create(request).Error; err != nil {
		return nil, fmt.Errorf("failed to create rights request: %w", err)
	}

	// Notify every snapshotted rights-holder
	go func() {
		if err := s.notificationService.SendRightsRequestNotification(request); err != nil {
			logrus.WithError(err).WithField("request_id", request.ID).Warn("Failed to send rights request notifications")
		}
	}()

	return request, nil
}

// ListRightsRequests returns one of three views of the workflow:
// "owned" synthesizes an always-confirmed entry per song the user owns,
// "requests" lists pending decisions addressed to the user's email, and
// "sent" lists requests the user created.
func (s *RightsService) ListRightsRequests(auth utils.AuthContext, view string, params RightsSearchParams) (*utils.PaginationResult, error) {
	switch view {
	case RightsViewOwned:
		return s.listOwned(auth, params)
	case RightsViewIncoming:
		return s.listIncoming(auth, params)
	case RightsViewSent, "":
		return s.listSent(auth, params)
	default:
		return nil, fmt.Errorf("unknown view: %s", view)
	}
}

// listOwned builds pseudo-requests from the user's owned-song list. The
// entries have no backing rows; they exist so the client renders owned
// songs and live requests in one uniform list.
func (s *RightsService) listOwned(auth utils.AuthContext, params RightsSearchParams) (*utils.PaginationResult, error) {
	var user models.User
	if err := s.db.First(&user, auth.UserID).Error; err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	requests := make([]models.RightsRequest, 0, len(user.OwnedSongs))
	for _, songID := range user.OwnedSongs {
		sid, err := uuid.Parse(songID)
		if err != nil {
			logrus.WithField("song_id", songID).Warn("Skipping malformed owned song id")
			continue
		}

		var song models.Song
		if err := s.db.First(&song, sid).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, fmt.Errorf("database error: %w", err)
		}

		requests = append(requests, models.RightsRequest{
			SongID:         song.ID,
			SongName:       song.SongName,
			RequestorID:    user.ID,
			RequestorEmail: user.Email,
			RequestorName:  user.DisplayName,
			Status:         models.RequestStatusConfirmed,
		})
	}

	total := int64(len(requests))
	start := (params.Page - 1) * params.Limit
	if start > len(requests) {
		start = len(requests)
	}
	end := start + params.Limit
	if end > len(requests) {
		end = len(requests)
	}

	result := utils.CreatePaginationResult(requests[start:end], total, params.PaginationParams)
	return &result, nil
}

// escapeLike escapes LIKE metacharacters so an address such as
// john_doe@example.com only matches itself.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (s *RightsService) listIncoming(auth utils.AuthContext, params RightsSearchParams) (*utils.PaginationResult, error) {
	// Requests are addressed by email snapshot; containment over the
	// JSON-encoded list matches the quoted value exactly.
	query := s.db.Model(&models.RightsRequest{}).
		Where(`artist_emails LIKE ? ESCAPE '\'`, `%"`+escapeLike(auth.Email)+`"%`)

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count rights requests: %w", err)
	}

	var requests []models.RightsRequest
	query = utils.ApplySort(query, params.PaginationParams, []string{"created_at", "status", "offer"})
	query = utils.ApplyPagination(query, params.PaginationParams)
	if err := query.Find(&requests).Error; err != nil {
		return nil, fmt.Errorf("failed to list rights requests: %w", err)
	}

	result := utils.CreatePaginationResult(requests, total, params.PaginationParams)
	return &result, nil
}

func (s *RightsService) listSent(auth utils.AuthContext, params RightsSearchParams) (*utils.PaginationResult, error) {
	query := s.db.Model(&models.RightsRequest{}).
		Where("requestor_id = ?", auth.UserID)

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count rights requests: %w", err)
	}

	var requests []models.RightsRequest
	query = utils.ApplySort(query, params.PaginationParams, []string{"created_at", "status", "offer"})
	query = utils.ApplyPagination(query, params.PaginationParams)
	if err := query.Find(&requests).Error; err != nil {
		return nil, fmt.Errorf("failed to list rights requests: %w", err)
	}

	result := utils.CreatePaginationResult(requests, total, params.PaginationParams)
	return &result, nil
}

func (s *RightsService) GetRightsRequest(requestID uuid.UUID) (*models.RightsRequest, error) {
	var request models.RightsRequest
	if err := s.db.First(&request, requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("rights request not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &request, nil
}

// DecideRightsRequest records one holder's decision. A reject is
// terminal no matter how many holders accepted before it. An accept is
// an idempotent union into the accepted set; the request confirms only
// when that set covers the whole snapshot, and confirmation transfers
// ownership in the same transaction.
func (s *RightsService) DecideRightsRequest(auth utils.AuthContext, requestID uuid.UUID, input *DecideRightsRequestInput) (*models.RightsRequest, error) {
	if err := utils.ValidateStruct(input); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	for attempt := 0; attempt < decideMaxRetries; attempt++ {
		request, err := s.decideOnce(auth, requestID, input.Action)
		if err == nil {
			return request, nil
		}
		if !errors.Is(err, errVersionConflict) {
			return nil, err
		}
		logrus.WithFields(logrus.Fields{
			"request_id": requestID,
			"attempt":    attempt + 1,
		}).Debug("Retrying rights decision after concurrent update")
	}

	return nil, errors.New("rights request is being updated concurrently, please retry")
}

func (s *RightsService) decideOnce(auth utils.AuthContext, requestID uuid.UUID, action string) (*models.RightsRequest, error) {
	var request models.RightsRequest
	if err := s.db.First(&request, requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("rights request not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if request.Status.Terminal() {
		return nil, errors.New("rights request already processed")
	}

	actorID := auth.UserID.String()
	if !request.ArtistIDs.Contains(actorID) {
		return nil, errors.New("unauthorized to decide on this rights request")
	}

	now := time.Now()

	if action == "reject" {
		updates := map[string]interface{}{
			"status":    models.RequestStatusRejected,
			"action_by": auth.UserID,
			"action_at": now,
			"version":   request.Version + 1,
		}

		res := s.db.Model(&models.RightsRequest{}).
			Where("id = ? AND version = ?", request.ID, request.Version).
			Updates(updates)
		if res.Error != nil {
			return nil, fmt.Errorf("failed to update rights request: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, errVersionConflict
		}

		request.Status = models.RequestStatusRejected
		request.ActionBy = &auth.UserID
		request.ActionAt = &now
		request.Version++

		go func() {
			if err := s.notificationService.SendRightsRejectedNotification(&request); err != nil {
				logrus.WithError(err).WithField("request_id", request.ID).Warn("Failed to send rejection notification")
			}
		}()

		return &request, nil
	}

	// Accept. A repeat accept from the same holder changes nothing.
	accepted, changed := request.AcceptedArtists.Union(actorID)
	if !changed {
		return &request, nil
	}

	finalize := accepted.ContainsAll(request.ArtistIDs)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"accepted_artists": accepted,
			"action_by":        auth.UserID,
			"action_at":        now,
			"version":          request.Version + 1,
		}
		if finalize {
			updates["status"] = models.RequestStatusConfirmed
		}

		res := tx.Model(&models.RightsRequest{}).
			Where("id = ? AND version = ?", request.ID, request.Version).
			Updates(updates)
		if res.Error != nil {
			return fmt.Errorf("failed to update rights request: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return errVersionConflict
		}

		if !finalize {
			return nil
		}

		// Ownership transfer rides inside the same transaction so a
		// confirmed request can never be observed without its effects.
		var requestor models.User
		if err := tx.First(&requestor, request.RequestorID).Error; err != nil {
			return fmt.Errorf("requestor not found: %w", err)
		}

		ownedSongs, _ := requestor.OwnedSongs.Union(request.SongID.String())
		if err := tx.Model(&requestor).Update("owned_songs", ownedSongs).Error; err != nil {
			return fmt.Errorf("failed to update owned songs: %w", err)
		}

		var song models.Song
		if err := tx.First(&song, request.SongID).Error; err != nil {
			return fmt.Errorf("song not found: %w", err)
		}

		song.AddArtist(request.RequestorID.String(), models.ArtistEntry{
			Role:  string(request.RightType),
			Split: 0,
			Email: request.RequestorEmail,
		})
		if err := tx.Model(&song).Update("artists", song.Artists).Error; err != nil {
			return fmt.Errorf("failed to update song rights holders: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	request.AcceptedArtists = accepted
	request.ActionBy = &auth.UserID
	request.ActionAt = &now
	request.Version++
	if finalize {
		request.Status = models.RequestStatusConfirmed

		if hash, err := s.ledgerService.CreateRightsTransferRecord(request.ID, request.SongID, request.RequestorID, request.RightType); err != nil {
			logrus.WithError(err).WithField("request_id", request.ID).Warn("Failed to anchor rights transfer")
		} else {
			request.LedgerHash = hash
			if err := s.db.Model(&models.RightsRequest{}).Where("id = ?", request.ID).Update("ledger_hash", hash).Error; err != nil {
				logrus.WithError(err).WithField("request_id", request.ID).Warn("Failed to store ledger hash")
			}
		}

		go func() {
			if err := s.notificationService.SendRightsConfirmedNotification(&request); err != nil {
				logrus.WithError(err).WithField("request_id", request.ID).Warn("Failed to send confirmation notification")
			}
		}()
	}

	return &request, nil
}

// artistEmails collects the email snapshot from a song's holder map.
func artistEmails(song *models.Song) models.StringList {
	emails := make(models.StringList, 0, len(song.Artists))
	for _, value := range song.Artists {
		entry, ok := value.(map[string]interface{})
		if !ok {
			continue
		}
		if email, ok := entry["email"].(string); ok && email != "" {
			emails = append(emails, email)
		}
	}
	return emails
}
