// internal/services/song_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/tunetrust/tunetrust-backend/internal/config"
	"github.com/tunetrust/tunetrust-backend/internal/models"
	"github.com/tunetrust/tunetrust-backend/internal/utils"
)

type SongService struct {
	db                *gorm.DB
	cfg               *config.Config
	storageService    *StorageService
	plagiarismService *PlagiarismService
	ledgerService     *LedgerService
}

type ArtistInput struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
	Role   string    `json:"role" validate:"required,max=50"`
	Split  float64   `json:"split" validate:"gte=0,lte=100"`
	Email  string    `json:"email" validate:"omitempty,email"`
}

type CreateSongRequest struct {
	SongName    string        `json:"song_name" validate:"required,min=1,max=255"`
	Description string        `json:"description,omitempty" validate:"omitempty,max=2000"`
	Genre       string        `json:"genre" validate:"required,max=100"`
	Artists     []ArtistInput `json:"artists" validate:"required,min=1,dive"`
	Tags        []string      `json:"tags,omitempty" validate:"omitempty,max=10"`
	Duration    int           `json:"duration,omitempty" validate:"omitempty,gte=0"`
}

type UpdateSongRequest struct {
	SongName    *string  `json:"song_name,omitempty" validate:"omitempty,min=1,max=255"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=2000"`
	Genre       *string  `json:"genre,omitempty" validate:"omitempty,max=100"`
	Tags        []string `json:"tags,omitempty" validate:"omitempty,max=10"`
}

type SongSearchParams struct {
	utils.PaginationParams
	UploaderID *uuid.UUID         `json:"uploader_id,omitempty"`
	Status     *models.SongStatus `json:"status,omitempty"`
}

// plagiarismSampleSize caps how many catalog tracks an upload is
// compared against. Newest tracks first.
const plagiarismSampleSize = 50

func NewSongService(db *gorm.DB, cfg *config.Config, storageService *StorageService, plagiarismService *PlagiarismService, ledgerService *LedgerService) *SongService {
	return &SongService{
		db:                db,
		cfg:               cfg,
		storageService:    storageService,
		plagiarismService: plagiarismService,
		ledgerService:     ledgerService,
	}
}

func (s *SongService) CreateSong(auth utils.AuthContext, req *CreateSongRequest, file multipart.File, header *multipart.FileHeader) (*models.Song, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	// Royalty splits must cover the whole pie
	var totalSplit float64
	seen := make(map[uuid.UUID]bool)
	uploaderListed := false
	for _, artist := range req.Artists {
		if seen[artist.UserID] {
			return nil, fmt.Errorf("duplicate artist entry: %s", artist.UserID)
		}
		seen[artist.UserID] = true
		totalSplit += artist.Split
		if artist.UserID == auth.UserID {
			uploaderListed = true
		}
	}
	if math.Abs(totalSplit-100) > 0.01 {
		return nil, fmt.Errorf("royalty splits must sum to 100, got %.2f", totalSplit)
	}
	if !uploaderListed {
		return nil, errors.New("uploader must be listed among the artists")
	}

	// Check audio container signature
	if err := s.storageService.ValidateAudio(file); err != nil {
		return nil, err
	}

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if _, err := file.Seek(0, 0); err != nil {
		return nil, fmt.Errorf("failed to rewind file: %w", err)
	}

	// Similarity gate against existing catalog tracks
	if s.cfg.Plagiarism.ServiceURL != "" {
		if err := s.runPlagiarismGate(fileBytes); err != nil {
			return nil, err
		}
	}

	// Upload audio
	result, err := s.storageService.UploadFile(file, header, s.storageService.GetDefaultUploadOptions("tracks"))
	if err != nil {
		return nil, fmt.Errorf("failed to upload track: %w", err)
	}

	// Build the rights-holder map
	song := &models.Song{
		UploaderID:  auth.UserID,
		SongName:    req.SongName,
		Description: req.Description,
		Genre:       req.Genre,
		FileURL:     result.URL,
		FileKey:     result.Key,
		Duration:    req.Duration,
		Status:      models.SongStatusActive,
		Tags:        models.StringList(req.Tags),
	}
	for _, artist := range req.Artists {
		song.AddArtist(artist.UserID.String(), models.ArtistEntry{
			Role:  artist.Role,
			Split: artist.Split,
			Email: artist.Email,
		})
	}

	if err := s.db.Create(song).Error; err != nil {
		return nil, fmt.Errorf("failed to create song: %w", err)
	}

	// Anchor the registration
	if hash, err := s.ledgerService.CreateSongRecord(song.ID, auth.UserID); err != nil {
		logrus.WithError(err).WithField("song_id", song.ID).Warn("Failed to anchor song registration")
	} else {
		song.LedgerHash = hash
		if err := s.db.Model(song).Update("ledger_hash", hash).Error; err != nil {
			logrus.WithError(err).WithField("song_id", song.ID).Warn("Failed to store ledger hash")
		}
	}

	return song, nil
}

// runPlagiarismGate compares the upload with the newest catalog tracks
// and blocks it when any score exceeds the configured threshold.
func (s *SongService) runPlagiarismGate(candidate []byte) error {
	var existing []models.Song
	if err := s.db.Where("file_key <> ''").
		Order("created_at DESC").
		Limit(plagiarismSampleSize).
		Find(&existing).Error; err != nil {
		return fmt.Errorf("failed to load catalog for similarity check: %w", err)
	}

	if len(existing) == 0 {
		return nil
	}

	keys := make([]string, 0, len(existing))
	for _, song := range existing {
		keys = append(keys, song.FileKey)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(s.cfg.Plagiarism.TimeoutSec)*time.Second*time.Duration(len(keys)))
	defer cancel()

	result, err := s.plagiarismService.CheckAgainstCatalog(ctx, candidate, s.storageService.DownloadFile, keys)
	if err != nil {
		return fmt.Errorf("similarity check failed: %w", err)
	}

	if s.plagiarismService.Exceeds(result) {
		return fmt.Errorf("upload rejected: %.2f%% similar to an existing track", result.SimilarityPercentage)
	}

	return nil
}

func (s *SongService) GetSong(songID uuid.UUID) (*models.Song, error) {
	var song models.Song
	if err := s.db.Preload("Uploader").First(&song, songID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("song not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &song, nil
}

func (s *SongService) ListSongs(params SongSearchParams) (*utils.PaginationResult, error) {
	query := s.db.Model(&models.Song{})

	if params.Search != "" {
		query = query.Where("song_name LIKE ?", "%"+params.Search+"%")
	}
	if params.Genre != "" {
		query = query.Where("genre = ?", params.Genre)
	}
	if params.UploaderID != nil {
		query = query.Where("uploader_id = ?", *params.UploaderID)
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	} else {
		query = query.Where("status = ?", models.SongStatusActive)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count songs: %w", err)
	}

	var songs []models.Song
	query = utils.ApplySort(query, params.PaginationParams, []string{"created_at", "song_name", "plays", "genre"})
	query = utils.ApplyPagination(query, params.PaginationParams)
	if err := query.Find(&songs).Error; err != nil {
		return nil, fmt.Errorf("failed to list songs: %w", err)
	}

	result := utils.CreatePaginationResult(songs, total, params.PaginationParams)
	return &result, nil
}

func (s *SongService) UpdateSong(auth utils.AuthContext, songID uuid.UUID, req *UpdateSongRequest) (*models.Song, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var song models.Song
	if err := s.db.First(&song, songID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("song not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	// Only a rights-holder may edit
	if !song.ArtistIDs().Contains(auth.UserID.String()) && auth.UserType != string(models.UserTypeAdmin) {
		return nil, errors.New("unauthorized to update this song")
	}

	updates := make(map[string]interface{})
	if req.SongName != nil {
		updates["song_name"] = *req.SongName
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Genre != nil {
		updates["genre"] = *req.Genre
	}
	if req.Tags != nil {
		updates["tags"] = models.StringList(req.Tags)
	}

	if len(updates) > 0 {
		if err := s.db.Model(&song).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update song: %w", err)
		}
	}

	return &song, nil
}

func (s *SongService) DeleteSong(auth utils.AuthContext, songID uuid.UUID) error {
	var song models.Song
	if err := s.db.First(&song, songID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("song not found")
		}
		return fmt.Errorf("database error: %w", err)
	}

	if song.UploaderID != auth.UserID && auth.UserType != string(models.UserTypeAdmin) {
		return errors.New("unauthorized to delete this song")
	}

	if err := s.db.Delete(&song).Error; err != nil {
		return fmt.Errorf("failed to delete song: %w", err)
	}

	if song.FileKey != "" {
		if err := s.storageService.DeleteFile(song.FileKey); err != nil {
			logrus.WithError(err).WithField("key", song.FileKey).Warn("Failed to delete track file")
		}
	}

	return nil
}
