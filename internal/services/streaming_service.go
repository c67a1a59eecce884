// internal/services/streaming_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tunetrust/tunetrust-backend/internal/models"
	"github.com/tunetrust/tunetrust-backend/internal/utils"
)

type StreamingService struct {
	db *gorm.DB
}

type CreatePlaylistRequest struct {
	Name    string   `json:"name" validate:"required,min=1,max=255"`
	SongIDs []string `json:"song_ids,omitempty" validate:"omitempty,dive,uuid"`
}

type RecordPlayRequest struct {
	// Seconds actually listened; bounded so a single report cannot
	// inflate totals past the track length.
	PlayTime int `json:"play_time" validate:"gte=0,lte=86400"`
}

func NewStreamingService(db *gorm.DB) *StreamingService {
	return &StreamingService{db: db}
}

func (s *StreamingService) CreatePlaylist(auth utils.AuthContext, req *CreatePlaylistRequest) (*models.Playlist, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	// Verify every referenced song exists
	for _, songID := range req.SongIDs {
		var count int64
		if err := s.db.Model(&models.Song{}).Where("id = ?", songID).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("database error: %w", err)
		}
		if count == 0 {
			return nil, fmt.Errorf("song not found: %s", songID)
		}
	}

	playlist := &models.Playlist{
		OwnerID: auth.UserID,
		Name:    req.Name,
		SongIDs: models.StringList(req.SongIDs),
	}

	if err := s.db.Create(playlist).Error; err != nil {
		return nil, fmt.Errorf("failed to create playlist: %w", err)
	}

	return playlist, nil
}

func (s *StreamingService) ListPlaylists(auth utils.AuthContext) ([]models.Playlist, error) {
	var playlists []models.Playlist
	if err := s.db.Where("owner_id = ?", auth.UserID).
		Order("created_at DESC").
		Find(&playlists).Error; err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}
	return playlists, nil
}

func (s *StreamingService) GetPlaylist(auth utils.AuthContext, playlistID uuid.UUID) (*models.Playlist, error) {
	var playlist models.Playlist
	if err := s.db.First(&playlist, playlistID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("playlist not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if playlist.OwnerID != auth.UserID {
		return nil, errors.New("unauthorized to view this playlist")
	}

	return &playlist, nil
}

func (s *StreamingService) AddToPlaylist(auth utils.AuthContext, playlistID, songID uuid.UUID) (*models.Playlist, error) {
	playlist, err := s.GetPlaylist(auth, playlistID)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.Model(&models.Song{}).Where("id = ?", songID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if count == 0 {
		return nil, errors.New("song not found")
	}

	songs, changed := playlist.SongIDs.Union(songID.String())
	if !changed {
		return playlist, nil
	}

	if err := s.db.Model(playlist).Update("song_ids", songs).Error; err != nil {
		return nil, fmt.Errorf("failed to update playlist: %w", err)
	}
	playlist.SongIDs = songs

	return playlist, nil
}

func (s *StreamingService) DeletePlaylist(auth utils.AuthContext, playlistID uuid.UUID) error {
	playlist, err := s.GetPlaylist(auth, playlistID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(playlist).Error; err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}
	return nil
}

// RecordPlay bumps a song's play counters atomically in the database, so
// concurrent listeners never clobber each other's counts.
func (s *StreamingService) RecordPlay(songID uuid.UUID, req *RecordPlayRequest) (*models.Song, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	res := s.db.Model(&models.Song{}).
		Where("id = ? AND status = ?", songID, models.SongStatusActive).
		Updates(map[string]interface{}{
			"plays":           gorm.Expr("plays + 1"),
			"total_play_time": gorm.Expr("total_play_time + ?", req.PlayTime),
		})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to record play: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, errors.New("song not found")
	}

	var song models.Song
	if err := s.db.First(&song, songID).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &song, nil
}
