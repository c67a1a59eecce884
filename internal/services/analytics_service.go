// internal/services/analytics_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tunetrust/tunetrust-backend/internal/models"
)

type AnalyticsService struct {
	db *gorm.DB
}

type SongAnalytics struct {
	SongID        uuid.UUID `json:"song_id"`
	SongName      string    `json:"song_name"`
	Plays         int64     `json:"plays"`
	TotalPlayTime int64     `json:"total_play_time"`
	Licenses      int64     `json:"licenses"`
	Requests      int64     `json:"requests"`
}

type ArtistAnalytics struct {
	UserID        uuid.UUID       `json:"user_id"`
	Songs         int64           `json:"songs"`
	TotalPlays    int64           `json:"total_plays"`
	TotalPlayTime int64           `json:"total_play_time"`
	TopSongs      []SongAnalytics `json:"top_songs"`
}

type PlatformStats struct {
	TotalUsers     int64   `json:"total_users"`
	TotalSongs     int64   `json:"total_songs"`
	TotalPlays     int64   `json:"total_plays"`
	TotalLicenses  int64   `json:"total_licenses"`
	TotalRequests  int64   `json:"total_requests"`
	ActiveRequests int64   `json:"active_requests"`
	CampaignsTotal float64 `json:"campaigns_total_raised"`
}

func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: db}
}

func (s *AnalyticsService) GetSongAnalytics(songID uuid.UUID) (*SongAnalytics, error) {
	var song models.Song
	if err := s.db.First(&song, songID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("song not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	analytics := &SongAnalytics{
		SongID:        song.ID,
		SongName:      song.SongName,
		Plays:         song.Plays,
		TotalPlayTime: song.TotalPlayTime,
	}

	if err := s.db.Model(&models.License{}).
		Where("song_id = ? AND status = ?", songID, models.LicenseStatusActive).
		Count(&analytics.Licenses).Error; err != nil {
		return nil, fmt.Errorf("failed to count licenses: %w", err)
	}

	if err := s.db.Model(&models.RightsRequest{}).
		Where("song_id = ?", songID).
		Count(&analytics.Requests).Error; err != nil {
		return nil, fmt.Errorf("failed to count requests: %w", err)
	}

	return analytics, nil
}

func (s *AnalyticsService) GetArtistAnalytics(userID uuid.UUID) (*ArtistAnalytics, error) {
	var songs []models.Song
	if err := s.db.Where("uploader_id = ?", userID).
		Order("plays DESC").
		Find(&songs).Error; err != nil {
		return nil, fmt.Errorf("failed to load songs: %w", err)
	}

	analytics := &ArtistAnalytics{
		UserID: userID,
		Songs:  int64(len(songs)),
	}

	for i, song := range songs {
		analytics.TotalPlays += song.Plays
		analytics.TotalPlayTime += song.TotalPlayTime

		if i < 5 {
			analytics.TopSongs = append(analytics.TopSongs, SongAnalytics{
				SongID:        song.ID,
				SongName:      song.SongName,
				Plays:         song.Plays,
				TotalPlayTime: song.TotalPlayTime,
			})
		}
	}

	return analytics, nil
}

func (s *AnalyticsService) GetPlatformStats() (*PlatformStats, error) {
	stats := &PlatformStats{}

	if err := s.db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if err := s.db.Model(&models.Song{}).Count(&stats.TotalSongs).Error; err != nil {
		return nil, fmt.Errorf("failed to count songs: %w", err)
	}
	if err := s.db.Model(&models.Song{}).
		Select("COALESCE(SUM(plays), 0)").
		Scan(&stats.TotalPlays).Error; err != nil {
		return nil, fmt.Errorf("failed to sum plays: %w", err)
	}
	if err := s.db.Model(&models.License{}).Count(&stats.TotalLicenses).Error; err != nil {
		return nil, fmt.Errorf("failed to count licenses: %w", err)
	}
	if err := s.db.Model(&models.RightsRequest{}).Count(&stats.TotalRequests).Error; err != nil {
		return nil, fmt.Errorf("failed to count requests: %w", err)
	}
	if err := s.db.Model(&models.RightsRequest{}).
		Where("status = ?", models.RequestStatusPending).
		Count(&stats.ActiveRequests).Error; err != nil {
		return nil, fmt.Errorf("failed to count active requests: %w", err)
	}
	if err := s.db.Model(&models.Campaign{}).
		Select("COALESCE(SUM(current_amount), 0)").
		Scan(&stats.CampaignsTotal).Error; err != nil {
		return nil, fmt.Errorf("failed to sum campaign totals: %w", err)
	}

	return stats, nil
}
