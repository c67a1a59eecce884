// internal/services/testhelpers_test.go
package services

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tunetrust/tunetrust-backend/internal/config"
	"github.com/tunetrust/tunetrust-backend/internal/models"
	"github.com/tunetrust/tunetrust-backend/internal/utils"
)

// newTestDB opens a fresh in-memory database. A single connection keeps
// the shared memory database alive for the whole test and serializes
// concurrent access the way the production pool does.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Song{},
		&models.RightsRequest{},
		&models.License{},
		&models.Campaign{},
		&models.Contribution{},
		&models.Playlist{},
		&models.IssueReport{},
		&models.AuditLog{},
	))

	return db
}

func newTestConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		JWT: config.JWTConfig{
			SecretKey:       "test-secret-key",
			AccessTokenTTL:  24,
			RefreshTokenTTL: 168,
		},
		Plagiarism: config.PlagiarismConfig{
			// Empty URL disables the similarity gate.
			ServiceURL: "",
			Threshold:  75.0,
			TimeoutSec: 5,
		},
		I18n: config.I18nConfig{
			DefaultLocale: "en",
		},
	}
}

func createTestUser(t *testing.T, db *gorm.DB, username string, userType models.UserType) *models.User {
	t.Helper()

	user := &models.User{
		Username:    username,
		Email:       username + "@example.com",
		DisplayName: username,
		UserType:    userType,
		Status:      models.UserStatusActive,
		OwnedSongs:  models.StringList{},
	}
	require.NoError(t, user.SetPassword("Sup3rSecret!"))
	require.NoError(t, db.Create(user).Error)

	return user
}

func authFor(user *models.User) utils.AuthContext {
	return utils.AuthContext{
		UserID:      user.ID,
		Username:    user.Username,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		UserType:    string(user.UserType),
	}
}

// createTestSong persists a song whose rights-holder map contains the
// given holders. The first holder is recorded as the uploader.
func createTestSong(t *testing.T, db *gorm.DB, name string, holders ...*models.User) *models.Song {
	t.Helper()
	require.NotEmpty(t, holders)

	song := &models.Song{
		UploaderID: holders[0].ID,
		SongName:   name,
		Genre:      "electronic",
		Status:     models.SongStatusActive,
	}
	split := 100.0 / float64(len(holders))
	for _, holder := range holders {
		song.AddArtist(holder.ID.String(), models.ArtistEntry{
			Role:  "composer",
			Split: split,
			Email: holder.Email,
		})
	}
	require.NoError(t, db.Create(song).Error)

	return song
}

func defaultPagination() utils.PaginationParams {
	return utils.PaginationParams{
		Page:  1,
		Limit: 20,
		Sort:  "created_at",
		Order: "desc",
	}
}

// wavBytes builds a minimal RIFF/WAVE header so uploads pass the audio
// signature check.
func wavBytes(payload string) []byte {
	body := []byte(payload)
	buf := make([]byte, 0, 12+len(body))
	buf = append(buf, []byte("RIFF")...)
	buf = append(buf, byte(len(body)+4), 0, 0, 0)
	buf = append(buf, []byte("WAVE")...)
	return append(buf, body...)
}

// multipartFile round-trips content through a real multipart request so
// services receive the same file/header pair the handlers hand them.
func multipartFile(t *testing.T, filename string, content []byte) (multipart.File, *multipart.FileHeader) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	file, header, err := req.FormFile("file")
	require.NoError(t, err)

	return file, header
}

func uniqueName(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, uuid.New().String()[:8])
}
