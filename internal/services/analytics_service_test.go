// internal/services/analytics_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/tunetrust/tunetrust-backend/internal/models"
)

type AnalyticsServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *AnalyticsService

	artist *models.User
}

func (suite *AnalyticsServiceTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())
	suite.service = NewAnalyticsService(suite.db)
	suite.artist = createTestUser(suite.T(), suite.db, uniqueName("artist"), models.UserTypeArtist)
}

func (suite *AnalyticsServiceTestSuite) TestSongAnalyticsAggregatesCounters() {
	song := createTestSong(suite.T(), suite.db, "Counted Track", suite.artist)
	suite.Require().NoError(suite.db.Model(song).Updates(map[string]interface{}{
		"plays":           42,
		"total_play_time": 3600,
	}).Error)

	analytics, err := suite.service.GetSongAnalytics(song.ID)
	suite.Require().NoError(err)

	assert.Equal(suite.T(), int64(42), analytics.Plays)
	assert.Equal(suite.T(), int64(3600), analytics.TotalPlayTime)
	assert.Equal(suite.T(), song.SongName, analytics.SongName)

	_, err = suite.service.GetSongAnalytics(uuid.New())
	assert.ErrorContains(suite.T(), err, "not found")
}

func (suite *AnalyticsServiceTestSuite) TestArtistAnalyticsRanksTopSongs() {
	for _, plays := range []int64{10, 300, 70} {
		song := createTestSong(suite.T(), suite.db, uniqueName("track"), suite.artist)
		suite.Require().NoError(suite.db.Model(song).Update("plays", plays).Error)
	}

	analytics, err := suite.service.GetArtistAnalytics(suite.artist.ID)
	suite.Require().NoError(err)

	assert.Equal(suite.T(), int64(3), analytics.Songs)
	assert.Equal(suite.T(), int64(380), analytics.TotalPlays)
	suite.Require().NotEmpty(analytics.TopSongs)
	assert.Equal(suite.T(), int64(300), analytics.TopSongs[0].Plays)
}

func (suite *AnalyticsServiceTestSuite) TestPlatformStatsCoverEmptyDatabase() {
	stats, err := suite.service.GetPlatformStats()
	suite.Require().NoError(err)

	// One artist from setup, nothing else.
	assert.Equal(suite.T(), int64(1), stats.TotalUsers)
	assert.Zero(suite.T(), stats.TotalSongs)
	assert.Zero(suite.T(), stats.TotalPlays)
	assert.Zero(suite.T(), stats.CampaignsTotal)
}

func TestAnalyticsServiceSuite(t *testing.T) {
	suite.Run(t, new(AnalyticsServiceTestSuite))
}
