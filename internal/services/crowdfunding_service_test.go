// internal/services/crowdfunding_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/tunetrust/tunetrust-backend/internal/models"
)

type CrowdfundingServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *CrowdfundingService

	owner   *models.User
	backer  *models.User
	song    *models.Song
}

func (suite *CrowdfundingServiceTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())
	// No Stripe key configured: contributions settle without an
	// external payment intent, the way local development runs.
	cfg := newTestConfig()

	notificationService := NewNotificationService(suite.db, cfg)
	suite.service = NewCrowdfundingService(suite.db, cfg, notificationService)

	suite.owner = createTestUser(suite.T(), suite.db, uniqueName("owner"), models.UserTypeArtist)
	suite.backer = createTestUser(suite.T(), suite.db, uniqueName("backer"), models.UserTypeListener)
	suite.song = createTestSong(suite.T(), suite.db, "Funded Track", suite.owner)
}

func (suite *CrowdfundingServiceTestSuite) createCampaign(target float64) *models.Campaign {
	campaign, err := suite.service.CreateCampaign(authFor(suite.owner), &CreateCampaignRequest{
		SongID:       suite.song.ID,
		Title:        "Album Pressing",
		TargetAmount: target,
	})
	suite.Require().NoError(err)
	return campaign
}

func (suite *CrowdfundingServiceTestSuite) contribute(amount float64) *models.Contribution {
	intent, err := suite.service.Contribute(authFor(suite.backer), suite.campaignID(), &ContributeRequest{Amount: amount})
	suite.Require().NoError(err)

	confirmed, err := suite.service.ConfirmContribution(intent.Contribution.ID)
	suite.Require().NoError(err)
	return confirmed
}

func (suite *CrowdfundingServiceTestSuite) campaignID() uuid.UUID {
	var campaign models.Campaign
	suite.Require().NoError(suite.db.Where("song_id = ?", suite.song.ID).First(&campaign).Error)
	return campaign.ID
}

func (suite *CrowdfundingServiceTestSuite) TestCreateCampaignRestrictedToRightsHolders() {
	_, err := suite.service.CreateCampaign(authFor(suite.backer), &CreateCampaignRequest{
		SongID:       suite.song.ID,
		Title:        "Not Mine",
		TargetAmount: 100,
	})
	assert.ErrorContains(suite.T(), err, "unauthorized")

	campaign := suite.createCampaign(1000)
	assert.Equal(suite.T(), models.CampaignStatusActive, campaign.Status)
	assert.Zero(suite.T(), campaign.CurrentAmount)
}

func (suite *CrowdfundingServiceTestSuite) TestOneOpenCampaignPerSong() {
	suite.createCampaign(1000)

	_, err := suite.service.CreateCampaign(authFor(suite.owner), &CreateCampaignRequest{
		SongID:       suite.song.ID,
		Title:        "Second Attempt",
		TargetAmount: 500,
	})
	assert.Error(suite.T(), err)
}

func (suite *CrowdfundingServiceTestSuite) TestContributionSettlementAccumulates() {
	suite.createCampaign(1000)

	suite.contribute(400)
	confirmed := suite.contribute(200)
	assert.Equal(suite.T(), models.ContributionStatusCompleted, confirmed.Status)
	assert.NotNil(suite.T(), confirmed.CompletedAt)

	var campaign models.Campaign
	suite.Require().NoError(suite.db.First(&campaign, suite.campaignID()).Error)
	assert.Equal(suite.T(), float64(600), campaign.CurrentAmount)
	assert.Equal(suite.T(), int64(2), campaign.Supporters)
	assert.Equal(suite.T(), models.CampaignStatusActive, campaign.Status)
}

func (suite *CrowdfundingServiceTestSuite) TestReachingTargetMarksCampaignFunded() {
	suite.createCampaign(500)
	suite.contribute(500)

	var campaign models.Campaign
	suite.Require().NoError(suite.db.First(&campaign, suite.campaignID()).Error)
	assert.Equal(suite.T(), models.CampaignStatusFunded, campaign.Status)
	assert.True(suite.T(), campaign.Funded())
}

func (suite *CrowdfundingServiceTestSuite) TestOwnerCannotBackOwnCampaign() {
	campaign := suite.createCampaign(1000)

	_, err := suite.service.Contribute(authFor(suite.owner), campaign.ID, &ContributeRequest{Amount: 50})
	assert.ErrorContains(suite.T(), err, "own campaign")
}

func (suite *CrowdfundingServiceTestSuite) TestContributeRejectsPastDeadline() {
	campaign := suite.createCampaign(1000)
	past := time.Now().Add(-time.Hour)
	suite.Require().NoError(suite.db.Model(campaign).Update("deadline", past).Error)

	_, err := suite.service.Contribute(authFor(suite.backer), campaign.ID, &ContributeRequest{Amount: 50})
	assert.ErrorContains(suite.T(), err, "deadline")
}

func (suite *CrowdfundingServiceTestSuite) TestConfirmContributionIsOneShot() {
	suite.createCampaign(1000)

	intent, err := suite.service.Contribute(authFor(suite.backer), suite.campaignID(), &ContributeRequest{Amount: 100})
	suite.Require().NoError(err)

	_, err = suite.service.ConfirmContribution(intent.Contribution.ID)
	suite.Require().NoError(err)

	_, err = suite.service.ConfirmContribution(intent.Contribution.ID)
	assert.ErrorContains(suite.T(), err, "already processed")

	var campaign models.Campaign
	suite.Require().NoError(suite.db.First(&campaign, suite.campaignID()).Error)
	assert.Equal(suite.T(), float64(100), campaign.CurrentAmount)
}

func (suite *CrowdfundingServiceTestSuite) TestWithdrawIsOneShotAndOwnerOnly() {
	campaign := suite.createCampaign(500)

	// Not funded yet
	_, err := suite.service.Withdraw(authFor(suite.owner), campaign.ID)
	assert.ErrorContains(suite.T(), err, "not reached")

	suite.contribute(500)

	_, err = suite.service.Withdraw(authFor(suite.backer), campaign.ID)
	assert.ErrorContains(suite.T(), err, "unauthorized")

	withdrawn, err := suite.service.Withdraw(authFor(suite.owner), campaign.ID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.CampaignStatusWithdrawn, withdrawn.Status)
	assert.NotNil(suite.T(), withdrawn.WithdrawnAt)

	_, err = suite.service.Withdraw(authFor(suite.owner), campaign.ID)
	assert.ErrorContains(suite.T(), err, "already withdrawn")
}

func (suite *CrowdfundingServiceTestSuite) TestListCampaignsByStatus() {
	suite.createCampaign(500)
	suite.contribute(500)

	funded := models.CampaignStatusFunded
	result, err := suite.service.ListCampaigns(CampaignSearchParams{PaginationParams: defaultPagination(), Status: &funded})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), int64(1), result.Total)

	active := models.CampaignStatusActive
	result, err = suite.service.ListCampaigns(CampaignSearchParams{PaginationParams: defaultPagination(), Status: &active})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), int64(0), result.Total)
}

func TestCrowdfundingServiceSuite(t *testing.T) {
	suite.Run(t, new(CrowdfundingServiceTestSuite))
}
