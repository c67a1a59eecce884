// internal/services/license_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/tunetrust/tunetrust-backend/internal/models"
)

type LicenseServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *LicenseService

	holder   *models.User
	licensee *models.User
	song     *models.Song
}

func (suite *LicenseServiceTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())
	cfg := newTestConfig()

	notificationService := NewNotificationService(suite.db, cfg)
	ledgerService := NewLedgerService(suite.db, cfg)
	suite.service = NewLicenseService(suite.db, notificationService, ledgerService)

	suite.holder = createTestUser(suite.T(), suite.db, uniqueName("holder"), models.UserTypeArtist)
	suite.licensee = createTestUser(suite.T(), suite.db, uniqueName("licensee"), models.UserTypeListener)
	suite.song = createTestSong(suite.T(), suite.db, "Licensed Track", suite.holder)
}

func (suite *LicenseServiceTestSuite) issueRequest() *IssueLicenseRequest {
	return &IssueLicenseRequest{
		SongID:     suite.song.ID,
		LicenseeID: suite.licensee.ID,
		Price:      200,
		UsageType:  models.UsageTypeStreaming,
	}
}

func (suite *LicenseServiceTestSuite) TestIssueLicenseByRightsHolder() {
	license, err := suite.service.IssueLicense(authFor(suite.holder), suite.issueRequest())
	suite.Require().NoError(err)

	assert.Equal(suite.T(), models.LicenseStatusActive, license.Status)
	assert.Equal(suite.T(), "global", license.Region)
	assert.Equal(suite.T(), suite.holder.ID, license.IssuerID)
	assert.NotEmpty(suite.T(), license.LedgerHash)
}

func (suite *LicenseServiceTestSuite) TestIssueLicenseRejectsNonHolders() {
	outsider := createTestUser(suite.T(), suite.db, uniqueName("outsider"), models.UserTypeArtist)

	_, err := suite.service.IssueLicense(authFor(outsider), suite.issueRequest())
	assert.ErrorContains(suite.T(), err, "unauthorized")
}

func (suite *LicenseServiceTestSuite) TestIssueLicenseRejectsSelfGrant() {
	req := suite.issueRequest()
	req.LicenseeID = suite.holder.ID

	_, err := suite.service.IssueLicense(authFor(suite.holder), req)
	assert.ErrorContains(suite.T(), err, "yourself")
}

func (suite *LicenseServiceTestSuite) TestExclusiveLicenseBlocksFurtherGrants() {
	req := suite.issueRequest()
	req.IsExclusive = true
	_, err := suite.service.IssueLicense(authFor(suite.holder), req)
	suite.Require().NoError(err)

	other := createTestUser(suite.T(), suite.db, uniqueName("other"), models.UserTypeListener)
	followUp := suite.issueRequest()
	followUp.LicenseeID = other.ID
	_, err = suite.service.IssueLicense(authFor(suite.holder), followUp)
	assert.ErrorContains(suite.T(), err, "conflicting license")

	// A different usage type is unaffected by the exclusive grant.
	followUp.UsageType = models.UsageTypeSync
	_, err = suite.service.IssueLicense(authFor(suite.holder), followUp)
	assert.NoError(suite.T(), err)
}

func (suite *LicenseServiceTestSuite) TestExclusiveGrantBlockedByExistingLicense() {
	_, err := suite.service.IssueLicense(authFor(suite.holder), suite.issueRequest())
	suite.Require().NoError(err)

	other := createTestUser(suite.T(), suite.db, uniqueName("other"), models.UserTypeListener)
	exclusive := suite.issueRequest()
	exclusive.LicenseeID = other.ID
	exclusive.IsExclusive = true
	_, err = suite.service.IssueLicense(authFor(suite.holder), exclusive)
	assert.ErrorContains(suite.T(), err, "conflicting license")
}

func (suite *LicenseServiceTestSuite) TestVerifyLicenseExpiresLazily() {
	expiry := time.Now().Add(time.Hour)
	req := suite.issueRequest()
	req.ExpiresAt = &expiry
	license, err := suite.service.IssueLicense(authFor(suite.holder), req)
	suite.Require().NoError(err)

	valid, _, err := suite.service.VerifyLicense(license.ID)
	suite.Require().NoError(err)
	assert.True(suite.T(), valid)

	// Backdate the expiry and verify again; the row flips to expired.
	past := time.Now().Add(-time.Hour)
	suite.Require().NoError(suite.db.Model(license).Update("expires_at", past).Error)

	valid, reloaded, err := suite.service.VerifyLicense(license.ID)
	suite.Require().NoError(err)
	assert.False(suite.T(), valid)
	assert.Equal(suite.T(), models.LicenseStatusExpired, reloaded.Status)
}

func (suite *LicenseServiceTestSuite) TestTransferLicenseRestrictedToLicensee() {
	license, err := suite.service.IssueLicense(authFor(suite.holder), suite.issueRequest())
	suite.Require().NoError(err)

	next := createTestUser(suite.T(), suite.db, uniqueName("next"), models.UserTypeListener)

	_, err = suite.service.TransferLicense(authFor(suite.holder), license.ID, &TransferLicenseRequest{NewLicenseeID: next.ID})
	assert.ErrorContains(suite.T(), err, "unauthorized")

	transferred, err := suite.service.TransferLicense(authFor(suite.licensee), license.ID, &TransferLicenseRequest{NewLicenseeID: next.ID})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), next.ID, transferred.LicenseeID)
}

func (suite *LicenseServiceTestSuite) TestRevokeLicenseIssuerOrAdminOnly() {
	license, err := suite.service.IssueLicense(authFor(suite.holder), suite.issueRequest())
	suite.Require().NoError(err)

	_, err = suite.service.RevokeLicense(authFor(suite.licensee), license.ID)
	assert.ErrorContains(suite.T(), err, "unauthorized")

	revoked, err := suite.service.RevokeLicense(authFor(suite.holder), license.ID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.LicenseStatusRevoked, revoked.Status)
	assert.NotNil(suite.T(), revoked.RevokedAt)

	// A revoked license is neither valid nor revocable again.
	valid, _, err := suite.service.VerifyLicense(license.ID)
	suite.Require().NoError(err)
	assert.False(suite.T(), valid)

	_, err = suite.service.RevokeLicense(authFor(suite.holder), license.ID)
	assert.ErrorContains(suite.T(), err, "only active licenses")
}

func (suite *LicenseServiceTestSuite) TestListLicensesFiltering() {
	_, err := suite.service.IssueLicense(authFor(suite.holder), suite.issueRequest())
	suite.Require().NoError(err)

	params := LicenseSearchParams{PaginationParams: defaultPagination(), LicenseeID: &suite.licensee.ID}
	result, err := suite.service.ListLicenses(params)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), int64(1), result.Total)

	other := createTestUser(suite.T(), suite.db, uniqueName("other"), models.UserTypeListener)
	params.LicenseeID = &other.ID
	result, err = suite.service.ListLicenses(params)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), int64(0), result.Total)
}

func TestLicenseServiceSuite(t *testing.T) {
	suite.Run(t, new(LicenseServiceTestSuite))
}
