// internal/services/report_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/tunetrust/tunetrust-backend/internal/models"
)

type ReportServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *ReportService

	reporter *models.User
	admin    *models.User
	song     *models.Song
}

func (suite *ReportServiceTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())
	cfg := newTestConfig()

	storageService, err := NewStorageService(cfg)
	suite.Require().NoError(err)
	notificationService := NewNotificationService(suite.db, cfg)
	suite.service = NewReportService(suite.db, storageService, notificationService)

	suite.reporter = createTestUser(suite.T(), suite.db, uniqueName("reporter"), models.UserTypeListener)
	suite.admin = createTestUser(suite.T(), suite.db, uniqueName("admin"), models.UserTypeAdmin)
	artist := createTestUser(suite.T(), suite.db, uniqueName("artist"), models.UserTypeArtist)
	suite.song = createTestSong(suite.T(), suite.db, "Disputed Track", artist)
}

func (suite *ReportServiceTestSuite) createReport() *models.IssueReport {
	report, err := suite.service.CreateReport(authFor(suite.reporter), &CreateReportRequest{
		SongID:    suite.song.ID,
		IssueType: "Copyright Violation",
		Evidence:  "Original release predates this upload",
	}, nil, nil)
	suite.Require().NoError(err)
	return report
}

func (suite *ReportServiceTestSuite) TestCreateReportValidatesIssueType() {
	report := suite.createReport()
	assert.Equal(suite.T(), models.ReportStatusUnderReview, report.Status)
	assert.Equal(suite.T(), suite.reporter.ID, report.ReporterID)

	_, err := suite.service.CreateReport(authFor(suite.reporter), &CreateReportRequest{
		SongID:    suite.song.ID,
		IssueType: "Sounds Bad",
	}, nil, nil)
	assert.ErrorContains(suite.T(), err, "invalid issue type")
}

func (suite *ReportServiceTestSuite) TestCreateReportStoresEvidenceFile() {
	file, header := multipartFile(suite.T(), "proof.pdf", []byte("%PDF-1.4 evidence"))

	report, err := suite.service.CreateReport(authFor(suite.reporter), &CreateReportRequest{
		SongID:    suite.song.ID,
		IssueType: "Unauthorized Sample",
	}, file, header)
	suite.Require().NoError(err)

	assert.NotEmpty(suite.T(), report.EvidenceURL)
	assert.Equal(suite.T(), "proof.pdf", report.Evidence)
}

func (suite *ReportServiceTestSuite) TestListReportsScopedByRole() {
	suite.createReport()

	other := createTestUser(suite.T(), suite.db, uniqueName("other"), models.UserTypeListener)
	params := ReportSearchParams{PaginationParams: defaultPagination()}

	mine, err := suite.service.ListReports(authFor(suite.reporter), params)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), int64(1), mine.Total)

	theirs, err := suite.service.ListReports(authFor(other), params)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), int64(0), theirs.Total)

	all, err := suite.service.ListReports(authFor(suite.admin), params)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), int64(1), all.Total)
}

func (suite *ReportServiceTestSuite) TestGetReportRestricted() {
	report := suite.createReport()
	other := createTestUser(suite.T(), suite.db, uniqueName("other"), models.UserTypeListener)

	_, err := suite.service.GetReport(authFor(other), report.ID)
	assert.ErrorContains(suite.T(), err, "unauthorized")

	got, err := suite.service.GetReport(authFor(suite.admin), report.ID)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), report.ID, got.ID)
}

func (suite *ReportServiceTestSuite) TestResolveReportAdminOnlyAndOnce() {
	report := suite.createReport()

	_, err := suite.service.ResolveReport(authFor(suite.reporter), report.ID, &ResolveReportRequest{
		Status: models.ReportStatusResolved,
	})
	assert.ErrorContains(suite.T(), err, "unauthorized")

	resolved, err := suite.service.ResolveReport(authFor(suite.admin), report.ID, &ResolveReportRequest{
		Status:     models.ReportStatusResolved,
		AdminNotes: "Takedown issued",
	})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.ReportStatusResolved, resolved.Status)
	assert.Equal(suite.T(), suite.admin.ID, *resolved.ResolvedBy)

	_, err = suite.service.ResolveReport(authFor(suite.admin), report.ID, &ResolveReportRequest{
		Status: models.ReportStatusDismissed,
	})
	assert.ErrorContains(suite.T(), err, "already processed")
}

func TestReportServiceSuite(t *testing.T) {
	suite.Run(t, new(ReportServiceTestSuite))
}
