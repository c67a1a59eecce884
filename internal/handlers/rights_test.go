// internal/handlers/rights_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tunetrust/tunetrust-backend/internal/config"
	"github.com/tunetrust/tunetrust-backend/internal/middleware"
	"github.com/tunetrust/tunetrust-backend/internal/models"
	"github.com/tunetrust/tunetrust-backend/internal/services"
	"github.com/tunetrust/tunetrust-backend/internal/utils"
)

type RightsHandlerTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine

	requestor *models.User
	holder    *models.User
	song      *models.Song
}

func (suite *RightsHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	suite.Require().NoError(err)
	sqlDB, err := db.DB()
	suite.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)
	suite.Require().NoError(db.AutoMigrate(&models.User{}, &models.Song{}, &models.RightsRequest{}))
	suite.db = db

	cfg := &config.Config{
		JWT: config.JWTConfig{SecretKey: "handler-test-secret", AccessTokenTTL: 1},
	}
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	notificationService := services.NewNotificationService(db, cfg)
	ledgerService := services.NewLedgerService(db, cfg)
	rightsHandler := NewRightsHandler(services.NewRightsService(db, notificationService, ledgerService))

	suite.router = gin.New()
	group := suite.router.Group("/v1/rights-requests")
	group.Use(middleware.AuthRequired())
	{
		group.POST("", rightsHandler.CreateRightsRequest)
		group.GET("", rightsHandler.ListRightsRequests)
		group.GET("/:id", rightsHandler.GetRightsRequest)
		group.POST("/:id/decision", rightsHandler.DecideRightsRequest)
	}

	suite.requestor = suite.createUser("requestor", models.UserTypeListener)
	suite.holder = suite.createUser("holder", models.UserTypeArtist)

	suite.song = &models.Song{
		UploaderID: suite.holder.ID,
		SongName:   "Wire Test Track",
		Genre:      "rock",
		Status:     models.SongStatusActive,
	}
	suite.song.AddArtist(suite.holder.ID.String(), models.ArtistEntry{
		Role: "composer", Split: 100, Email: suite.holder.Email,
	})
	suite.Require().NoError(db.Create(suite.song).Error)
}

func (suite *RightsHandlerTestSuite) createUser(name string, userType models.UserType) *models.User {
	user := &models.User{
		Username:    name,
		Email:       name + "@example.com",
		DisplayName: name,
		UserType:    userType,
		Status:      models.UserStatusActive,
		OwnedSongs:  models.StringList{},
	}
	suite.Require().NoError(user.SetPassword("Sup3rSecret!"))
	suite.Require().NoError(suite.db.Create(user).Error)
	return user
}

func (suite *RightsHandlerTestSuite) tokenFor(user *models.User) string {
	token, err := utils.GenerateJWT(user.ID, user.Username, user.Email, user.DisplayName, string(user.UserType), 1)
	suite.Require().NoError(err)
	return token
}

func (suite *RightsHandlerTestSuite) request(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *RightsHandlerTestSuite) decode(w *httptest.ResponseRecorder) map[string]interface{} {
	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func (suite *RightsHandlerTestSuite) createRequestID() string {
	w := suite.request(http.MethodPost, "/v1/rights-requests", suite.tokenFor(suite.requestor), gin.H{
		"song_id":    suite.song.ID.String(),
		"right_type": "licensing",
		"offer":      250,
	})
	suite.Require().Equal(http.StatusCreated, w.Code)

	response := suite.decode(w)
	data := response["data"].(map[string]interface{})
	request := data["request"].(map[string]interface{})
	return request["id"].(string)
}

func (suite *RightsHandlerTestSuite) TestCreateRightsRequest() {
	w := suite.request(http.MethodPost, "/v1/rights-requests", suite.tokenFor(suite.requestor), gin.H{
		"song_id":    suite.song.ID.String(),
		"right_type": "licensing",
	})

	assert.Equal(suite.T(), http.StatusCreated, w.Code)
	response := suite.decode(w)
	assert.True(suite.T(), response["success"].(bool))
}

func (suite *RightsHandlerTestSuite) TestCreateRightsRequestRequiresAuth() {
	w := suite.request(http.MethodPost, "/v1/rights-requests", "", gin.H{
		"song_id":    suite.song.ID.String(),
		"right_type": "licensing",
	})
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)

	w = suite.request(http.MethodPost, "/v1/rights-requests", "not-a-token", gin.H{})
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func (suite *RightsHandlerTestSuite) TestCreateRightsRequestValidation() {
	w := suite.request(http.MethodPost, "/v1/rights-requests", suite.tokenFor(suite.requestor), gin.H{
		"song_id": suite.song.ID.String(),
	})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	response := suite.decode(w)
	assert.False(suite.T(), response["success"].(bool))
}

func (suite *RightsHandlerTestSuite) TestDecisionFlowOverHTTP() {
	id := suite.createRequestID()

	w := suite.request(http.MethodPost, "/v1/rights-requests/"+id+"/decision", suite.tokenFor(suite.holder), gin.H{
		"action": "accept",
	})
	suite.Require().Equal(http.StatusOK, w.Code)

	response := suite.decode(w)
	data := response["data"].(map[string]interface{})
	request := data["request"].(map[string]interface{})
	assert.Equal(suite.T(), string(models.RequestStatusConfirmed), request["status"])

	// The request is terminal now; a second decision conflicts.
	w = suite.request(http.MethodPost, "/v1/rights-requests/"+id+"/decision", suite.tokenFor(suite.holder), gin.H{
		"action": "reject",
	})
	assert.Equal(suite.T(), http.StatusConflict, w.Code)
}

func (suite *RightsHandlerTestSuite) TestDecisionForbiddenForNonHolders() {
	id := suite.createRequestID()

	w := suite.request(http.MethodPost, "/v1/rights-requests/"+id+"/decision", suite.tokenFor(suite.requestor), gin.H{
		"action": "accept",
	})
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

func (suite *RightsHandlerTestSuite) TestListRightsRequestsViews() {
	suite.createRequestID()

	w := suite.request(http.MethodGet, "/v1/rights-requests?view=sent", suite.tokenFor(suite.requestor), nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	response := suite.decode(w)
	data := response["data"].([]interface{})
	assert.Len(suite.T(), data, 1)

	w = suite.request(http.MethodGet, "/v1/rights-requests?view=requests", suite.tokenFor(suite.holder), nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	response = suite.decode(w)
	data = response["data"].([]interface{})
	assert.Len(suite.T(), data, 1)

	w = suite.request(http.MethodGet, "/v1/rights-requests?view=nope", suite.tokenFor(suite.holder), nil)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *RightsHandlerTestSuite) TestGetRightsRequest() {
	id := suite.createRequestID()

	w := suite.request(http.MethodGet, "/v1/rights-requests/"+id, suite.tokenFor(suite.holder), nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	w = suite.request(http.MethodGet, "/v1/rights-requests/not-a-uuid", suite.tokenFor(suite.holder), nil)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func TestRightsHandlerSuite(t *testing.T) {
	suite.Run(t, new(RightsHandlerTestSuite))
}
