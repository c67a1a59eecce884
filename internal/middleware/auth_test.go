// internal/middleware/auth_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunetrust/tunetrust-backend/internal/utils"
)

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	authed := router.Group("/", AuthRequired())
	authed.GET("/me", func(c *gin.Context) {
		auth, _ := utils.GetAuthFromContext(c)
		c.JSON(http.StatusOK, gin.H{"user_id": auth.UserID.String(), "user_type": auth.UserType})
	})
	authed.GET("/admin", AdminRequired(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	authed.GET("/artist", ArtistRequired(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	return router
}

func get(router *gin.Engine, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func token(t *testing.T, userType string) string {
	t.Helper()
	utils.SetJWTSecret("middleware-test-secret")
	token, err := utils.GenerateJWT(uuid.New(), "tester", "tester@example.com", "Tester", userType, 1)
	require.NoError(t, err)
	return token
}

func TestAuthRequiredAcceptsBearerTokens(t *testing.T) {
	router := testRouter()

	w := get(router, "/me", "Bearer "+token(t, "listener"))
	assert.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, http.StatusUnauthorized, get(router, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(router, "/me", "Basic abc").Code)
	assert.Equal(t, http.StatusUnauthorized, get(router, "/me", "Bearer not-a-token").Code)
}

func TestAuthRequiredRejectsForeignSignatures(t *testing.T) {
	router := testRouter()
	foreign := token(t, "listener")

	utils.SetJWTSecret("some-other-secret")
	assert.Equal(t, http.StatusUnauthorized, get(router, "/me", "Bearer "+foreign).Code)
}

func TestAdminRequired(t *testing.T) {
	router := testRouter()

	assert.Equal(t, http.StatusOK, get(router, "/admin", "Bearer "+token(t, "admin")).Code)
	assert.Equal(t, http.StatusForbidden, get(router, "/admin", "Bearer "+token(t, "artist")).Code)
	assert.Equal(t, http.StatusForbidden, get(router, "/admin", "Bearer "+token(t, "listener")).Code)
}

func TestArtistRequiredAllowsArtistsAndAdmins(t *testing.T) {
	router := testRouter()

	assert.Equal(t, http.StatusOK, get(router, "/artist", "Bearer "+token(t, "artist")).Code)
	assert.Equal(t, http.StatusOK, get(router, "/artist", "Bearer "+token(t, "admin")).Code)
	assert.Equal(t, http.StatusForbidden, get(router, "/artist", "Bearer "+token(t, "listener")).Code)
}
