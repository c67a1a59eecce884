// internal/middleware/rate_limit_test.go
package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func rateLimitedRouter(l *ipLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/ping", l.handler(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func pingFrom(router *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimitRejectsBurstOverflow(t *testing.T) {
	// A bucket that never refills during the test, burst of 2.
	router := rateLimitedRouter(newIPLimiter(rate.Every(time.Hour), 2))

	assert.Equal(t, http.StatusOK, pingFrom(router, "198.51.100.7:1000").Code)
	assert.Equal(t, http.StatusOK, pingFrom(router, "198.51.100.7:1000").Code)

	w := pingFrom(router, "198.51.100.7:1000")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, false, response["success"])

	apiErr, ok := response["error"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "RATE_LIMITED", apiErr["code"])
	assert.NotEmpty(t, apiErr["message"])
}

func TestRateLimitTracksClientsIndependently(t *testing.T) {
	router := rateLimitedRouter(newIPLimiter(rate.Every(time.Hour), 1))

	assert.Equal(t, http.StatusOK, pingFrom(router, "198.51.100.7:1000").Code)
	assert.Equal(t, http.StatusTooManyRequests, pingFrom(router, "198.51.100.7:1000").Code)

	// A different client gets its own bucket.
	assert.Equal(t, http.StatusOK, pingFrom(router, "203.0.113.9:2000").Code)
}
