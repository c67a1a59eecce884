// internal/middleware/rate_limit.go
package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/tunetrust/tunetrust-backend/internal/i18n"
	"github.com/tunetrust/tunetrust-backend/internal/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// clientIdleEviction is how long a bucket may sit unused before its
// entry is dropped from the map.
const clientIdleEviction = 3 * time.Minute

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipLimiter keeps one token bucket per client IP.
type ipLimiter struct {
	clients map[string]*clientBucket
	mtx     sync.Mutex
	rate    rate.Limit
	burst   int
}

func newIPLimiter(r rate.Limit, b int) *ipLimiter {
	l := &ipLimiter{
		clients: make(map[string]*clientBucket),
		rate:    r,
		burst:   b,
	}

	go l.evictIdle()

	return l
}

func (l *ipLimiter) evictIdle() {
	for {
		time.Sleep(time.Minute)
		l.mtx.Lock()
		for ip, b := range l.clients {
			if time.Since(b.lastSeen) > clientIdleEviction {
				delete(l.clients, ip)
			}
		}
		l.mtx.Unlock()
	}
}

func (l *ipLimiter) bucket(ip string) *rate.Limiter {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	b, exists := l.clients[ip]
	if !exists {
		limiter := rate.NewLimiter(l.rate, l.burst)
		l.clients[ip] = &clientBucket{limiter, time.Now()}
		return limiter
	}

	b.lastSeen = time.Now()
	return b.limiter
}

func (l *ipLimiter) handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.bucket(c.ClientIP()).Allow() {
			lang := utils.GetLangFromContext(c)
			utils.ErrorResponse(c, http.StatusTooManyRequests, "RATE_LIMITED",
				i18n.T(lang, i18n.KeyRateLimited), nil)
			c.Abort()
			return
		}

		c.Next()
	}
}

// Tiers. Browsing and play reporting are chatty, so the general bucket
// refills fast; credential attempts and track/evidence uploads get far
// tighter budgets.
var (
	generalLimiter = newIPLimiter(rate.Every(50*time.Millisecond), 40) // catalog, playback, listings
	authLimiter    = newIPLimiter(rate.Every(12*time.Second), 5)      // login/register/refresh
	uploadLimiter  = newIPLimiter(rate.Every(20*time.Second), 3)      // tracks and report evidence
)

func GeneralRateLimit() gin.HandlerFunc {
	return generalLimiter.handler()
}

func AuthRateLimit() gin.HandlerFunc {
	return authLimiter.handler()
}

func UploadRateLimit() gin.HandlerFunc {
	return uploadLimiter.handler()
}
