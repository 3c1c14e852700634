package api

import (
	"net/http"
	"sync"
	"time"

	"alcyxob/fitness-tracker/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const limiterIdleTTL = time.Hour

// LoginThrottle limits credential endpoints per client IP.
type LoginThrottle struct {
	mu        sync.Mutex
	limiters  map[string]*limiterEntry
	rate      rate.Limit
	burst     int
	now       func() time.Time
	lastSweep time.Time
}

type limiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// NewLoginThrottle allows perMinute requests per client IP, with bursts of
// the same size. A non-positive perMinute returns nil, which disables throttling.
func NewLoginThrottle(perMinute int) *LoginThrottle {
	if perMinute <= 0 {
		return nil
	}
	return &LoginThrottle{
		limiters: make(map[string]*limiterEntry),
		rate:     rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    perMinute,
		now:      time.Now,
	}
}

// Allow reports whether another request from ip may proceed.
func (t *LoginThrottle) Allow(ip string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	if now.Sub(t.lastSweep) > limiterIdleTTL {
		for key, e := range t.limiters {
			if now.Sub(e.lastAccess) > limiterIdleTTL {
				delete(t.limiters, key)
			}
		}
		t.lastSweep = now
	}

	e, ok := t.limiters[ip]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(t.rate, t.burst)}
		t.limiters[ip] = e
	}
	e.lastAccess = now
	return e.limiter.AllowN(now, 1)
}

// Middleware rejects throttled requests with 429. A nil throttle lets everything through.
func (t *LoginThrottle) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if t == nil || t.Allow(c.ClientIP()) {
			c.Next()
			return
		}
		metrics.GateRejected(metrics.ReasonThrottled)
		log.Ctx(c.Request.Context()).Warn().Str("client", c.ClientIP()).Msg("login throttled")
		c.Header("Retry-After", "60")
		c.AbortWithStatus(http.StatusTooManyRequests)
	}
}
