package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"alcyxob/fitness-tracker/internal/auth"
	"alcyxob/fitness-tracker/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ContextIdentityKey holds the verified auth.Identity in the gin context.
const ContextIdentityKey = "identity"

const bearerPrefix = "Bearer "

// AuthGate verifies bearer tokens. Requests without a bearer token continue
// anonymously; a bearer token that fails verification ends the request with
// 401 and an empty body.
func AuthGate(codec *auth.TokenCodec) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			c.Next()
			return
		}

		identity, err := codec.Verify(strings.TrimSpace(header[len(bearerPrefix):]))
		if err != nil {
			reason := rejectionReason(err)
			metrics.GateRejected(reason)
			log.Ctx(c.Request.Context()).Debug().Str("reason", reason).Str("path", c.Request.URL.Path).Msg("Bearer token rejected")
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		c.Set(ContextIdentityKey, identity)
		c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), identity))
		c.Next()
	}
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, auth.ErrExpired):
		return metrics.ReasonExpired
	case errors.Is(err, auth.ErrMalformed):
		return metrics.ReasonMalformed
	default:
		return metrics.ReasonInvalidSignature
	}
}

// identityFromContext returns the identity attached by AuthGate, if any.
func identityFromContext(c *gin.Context) (auth.Identity, bool) {
	raw, exists := c.Get(ContextIdentityKey)
	if !exists {
		return auth.Identity{}, false
	}
	identity, ok := raw.(auth.Identity)
	return identity, ok
}

// RequestTimeout bounds the request context. A non-positive d disables it.
func RequestTimeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
