package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"alcyxob/fitness-tracker/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthGateAttachesIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	codec := auth.NewTokenCodec("gate-secret")
	token, err := codec.Issue("alice", "user", time.Minute)
	require.NoError(t, err)

	var fromGin, fromCtx auth.Identity
	var anonymous bool
	router := gin.New()
	router.Use(AuthGate(codec))
	router.GET("/who", func(c *gin.Context) {
		var ok bool
		fromGin, ok = identityFromContext(c)
		anonymous = !ok
		fromCtx, _ = auth.IdentityFromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/who", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, anonymous)
	assert.Equal(t, auth.Identity{Subject: "alice", Role: "user"}, fromGin)
	assert.Equal(t, fromGin, fromCtx)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/who", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, anonymous)
}

func TestAuthGateRejections(t *testing.T) {
	gin.SetMode(gin.TestMode)
	codec := auth.NewTokenCodec("gate-secret")
	other := auth.NewTokenCodec("other-secret")
	forged, err := other.Issue("alice", "admin", time.Minute)
	require.NoError(t, err)

	router := gin.New()
	router.Use(AuthGate(codec))
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	for name, header := range map[string]string{
		"malformed":    "Bearer abc",
		"empty token":  "Bearer ",
		"wrong secret": "Bearer " + forged,
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			req.Header.Set("Authorization", header)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Empty(t, rec.Body.String())
		})
	}
}

func TestRequestTimeoutSetsDeadline(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestTimeout(time.Second))
	var hasDeadline bool
	router.GET("/x", func(c *gin.Context) {
		_, hasDeadline = c.Request.Context().Deadline()
		c.Status(http.StatusOK)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.True(t, hasDeadline)
}
