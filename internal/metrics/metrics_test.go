package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareCountsByRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Middleware())
	router.GET("/api/workouts/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/workouts/:id", "200"))
	for _, id := range []string{"a", "b"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/workouts/"+id, nil))
	}
	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/workouts/:id", "200"))
	assert.Equal(t, before+2, after)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.GreaterOrEqual(t, testutil.ToFloat64(httpRequests.WithLabelValues("GET", "unmatched", "404")), 1.0)
}

func TestAuthCounters(t *testing.T) {
	before := testutil.ToFloat64(gateRejections.WithLabelValues(ReasonExpired))
	GateRejected(ReasonExpired)
	assert.Equal(t, before+1, testutil.ToFloat64(gateRejections.WithLabelValues(ReasonExpired)))

	before = testutil.ToFloat64(loginAttempts.WithLabelValues(LoginFailure))
	LoginAttempt(LoginFailure)
	assert.Equal(t, before+1, testutil.ToFloat64(loginAttempts.WithLabelValues(LoginFailure)))
}

func TestHandlerExposesMetrics(t *testing.T) {
	LoginAttempt(LoginSuccess)
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "fitness_tracker_auth_login_attempts_total")
}
