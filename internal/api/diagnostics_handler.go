package api

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// DatabaseReport is what a DatabaseProbe found.
type DatabaseReport struct {
	Database    string   `json:"database"`
	Collections []string `json:"collections"`
	WriteTest   bool     `json:"writeTest"`
}

// DatabaseProbe checks connectivity of the configured store.
type DatabaseProbe interface {
	Probe(ctx context.Context) (DatabaseReport, error)
}

// EnvInfo is the static environment summary served by /env-info.
type EnvInfo struct {
	Profile     string `json:"activeProfile"`
	Driver      string `json:"databaseDriver"`
	DatabaseURI string `json:"databaseUri"` // masked
	Database    string `json:"databaseName"`
	IsAtlas     bool   `json:"isAtlas"`
}

type DiagnosticsHandler struct {
	probe DatabaseProbe
	env   EnvInfo
}

func NewDiagnosticsHandler(probe DatabaseProbe, env EnvInfo) *DiagnosticsHandler {
	return &DiagnosticsHandler{probe: probe, env: env}
}

// DatabaseTest pings the store and lists its collections.
func (h *DiagnosticsHandler) DatabaseTest(c *gin.Context) {
	now := time.Now().UTC()
	if h.probe == nil {
		c.JSON(http.StatusOK, gin.H{"status": "skipped", "driver": h.env.Driver, "timestamp": now})
		return
	}

	report, err := h.probe.Probe(c.Request.Context())
	if err != nil {
		log.Ctx(c.Request.Context()).Error().Err(err).Msg("Database diagnostics failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":    "error",
			"error":     err.Error(),
			"timestamp": now,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":      "connected",
		"database":    report.Database,
		"collections": report.Collections,
		"writeTest":   report.WriteTest,
		"timestamp":   now,
	})
}

func (h *DiagnosticsHandler) EnvInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"environment": h.env,
		"goVersion":   runtime.Version(),
		"timestamp":   time.Now().UTC(),
	})
}
