package http

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/render"
)

// HealthHandler reports service liveness and whether the configured
// data source is reachable.
type HealthHandler struct {
	dataFile string
	logger   *slog.Logger
	started  time.Time
}

// NewHealthHandler creates a health handler for the given data file.
func NewHealthHandler(dataFile string, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		dataFile: dataFile,
		logger:   logger.With(slog.String("component", "health_handler")),
		started:  time.Now(),
	}
}

type healthResponse struct {
	Status     string `json:"status"`
	DataSource string `json:"data_source"`
	Uptime     string `json:"uptime"`
	Timestamp  string `json:"timestamp"`
}

// Health handles GET /api/health. The server stays up without its data
// file, so an unreadable source degrades the status instead of failing it.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	source := "available"
	if _, err := os.Stat(h.dataFile); err != nil {
		status = "degraded"
		source = "unavailable"
	}

	render.JSON(w, r, healthResponse{
		Status:     status,
		DataSource: source,
		Uptime:     time.Since(h.started).Round(time.Second).String(),
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	})
}
