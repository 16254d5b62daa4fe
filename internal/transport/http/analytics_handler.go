package http

import (
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"marketlens/internal/analytics"
	apierrors "marketlens/internal/errors"
	"marketlens/internal/services"
)

// AnalyticsHandler serves the JSON analytics API with RFC 7807 errors.
type AnalyticsHandler struct {
	service      AnalyticsService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewAnalyticsHandler creates an analytics API handler.
func NewAnalyticsHandler(service AnalyticsService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *AnalyticsHandler {
	return &AnalyticsHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "analytics_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the /api routes.
func (h *AnalyticsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/analytics", h.GetAnalytics)
	r.Get("/analytics/extended", h.GetExtendedAnalytics)
	r.Get("/chart/{type}", h.GetChart)

	return r
}

// analyticsResponse holds exactly the four core groups.
type analyticsResponse struct {
	Descriptive analytics.Group `json:"descriptive"`
	Performance analytics.Group `json:"performance"`
	Technical   analytics.Group `json:"technical"`
	Risk        analytics.Group `json:"risk"`
}

// GetAnalytics handles GET /api/analytics.
func (h *AnalyticsHandler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.GetAnalytics(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, analyticsResponse{
		Descriptive: result.Report.Descriptive,
		Performance: result.Report.Performance,
		Technical:   result.Report.Technical,
		Risk:        result.Report.Risk,
	})
}

// extendedResponse carries the eight non-core categories plus run metadata.
type extendedResponse struct {
	Groups      map[string]analytics.Group `json:"groups"`
	Records     int                        `json:"records"`
	GeneratedAt time.Time                  `json:"generated_at"`
}

// GetExtendedAnalytics handles GET /api/analytics/extended.
func (h *AnalyticsHandler) GetExtendedAnalytics(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.GetAnalytics(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	groups := make(map[string]analytics.Group)
	for _, g := range result.Report.Extended() {
		groups[g.Name] = g
	}

	render.JSON(w, r, extendedResponse{
		Groups:      groups,
		Records:     result.Records,
		GeneratedAt: result.GeneratedAt,
	})
}

type chartResponse struct {
	ChartType string `json:"chart_type"`
	Chart     string `json:"chart"`
}

// GetChart handles GET /api/chart/{type}, returning the PNG payload
// base64-encoded.
func (h *AnalyticsHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	chartType := chi.URLParam(r, "type")

	png, err := h.service.GetChart(r.Context(), chartType)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	render.JSON(w, r, chartResponse{
		ChartType: chartType,
		Chart:     base64.StdEncoding.EncodeToString(png),
	})
}

// handleServiceError maps service sentinels onto API error types before
// delegating to the shared problem renderer.
func (h *AnalyticsHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidChartType):
		h.errorHandler.HandleError(w, r, apierrors.ErrInvalidChartType)
	case errors.Is(err, services.ErrDataNotFound):
		h.errorHandler.HandleError(w, r, apierrors.DataSourceError(err))
	default:
		h.errorHandler.HandleError(w, r, err)
	}
}
