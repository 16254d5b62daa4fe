// Package services contains the business logic between the HTTP
// transport and the analytics pipeline.
package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"marketlens/internal/analytics"
	"marketlens/internal/chart"
	"marketlens/internal/config"
	"marketlens/internal/dataset"
	"marketlens/internal/infrastructure"
)

// Sentinel errors the transport layer maps to problem responses.
var (
	ErrDataNotFound     = errors.New("market data not found")
	ErrInvalidChartType = errors.New("invalid chart type")
)

// AnalyticsResult is the outcome of a full analytics run.
type AnalyticsResult struct {
	Report      *analytics.Report
	Records     int
	GeneratedAt time.Time
}

// DashboardData bundles the metric report with pre-rendered charts for
// the dashboard page. Chart payloads are base64-encoded PNGs.
type DashboardData struct {
	Report *analytics.Report
	Charts map[string]string
}

// AnalyticsService loads the price series and computes metric groups
// and charts. Every call reloads the source file, so requests never
// share mutable state.
type AnalyticsService struct {
	cfg      *config.Config
	logger   *slog.Logger
	metrics  *infrastructure.Metrics
	loader   *dataset.Loader
	analyzer *analytics.Analyzer
	renderer *chart.Renderer
}

// NewAnalyticsService creates a fully wired AnalyticsService.
func NewAnalyticsService(cfg *config.Config, logger *slog.Logger, metrics *infrastructure.Metrics) *AnalyticsService {
	return &AnalyticsService{
		cfg:      cfg,
		logger:   logger,
		metrics:  metrics,
		loader:   dataset.NewLoader(logger),
		analyzer: analytics.New(cfg.Analytics),
		renderer: chart.NewRenderer(cfg.Report.ChartWidth, cfg.Report.ChartHeight),
	}
}

// Derive loads the configured source file and computes the derived
// column bundle.
func (s *AnalyticsService) Derive(ctx context.Context) (*analytics.Derived, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	series, err := s.loader.Load(s.cfg.Data.File)
	if err != nil {
		s.metrics.DataLoadErrors.Inc()
		s.logger.ErrorContext(ctx, "failed to load price series",
			slog.String("file", s.cfg.Data.File),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %s", ErrDataNotFound, s.cfg.Data.File)
	}

	return analytics.Derive(series, s.cfg.Analytics), nil
}

// GetAnalytics computes every metric group for the configured series.
func (s *AnalyticsService) GetAnalytics(ctx context.Context) (*AnalyticsResult, error) {
	start := time.Now()

	derived, err := s.Derive(ctx)
	if err != nil {
		return nil, err
	}

	report := s.analyzer.Analyze(derived)
	s.metrics.AnalyticsComputeDur.Observe(time.Since(start).Seconds())

	s.logger.InfoContext(ctx, "analytics computed",
		slog.Int("records", derived.Series.Len()),
		slog.Duration("duration", time.Since(start)))

	return &AnalyticsResult{
		Report:      report,
		Records:     derived.Series.Len(),
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// GetDashboard computes the metric report plus every chart, encoded for
// inline embedding.
func (s *AnalyticsService) GetDashboard(ctx context.Context) (*DashboardData, error) {
	derived, err := s.Derive(ctx)
	if err != nil {
		return nil, err
	}

	report := s.analyzer.Analyze(derived)

	charts := make(map[string]string, len(chart.Kinds()))
	for _, kind := range chart.Kinds() {
		png, err := s.renderer.Render(kind, derived)
		if err != nil {
			return nil, fmt.Errorf("render %s chart: %w", kind, err)
		}
		s.metrics.ChartsRendered.WithLabelValues(string(kind)).Inc()
		charts[string(kind)] = base64.StdEncoding.EncodeToString(png)
	}

	return &DashboardData{Report: report, Charts: charts}, nil
}

// GetChart renders a single chart as PNG bytes. Unknown kinds return
// ErrInvalidChartType.
func (s *AnalyticsService) GetChart(ctx context.Context, kind string) ([]byte, error) {
	derived, err := s.Derive(ctx)
	if err != nil {
		return nil, err
	}

	png, err := s.renderer.Render(chart.Kind(kind), derived)
	if err != nil {
		var unknownErr *chart.UnknownKindError
		if errors.As(err, &unknownErr) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidChartType, kind)
		}
		return nil, err
	}

	s.metrics.ChartsRendered.WithLabelValues(kind).Inc()
	return png, nil
}
