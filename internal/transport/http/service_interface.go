package http

import (
	"context"

	"marketlens/internal/services"
)

// AnalyticsService is the service surface the handlers depend on,
// defined here so tests can substitute a stub.
type AnalyticsService interface {
	GetAnalytics(ctx context.Context) (*services.AnalyticsResult, error)
	GetDashboard(ctx context.Context) (*services.DashboardData, error)
	GetChart(ctx context.Context, kind string) ([]byte, error)
}
