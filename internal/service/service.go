package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kjstillabower/weather-dashboard/internal/client"
	"github.com/kjstillabower/weather-dashboard/internal/models"
	"github.com/kjstillabower/weather-dashboard/internal/observability"
	"github.com/kjstillabower/weather-dashboard/internal/view"
)

// DashboardService builds the dashboard context for one request: current conditions,
// then the forecast window, then composition. It keeps no data between calls.
type DashboardService struct {
	client client.WeatherClient
	opts   view.Options
}

// NewDashboardService creates a DashboardService. opts is copied and never modified.
func NewDashboardService(client client.WeatherClient, opts view.Options) *DashboardService {
	return &DashboardService{
		client: client,
		opts:   opts,
	}
}

// Options returns the composer options the service was built with.
func (s *DashboardService) Options() view.Options {
	return s.opts
}

// Dashboard fetches both datasets sequentially and composes them. The first failure is
// returned wrapped; the underlying *client.NetworkError or *client.ProviderError stays
// reachable with errors.As. Nothing is retried.
func (s *DashboardService) Dashboard(ctx context.Context) (view.Context, error) {
	start := time.Now()
	logger := observability.LoggerFromContext(ctx)
	loc, units := s.opts.Location, s.opts.Units

	current, err := s.client.FetchCurrent(ctx, loc, units)
	if err != nil {
		return view.Context{}, fmt.Errorf("fetch current conditions: %w", err)
	}

	forecast, err := s.client.FetchForecast(ctx, loc, units)
	if err != nil {
		return view.Context{}, fmt.Errorf("fetch forecast: %w", err)
	}
	if len(forecast.Points) > models.ForecastWindow {
		forecast.Points = forecast.Points[:models.ForecastWindow]
	}

	composed := view.Compose(current, forecast, s.opts)
	logger.Debug("dashboard composed",
		zap.Int("forecast_points", len(composed.Hourly)),
		zap.String("units", units.String()),
		zap.Duration("duration", time.Since(start)))
	return composed, nil
}
