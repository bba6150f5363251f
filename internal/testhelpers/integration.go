//go:build integration
// +build integration

package testhelpers

import (
	"os"
	"testing"
	"time"

	"github.com/kjstillabower/weather-dashboard/internal/client"
	"github.com/kjstillabower/weather-dashboard/internal/models"
	"github.com/kjstillabower/weather-dashboard/internal/service"
	"github.com/kjstillabower/weather-dashboard/internal/view"
)

// IntegrationTestConfig holds configuration for tests against the live provider.
type IntegrationTestConfig struct {
	APIKey   string
	APIURL   string
	Location models.Location
	Units    models.Units
}

// GetIntegrationConfig loads integration test configuration from environment.
// Skips test if API_KEY is not set.
func GetIntegrationConfig(t *testing.T) IntegrationTestConfig {
	apiKey := os.Getenv("API_KEY")
	if apiKey == "" {
		t.Skip("API_KEY not set, skipping integration test")
	}

	apiURL := os.Getenv("PROVIDER_URL")
	if apiURL == "" {
		apiURL = "https://api.openweathermap.org/data/3.0/onecall"
	}

	units, err := models.ParseUnits(os.Getenv("UNITS"))
	if err != nil {
		t.Fatalf("UNITS: %v", err)
	}

	return IntegrationTestConfig{
		APIKey:   apiKey,
		APIURL:   apiURL,
		Location: models.Location{Latitude: 52.52, Longitude: 13.405, Name: "Berlin"},
		Units:    units,
	}
}

// SetupIntegrationClient creates a provider client for integration tests.
func SetupIntegrationClient(t *testing.T, cfg IntegrationTestConfig) client.WeatherClient {
	c, err := client.NewOpenWeatherClient(cfg.APIKey, cfg.APIURL, cfg.APIURL, 5*time.Second)
	if err != nil {
		t.Fatalf("NewOpenWeatherClient() error = %v", err)
	}
	return c
}

// SetupIntegrationService creates a dashboard service backed by the live provider.
func SetupIntegrationService(t *testing.T, cfg IntegrationTestConfig) *service.DashboardService {
	return service.NewDashboardService(SetupIntegrationClient(t, cfg), view.Options{
		Location:  cfg.Location,
		Units:     cfg.Units,
		RadarZoom: 7,
	})
}
