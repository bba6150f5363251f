package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/kjstillabower/weather-dashboard/internal/models"
	"github.com/kjstillabower/weather-dashboard/internal/validation"
)

// DefaultProviderURL is the OpenWeatherMap One Call endpoint used for both fetches.
const DefaultProviderURL = "https://api.openweathermap.org/data/3.0/onecall"

// DefaultLocationName is shown when LOCATION_NAME is unset.
const DefaultLocationName = "Your Location"

// ConfigError reports a missing or invalid setting. Startup must abort on it.
type ConfigError struct {
	Key string
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %v", e.Key, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Config holds service configuration loaded from YAML, .env and the environment.
// It is read-only after Load returns.
type Config struct {
	ServerPort string

	APIKey   string
	Location models.Location
	Units    models.Units

	ProviderCurrentURL  string
	ProviderForecastURL string
	ProviderTimeout     time.Duration

	RequestTimeout time.Duration

	// Timezone is used for hour labels when the provider response names no zone. Nil means UTC.
	Timezone *time.Location

	RadarZoom int
	WebcamURL string

	DegradedWindow   time.Duration
	DegradedErrorPct int

	ShutdownTimeout         time.Duration
	ShutdownInFlightTimeout time.Duration
}

type fileConfig struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`

	Provider struct {
		CurrentURL  string `yaml:"current_url"`
		ForecastURL string `yaml:"forecast_url"`
		Timeout     string `yaml:"timeout"`
	} `yaml:"provider"`

	Request struct {
		Timeout string `yaml:"timeout"`
	} `yaml:"request"`

	Display struct {
		Timezone string `yaml:"timezone"`
	} `yaml:"display"`

	Embed struct {
		RadarZoom int    `yaml:"radar_zoom"`
		WebcamURL string `yaml:"webcam_url"`
	} `yaml:"embed"`

	Health struct {
		DegradedWindow   string `yaml:"degraded_window"`
		DegradedErrorPct int    `yaml:"degraded_error_pct"`
	} `yaml:"health"`

	Shutdown struct {
		Timeout         string `yaml:"timeout"`
		InFlightTimeout string `yaml:"in_flight_timeout"`
	} `yaml:"shutdown"`
}

// Load reads config/{ENV_NAME}.yaml (default dev, directory overridable with CONFIG_DIR),
// then a .env file if present, then the process environment. The YAML file is optional.
// API_KEY, LATITUDE and LONGITUDE are required; any invalid value yields a *ConfigError.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, &ConfigError{Key: ".env", Err: err}
	}

	fc, err := readFileConfig()
	if err != nil {
		return nil, err
	}

	cfg := &Config{}

	cfg.ServerPort = firstNonEmpty(os.Getenv("PORT"), fc.Server.Port, "5000")

	cfg.APIKey, err = validation.ValidateAPIKey(os.Getenv("API_KEY"))
	if err != nil {
		return nil, &ConfigError{Key: "API_KEY", Err: err}
	}

	lat, err := validation.ValidateLatitude(os.Getenv("LATITUDE"))
	if err != nil {
		return nil, &ConfigError{Key: "LATITUDE", Err: err}
	}
	lon, err := validation.ValidateLongitude(os.Getenv("LONGITUDE"))
	if err != nil {
		return nil, &ConfigError{Key: "LONGITUDE", Err: err}
	}
	cfg.Location = models.Location{
		Latitude:  lat,
		Longitude: lon,
		Name:      firstNonEmpty(os.Getenv("LOCATION_NAME"), DefaultLocationName),
	}

	cfg.Units, err = models.ParseUnits(os.Getenv("UNITS"))
	if err != nil {
		return nil, &ConfigError{Key: "UNITS", Err: err}
	}

	cfg.ProviderCurrentURL = firstNonEmpty(fc.Provider.CurrentURL, DefaultProviderURL)
	cfg.ProviderForecastURL = firstNonEmpty(fc.Provider.ForecastURL, DefaultProviderURL)
	cfg.ProviderTimeout = parseDuration(fc.Provider.Timeout, 5*time.Second)
	cfg.RequestTimeout = parseDuration(fc.Request.Timeout, 2*cfg.ProviderTimeout+time.Second)

	cfg.Timezone, err = validation.ValidateTimezone(firstNonEmpty(os.Getenv("TIMEZONE"), fc.Display.Timezone))
	if err != nil {
		return nil, &ConfigError{Key: "TIMEZONE", Err: err}
	}

	cfg.RadarZoom = fc.Embed.RadarZoom
	if cfg.RadarZoom <= 0 {
		cfg.RadarZoom = 7
	}
	cfg.WebcamURL = strings.TrimSpace(firstNonEmpty(os.Getenv("WEBCAM_URL"), fc.Embed.WebcamURL))

	cfg.DegradedWindow = parseDuration(fc.Health.DegradedWindow, 60*time.Second)
	cfg.DegradedErrorPct = fc.Health.DegradedErrorPct
	if cfg.DegradedErrorPct <= 0 {
		cfg.DegradedErrorPct = 50
	}

	cfg.ShutdownTimeout = parseDuration(fc.Shutdown.Timeout, 10*time.Second)
	cfg.ShutdownInFlightTimeout = parseDuration(fc.Shutdown.InFlightTimeout, 10*time.Second)

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// readFileConfig parses the optional YAML file. A missing file yields zero values.
func readFileConfig() (fileConfig, error) {
	var fc fileConfig

	env := firstNonEmpty(os.Getenv("ENV_NAME"), "dev")
	dir := firstNonEmpty(os.Getenv("CONFIG_DIR"), "config")
	configPath := filepath.Join(dir, env+".yaml")

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fc, nil
		}
		return fc, &ConfigError{Key: configPath, Err: fmt.Errorf("read config file: %w", err)}
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, &ConfigError{Key: configPath, Err: fmt.Errorf("parse config file: %w", err)}
	}
	return fc, nil
}

// parseDuration parses a duration string and returns defaultVal if parsing fails or result is <= 0.
func parseDuration(s string, defaultVal time.Duration) time.Duration {
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// validate performs post-load checks. RequestTimeout is raised above ProviderTimeout
// so a single provider call can never outlive the request deadline check.
func validate(cfg *Config) error {
	port, err := strconv.Atoi(cfg.ServerPort)
	if err != nil || port <= 0 || port > 65535 {
		return &ConfigError{Key: "PORT", Err: fmt.Errorf("invalid port %q", cfg.ServerPort)}
	}
	if cfg.RequestTimeout <= cfg.ProviderTimeout {
		cfg.RequestTimeout = cfg.ProviderTimeout + time.Second
	}
	if cfg.DegradedErrorPct > 100 {
		return &ConfigError{Key: "health.degraded_error_pct", Err: fmt.Errorf("must be 1..100, got %d", cfg.DegradedErrorPct)}
	}
	return nil
}
