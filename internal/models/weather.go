package models

import (
	"fmt"
	"strings"
	"time"
)

// ForecastWindow is the number of hourly points shown on the dashboard.
const ForecastWindow = 36

// Units selects the measurement system for temperatures and wind speeds.
type Units string

const (
	UnitsMetric   Units = "metric"
	UnitsImperial Units = "imperial"
)

// ParseUnits accepts "metric" or "imperial" (case-insensitive). Empty input yields metric.
func ParseUnits(s string) (Units, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "metric":
		return UnitsMetric, nil
	case "imperial":
		return UnitsImperial, nil
	default:
		return "", fmt.Errorf("unknown unit system %q (want metric or imperial)", s)
	}
}

func (u Units) String() string {
	return string(u)
}

// Location is the fixed point the dashboard reports on.
type Location struct {
	Latitude  float64
	Longitude float64
	Name      string
}

// CurrentConditions is a single observation as reported by the provider.
// Temperature and wind values are expressed in Units.
type CurrentConditions struct {
	Temperature   float64
	FeelsLike     float64
	Humidity      int
	Pressure      int
	WindSpeed     float64
	UVIndex       float64
	ConditionCode int
	Condition     string
	Description   string
	IconCode      string // provider icon, e.g. "01n"
	ObservedAt    time.Time
	Timezone      string
	Units         Units
}

// ForecastPoint is one hourly forecast entry.
type ForecastPoint struct {
	Time                     time.Time
	Temperature              float64
	ConditionCode            int
	Condition                string
	Description              string
	IconCode                 string
	Humidity                 int
	WindSpeed                float64
	PrecipitationProbability float64 // 0..1
}

// Forecast is the chronological hourly window, at most ForecastWindow points.
type Forecast struct {
	Points   []ForecastPoint
	Timezone string
	Units    Units
}
