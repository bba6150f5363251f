package view

import (
	"fmt"
	"math"
	"time"

	"github.com/kjstillabower/weather-dashboard/internal/models"
)

const (
	msToKmh  = 3.6
	msToMph  = 2.2369362920544
	mphToKmh = 1.609344
)

// ConvertTemperature converts between Celsius (metric) and Fahrenheit (imperial).
// An empty source unit is treated as metric.
func ConvertTemperature(v float64, from, to models.Units) float64 {
	from, to = normalize(from), normalize(to)
	switch {
	case from == to:
		return v
	case to == models.UnitsImperial:
		return v*9/5 + 32
	default:
		return (v - 32) * 5 / 9
	}
}

// ConvertWindSpeed converts a provider wind speed into the display unit. The provider
// reports m/s for metric and mph for imperial; the dashboard shows km/h or mph.
func ConvertWindSpeed(v float64, from, to models.Units) float64 {
	from, to = normalize(from), normalize(to)
	switch {
	case from == models.UnitsMetric && to == models.UnitsMetric:
		return v * msToKmh
	case from == models.UnitsMetric && to == models.UnitsImperial:
		return v * msToMph
	case from == models.UnitsImperial && to == models.UnitsMetric:
		return v * mphToKmh
	default:
		return v
	}
}

// FormatTemperature renders a rounded temperature with its unit suffix.
func FormatTemperature(v float64, units models.Units) string {
	if normalize(units) == models.UnitsImperial {
		return fmt.Sprintf("%d°F", round(v))
	}
	return fmt.Sprintf("%d°C", round(v))
}

// FormatWindSpeed renders a rounded display-unit wind speed with its suffix.
func FormatWindSpeed(v float64, units models.Units) string {
	if normalize(units) == models.UnitsImperial {
		return fmt.Sprintf("%d mph", round(v))
	}
	return fmt.Sprintf("%d km/h", round(v))
}

// UVLevel returns the WHO exposure category for a UV index.
func UVLevel(uvi float64) string {
	switch {
	case uvi < 3:
		return "Low"
	case uvi < 6:
		return "Moderate"
	case uvi < 8:
		return "High"
	case uvi < 11:
		return "Very High"
	default:
		return "Extreme"
	}
}

// PrecipitationPercent converts a 0..1 probability to a clamped integer percentage.
func PrecipitationPercent(pop float64) int {
	if math.IsNaN(pop) {
		return 0
	}
	p := int(pop * 100)
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// ResolveZone picks the zone for time labels: the provider's IANA name, else fallback, else UTC.
func ResolveZone(name string, fallback *time.Location) *time.Location {
	if name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	if fallback != nil {
		return fallback
	}
	return time.UTC
}

func round(v float64) int {
	return int(math.Round(v))
}

func normalize(u models.Units) models.Units {
	if u == models.UnitsImperial {
		return u
	}
	return models.UnitsMetric
}
