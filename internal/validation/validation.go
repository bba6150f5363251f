package validation

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // zone database for containers without /usr/share/zoneinfo
)

// ErrRequired is returned when a required value is empty or whitespace-only after trim.
var ErrRequired = errors.New("value is required")

// ErrNotANumber is returned when a coordinate cannot be parsed as a float.
var ErrNotANumber = errors.New("not a number")

// ErrOutOfRange is returned when a coordinate lies outside its valid range.
var ErrOutOfRange = errors.New("out of range")

// ErrInvalidTimezone is returned when a timezone name is not a known IANA zone.
var ErrInvalidTimezone = errors.New("unknown timezone")

// ValidateLatitude parses a latitude in decimal degrees and enforces [-90, 90].
func ValidateLatitude(input string) (float64, error) {
	return parseCoordinate(input, 90)
}

// ValidateLongitude parses a longitude in decimal degrees and enforces [-180, 180].
func ValidateLongitude(input string) (float64, error) {
	return parseCoordinate(input, 180)
}

func parseCoordinate(input string, limit float64) (float64, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, ErrRequired
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrNotANumber
	}
	if v < -limit || v > limit {
		return 0, ErrOutOfRange
	}
	return v, nil
}

// ValidateAPIKey trims the key and rejects empty values or keys containing whitespace.
func ValidateAPIKey(input string) (string, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", ErrRequired
	}
	if strings.ContainsAny(s, " \t\r\n") {
		return "", errors.New("API key must not contain whitespace")
	}
	return s, nil
}

// ValidateTimezone resolves an IANA zone name. Empty input returns (nil, nil).
func ValidateTimezone(input string) (*time.Location, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return nil, nil
	}
	loc, err := time.LoadLocation(s)
	if err != nil {
		return nil, ErrInvalidTimezone
	}
	return loc, nil
}
