// Package testhelpers provides fixtures shared by tests across packages.
package testhelpers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"
)

// Fixture describes the One Call payload a ProviderServer returns. Values are served as-is
// regardless of the units query parameter.
type Fixture struct {
	Timezone      string
	Start         time.Time
	Hours         int
	Temperature   float64
	FeelsLike     float64
	Humidity      int
	Pressure      int
	WindSpeed     float64
	UVIndex       float64
	ConditionCode int
	Main          string
	Description   string
	Icon          string
}

// DefaultFixture returns a clear-sky Berlin fixture with 48 hourly points starting at start.
func DefaultFixture(start time.Time) Fixture {
	return Fixture{
		Timezone:      "Europe/Berlin",
		Start:         start,
		Hours:         48,
		Temperature:   21.4,
		FeelsLike:     20.8,
		Humidity:      55,
		Pressure:      1013,
		WindSpeed:     4.2,
		UVIndex:       4.6,
		ConditionCode: 800,
		Main:          "Clear",
		Description:   "clear sky",
		Icon:          "01d",
	}
}

// HourlyTimes returns the Unix timestamps of the fixture's hourly points, in order.
func (f Fixture) HourlyTimes() []int64 {
	times := make([]int64, f.Hours)
	for i := range times {
		times[i] = f.Start.Add(time.Duration(i) * time.Hour).Unix()
	}
	return times
}

// ProviderServer is an httptest server that mimics the One Call endpoint. The exclude
// query parameter decides which blocks are sent.
type ProviderServer struct {
	*httptest.Server

	mu       sync.Mutex
	fixture  Fixture
	status   int
	requests []url.Values
}

// NewProviderServer starts a ProviderServer closed automatically when t finishes.
func NewProviderServer(t testing.TB, f Fixture) *ProviderServer {
	t.Helper()
	p := &ProviderServer{fixture: f}
	p.Server = httptest.NewServer(http.HandlerFunc(p.serve))
	t.Cleanup(p.Close)
	return p
}

// SetStatus forces every following response to the given status code. Zero restores success.
func (p *ProviderServer) SetStatus(code int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status = code
}

// Requests returns the query parameters of every request served so far.
func (p *ProviderServer) Requests() []url.Values {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]url.Values, len(p.requests))
	copy(out, p.requests)
	return out
}

func (p *ProviderServer) serve(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	p.requests = append(p.requests, r.URL.Query())
	f, status := p.fixture, p.status
	p.mu.Unlock()

	if status != 0 {
		w.WriteHeader(status)
		_, _ = fmt.Fprintf(w, `{"cod":%d,"message":%q}`, status, http.StatusText(status))
		return
	}

	exclude := strings.Split(r.URL.Query().Get("exclude"), ",")
	excluded := func(block string) bool {
		for _, e := range exclude {
			if e == block {
				return true
			}
		}
		return false
	}

	resp := map[string]any{
		"timezone": f.Timezone,
	}
	if !excluded("current") {
		resp["current"] = map[string]any{
			"dt":         f.Start.Unix(),
			"temp":       f.Temperature,
			"feels_like": f.FeelsLike,
			"pressure":   f.Pressure,
			"humidity":   f.Humidity,
			"uvi":        f.UVIndex,
			"wind_speed": f.WindSpeed,
			"weather":    f.weather(),
		}
	}
	if !excluded("hourly") {
		hourly := make([]map[string]any, 0, f.Hours)
		for i, ts := range f.HourlyTimes() {
			hourly = append(hourly, map[string]any{
				"dt":         ts,
				"temp":       f.Temperature - float64(i)*0.1,
				"humidity":   f.Humidity,
				"wind_speed": f.WindSpeed,
				"pop":        0.2,
				"weather":    f.weather(),
			})
		}
		resp["hourly"] = hourly
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (f Fixture) weather() []map[string]any {
	return []map[string]any{{
		"id":          f.ConditionCode,
		"main":        f.Main,
		"description": f.Description,
		"icon":        f.Icon,
	}}
}
