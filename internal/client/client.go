package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/kjstillabower/weather-dashboard/internal/models"
	"github.com/kjstillabower/weather-dashboard/internal/observability"
)

// WeatherClient fetches the two datasets the dashboard needs. Each call issues exactly
// one upstream request; failures are returned as *NetworkError or *ProviderError.
type WeatherClient interface {
	FetchCurrent(ctx context.Context, loc models.Location, units models.Units) (models.CurrentConditions, error)
	FetchForecast(ctx context.Context, loc models.Location, units models.Units) (models.Forecast, error)
}

const (
	endpointCurrent  = "current"
	endpointForecast = "forecast"

	// One Call returns ~20KB for 48 hourly points; anything far beyond that is not a weather payload.
	maxBodyBytes = 4 << 20
)

type OpenWeatherClient struct {
	apiKey      string
	currentURL  string
	forecastURL string
	client      *http.Client
}

// NewOpenWeatherClient returns a client for the One Call API. currentURL and forecastURL
// are usually the same endpoint; the exclude parameter selects the dataset.
func NewOpenWeatherClient(apiKey, currentURL, forecastURL string, timeout time.Duration) (*OpenWeatherClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: API key is required", ErrInvalidAPIKey)
	}
	for _, raw := range []string{currentURL, forecastURL} {
		if _, err := url.ParseRequestURI(raw); err != nil {
			return nil, fmt.Errorf("invalid provider URL %q: %w", raw, err)
		}
	}

	return &OpenWeatherClient{
		apiKey:      apiKey,
		currentURL:  currentURL,
		forecastURL: forecastURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type weatherCondition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type currentBlock struct {
	Dt        int64              `json:"dt"`
	Temp      float64            `json:"temp"`
	FeelsLike float64            `json:"feels_like"`
	Pressure  int                `json:"pressure"`
	Humidity  int                `json:"humidity"`
	UVI       float64            `json:"uvi"`
	WindSpeed float64            `json:"wind_speed"`
	Weather   []weatherCondition `json:"weather"`
}

type hourlyBlock struct {
	Dt        int64              `json:"dt"`
	Temp      float64            `json:"temp"`
	Humidity  int                `json:"humidity"`
	WindSpeed float64            `json:"wind_speed"`
	Pop       float64            `json:"pop"`
	Weather   []weatherCondition `json:"weather"`
}

type oneCallResponse struct {
	Timezone string        `json:"timezone"`
	Current  *currentBlock `json:"current"`
	Hourly   []hourlyBlock `json:"hourly"`
}

// FetchCurrent issues one GET for current conditions.
func (c *OpenWeatherClient) FetchCurrent(ctx context.Context, loc models.Location, units models.Units) (models.CurrentConditions, error) {
	var resp oneCallResponse
	if err := c.get(ctx, endpointCurrent, c.currentURL, loc, units, "minutely,hourly,daily,alerts", &resp); err != nil {
		return models.CurrentConditions{}, err
	}
	if resp.Current == nil {
		return models.CurrentConditions{}, c.fail(endpointCurrent, &ProviderError{
			Endpoint: endpointCurrent,
			Err:      fmt.Errorf("%w: no current block", ErrMalformedResponse),
		})
	}
	return mapCurrent(resp, units), nil
}

// FetchForecast issues one GET for the hourly forecast and keeps the first
// models.ForecastWindow points in provider order.
func (c *OpenWeatherClient) FetchForecast(ctx context.Context, loc models.Location, units models.Units) (models.Forecast, error) {
	var resp oneCallResponse
	if err := c.get(ctx, endpointForecast, c.forecastURL, loc, units, "current,minutely,daily,alerts", &resp); err != nil {
		return models.Forecast{}, err
	}
	return mapForecast(resp, units), nil
}

// get performs a single request and decodes the body into out. No retry.
func (c *OpenWeatherClient) get(ctx context.Context, endpoint, rawURL string, loc models.Location, units models.Units, exclude string, out *oneCallResponse) error {
	start := time.Now()

	req, err := c.buildRequest(ctx, rawURL, loc, units, exclude)
	if err != nil {
		return c.fail(endpoint, &ProviderError{Endpoint: endpoint, Err: fmt.Errorf("build request: %w", err)})
	}
	if corrID := observability.CorrelationID(ctx); corrID != "" {
		req.Header.Set("X-Correlation-ID", corrID)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		observability.ProviderDuration.WithLabelValues(endpoint, "error").Observe(time.Since(start).Seconds())
		return c.fail(endpoint, &NetworkError{Endpoint: endpoint, Err: unwrapURLError(err)})
	}
	defer resp.Body.Close()

	status := statusLabel(resp.StatusCode)
	observability.ProviderDuration.WithLabelValues(endpoint, status).Observe(time.Since(start).Seconds())

	if err := checkStatus(endpoint, resp); err != nil {
		return c.fail(endpoint, err)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return c.fail(endpoint, &NetworkError{Endpoint: endpoint, Err: fmt.Errorf("read response body: %w", err)})
	}
	if err := json.Unmarshal(body, out); err != nil {
		return c.fail(endpoint, &ProviderError{Endpoint: endpoint, Err: fmt.Errorf("%w: %v", ErrMalformedResponse, err)})
	}

	observability.ProviderCallsTotal.WithLabelValues(endpoint, status).Inc()
	return nil
}

// fail records the failure in metrics and returns err unchanged.
func (c *OpenWeatherClient) fail(endpoint string, err error) error {
	observability.ProviderCallsTotal.WithLabelValues(endpoint, "error").Inc()
	observability.ProviderErrorsTotal.WithLabelValues(endpoint, string(CategorizeError(err))).Inc()
	return err
}

func (c *OpenWeatherClient) buildRequest(ctx context.Context, rawURL string, loc models.Location, units models.Units, exclude string) (*http.Request, error) {
	baseURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API URL: %w", err)
	}

	params := baseURL.Query()
	params.Set("lat", strconv.FormatFloat(loc.Latitude, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(loc.Longitude, 'f', -1, 64))
	params.Set("units", units.String())
	params.Set("exclude", exclude)
	params.Set("appid", c.apiKey)
	baseURL.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	return req, nil
}

func checkStatus(endpoint string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	// Drain a little so the connection can be reused.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	cause := ErrUnexpectedStatus
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		cause = ErrInvalidAPIKey
	case http.StatusTooManyRequests:
		cause = ErrRateLimited
	}
	return &ProviderError{Endpoint: endpoint, StatusCode: resp.StatusCode, Err: cause}
}

// unwrapURLError strips the *url.Error wrapper, which embeds the request URL and with it the API key.
func unwrapURLError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}

func mapCurrent(resp oneCallResponse, units models.Units) models.CurrentConditions {
	cur := resp.Current
	cond := firstCondition(cur.Weather)
	return models.CurrentConditions{
		Temperature:   cur.Temp,
		FeelsLike:     cur.FeelsLike,
		Humidity:      cur.Humidity,
		Pressure:      cur.Pressure,
		WindSpeed:     cur.WindSpeed,
		UVIndex:       cur.UVI,
		ConditionCode: cond.ID,
		Condition:     cond.Main,
		Description:   cond.Description,
		IconCode:      cond.Icon,
		ObservedAt:    time.Unix(cur.Dt, 0).UTC(),
		Timezone:      resp.Timezone,
		Units:         units,
	}
}

func mapForecast(resp oneCallResponse, units models.Units) models.Forecast {
	hourly := resp.Hourly
	if len(hourly) > models.ForecastWindow {
		hourly = hourly[:models.ForecastWindow]
	}
	points := make([]models.ForecastPoint, 0, len(hourly))
	for _, h := range hourly {
		cond := firstCondition(h.Weather)
		points = append(points, models.ForecastPoint{
			Time:                     time.Unix(h.Dt, 0).UTC(),
			Temperature:              h.Temp,
			ConditionCode:            cond.ID,
			Condition:                cond.Main,
			Description:              cond.Description,
			IconCode:                 cond.Icon,
			Humidity:                 h.Humidity,
			WindSpeed:                h.WindSpeed,
			PrecipitationProbability: h.Pop,
		})
	}
	return models.Forecast{
		Points:   points,
		Timezone: resp.Timezone,
		Units:    units,
	}
}

// firstCondition returns the primary condition; the provider lists it first.
func firstCondition(conds []weatherCondition) weatherCondition {
	if len(conds) == 0 {
		return weatherCondition{}
	}
	return conds[0]
}

func statusLabel(statusCode int) string {
	if statusCode >= 200 && statusCode < 300 {
		return "success"
	}
	if statusCode == 429 {
		return "rate_limited"
	}
	if statusCode >= 400 && statusCode < 500 {
		return "client_error"
	}
	if statusCode >= 500 {
		return "server_error"
	}
	return "error"
}
