package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kjstillabower/weather-dashboard/internal/client"
	"github.com/kjstillabower/weather-dashboard/internal/lifecycle"
	"github.com/kjstillabower/weather-dashboard/internal/observability"
	"github.com/kjstillabower/weather-dashboard/internal/service"
	"github.com/kjstillabower/weather-dashboard/internal/traffic"
	"github.com/kjstillabower/weather-dashboard/internal/web"
)

const (
	msgProviderError   = "The weather provider returned an error. Please try again in a few minutes."
	msgProviderOffline = "The weather provider could not be reached. Please try again in a few minutes."
	msgRenderError     = "The page could not be rendered."
	msgNotFound        = "Page not found."
)

// HealthConfig holds thresholds for the health handler.
type HealthConfig struct {
	DegradedWindow   time.Duration
	DegradedErrorPct int
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	dashboard        *service.DashboardService
	templates        *web.Templates
	tracker          *traffic.Tracker
	state            *lifecycle.State
	healthConfig     *HealthConfig
	logger           *zap.Logger
	healthStatusMu   sync.Mutex
	healthStatusPrev string
}

// NewHandler returns a new Handler. A nil tracker or state gets a fresh one.
func NewHandler(
	dashboard *service.DashboardService,
	templates *web.Templates,
	tracker *traffic.Tracker,
	state *lifecycle.State,
	healthConfig *HealthConfig,
	logger *zap.Logger,
) *Handler {
	if tracker == nil {
		tracker = traffic.New(5 * time.Minute)
	}
	if state == nil {
		state = lifecycle.NewState()
	}
	return &Handler{
		dashboard:    dashboard,
		templates:    templates,
		tracker:      tracker,
		state:        state,
		healthConfig: healthConfig,
		logger:       logger,
	}
}

// GetDashboard handles GET /. Each request fetches current conditions and the forecast,
// then renders the dashboard. Upstream failures render the error page instead.
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	logger := h.requestLogger(r)

	dash, err := h.dashboard.Dashboard(r.Context())
	if err != nil {
		h.tracker.RecordError()
		observability.DashboardRendersTotal.WithLabelValues("upstream_error").Inc()
		status := statusForError(err)
		logger.Warn("dashboard unavailable",
			zap.Error(err),
			zap.String("category", string(client.CategorizeError(err))),
			zap.Int("status", status))
		h.renderError(w, r, status, messageForStatus(status))
		return
	}
	h.tracker.RecordSuccess()

	w.Header().Set("Cache-Control", "no-store")
	if err := h.render(w, http.StatusOK, web.PageDashboard, web.Page{Title: dash.LocationName, Data: dash}); err != nil {
		observability.DashboardRendersTotal.WithLabelValues("render_error").Inc()
		logger.Error("render dashboard", zap.Error(err))
		h.renderError(w, r, http.StatusInternalServerError, msgRenderError)
		return
	}
	observability.DashboardRendersTotal.WithLabelValues("ok").Inc()
}

// GetImpressum handles GET /impressum.
func (h *Handler) GetImpressum(w http.ResponseWriter, r *http.Request) {
	h.renderStatic(w, r, web.PageImpressum, "Impressum")
}

// GetDatenschutz handles GET /datenschutz.
func (h *Handler) GetDatenschutz(w http.ResponseWriter, r *http.Request) {
	h.renderStatic(w, r, web.PageDatenschutz, "Datenschutz")
}

// NotFound renders the error page for unknown paths.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderError(w, r, http.StatusNotFound, msgNotFound)
}

func (h *Handler) renderStatic(w http.ResponseWriter, r *http.Request, page, title string) {
	if err := h.render(w, http.StatusOK, page, web.Page{Title: title}); err != nil {
		h.requestLogger(r).Error("render page", zap.String("page", page), zap.Error(err))
		h.renderError(w, r, http.StatusInternalServerError, msgRenderError)
	}
}

// render executes the page into a buffer; on error nothing has been written to w.
func (h *Handler) render(w http.ResponseWriter, status int, name string, page web.Page) error {
	var buf bytes.Buffer
	if err := h.templates.Render(&buf, name, page); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
	return nil
}

// renderError writes the HTML error page, falling back to plain text when that fails too.
func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	page := web.Page{
		Title: http.StatusText(status),
		Data: web.ErrorData{
			Status:    status,
			Message:   message,
			RequestID: observability.CorrelationID(r.Context()),
		},
	}
	if err := h.render(w, status, web.PageError, page); err != nil {
		h.requestLogger(r).Error("render error page", zap.Error(err))
		http.Error(w, message, status)
	}
}

func (h *Handler) requestLogger(r *http.Request) *zap.Logger {
	if id := observability.CorrelationID(r.Context()); id != "" {
		return h.logger.With(zap.String("correlation_id", id))
	}
	return h.logger
}

// statusForError maps an upstream failure to the page status: 502 when the provider
// answered with an error, 503 for everything else.
func statusForError(err error) int {
	var provErr *client.ProviderError
	if errors.As(err, &provErr) {
		return http.StatusBadGateway
	}
	return http.StatusServiceUnavailable
}

func messageForStatus(status int) string {
	if status == http.StatusBadGateway {
		return msgProviderError
	}
	return msgProviderOffline
}

// healthResult holds the computed health status and metadata for logging.
type healthResult struct {
	status     string
	statusCode int
	reason     string
}

// GetHealth handles GET /health.
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	result := h.computeHealthStatus()

	h.healthStatusMu.Lock()
	prev := h.healthStatusPrev
	if prev != "" && prev != result.status {
		h.logger.Info("health status transition",
			zap.String("previous_status", prev),
			zap.String("current_status", result.status),
			zap.String("reason", result.reason))
	}
	h.healthStatusPrev = result.status
	h.healthStatusMu.Unlock()

	checks := map[string]string{"weatherApi": "healthy"}
	if result.reason == "error_rate_breach" {
		checks["weatherApi"] = "unhealthy"
	}
	writeJSON(w, result.statusCode, map[string]interface{}{
		"status":    result.status,
		"service":   "weather-dashboard",
		"version":   "dev",
		"checks":    checks,
		"uptime":    h.state.Uptime().Truncate(time.Second).String(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// computeHealthStatus evaluates, in order: shutting-down > degraded > healthy.
func (h *Handler) computeHealthStatus() healthResult {
	if h.state.ShuttingDown() {
		return healthResult{"shutting-down", http.StatusServiceUnavailable, "signal"}
	}
	if h.healthConfig != nil && h.healthConfig.DegradedWindow > 0 {
		if h.tracker.Degraded(h.healthConfig.DegradedWindow, h.healthConfig.DegradedErrorPct) {
			return healthResult{"degraded", http.StatusServiceUnavailable, "error_rate_breach"}
		}
	}
	return healthResult{"healthy", http.StatusOK, ""}
}

// writeJSON writes a JSON response with the specified HTTP status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
