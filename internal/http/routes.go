package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/kjstillabower/weather-dashboard/internal/observability"
	"github.com/kjstillabower/weather-dashboard/internal/web"
)

// NewRouter wires every route and the middleware chain. Only the dashboard route carries
// requestTimeout since it is the only one that calls the provider.
func NewRouter(h *Handler, logger *zap.Logger, inFlight *InFlightTracker, requestTimeout time.Duration) *mux.Router {
	router := mux.NewRouter()
	router.Use(CorrelationIDMiddleware(logger))
	router.Use(MetricsMiddleware(inFlight))

	router.Handle("/", TimeoutMiddleware(requestTimeout)(http.HandlerFunc(h.GetDashboard))).Methods(http.MethodGet, http.MethodHead)
	router.HandleFunc("/impressum", h.GetImpressum).Methods(http.MethodGet, http.MethodHead)
	router.HandleFunc("/datenschutz", h.GetDatenschutz).Methods(http.MethodGet, http.MethodHead)
	router.HandleFunc("/health", h.GetHealth).Methods(http.MethodGet)
	router.Handle("/metrics", observability.MetricsHandler()).Methods(http.MethodGet)
	router.PathPrefix("/static/").Handler(StaticHandler(web.Static())).Methods(http.MethodGet, http.MethodHead)
	router.NotFoundHandler = http.HandlerFunc(h.NotFound)
	return router
}
