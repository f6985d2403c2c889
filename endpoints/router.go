package endpoints

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/EasterCompany/package-builder-service/internal/auth"
	"github.com/EasterCompany/package-builder-service/internal/builder"
	"github.com/EasterCompany/package-builder-service/internal/dashboard"
	"github.com/EasterCompany/package-builder-service/internal/fuel"
	"github.com/EasterCompany/package-builder-service/middleware"
	"github.com/EasterCompany/package-builder-service/utils"
)

// Deps are the collaborators the HTTP API is built from.
type Deps struct {
	Builder   *builder.Service
	Tokens    *auth.Tokens
	Dashboard dashboard.Provider
	Activity  *dashboard.ActivityLog
	Decay     *fuel.DecayClock
	Profiles  ProfileStore
	Metrics   *utils.Metrics
	Gatherer  prometheus.Gatherer
}

// NewRouter registers every route of the API.
func NewRouter(d Deps) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.Instrument(d.Metrics))

	// /service and /metrics are public (for health checks and scraping)
	r.HandleFunc("/service", ServiceHandler(d.Metrics)).Methods(http.MethodGet)
	if d.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	r.HandleFunc("/fields", FieldsHandler).Methods(http.MethodGet)
	r.HandleFunc("/quote", QuoteHandler(d.Builder)).Methods(http.MethodPost)

	r.HandleFunc("/sessions", StartSessionHandler(d.Builder)).Methods(http.MethodPost)
	r.HandleFunc("/sessions/{id}", SessionHandler(d.Builder)).Methods(http.MethodGet, http.MethodDelete)
	r.HandleFunc("/sessions/{id}/answers", UpdateAnswerHandler(d.Builder)).Methods(http.MethodPatch)
	for _, action := range []string{"next", "back", "jump", "start-over"} {
		r.HandleFunc("/sessions/{id}/"+action, NavigateHandler(d.Builder, action)).Methods(http.MethodPost)
	}
	r.HandleFunc("/sessions/{id}/progress", ProgressHandler(d.Builder)).Methods(http.MethodGet)
	r.HandleFunc("/sessions/{id}/package", PackageHandler(d.Builder)).Methods(http.MethodGet)
	r.HandleFunc("/sessions/{id}/package/toggle", ToggleFeatureHandler(d.Builder)).Methods(http.MethodPost)
	r.HandleFunc("/sessions/{id}/register", RegisterHandler(d.Builder)).Methods(http.MethodPost)

	// /fuel endpoints require a member token
	r.HandleFunc("/fuel/{userID}", middleware.RequireToken(d.Tokens, FuelHandler(d.Dashboard, d.Decay))).Methods(http.MethodGet)
	r.HandleFunc("/fuel/{userID}/badge.png", middleware.RequireToken(d.Tokens, FuelBadgeHandler(d.Dashboard, d.Decay))).Methods(http.MethodGet)
	r.HandleFunc("/fuel/{userID}/activity", middleware.RequireToken(d.Tokens, ActivityHandler(d.Activity, d.Dashboard, d.Decay))).Methods(http.MethodPost)
	if d.Profiles != nil {
		r.HandleFunc("/fuel/{userID}/profile", middleware.RequireToken(d.Tokens, ProfileHandler(d.Profiles, d.Dashboard, d.Decay))).Methods(http.MethodPut)
	}

	return middleware.CorsMiddleware(r)
}
