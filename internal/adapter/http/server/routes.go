package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/Temutjin2k/running-app/docs"
	"github.com/Temutjin2k/running-app/internal/adapter/http/middleware"
)

const swaggerInstance = "running"

// publicAuthPaths ignore the Authorization header so a stale token cannot block a login or a refresh.
var publicAuthPaths = []string{"/api/auth/kakao", "/api/auth/refresh"}

// setupRoutes - setups http routes
func setupRoutes(mux *http.ServeMux, routes *handlers, m *middleware.Middleware) {
	// System Health
	mux.HandleFunc("GET /health", routes.health.HealthCheck)

	setupSwaggerRoutes(mux)
	setupMetricsRoute(mux)

	setupAuthRoutes(mux, routes, m)
	setupRunningRoutes(mux, routes, m)
}

func setupAuthRoutes(mux *http.ServeMux, routes *handlers, m *middleware.Middleware) {
	mux.HandleFunc("POST /api/auth/kakao", routes.auth.KakaoLogin)
	mux.HandleFunc("POST /api/auth/refresh", routes.auth.Refresh)
	mux.Handle("GET /api/auth/me", m.RequireUser(routes.auth.Profile))
}

func setupRunningRoutes(mux *http.ServeMux, routes *handlers, m *middleware.Middleware) {
	mux.Handle("POST /api/running/session", m.RequireUser(routes.running.SaveRunningData))                      // Save a finished run
	mux.Handle("GET /api/running/sessions", m.RequireUser(routes.running.ListSessions))                         // Most recent runs of the caller
	mux.Handle("GET /api/running/session/{sessionId}", m.RequireUser(routes.running.GetSession))                // Full session with geojson
	mux.Handle("GET /api/running/session/{sessionId}/summary", m.RequireUser(routes.running.GetSessionSummary)) // Summary only
	mux.HandleFunc("GET /ws/running", routes.feed.HandleFeed)                                                   // Live feed, authenticated by the first frame
}

// setupSwaggerRoutes serves the Swagger UI for the registered "running" doc.
func setupSwaggerRoutes(mux *http.ServeMux) {
	swaggerURL := httpSwagger.InstanceName(swaggerInstance)
	mux.HandleFunc("GET /swagger/", httpSwagger.Handler(swaggerURL))
}

// setupMetricsRoute configures the Prometheus metrics endpoint
func setupMetricsRoute(mux *http.ServeMux) {
	mux.Handle("GET /metrics", promhttp.Handler())
}
