// Package app wires the HTTP router, readiness checks, and the Redis
// result cache.
package app

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	httpserver "github.com/hirewise/ai-job-matcher/internal/adapter/httpserver"
	"github.com/hirewise/ai-job-matcher/internal/adapter/observability"
	"github.com/hirewise/ai-job-matcher/internal/config"
)

// ParseOrigins splits a comma-separated origin list, trimming spaces.
// Empty input means all origins.
func ParseOrigins(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" || s == "*" {
		return []string{"*"}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

// BuildRouter constructs the HTTP handler with all middleware and routes.
func BuildRouter(cfg config.Config, srv *httpserver.Server) http.Handler {
	r := chi.NewRouter()
	r.Use(httpserver.Recoverer())
	r.Use(httpserver.RequestID())
	r.Use(httpserver.TimeoutMiddleware(30 * time.Second))
	r.Use(httpserver.AccessLog())
	r.Use(observability.HTTPMetricsMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   ParseOrigins(cfg.CORSAllowOrigins),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"X-Request-Id", "ETag"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Mutating endpoints are rate limited per IP.
	r.Group(func(wr chi.Router) {
		wr.Use(httprate.LimitByIP(cfg.RateLimitPerMin, time.Minute))
		wr.Post("/v1/profiles", srv.ProfileHandler())
		wr.Post("/v1/jobs", srv.JobHandler())
		wr.Post("/v1/match", srv.MatchHandler())
		wr.Post("/v1/cover-letter", srv.CoverLetterHandler())
	})

	r.Get("/v1/result/{id}", srv.ResultHandler())
	r.With(httpserver.AdminAuth(cfg)).Get("/v1/stats", srv.StatsHandler())

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/metrics", func(w http.ResponseWriter, req *http.Request) { promhttp.Handler().ServeHTTP(w, req) })
	r.Get("/readyz", srv.ReadyzHandler())

	handler := httpserver.SecurityHeaders(r)
	return otelhttp.NewHandler(handler, "http.server")
}
