package app

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Black-And-White-Club/senshi-bot/internal/observability"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const healthTimeout = 3 * time.Second

// healthCheck is one named readiness check.
type healthCheck struct {
	name  string
	check func(context.Context) error
}

func newHTTPRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	return r
}

func (a *App) healthChecks() []healthCheck {
	checks := []healthCheck{
		{name: "database", check: func(ctx context.Context) error { return a.DB.PingContext(ctx) }},
	}
	if a.ModerationModule != nil && a.ModerationModule.QueueService != nil {
		checks = append(checks, healthCheck{name: "queue", check: a.ModerationModule.QueueService.HealthCheck})
	}
	return checks
}

// healthHandler reports 200 when every check passes and 503 otherwise.
func healthHandler(checks []healthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		status := http.StatusOK
		body := map[string]string{}
		for _, c := range checks {
			if err := c.check(ctx); err != nil {
				status = http.StatusServiceUnavailable
				body[c.name] = err.Error()
				continue
			}
			body[c.name] = "ok"
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}

func metricsHandler(obs observability.Observability) http.Handler {
	return promhttp.HandlerFor(obs.Registry.Prometheus, promhttp.HandlerOpts{Registry: obs.Registry.Prometheus})
}

// mountOps adds /healthz and /metrics.
func mountOps(r chi.Router, obs observability.Observability, checks []healthCheck) {
	r.Get("/healthz", healthHandler(checks))
	r.Method(http.MethodGet, "/metrics", metricsHandler(obs))
}

// metricsOnly serves /metrics on the dedicated metrics address.
func metricsOnly(obs observability.Observability) http.Handler {
	r := chi.NewRouter()
	r.Method(http.MethodGet, "/metrics", metricsHandler(obs))
	return r
}
