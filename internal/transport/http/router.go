// Package httptransport assembles the HTTP surface: the directory routes, the
// health endpoint, and the Prometheus scrape endpoint, behind the shared
// middleware chain.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rolodex/internal/directory/handler"
	"rolodex/internal/platform/metrics"
	"rolodex/internal/platform/middleware"
	"rolodex/internal/transport/http/shared"
	"rolodex/pkg/platform/middleware/requesttime"
)

// HealthCheck probes one dependency for the health endpoint.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// NewRouter wires the middleware chain and mounts every endpoint.
func NewRouter(directory *handler.Handler, logger *slog.Logger, m *metrics.Metrics, checks ...HealthCheck) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.Latency(m))

	r.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		directory.Register(r)
	})

	r.Get("/healthz", healthHandler(checks))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

// healthHandler reports 200 when every registered dependency responds, 503
// with the failing components otherwise.
func healthHandler(checks []HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		failing := make(map[string]string)
		for _, c := range checks {
			if err := c.Check(ctx); err != nil {
				failing[c.Name] = err.Error()
			}
		}

		if len(failing) > 0 {
			shared.WriteJSON(w, http.StatusServiceUnavailable, map[string]any{
				"status":  "degraded",
				"failing": failing,
			})
			return
		}
		shared.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
