package ops

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthChecker is implemented by components that can report whether
// their backing service is reachable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// healthResponse is the /healthz body
type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// NewRouter builds the ops HTTP router: /healthz runs every named
// health check, /metrics serves Prometheus metrics.
func NewRouter(checks map[string]HealthChecker) chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 5*time.Second)
		defer cancel()

		resp := healthResponse{
			Status: "ok",
			Checks: make(map[string]string, len(checks)),
		}

		status := http.StatusOK
		for name, check := range checks {
			if err := check.HealthCheck(ctx); err != nil {
				resp.Status = "unhealthy"
				resp.Checks[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(resp)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
