package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/profplay/isbasi/backend/internal/infrastructure/observability"
)

const defaultReadinessTimeout = 2 * time.Second

// Pinger is a backend the service cannot serve feeds without
type Pinger interface {
	Ping(ctx context.Context) error
}

type namedCheck struct {
	name   string
	pinger Pinger
}

// HealthHandler answers liveness and readiness probes
type HealthHandler struct {
	checks  []namedCheck
	timeout time.Duration
}

// NewHealthHandler creates a health handler with no readiness checks
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{timeout: defaultReadinessTimeout}
}

// AddCheck registers a backend probed by Ready
func (h *HealthHandler) AddCheck(name string, pinger Pinger) *HealthHandler {
	h.checks = append(h.checks, namedCheck{name: name, pinger: pinger})
	return h
}

// Live handles GET /health
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// Ready handles GET /ready. Every registered backend must answer within the timeout.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	results := make(map[string]string, len(h.checks))
	healthy := true
	for _, check := range h.checks {
		if err := check.pinger.Ping(ctx); err != nil {
			healthy = false
			results[check.name] = err.Error()
			observability.LoggerFromContext(ctx).Warn().Err(err).Str("check", check.name).Msg("readiness check failed")
			continue
		}
		results[check.name] = "ok"
	}

	status, code := "ready", http.StatusOK
	if !healthy {
		status, code = "unavailable", http.StatusServiceUnavailable
	}
	respondWithJSON(w, code, map[string]interface{}{
		"status": status,
		"checks": results,
	})
}
