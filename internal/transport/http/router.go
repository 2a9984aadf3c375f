package httptransport

import (
	"log/slog"
	"net/http"
	"net/netip"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"kycdid/internal/platform/health"
	"kycdid/internal/platform/metrics"
	"kycdid/pkg/platform/httputil"
	"kycdid/pkg/platform/middleware/request"
	"kycdid/pkg/platform/middleware/requesttime"
)

// RouterConfig carries the pieces the router mounts besides the handler.
type RouterConfig struct {
	Logger         *slog.Logger
	Health         *health.Handler
	Gatherer       prometheus.Gatherer
	Metrics        *request.Metrics
	TrustedProxies []netip.Prefix
}

// NewRouter wires the public endpoints behind the shared middleware stack.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	r := chi.NewRouter()
	r.Use(request.Recovery(logger))
	r.Use(request.RequestID)
	r.Use(request.ClientMetadata(cfg.TrustedProxies...))
	r.Use(requesttime.Middleware)
	r.Use(request.Logger(logger))
	r.Use(request.BodyLimit(httputil.MaxBodyBytes))
	if cfg.Metrics != nil {
		r.Use(request.LatencyMiddleware(cfg.Metrics))
	}

	if cfg.Health != nil {
		cfg.Health.Register(r)
	}
	if cfg.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(cfg.Gatherer))
	}
	h.Register(r)
	return r
}
