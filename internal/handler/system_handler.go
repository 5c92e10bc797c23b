package handler

import (
	"context"
	"net/http"
	"runtime"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/stemsi/pathfinder-backend/internal/response"
)

const healthTimeout = 2 * time.Second

// HealthCheck probes one dependency.
type HealthCheck func(ctx context.Context) error

// QueueDepth reports the number of pending profile jobs.
type QueueDepth func(ctx context.Context) (int64, error)

// SystemHandler serves liveness and metrics.
type SystemHandler struct {
	checks    map[string]HealthCheck
	queue     QueueDepth
	gatherer  prometheus.Gatherer
	startTime time.Time
	log       zerolog.Logger
}

// NewSystemHandler creates a new SystemHandler. queue may be nil.
func NewSystemHandler(checks map[string]HealthCheck, queue QueueDepth, gatherer prometheus.Gatherer, log zerolog.Logger) *SystemHandler {
	return &SystemHandler{
		checks:    checks,
		queue:     queue,
		gatherer:  gatherer,
		startTime: time.Now(),
		log:       log.With().Str("component", "system_handler").Logger(),
	}
}

type healthReport struct {
	Status       string            `json:"status"`
	Uptime       string            `json:"uptime"`
	Goroutines   int               `json:"goroutines"`
	Dependencies map[string]string `json:"dependencies"`
	ProfileQueue *int64            `json:"profile_queue,omitempty"`
}

// Health godoc
// GET /health
// Reports 200 when every dependency answers, 503 otherwise.
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	report := healthReport{
		Status:       "ok",
		Uptime:       time.Since(h.startTime).Round(time.Second).String(),
		Goroutines:   runtime.NumGoroutine(),
		Dependencies: make(map[string]string, len(h.checks)),
	}

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			h.log.Warn().Err(err).Str("dependency", name).Msg("Health check failed")
			report.Dependencies[name] = "down"
			report.Status = "degraded"
			continue
		}
		report.Dependencies[name] = "up"
	}

	if h.queue != nil {
		if n, err := h.queue(ctx); err == nil {
			report.ProfileQueue = &n
		}
	}

	status := http.StatusOK
	if report.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	response.Success(c, status, report)
}

// Metrics godoc
// GET /metrics
// Prometheus exposition.
func (h *SystemHandler) Metrics() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))
}
