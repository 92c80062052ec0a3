package launch

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Metrics exposes bootstrap observability: the current lifecycle state and
// per-phase durations.
type Metrics struct {
	registry *prometheus.Registry
	state    *prometheus.GaugeVec
	phases   *prometheus.HistogramVec
}

// NewMetrics builds a metrics set on a private registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		state: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "nodeops_launch_state",
			Help: "Current bootstrap lifecycle state (1 for the active state, 0 otherwise).",
		}, []string{"node", "state"}),
		phases: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "nodeops_phase_duration_seconds",
			Help:    "Duration of bootstrap phases.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		}, []string{"node", "phase"}),
	}
	registry.MustRegister(m.state, m.phases)
	return m
}

// SetState marks the active lifecycle state for a node.
func (m *Metrics) SetState(node string, s State) {
	for st, name := range stateNames {
		value := 0.0
		if st == s {
			value = 1.0
		}
		m.state.WithLabelValues(node, name).Set(value)
	}
}

// ObservePhase records the duration of a completed phase.
func (m *Metrics) ObservePhase(node, phase string, d time.Duration) {
	m.phases.WithLabelValues(node, phase).Observe(d.Seconds())
}

// Serve exposes the metrics over HTTP until the context is cancelled.
// Intended for the steady-state supervision window of the up command.
func (m *Metrics) Serve(ctx context.Context, addr string, log *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("serving bootstrap metrics", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Warn("metrics server stopped", zap.Error(err))
	}
}
