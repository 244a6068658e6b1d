// Package metrics exposes Prometheus instruments for broadcast activity.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors registered by the module.
type Metrics struct {
	registry *prometheus.Registry

	BroadcastsSubmitted *prometheus.CounterVec
	RecipientsResolved  prometheus.Histogram
	BackendLatency      *prometheus.HistogramVec
	HistoryPolls        *prometheus.CounterVec
}

// New creates and registers all collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		BroadcastsSubmitted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "broadcaster",
				Name:      "broadcasts_submitted_total",
				Help:      "Broadcast submissions by send mode and outcome.",
			},
			[]string{"mode", "outcome"},
		),
		RecipientsResolved: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "broadcaster",
				Name:      "recipients_resolved",
				Help:      "Merged recipient count per submission.",
				Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
			},
		),
		BackendLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "broadcaster",
				Name:      "backend_request_seconds",
				Help:      "Backend REST latency by endpoint and status class.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"endpoint", "status"},
		),
		HistoryPolls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "broadcaster",
				Name:      "history_polls_total",
				Help:      "History polls by result.",
			},
			[]string{"result"},
		),
	}

	m.registry.MustRegister(
		m.BroadcastsSubmitted,
		m.RecipientsResolved,
		m.BackendLatency,
		m.HistoryPolls,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveBackend records one backend call.
func (m *Metrics) ObserveBackend(endpoint string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.BackendLatency.WithLabelValues(endpoint, statusClass(status)).Observe(elapsed.Seconds())
}

// ObserveSubmission records a broadcast outcome.
func (m *Metrics) ObserveSubmission(mode, outcome string, recipients int) {
	if m == nil {
		return
	}
	m.BroadcastsSubmitted.WithLabelValues(mode, outcome).Inc()
	if recipients > 0 {
		m.RecipientsResolved.Observe(float64(recipients))
	}
}

// ObserveHistoryPoll records a history poll result.
func (m *Metrics) ObserveHistoryPoll(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.HistoryPolls.WithLabelValues(result).Inc()
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("serving metrics", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func statusClass(status int) string {
	switch {
	case status == 0:
		return "error"
	case status < 300:
		return "2xx"
	case status < 400:
		return "3xx"
	case status < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
