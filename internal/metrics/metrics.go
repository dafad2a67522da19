// ladder-mcp: MCP server for club doubles session scheduling
// SPDX-License-Identifier: MIT
//
// Prometheus instrumentation for scheduling and standings.

package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so tests can build as many as they like.
type Metrics struct {
	registry           *prometheus.Registry
	generations        *prometheus.CounterVec
	generationSeconds  *prometheus.HistogramVec
	underfilled        *prometheus.CounterVec
	validationFailures prometheus.Counter
	standings          prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ladder",
			Name:      "schedule_generations_total",
			Help:      "Schedules generated, by mode.",
		}, []string{"mode"}),
		generationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ladder",
			Name:      "schedule_generation_seconds",
			Help:      "Wall time of a full multi-restart generation.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}, []string{"mode"}),
		underfilled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ladder",
			Name:      "schedule_underfilled_total",
			Help:      "Generated schedules with fewer matches than targeted.",
		}, []string{"mode"}),
		validationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ladder",
			Name:      "schedule_validation_failures_total",
			Help:      "Schedules rejected by the validator.",
		}),
		standings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ladder",
			Name:      "standings_computations_total",
			Help:      "Standings tables computed (cache misses).",
		}),
	}
	reg.MustRegister(
		m.generations, m.generationSeconds, m.underfilled, m.validationFailures, m.standings,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveGeneration records one Generate call.
func (m *Metrics) ObserveGeneration(mode string, d time.Duration, underfilled bool) {
	m.generations.WithLabelValues(mode).Inc()
	m.generationSeconds.WithLabelValues(mode).Observe(d.Seconds())
	if underfilled {
		m.underfilled.WithLabelValues(mode).Inc()
	}
}

func (m *Metrics) ValidationFailed()  { m.validationFailures.Inc() }
func (m *Metrics) StandingsComputed() { m.standings.Inc() }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
