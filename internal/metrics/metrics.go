// Package metrics records what a run did. A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "bbsync"

type Metrics struct {
	registry        *prometheus.Registry
	catalogRequests *prometheus.CounterVec
	catalogTimeouts prometheus.Counter
	repoSyncs       *prometheus.CounterVec
	repoSyncLatency prometheus.Histogram
	lastRun         prometheus.Gauge
}

// New registers all collectors on a fresh registry owned by the run.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		catalogRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_requests_total",
			Help:      "Catalog page requests by result",
		},
			[]string{
				// ok, timeout or error
				"result",
			},
		),
		catalogTimeouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_timeouts_total",
			Help:      "Catalog requests that timed out",
		}),
		repoSyncs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "repo_sync_total",
			Help:      "Repository sync operations by outcome",
		},
			[]string{
				// cloned, updated, up_to_date or failed
				"outcome",
			},
		),
		repoSyncLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "repo_sync_duration_seconds",
			Help:      "Duration of a single repository sync",
			Buckets:   []float64{0.5, 1, 5, 10, 20, 30, 60, 90, 120, 300},
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished",
		}),
	}
	m.registry.MustRegister(
		m.catalogRequests,
		m.catalogTimeouts,
		m.repoSyncs,
		m.repoSyncLatency,
		m.lastRun,
	)
	return m
}

func (m *Metrics) CatalogRequest(result string) {
	if m == nil {
		return
	}
	m.catalogRequests.WithLabelValues(result).Inc()
	if result == "timeout" {
		m.catalogTimeouts.Inc()
	}
}

func (m *Metrics) RepoSync(outcome string, start time.Time) {
	if m == nil {
		return
	}
	m.repoSyncs.WithLabelValues(outcome).Inc()
	m.repoSyncLatency.Observe(time.Since(start).Seconds())
}

func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// WriteTextfile stamps the run end and writes every metric in the text exposition
// format to path, for the node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	m.lastRun.SetToCurrentTime()
	return prometheus.WriteToTextfile(path, m.registry)
}
