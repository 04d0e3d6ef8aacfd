package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors exported on /metrics.
type Metrics struct {
	registry *prometheus.Registry

	IntentsTotal      *prometheus.CounterVec
	EventsTotal       *prometheus.CounterVec
	OperationsTotal   *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	ArtworkFetchTime  *prometheus.HistogramVec
	IndexedFilesTotal *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		IntentsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lxbridge_intents_total",
				Help: "Total number of incoming file intents by outcome",
			},
			[]string{"outcome"},
		),
		EventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lxbridge_events_total",
				Help: "Total number of events emitted to the application",
			},
			[]string{"name", "delivery"},
		),
		OperationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lxbridge_metadata_operations_total",
				Help: "Total number of metadata operations by result",
			},
			[]string{"op", "result"},
		),
		OperationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lxbridge_metadata_operation_duration_seconds",
				Help:    "Time spent in metadata operations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op"},
		),
		ArtworkFetchTime: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lxbridge_artwork_fetch_duration_seconds",
				Help:    "Time spent fetching and normalizing artwork",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		),
		IndexedFilesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lxbridge_indexed_files_total",
				Help: "Total number of files added to or removed from the content index",
			},
			[]string{"change"},
		),
	}

	m.registry.MustRegister(
		m.IntentsTotal,
		m.EventsTotal,
		m.OperationsTotal,
		m.OperationDuration,
		m.ArtworkFetchTime,
		m.IndexedFilesTotal,
	)
	return m
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveIntent counts an intent outcome: matched, delivered, queued, dropped or unresolved.
func (m *Metrics) ObserveIntent(outcome string) {
	m.IntentsTotal.WithLabelValues(outcome).Inc()
}

// ObserveEvent counts an emitted event. delivery is "sent" or "queued".
func (m *Metrics) ObserveEvent(name, delivery string) {
	m.EventsTotal.WithLabelValues(name, delivery).Inc()
}

// ObserveOperation records a metadata operation and its duration.
func (m *Metrics) ObserveOperation(op string, err error, d time.Duration) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.OperationsTotal.WithLabelValues(op, result).Inc()
	m.OperationDuration.WithLabelValues(op).Observe(d.Seconds())
}

// ObserveArtworkFetch records one artwork fetch.
func (m *Metrics) ObserveArtworkFetch(result string, d time.Duration) {
	m.ArtworkFetchTime.WithLabelValues(result).Observe(d.Seconds())
}

// ObserveIndexChange counts content index changes: "indexed" or "removed".
func (m *Metrics) ObserveIndexChange(change string) {
	m.IndexedFilesTotal.WithLabelValues(change).Inc()
}
