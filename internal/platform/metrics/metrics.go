package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
// Lifecycle counters are labelled by record kind (customer, invoice, phone_number)
// so dashboards can split per entity without separate metric families.
type Metrics struct {
	RecordsCreated     *prometheus.CounterVec
	RecordsUpdated     *prometheus.CounterVec
	RecordsSoftDeleted *prometheus.CounterVec
	RecordsRestored    *prometheus.CounterVec

	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec

	RequestDuration *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the metrics on a specific registerer. Tests pass a fresh
// prometheus.NewRegistry() to avoid duplicate-registration panics.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RecordsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rolodex_records_created_total",
			Help: "Total number of records created, by kind",
		}, []string{"kind"}),
		RecordsUpdated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rolodex_records_updated_total",
			Help: "Total number of record field updates, by kind",
		}, []string{"kind"}),
		RecordsSoftDeleted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rolodex_records_soft_deleted_total",
			Help: "Total number of soft-delete transitions, by kind",
		}, []string{"kind"}),
		RecordsRestored: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rolodex_records_restored_total",
			Help: "Total number of restore transitions, by kind",
		}, []string{"kind"}),
		CacheHits: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rolodex_cache_hits_total",
			Help: "Record cache hits, by kind",
		}, []string{"kind"}),
		CacheMisses: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rolodex_cache_misses_total",
			Help: "Record cache misses, by kind",
		}, []string{"kind"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rolodex_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}

// Lifecycle counter helpers are nil-safe so services can run without metrics wired.

func (m *Metrics) IncCreated(kind string) {
	if m != nil {
		m.RecordsCreated.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) IncUpdated(kind string) {
	if m != nil {
		m.RecordsUpdated.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) IncSoftDeleted(kind string) {
	if m != nil {
		m.RecordsSoftDeleted.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) IncRestored(kind string) {
	if m != nil {
		m.RecordsRestored.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) IncCacheHit(kind string) {
	if m != nil {
		m.CacheHits.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) IncCacheMiss(kind string) {
	if m != nil {
		m.CacheMisses.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) ObserveRequest(route, status string, seconds float64) {
	if m != nil {
		m.RequestDuration.WithLabelValues(route, status).Observe(seconds)
	}
}
