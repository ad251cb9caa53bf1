package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds process-wide Prometheus metrics. Feature slices keep their
// own metrics packages; this struct covers the shared record pipeline.
type Metrics struct {
	RecordsListed    prometheus.Counter
	DetailsFetched   prometheus.Counter
	DetailsNotFound  prometheus.Counter
	DetailsFetchDurationMs prometheus.Histogram
}

// New creates and registers all shared Prometheus metrics. Call once per
// process; tests that need metrics should pass nil and rely on the nil-safe
// increment helpers.
func New() *Metrics {
	return &Metrics{
		RecordsListed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "permitmap_business_records_listed_total",
			Help: "Total number of business record list operations served",
		}),
		DetailsFetched: promauto.NewCounter(prometheus.CounterOpts{
			Name: "permitmap_business_details_fetched_total",
			Help: "Total number of successful business details fetches",
		}),
		DetailsNotFound: promauto.NewCounter(prometheus.CounterOpts{
			Name: "permitmap_business_details_not_found_total",
			Help: "Total number of details fetches for unknown business ids",
		}),
		DetailsFetchDurationMs: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "permitmap_business_details_fetch_duration_ms",
			Help:    "Latency of business details fetches in milliseconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000},
		}),
	}
}

func (m *Metrics) IncrementRecordsListed() {
	if m == nil {
		return
	}
	m.RecordsListed.Inc()
}

func (m *Metrics) IncrementDetailsFetched() {
	if m == nil {
		return
	}
	m.DetailsFetched.Inc()
}

func (m *Metrics) IncrementDetailsNotFound() {
	if m == nil {
		return
	}
	m.DetailsNotFound.Inc()
}

func (m *Metrics) ObserveDetailsFetchMs(ms float64) {
	if m == nil {
		return
	}
	m.DetailsFetchDurationMs.Observe(ms)
}
