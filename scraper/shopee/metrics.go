package shopee

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the acquisition pipeline.
// All methods are nil-safe so callers can run without metrics wired.
type Metrics struct {
	Registry          *prometheus.Registry
	AcquisitionsTotal *prometheus.CounterVec
	AcquireDuration   prometheus.Histogram
	ListingsHarvested *prometheus.CounterVec
	FallbacksTotal    prometheus.Counter
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	acquisitions := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analyzer_acquisitions_total",
			Help: "Acquisition tier attempts by tier and outcome.",
		},
		[]string{"tier", "outcome"},
	)
	acquireDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "analyzer_acquire_duration_seconds",
			Help:    "Wall time of one full acquire call across all tiers.",
			Buckets: prometheus.DefBuckets,
		},
	)
	harvested := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analyzer_listings_harvested_total",
			Help: "Listings produced, by source tier.",
		},
		[]string{"tier"},
	)
	fallbacks := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "analyzer_synthetic_fallbacks_total",
			Help: "Acquire calls that ended in the synthetic tier.",
		},
	)

	registry.MustRegister(acquisitions, acquireDuration, harvested, fallbacks)

	return &Metrics{
		Registry:          registry,
		AcquisitionsTotal: acquisitions,
		AcquireDuration:   acquireDuration,
		ListingsHarvested: harvested,
		FallbacksTotal:    fallbacks,
	}
}

// IncAcquisition records one tier attempt with its outcome.
func (m *Metrics) IncAcquisition(tier, outcome string) {
	if m == nil {
		return
	}
	m.AcquisitionsTotal.WithLabelValues(tier, outcome).Inc()
}

// ObserveAcquire records the duration of a full acquire call.
func (m *Metrics) ObserveAcquire(d time.Duration) {
	if m == nil {
		return
	}
	m.AcquireDuration.Observe(d.Seconds())
}

// AddListings counts harvested listings for a tier.
func (m *Metrics) AddListings(tier string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ListingsHarvested.WithLabelValues(tier).Add(float64(n))
}

// IncFallback counts an acquire call resolved by the synthetic tier.
func (m *Metrics) IncFallback() {
	if m == nil {
		return
	}
	m.FallbacksTotal.Inc()
}
