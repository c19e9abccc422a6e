package assets

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for model loading. A nil *Metrics records
// nothing.
type Metrics struct {
	loads       *prometheus.CounterVec
	hits        prometheus.Counter
	coalesced   prometheus.Counter
	loadLatency prometheus.Histogram
}

// NewMetrics creates the loader metrics and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		loads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fridgeview_model_loads_total",
				Help: "Model fetches from a source, by result",
			},
			[]string{"result"},
		),
		hits: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "fridgeview_model_cache_hits_total",
				Help: "Model requests served from the template cache",
			},
		),
		coalesced: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "fridgeview_model_coalesced_total",
				Help: "Model requests that shared an in-flight fetch",
			},
		),
		loadLatency: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "fridgeview_model_load_latency_ms",
				Help:    "Fetch plus decode latency in milliseconds",
				Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
			},
		),
	}
}

func (m *Metrics) recordHit() {
	if m != nil {
		m.hits.Inc()
	}
}

func (m *Metrics) recordCoalesced() {
	if m != nil {
		m.coalesced.Inc()
	}
}

func (m *Metrics) recordLoad(err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.loads.WithLabelValues(result).Inc()
	m.loadLatency.Observe(float64(elapsed.Microseconds()) / 1000)
}
