package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the registry module.
type Metrics struct {
	MintsTotal      prometheus.Counter
	BurnsTotal      prometheus.Counter
	EventsEmitted   *prometheus.CounterVec
	MintDuration    prometheus.Histogram
	ResolveDuration prometheus.Histogram
	URICacheHits    prometheus.Counter
	URICacheMisses  prometheus.Counter
}

// New creates a Metrics instance with all registry metrics registered.
func New() *Metrics {
	return &Metrics{
		MintsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tokenhome_mints_total",
			Help: "Total number of tokens minted",
		}),
		BurnsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tokenhome_burns_total",
			Help: "Total number of tokens burned",
		}),
		EventsEmitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tokenhome_observations_emitted_total",
			Help: "Total observations handed to the emitter, by kind",
		}, []string{"kind"}),
		MintDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "tokenhome_mint_duration_seconds",
			Help:    "Duration of mint operations including the receiver check",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		ResolveDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "tokenhome_resolve_duration_seconds",
			Help:    "Duration of URI resolution (read path)",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		URICacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tokenhome_uri_cache_hits_total",
			Help: "Resolved-URI cache hits",
		}),
		URICacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tokenhome_uri_cache_misses_total",
			Help: "Resolved-URI cache misses",
		}),
	}
}

// ObserveMint records the duration of a mint operation.
func (m *Metrics) ObserveMint(start time.Time) {
	m.MintDuration.Observe(time.Since(start).Seconds())
}

// ObserveResolve records the duration of a resolution call.
func (m *Metrics) ObserveResolve(start time.Time) {
	m.ResolveDuration.Observe(time.Since(start).Seconds())
}
