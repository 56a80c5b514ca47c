// Package metrics exposes the Prometheus collectors for quote rotation and
// card rendering. HTTP request metrics live in the telemetry package.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "quotecards"

// Rotation kinds recorded by RotationObserved.
const (
	RotationNext  = "next"
	RotationCycle = "cycle"
	RotationReset = "reset"
)

// Metrics groups the service collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	rotations       *prometheus.CounterVec
	persistFailures *prometheus.CounterVec
	cardsRendered   *prometheus.CounterVec
	renderDuration  prometheus.Histogram
	favorites       prometheus.Gauge
}

// New creates a registry holding the Go runtime, process and service collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		rotations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rotations_total",
			Help:      "Quotes selected by the rotation store, by kind.",
		}, []string{"kind"}),
		persistFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persist_failures_total",
			Help:      "Failed writes of rotation state, by storage key.",
		}, []string{"key"}),
		cardsRendered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cards_rendered_total",
			Help:      "Quote card renders, by result.",
		}, []string{"result"}),
		renderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "card_render_seconds",
			Help:      "Time spent drawing and encoding a quote card.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1},
		}),
		favorites: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "favorites",
			Help:      "Number of favorited quotes.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.rotations,
		m.persistFailures,
		m.cardsRendered,
		m.renderDuration,
		m.favorites,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}

	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RotationObserved counts a quote selection.
func (m *Metrics) RotationObserved(kind string) {
	if m == nil {
		return
	}

	m.rotations.WithLabelValues(kind).Inc()
}

// PersistFailed counts a failed state write.
func (m *Metrics) PersistFailed(key string) {
	if m == nil {
		return
	}

	m.persistFailures.WithLabelValues(key).Inc()
}

// FavoritesChanged records the current favorites count.
func (m *Metrics) FavoritesChanged(n int) {
	if m == nil {
		return
	}

	m.favorites.Set(float64(n))
}

// CardRendered records a render attempt and its duration.
func (m *Metrics) CardRendered(err error, elapsed time.Duration) {
	if m == nil {
		return
	}

	result := "ok"
	if err != nil {
		result = "error"
	}

	m.cardsRendered.WithLabelValues(result).Inc()
	m.renderDuration.Observe(elapsed.Seconds())
}
