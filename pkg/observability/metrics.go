package observability

import (
	"net/http"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics records expansion activity as Prometheus collectors.
type Metrics struct {
	gatherer   prometheus.Gatherer
	expansions *prometheus.CounterVec
	children   *prometheus.CounterVec
	sizes      prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := newMetrics()
	reg.MustRegister(m.expansions, m.children, m.sizes)
	m.gatherer = reg
	return m
}

// NewMetricsWith registers the collectors on reg, which also serves Handler.
func NewMetricsWith(reg *prometheus.Registry) *Metrics {
	m := newMetrics()
	reg.MustRegister(m.expansions, m.children, m.sizes)
	m.gatherer = reg
	return m
}

func newMetrics() *Metrics {
	return &Metrics{
		expansions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arbor_expansions_total",
				Help: "Total number of container expansions by outcome",
			},
			[]string{"outcome"},
		),
		children: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arbor_children_total",
				Help: "Total number of child nodes produced by origin",
			},
			[]string{"origin"},
		),
		sizes: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "arbor_decided_size",
				Help:    "Element counts committed by size decisions",
				Buckets: prometheus.LinearBuckets(0, 2, 10),
			},
		),
	}
}

// Hooks returns lifecycle hooks feeding the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnExpand: func(e *domain.ExpansionEvent) {
			m.expansions.WithLabelValues("expanded").Inc()
			m.children.WithLabelValues("source").Add(float64(e.FromSource))
			m.children.WithLabelValues("synthesized").Add(float64(e.Synthesized))
		},
		OnEmpty: func(e *domain.ExpansionEvent) {
			m.expansions.WithLabelValues("empty").Inc()
		},
		OnSizeDecided: func(e *domain.ExpansionEvent) {
			m.sizes.Observe(float64(e.Size))
		},
		OnError: func(e *domain.ExpansionEvent) {
			m.expansions.WithLabelValues("error").Inc()
		},
	}
}

// Handler serves the collectors in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
