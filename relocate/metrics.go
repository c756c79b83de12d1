package relocate

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics counts relocation outcomes on a handler-owned Prometheus registry.
type Metrics struct {
	registry *prometheus.Registry

	Invocations *prometheus.CounterVec
	Files       *prometheus.CounterVec
	Failures    *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,

		Invocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "formfiles",
			Name:      "invocations_total",
			Help:      "Total number of form submissions handled",
		}, []string{"status"}),

		Files: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "formfiles",
			Name:      "files_total",
			Help:      "Total number of uploaded files processed",
		}, []string{"status"}),

		Failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "formfiles",
			Name:      "failures_total",
			Help:      "Total number of failed form submissions by error kind",
		}, []string{"kind"}),
	}

	reg.MustRegister(m.Invocations)
	reg.MustRegister(m.Files)
	reg.MustRegister(m.Failures)

	return m
}

// Handler returns an HTTP handler that serves the metrics in the Prometheus
// exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
