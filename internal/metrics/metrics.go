package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var Observer = &Metrics{
	mutex:      new(sync.RWMutex),
	prometheus: NewPrometheusMetrics(),
}

func init() {
	prometheus.MustRegister(Observer.prometheus.Fits)
}

type Metrics struct {
	mutex      *sync.RWMutex
	prometheus Prometheus
}

// Increment counts one fit attempt outcome for the given (model, outcome) labels.
func (m *Metrics) Increment(labels ...string) {
	m.prometheus.Fits.WithLabelValues(labels...).Inc()
}
