package metrics

import "github.com/prometheus/client_golang/prometheus"

type Prometheus struct {
	Fits *prometheus.CounterVec
}

func NewPrometheusMetrics() Prometheus {
	return Prometheus{Fits: prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dose",
			Name:      "fits",
		}, []string{"model", "outcome"}),
	}
}
