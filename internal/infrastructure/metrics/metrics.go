package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// NewCounter registers the service counters on the default registry, so it
// must be called once per process.
func NewCounter() *prometheus.CounterVec {
	return promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "customermanager",
			Name:      "general_counters",
			Help:      "Requests served and customer mutations by result.",
		},
		[]string{"result"})
}
