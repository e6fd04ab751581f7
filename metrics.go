package recordsync

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var opsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "recordsync",
		Name:      "operations_total",
		Help:      "Façade operations by write kind and outcome.",
	},
	[]string{"kind", "outcome"},
)
