package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var operationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "finops_operations_total",
		Help: "Financial engine operations by outcome.",
	},
	[]string{"operation", "outcome"},
)

// ObserveOperation counts one engine operation. Failure reasons are kept out
// of the label set to bound cardinality.
func ObserveOperation(operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	operationsTotal.WithLabelValues(operation, outcome).Inc()
}
