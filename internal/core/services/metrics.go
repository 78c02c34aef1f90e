package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var lendingOps = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "bookstore_lending_operations_total",
	Help: "Lending ledger operations by outcome",
}, []string{"operation", "result"})

// observe records the outcome of a ledger operation
func observe(operation string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	lendingOps.WithLabelValues(operation, result).Inc()
}
