package certificate

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	importsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "farmkit",
			Subsystem: "certificate",
			Name:      "imports_total",
			Help:      "Total number of certificate imports by result",
		},
		[]string{"result"},
	)

	deletesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "farmkit",
			Subsystem: "certificate",
			Name:      "deletes_total",
			Help:      "Total number of certificate deletions by result",
		},
		[]string{"result"},
	)

	importRetriesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "farmkit",
			Subsystem: "certificate",
			Name:      "import_retries_total",
			Help:      "Total number of throttled import attempts that were retried",
		},
	)
)

func init() {
	prometheus.MustRegister(importsTotal, deletesTotal, importRetriesTotal)
}
