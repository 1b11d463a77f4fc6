package dispatcher

import "github.com/prometheus/client_golang/prometheus"

var (
	cyclesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "repo_indexer",
			Subsystem: "dispatcher",
			Name:      "cycles_total",
			Help:      "Total number of dispatch cycles by outcome",
		},
		[]string{"outcome"},
	)

	indexerErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "repo_indexer",
			Subsystem: "dispatcher",
			Name:      "indexer_errors_total",
			Help:      "Total number of failed indexer calls",
		},
		[]string{"indexer"},
	)

	fetchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "repo_indexer",
			Subsystem: "dispatcher",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of resource content fetches in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(cyclesTotal, indexerErrorsTotal, fetchDuration)
}
