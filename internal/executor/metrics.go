package executor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// queriesTotal counts executions per domain tab and outcome (ok or the error kind).
	queriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chococrunch_queries_total",
			Help: "Total number of catalog statements executed",
		},
		[]string{"domain", "status"},
	)

	queryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chococrunch_query_duration_seconds",
			Help:    "Wall time from sending a statement to materialising its last row",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"domain"},
	)

	// queryRows observes the size of every successful result set.
	queryRows = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chococrunch_query_rows",
			Help:    "Rows returned per executed statement",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)
)
