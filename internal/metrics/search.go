package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search Prometheus metrics.
var (
	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sercha",
			Name:      "search_duration_seconds",
			Help:      "Unified search duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"status"}, // "ok" / "invalid" / "forbidden" / "upstream_error"
	)

	SearchSourceDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sercha",
			Name:      "search_source_duration_seconds",
			Help:      "Per-source query duration during a search",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"source"},
	)

	SearchResultsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sercha",
			Name:      "search_results_total",
			Help:      "Total number of results returned, by kind",
		},
		[]string{"kind"},
	)

	SearchMessagesFiltered = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "sercha",
			Name:      "search_messages_filtered_total",
			Help:      "Messages fetched but hidden from the caller by the visibility check",
		},
	)


	SearchFilesFiltered = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "sercha",
			Name:      "search_files_filtered_total",
			Help:      "Files from channels the caller is not in, hidden by the visibility check",
		},
	)
)

func init() {
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(SearchSourceDuration)
	prometheus.MustRegister(SearchResultsTotal)
	prometheus.MustRegister(SearchMessagesFiltered)
	prometheus.MustRegister(SearchFilesFiltered)
}
