package metrics

import "github.com/prometheus/client_golang/prometheus"

// Pipeline Prometheus metrics.
var (
	RowsLoadedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kindred",
			Name:      "rows_loaded_total",
			Help:      "Total number of rows loaded per entity type",
		},
		[]string{"entity_type"},
	)

	RowsDroppedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kindred",
			Name:      "rows_dropped_total",
			Help:      "Rows dropped during normalization (missing identifier)",
		},
		[]string{"entity_type"},
	)

	VocabularySize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "kindred",
			Name:      "vocabulary_size",
			Help:      "Number of terms in the fitted vocabulary",
		},
	)

	DocumentsFittedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "kindred",
			Name:      "documents_fitted_total",
			Help:      "Documents transformed into term vectors",
		},
	)

	RecommendationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kindred",
			Name:      "recommendations_total",
			Help:      "Recommendations emitted per item type",
		},
		[]string{"item_type"},
	)

	ColdStartUsersTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "kindred",
			Name:      "cold_start_users_total",
			Help:      "Users scored via the popularity fallback",
		},
	)

	FeedbackEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kindred",
			Name:      "feedback_events_total",
			Help:      "Simulated feedback events applied",
		},
		[]string{"polarity"},
	)

	StageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "kindred",
			Name:      "stage_duration_seconds",
			Help:      "Pipeline stage duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"stage"},
	)
)

var pipelineMetricsRegistered bool

// RegisterPipelineMetrics registers Prometheus pipeline metrics. Must be called once from main.
func RegisterPipelineMetrics() {
	if pipelineMetricsRegistered {
		return
	}
	prometheus.MustRegister(RowsLoadedTotal)
	prometheus.MustRegister(RowsDroppedTotal)
	prometheus.MustRegister(VocabularySize)
	prometheus.MustRegister(DocumentsFittedTotal)
	prometheus.MustRegister(RecommendationsTotal)
	prometheus.MustRegister(ColdStartUsersTotal)
	prometheus.MustRegister(FeedbackEventsTotal)
	prometheus.MustRegister(StageDuration)
	pipelineMetricsRegistered = true
}
