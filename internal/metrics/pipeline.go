package metrics

import "github.com/prometheus/client_golang/prometheus"

// Pipeline Prometheus metrics.
var (
	EventsReceivedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "topiclens",
			Name:      "events_received_total",
			Help:      "Total firehose events read from the subscription",
		},
	)

	MessagesAcceptedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "topiclens",
			Name:      "messages_accepted_total",
			Help:      "Total messages that passed the language and blank-text filter",
		},
	)

	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "topiclens",
			Name:      "embedding_requests_total",
			Help:      "Total embedding batch requests",
		},
		[]string{"model", "status"},
	)

	EmbeddingRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "topiclens",
			Name:      "embedding_request_duration_seconds",
			Help:      "Embedding batch request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"model"},
	)

	EmbeddingTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "topiclens",
			Name:      "embedding_tokens_total",
			Help:      "Total embedding tokens consumed",
		},
		[]string{"model", "type"},
	)

	EmbeddingCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "topiclens",
			Name:      "embedding_cache_total",
			Help:      "Embedding cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	SummaryRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "topiclens",
			Name:      "summary_requests_total",
			Help:      "Total cluster summarization requests",
		},
		[]string{"model", "status"},
	)

	StageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "topiclens",
			Name:      "stage_duration_seconds",
			Help:      "Pipeline stage duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300, 600},
		},
		[]string{"stage"},
	)

	ClustersFound = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "topiclens",
			Name:      "clusters_found",
			Help:      "Number of clusters in the last run",
		},
	)

	NoisePoints = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "topiclens",
			Name:      "noise_points",
			Help:      "Points excluded from every cluster in the last run",
		},
	)
)

var registered bool

// Register registers pipeline Prometheus metrics. Must be called once from main.
func Register() {
	if registered {
		return
	}
	prometheus.MustRegister(EventsReceivedTotal)
	prometheus.MustRegister(MessagesAcceptedTotal)
	prometheus.MustRegister(EmbeddingRequestsTotal)
	prometheus.MustRegister(EmbeddingRequestDuration)
	prometheus.MustRegister(EmbeddingTokensTotal)
	prometheus.MustRegister(EmbeddingCacheTotal)
	prometheus.MustRegister(SummaryRequestsTotal)
	prometheus.MustRegister(StageDuration)
	prometheus.MustRegister(ClustersFound)
	prometheus.MustRegister(NoisePoints)
	registered = true
}
