package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		linksProcessedTotal,
		pipelineStageFailuresTotal,
		resolverFailOpenTotal,
	)
}

var (
	linksProcessedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "links_processed_total",
			Help: "Pipeline runs by terminal status.",
		},
		[]string{"status"}, // 'converted', 'no_link', 'no_product_id', 'api_error', 'synthesis_error'
	)

	pipelineStageFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_stage_failures_total",
			Help: "Failures per pipeline stage.",
		},
		[]string{"stage"}, // 'resolve', 'extract', 'generate', 'synthesize', 'detail'
	)

	resolverFailOpenTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "resolver_fail_open_total",
			Help: "Short-link resolutions that degraded to the original URL.",
		},
	)
)

func IncLinkProcessed(status string) {
	linksProcessedTotal.WithLabelValues(norm(status)).Inc()
}

func IncStageFailure(stage string) {
	pipelineStageFailuresTotal.WithLabelValues(norm(stage)).Inc()
}

func IncResolverFailOpen() {
	resolverFailOpenTotal.Inc()
}
