package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(affiliateAPILatencyMs) }

var affiliateAPILatencyMs = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "affiliate_api_latency_ms",
		Help:    "Affiliate API call latency distribution in milliseconds.",
		Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1600, 3000, 5000, 10000},
	},
	[]string{"method", "success"},
)

func ObserveAPICall(method string, latencyMs int, success bool) {
	s := "false"
	if success {
		s = "true"
	}
	affiliateAPILatencyMs.WithLabelValues(norm(method), s).Observe(float64(latencyMs))
}
