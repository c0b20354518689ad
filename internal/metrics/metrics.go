// Package metrics defines the Prometheus metrics and HTTP instrumentation
// for the eventmap services.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Gateway metrics. The upstream "result" label keeps the internal failure
// cause (timeout/connect/status/decode) that the HTTP boundary flattens into
// a single 503.
var (
	UpstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "eventmap",
			Name:      "upstream_requests_total",
			Help:      "Total requests to the clustering service",
		},
		[]string{"result"}, // "success" or a failure cause
	)

	UpstreamRequestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "eventmap",
			Name:      "upstream_request_duration_seconds",
			Help:      "Clustering service request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	DroppedEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "eventmap",
			Name:      "dropped_events_total",
			Help:      "Clustered events dropped during GeoJSON transformation",
		},
		[]string{"reason"},
	)
)

// Pipeline metrics.
var (
	PipelineCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "eventmap",
			Name:      "pipeline_cache_total",
			Help:      "Pipeline cache hits, misses, and evictions",
		},
		[]string{"result"}, // "hit" / "miss" / "evict"
	)

	PipelineLoadDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "eventmap",
			Name:      "pipeline_load_duration_seconds",
			Help:      "NLP pipeline construction duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)
)

var (
	gatewayRegistered  bool
	pipelineRegistered bool
)

// RegisterGatewayMetrics registers the mapgw metrics. Must be called once from main.
func RegisterGatewayMetrics() {
	if gatewayRegistered {
		return
	}
	prometheus.MustRegister(UpstreamRequestsTotal)
	prometheus.MustRegister(UpstreamRequestDuration)
	prometheus.MustRegister(DroppedEventsTotal)
	gatewayRegistered = true
}

// RegisterPipelineMetrics registers the nlpsvc metrics. Must be called once from main.
func RegisterPipelineMetrics() {
	if pipelineRegistered {
		return
	}
	prometheus.MustRegister(PipelineCacheTotal)
	prometheus.MustRegister(PipelineLoadDuration)
	pipelineRegistered = true
}
