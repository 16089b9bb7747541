package server

//----------------------------------------------------------------------
// This file is part of the Hyperborea overlay core.
// Grounded on SAGE-X-project-sage/internal/metrics: a dedicated registry,
// promauto-registered counters/histograms, one file per concern.
//----------------------------------------------------------------------

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "hyperborea"

// Registry is this process's dedicated metrics registry, kept separate
// from the global default so embedding applications can mount it (or not)
// on their own /metrics endpoint.
var Registry = prometheus.NewRegistry()

var (
	verbRequests = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "verb_requests_total",
			Help:      "Total number of requests handled per verb",
		},
		[]string{"verb"},
	)

	pollDrainSize = promauto.With(Registry).NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "poll_drain_messages",
			Help:      "Number of messages returned per poll call",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		},
	)
)

func metricVerb(verb string) {
	verbRequests.WithLabelValues(verb).Inc()
}

func observePollDrain(n int) {
	pollDrainSize.Observe(float64(n))
}

// Handler exposes Registry over HTTP in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
