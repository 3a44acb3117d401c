package llm

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	modelRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "domaingen_model_requests_total",
			Help: "Total number of model invocations by backend and outcome.",
		},
		[]string{"backend", "status"},
	)
	modelRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "domaingen_model_request_duration_seconds",
			Help:    "Duration of successful model invocations.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend"},
	)
)
