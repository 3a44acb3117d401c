package generation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	generationRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "domaingen_generation_requests_total",
			Help: "Total number of generation requests by outcome.",
		},
		[]string{"status"},
	)
	generationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "domaingen_generation_duration_seconds",
			Help:    "End-to-end generation latency by outcome.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status"},
	)
)
