package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

var (
	callsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gote",
			Subsystem: "client",
			Name:      "calls_total",
			Help:      "Remote-facing client operations by outcome.",
		},
		[]string{"op", "outcome"},
	)

	callDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "gote",
			Subsystem: "client",
			Name:      "call_duration_seconds",
			Help:      "Wall time of remote-facing client operations, retries included.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"op"},
	)
)
