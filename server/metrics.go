package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "zroom_http_request_duration_seconds",
	Help:    "HTTP request latency by method and route",
	Buckets: prometheus.DefBuckets,
}, []string{"method", "route"})
