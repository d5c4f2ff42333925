package feeds

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	feedRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "zroom_feed_requests_total",
		Help: "Feed requests by mode and outcome",
	}, []string{"mode", "outcome"})

	feedPageSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "zroom_feed_page_entries",
		Help:    "Number of entries returned per feed page",
		Buckets: prometheus.LinearBuckets(0, 10, 11),
	})

	fetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "zroom_feed_fetch_duration_seconds",
		Help:    "Duration of the concurrent item, record and room reads",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // Start at 1ms, double each bucket
	}, []string{"window"})
)

func modeLabel(keyFeed bool) string {
	if keyFeed {
		return "key"
	}
	return "public"
}
