package chatguru

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatguru_requests_total",
			Help: "ChatGuru API calls by action and outcome",
		},
		[]string{"action", "outcome"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chatguru_request_duration_seconds",
			Help:    "ChatGuru API call latency by action",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"action"},
	)
)

func observeRequest(action string, started time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	requestsTotal.WithLabelValues(action, outcome).Inc()
	requestDuration.WithLabelValues(action).Observe(time.Since(started).Seconds())
}
