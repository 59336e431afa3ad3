package messages

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	commandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "converter",
			Subsystem: "telegram",
			Name:      "commands_total",
		},
		[]string{"command"},
	)
	histogramResponseTime = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "converter",
			Subsystem: "telegram",
			Name:      "histogram_response_time_seconds",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		},
		[]string{"command", "failed"},
	)
)

func observeResponse(cmd string, elapsed time.Duration, failed bool) {
	commandsTotal.WithLabelValues(cmd).Inc()
	histogramResponseTime.
		WithLabelValues(cmd, strconv.FormatBool(failed)).
		Observe(elapsed.Seconds())
}
