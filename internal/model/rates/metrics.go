package rates

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	refreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "converter",
			Subsystem: "rates",
			Name:      "refresh_total",
		},
		[]string{"source"},
	)

	histogramRefreshTime = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "converter",
			Subsystem: "rates",
			Name:      "histogram_refresh_time_seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
		},
	)
)

func observeRefresh(source Source, elapsed time.Duration) {
	refreshTotal.WithLabelValues(string(source)).Inc()
	histogramRefreshTime.Observe(elapsed.Seconds())
}
