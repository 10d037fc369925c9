package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	ActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_requests",
			Help: "Current number of active HTTP requests",
		},
	)

	// Maintenance Metrics
	MaintenancePassesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "maintenance_passes_total",
			Help: "Backfill and streak passes by outcome",
		},
		[]string{"pass", "result"}, // backfill/streaks, success/failure
	)

	BackfillLogsInserted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "backfill_logs_inserted_total",
			Help: "Missed logs written by backfill",
		},
	)

	StreakUpdatesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "streak_updates_total",
			Help: "Habit streak aggregate writes",
		},
	)

	ProgressPercentage = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "progress_percentage",
			Help:    "Distribution of computed daily progress",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	// Event Metrics
	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Events published to subscribers",
		},
		[]string{"kind"},
	)

	EventsDroppedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "events_dropped_total",
			Help: "Events dropped because a subscriber buffer was full",
		},
	)
)

// Middleware records request count and latency per route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		ActiveRequests.Inc()
		defer ActiveRequests.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method

		HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}

// TrackPass records the outcome of one maintenance pass.
func TrackPass(pass string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	MaintenancePassesTotal.WithLabelValues(pass, result).Inc()
}
