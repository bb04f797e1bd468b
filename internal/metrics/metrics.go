package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "crypto_notifier",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	lifecycleEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "crypto_notifier",
			Subsystem: "subscriptions",
			Name:      "events_total",
			Help:      "Subscription lifecycle operations by kind and result.",
		},
		[]string{"event", "result"},
	)

	deliveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "crypto_notifier",
			Subsystem: "delivery",
			Name:      "cycles_total",
			Help:      "Delivery cycles by outcome.",
		},
		[]string{"outcome"},
	)

	deliveryDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "crypto_notifier",
			Subsystem: "delivery",
			Name:      "cycle_duration_seconds",
			Help:      "Duration of delivery cycles including the quote request.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10), // 10ms to ~5s
		},
	)

	taskRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "crypto_notifier",
			Subsystem: "scheduler",
			Name:      "task_runs_total",
			Help:      "Scheduled task firings by outcome.",
		},
		[]string{"outcome"},
	)

	subscriptions = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "crypto_notifier",
			Subsystem: "subscriptions",
			Name:      "current",
			Help:      "Current number of pending confirmations and active subscriptions.",
		},
		[]string{"state"},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		lifecycleEvents,
		deliveries,
		deliveryDuration,
		taskRuns,
		subscriptions,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RecordLifecycle counts a RequestNotification/Confirm/Unsubscribe call.
func RecordLifecycle(event string, ok bool) {
	lifecycleEvents.WithLabelValues(event, strconv.FormatBool(ok)).Inc()
}

// RecordDelivery records one delivery cycle. outcome is "sent", "skipped" or "failed".
func RecordDelivery(outcome string, duration time.Duration) {
	deliveries.WithLabelValues(outcome).Inc()
	if outcome != "skipped" {
		deliveryDuration.Observe(duration.Seconds())
	}
}

// RecordTaskRun counts a scheduler firing. outcome is "continue", "stop", "error" or "panic".
func RecordTaskRun(outcome string) {
	taskRuns.WithLabelValues(outcome).Inc()
}

// SetSubscriptions publishes the current map sizes of the lifecycle manager.
func SetSubscriptions(pending, active int) {
	subscriptions.WithLabelValues("pending").Set(float64(pending))
	subscriptions.WithLabelValues("active").Set(float64(active))
}

// RecordHTTPRequest counts a handled request. route is the chi route pattern.
func RecordHTTPRequest(method, route string, status int) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}
