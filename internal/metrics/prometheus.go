package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var HttpRequestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "dupepanel_http_requests_total",
		Help: "Total number of HTTP requests received",
	},
	[]string{"route", "status", "method"},
)

var HttpRequestDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "dupepanel_http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"route", "method"},
)

var HttpRateLimitRejectionsTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "dupepanel_http_rate_limit_rejections_total",
		Help: "Total number of HTTP requests rejected due to rate limiting",
	},
)

var SchedulerRunsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "dupepanel_scheduler_runs_total",
		Help: "Total number of notification schedule recomputations",
	},
	[]string{"status"},
)

var ScheduledQueueSize = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "dupepanel_scheduled_queue_size",
		Help: "Number of entries in the last computed notification queue",
	},
)

var AlertsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "dupepanel_alerts_total",
		Help: "Due notifications processed by the worker",
	},
	[]string{"kind", "outcome"},
)

var WorkerPollErrorsTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "dupepanel_worker_poll_errors_total",
		Help: "Worker poll passes that failed on storage",
	},
)

var BridgeMessagesTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "dupepanel_bridge_messages_total",
		Help: "Bridge messages by direction and type",
	},
	[]string{"direction", "type"},
)

var (
	appOnce    sync.Once
	workerOnce sync.Once
	bridgeOnce sync.Once
)

// InitAppMetrics registers the collectors used by the app process.
func InitAppMetrics() {
	appOnce.Do(func() {
		prometheus.MustRegister(HttpRequestsTotal)
		prometheus.MustRegister(HttpRequestDuration)
		prometheus.MustRegister(HttpRateLimitRejectionsTotal)
		prometheus.MustRegister(SchedulerRunsTotal)
		prometheus.MustRegister(ScheduledQueueSize)
	})
	initBridgeMetrics()
}

// InitWorkerMetrics registers the collectors used by the delivery worker.
func InitWorkerMetrics() {
	workerOnce.Do(func() {
		prometheus.MustRegister(AlertsTotal)
		prometheus.MustRegister(WorkerPollErrorsTotal)
	})
	initBridgeMetrics()
}

// Both processes run a bridge, and the app may also host the worker.
func initBridgeMetrics() {
	bridgeOnce.Do(func() {
		prometheus.MustRegister(BridgeMessagesTotal)
	})
}
