package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stagectl",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"node", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "stagectl",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"node", "method", "path", "status"},
	)
	stageLoads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stagectl",
			Subsystem: "stage",
			Name:      "loads_total",
			Help:      "Stage bundle load attempts.",
		},
		[]string{"stage", "success"},
	)
	stageLoadDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "stagectl",
			Subsystem: "stage",
			Name:      "load_duration_seconds",
			Help:      "Stage bundle load duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"stage", "success"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, stageLoads, stageLoadDuration)
	})
}

func RecordHTTPRequest(node, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(node, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(node, method, path, statusLabel).Observe(duration.Seconds())
}

func RecordStageLoad(stage string, duration time.Duration, success bool) {
	RegisterMetrics()
	successLabel := strconv.FormatBool(success)
	stageLoads.WithLabelValues(stage, successLabel).Inc()
	stageLoadDuration.WithLabelValues(stage, successLabel).Observe(duration.Seconds())
}
