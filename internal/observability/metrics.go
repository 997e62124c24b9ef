package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	migrationRecords = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "homectl",
			Subsystem: "migration",
			Name:      "records_total",
			Help:      "Control records processed, by run mode and outcome.",
		},
		[]string{"mode", "result"},
	)
	recordDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "homectl",
			Subsystem: "migration",
			Name:      "record_duration_seconds",
			Help:      "Wall time spent on one record's migration attempt.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		},
		[]string{"result"},
	)
	mirrorExitCodes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "homectl",
			Subsystem: "mirror",
			Name:      "exit_codes_total",
			Help:      "Raw exit codes reported by the mirror-copy tool.",
		},
		[]string{"code"},
	)
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "homectl",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total status listener HTTP requests.",
		},
		[]string{"run", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "homectl",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Status listener HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"run", "method", "path", "status"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			migrationRecords,
			recordDuration,
			mirrorExitCodes,
			httpRequests,
			httpDuration,
		)
	})
}

func RecordMigration(mode, result string, duration time.Duration) {
	RegisterMetrics()
	migrationRecords.WithLabelValues(mode, result).Inc()
	recordDuration.WithLabelValues(result).Observe(duration.Seconds())
}

func RecordMirrorExit(code int) {
	RegisterMetrics()
	mirrorExitCodes.WithLabelValues(strconv.Itoa(code)).Inc()
}

func RecordHTTPRequest(run, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(run, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(run, method, path, statusLabel).Observe(duration.Seconds())
}
