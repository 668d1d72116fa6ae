package metrics

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coursemate_http_requests_total",
		Help: "HTTP requests by route pattern and status",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "coursemate_http_request_duration_seconds",
		Help:    "HTTP request latency by route pattern",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	RecommendDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "coursemate_recommend_duration_seconds",
		Help:    "Time spent scoring one recommendation request",
		Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	})

	RecommendEmpty = promauto.NewCounter(prometheus.CounterOpts{
		Name: "coursemate_recommend_empty_total",
		Help: "Recommendation requests that matched no spot",
	})

	LoginFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coursemate_login_failures_total",
		Help: "Rejected logins by reason",
	}, []string{"reason"})

	DBConnections = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "coursemate_db_connections",
		Help: "Database pool connections by state",
	}, []string{"state"})

	DBWaitCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "coursemate_db_wait_count",
		Help: "Total connections waited for since start",
	})

	SSEClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "coursemate_sse_clients",
		Help: "Connected admin event stream clients",
	})
)

func ObserveHTTP(method, route string, status int, start time.Time) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
}

func ObserveRecommend(start time.Time, results int) {
	RecommendDuration.Observe(time.Since(start).Seconds())
	if results == 0 {
		RecommendEmpty.Inc()
	}
}

// RecordPoolStats copies a sql.DBStats snapshot into the pool gauges.
func RecordPoolStats(s sql.DBStats) {
	DBConnections.WithLabelValues("open").Set(float64(s.OpenConnections))
	DBConnections.WithLabelValues("in_use").Set(float64(s.InUse))
	DBConnections.WithLabelValues("idle").Set(float64(s.Idle))
	DBWaitCount.Set(float64(s.WaitCount))
}
