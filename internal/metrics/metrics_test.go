package metrics

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsExposure(t *testing.T) {
	ObserveHTTP(http.MethodGet, "GET /api/places", 200, time.Now().Add(-20*time.Millisecond))
	ObserveHTTP(http.MethodGet, "", 404, time.Now())
	ObserveRecommend(time.Now().Add(-5*time.Millisecond), 0)
	LoginFailures.WithLabelValues("password").Inc()
	RecordPoolStats(sql.DBStats{OpenConnections: 3, InUse: 1, Idle: 2, WaitCount: 7})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	promhttp.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", rec.Code)
	}
	body := rec.Body.String()
	for _, m := range []string{
		"coursemate_http_requests_total",
		"coursemate_http_request_duration_seconds",
		"coursemate_recommend_duration_seconds",
		"coursemate_recommend_empty_total",
		"coursemate_login_failures_total",
		"coursemate_db_connections",
		`route="unmatched"`,
	} {
		if !strings.Contains(body, m) {
			t.Fatalf("expected %s in body", m)
		}
	}
}

func TestRecordPoolStats(t *testing.T) {
	RecordPoolStats(sql.DBStats{OpenConnections: 4, InUse: 3, Idle: 1, WaitCount: 9})

	if v := testutil.ToFloat64(DBConnections.WithLabelValues("in_use")); v != 3 {
		t.Fatalf("in_use = %v", v)
	}
	if v := testutil.ToFloat64(DBWaitCount); v != 9 {
		t.Fatalf("wait = %v", v)
	}
}

func TestRecommendEmptyCounts(t *testing.T) {
	before := testutil.ToFloat64(RecommendEmpty)
	ObserveRecommend(time.Now(), 3)
	ObserveRecommend(time.Now(), 0)
	if got := testutil.ToFloat64(RecommendEmpty) - before; got != 1 {
		t.Fatalf("empty delta = %v", got)
	}
}
