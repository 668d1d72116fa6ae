package httpapi

import (
	"bufio"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"coursemate-engine/internal/events"
	"coursemate-engine/internal/metrics"
)

func TestCors(t *testing.T) {
	e := newEnv(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/places", nil)
	req.Header.Set("Origin", "http://app.local")
	rec := httptest.NewRecorder()
	e.h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://app.local" {
		t.Fatalf("allow origin = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/places", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	e.h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("foreign origin allowed: %q", got)
	}
}

func TestRequestIDEchoed(t *testing.T) {
	e := newEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/places/NOPE", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec := httptest.NewRecorder()
	e.h.ServeHTTP(rec, req)

	if rec.Header().Get("X-Request-ID") != "req-123" {
		t.Fatalf("header = %q", rec.Header().Get("X-Request-ID"))
	}
	if !strings.Contains(rec.Body.String(), `"request_id":"req-123"`) {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestRecoverAnswersEnvelope(t *testing.T) {
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}), RequestID, Recover)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError || !strings.Contains(rec.Body.String(), msgInternal) {
		t.Fatalf("%d %s", rec.Code, rec.Body.String())
	}
}

func TestMetricsUseRoutePattern(t *testing.T) {
	e := newEnv(t)
	counter := metrics.HTTPRequests.WithLabelValues("GET", "GET /api/places/{id}", "404")
	before := testutil.ToFloat64(counter)

	e.do(http.MethodGet, "/api/places/NOPE", "", nil)

	if got := testutil.ToFloat64(counter) - before; got != 1 {
		t.Fatalf("counter delta = %v", got)
	}

	rec, _ := e.do(http.MethodGet, "/metrics", "", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "coursemate_http_requests_total") {
		t.Fatalf("metrics endpoint: %d", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	e := newEnv(t)
	rec, body := e.do(http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK || body["ok"] != true {
		t.Fatalf("%d %v", rec.Code, body)
	}
}

func TestAdminEventsStream(t *testing.T) {
	e := newEnv(t)
	srv := httptest.NewServer(e.h)
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/admin/events", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer "+e.adminToken())
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type = %q", ct)
	}

	lines := make(chan string, 16)
	go func() {
		sc := bufio.NewScanner(resp.Body)
		for sc.Scan() {
			if data, ok := strings.CutPrefix(sc.Text(), "data: "); ok {
				lines <- data
			}
		}
		close(lines)
	}()

	next := func() string {
		t.Helper()
		select {
		case l, ok := <-lines:
			if !ok {
				t.Fatal("stream closed")
			}
			return l
		case <-time.After(3 * time.Second):
			t.Fatal("timed out waiting for event")
		}
		return ""
	}

	if first := next(); !strings.Contains(first, `"type":"ping"`) {
		t.Fatalf("first event = %s", first)
	}

	e.hub.Emit("rid", events.InquiryCreated, map[string]any{"inquiryId": "INQ-1"})
	got := next()
	if !strings.Contains(got, events.InquiryCreated) || !strings.Contains(got, "INQ-1") {
		t.Fatalf("event = %s", got)
	}
}
