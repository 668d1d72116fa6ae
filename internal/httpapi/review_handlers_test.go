package httpapi

import (
	"net/http"
	"strings"
	"testing"

	"coursemate-engine/internal/events"
)

func TestReviewLifecycle(t *testing.T) {
	e := newEnv(t)
	e.spot("S1", "남산타워", "서울 용산구")
	_, owner := e.userToken("owner@example.com")
	_, other := e.userToken("other@example.com")

	ch := e.hub.Subscribe()
	defer e.hub.Unsubscribe(ch)

	_, body := e.do(http.MethodPost, "/api/places/S1/reviews", owner, map[string]any{
		"rating": 4, "content": "<p>좋아요 &amp; 추천</p>",
	})
	if code(t, body) != codeOK || body["sentiment"] != "P" {
		t.Fatalf("create: %v", body)
	}
	reviewID := body["reviewId"].(string)
	if !strings.HasPrefix(reviewID, "REV-") {
		t.Fatalf("review id = %q", reviewID)
	}
	select {
	case msg := <-ch:
		if !strings.Contains(msg, events.ReviewCreated) {
			t.Fatalf("event = %s", msg)
		}
	default:
		t.Fatal("no review.created event")
	}

	_, body = e.do(http.MethodGet, "/api/places/S1/reviews", "", nil)
	reviews := body["reviews"].([]any)
	if len(reviews) != 1 {
		t.Fatalf("reviews = %v", reviews)
	}
	if got := reviews[0].(map[string]any)["CONTENT"]; got != "좋아요 & 추천" {
		t.Fatalf("content = %q", got)
	}

	rec, _ := e.do(http.MethodPut, "/api/reviews/"+reviewID, other, map[string]any{"rating": 1, "content": "별로"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("update by other: %d", rec.Code)
	}
	rec, body = e.do(http.MethodDelete, "/api/reviews/"+reviewID, other, nil)
	if rec.Code != http.StatusForbidden || code(t, body) != codeForbidden {
		t.Fatalf("delete by other: %d %v", rec.Code, body)
	}

	_, body = e.do(http.MethodPut, "/api/reviews/"+reviewID, owner, map[string]any{"rating": 1, "content": "별로"})
	if code(t, body) != codeOK || body["sentiment"] != "N" {
		t.Fatalf("update: %v", body)
	}

	_, body = e.do(http.MethodGet, "/api/users/me/reviews", owner, nil)
	if mine := body["reviews"].([]any); len(mine) != 1 {
		t.Fatalf("my reviews = %v", mine)
	}

	rec, _ = e.do(http.MethodDelete, "/api/reviews/"+reviewID, owner, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: %d", rec.Code)
	}
}

func TestCreateReviewRejects(t *testing.T) {
	e := newEnv(t)
	e.spot("S1", "남산타워", "서울 용산구")
	_, tok := e.userToken("kim@example.com")

	rec, _ := e.do(http.MethodPost, "/api/places/NOPE/reviews", tok, map[string]any{"rating": 3, "content": "ok"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing spot: %d", rec.Code)
	}

	rec, body := e.do(http.MethodPost, "/api/places/S1/reviews", tok, map[string]any{"rating": 6, "content": "ok"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("rating 6: %d %v", rec.Code, body)
	}
	if _, ok := body["fields"]; !ok {
		t.Fatalf("no field errors: %v", body)
	}

	rec, _ = e.do(http.MethodPost, "/api/places/S1/reviews", tok, map[string]any{"rating": 3, "content": "<b></b>"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("markup only: %d", rec.Code)
	}
}
