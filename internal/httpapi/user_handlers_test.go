package httpapi

import (
	"net/http"
	"testing"
)

func TestPreferences(t *testing.T) {
	e := newEnv(t)
	e.tag(1, "#야경")
	e.tag(2, "#맛집")
	_, tok := e.userToken("kim@example.com")

	_, body := e.do(http.MethodGet, "/api/users/tags", "", nil)
	if tags := body["tags"].([]any); len(tags) != 2 || tags[0] != "#야경" {
		t.Fatalf("tags = %v", tags)
	}

	_, body = e.do(http.MethodPost, "/api/users/me/preferences", tok, map[string]any{"tags": []string{"#맛집", "#없는태그"}})
	if code(t, body) != codeOK || body["saved"] != float64(1) {
		t.Fatalf("set: %v", body)
	}
	_, body = e.do(http.MethodGet, "/api/users/me/preferences", tok, nil)
	if tags := body["tags"].([]any); len(tags) != 1 || tags[0] != "#맛집" {
		t.Fatalf("get = %v", tags)
	}

	// an empty list clears, a missing one is rejected
	_, body = e.do(http.MethodPost, "/api/users/me/preferences", tok, map[string]any{"tags": []string{}})
	if code(t, body) != codeOK {
		t.Fatalf("clear: %v", body)
	}
	rec, _ := e.do(http.MethodPost, "/api/users/me/preferences", tok, map[string]any{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing tags: %d", rec.Code)
	}
}

func TestWishlist(t *testing.T) {
	e := newEnv(t)
	e.spot("S1", "남산타워", "서울 용산구")
	_, tok := e.userToken("kim@example.com")

	_, body := e.do(http.MethodPost, "/api/users/me/wishlist", tok, map[string]any{"placeId": "S1"})
	if body["action"] != "added" {
		t.Fatalf("toggle on: %v", body)
	}
	_, body = e.do(http.MethodGet, "/api/users/me/wishlist", tok, nil)
	items := body["wishlist"].([]any)
	if len(items) != 1 || items[0].(map[string]any)["placeId"] != "S1" {
		t.Fatalf("wishlist = %v", items)
	}

	_, body = e.do(http.MethodPost, "/api/users/me/wishlist", tok, map[string]any{"placeId": "S1"})
	if body["action"] != "removed" {
		t.Fatalf("toggle off: %v", body)
	}

	rec, _ := e.do(http.MethodPost, "/api/users/me/wishlist", tok, map[string]any{"placeId": "NOPE"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing place: %d", rec.Code)
	}

	e.do(http.MethodPost, "/api/users/me/wishlist", tok, map[string]any{"placeId": "S1"})
	rec, _ = e.do(http.MethodDelete, "/api/users/me/wishlist/S1", tok, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("remove: %d", rec.Code)
	}
	_, body = e.do(http.MethodGet, "/api/users/me/wishlist", tok, nil)
	if items := body["wishlist"].([]any); len(items) != 0 {
		t.Fatalf("wishlist after remove = %v", items)
	}
}

func TestUpdateAndDeleteMe(t *testing.T) {
	e := newEnv(t)
	_, tok := e.userToken("kim@example.com")

	_, body := e.do(http.MethodPut, "/api/users/me", tok, map[string]any{"name": "김철수", "age": 30, "password": "newpw1"})
	if code(t, body) != codeOK {
		t.Fatalf("update: %v", body)
	}
	_, body = e.do(http.MethodGet, "/api/users/me/settings", tok, nil)
	if s := body["setting"].(map[string]any); s["name"] != "김철수" || s["age"] != float64(30) {
		t.Fatalf("setting = %v", s)
	}
	tok = e.login("kim@example.com", "newpw1")

	_, body = e.do(http.MethodDelete, "/api/users/me", tok, nil)
	if code(t, body) != codeOK {
		t.Fatalf("delete: %v", body)
	}
	_, body = e.do(http.MethodPost, "/api/auth/login", "", map[string]any{"email": "kim@example.com", "password": "newpw1"})
	if code(t, body) != codeLoginFailed {
		t.Fatalf("login after delete: %v", body)
	}
	rec, _ := e.do(http.MethodGet, "/api/users/me/settings", tok, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("settings after delete: %d", rec.Code)
	}
}
