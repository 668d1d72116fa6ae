package httpapi

import (
	"net/http"
	"net/url"
	"testing"
)

func courseOf(t *testing.T, body map[string]any) []map[string]any {
	t.Helper()
	raw, ok := body["course"].([]any)
	if !ok {
		t.Fatalf("no course in %v", body)
	}
	out := make([]map[string]any, 0, len(raw))
	for _, c := range raw {
		out = append(out, c.(map[string]any))
	}
	return out
}

func TestRecommendRequiresRegion(t *testing.T) {
	e := newEnv(t)
	_, tok := e.userToken("kim@example.com")

	for _, path := range []string{"/api/recommendations", "/api/recommendations/retry?region=%20%20"} {
		rec, body := e.do(http.MethodGet, path, tok, nil)
		if rec.Code != http.StatusBadRequest || code(t, body) != codeBadRequest {
			t.Fatalf("%s: %d %v", path, rec.Code, body)
		}
	}
}

func TestRecommendRequiresLogin(t *testing.T) {
	e := newEnv(t)
	rec, _ := e.do(http.MethodGet, "/api/recommendations?region="+url.QueryEscape("서울"), "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestRecommendScoresByPreference(t *testing.T) {
	e := newEnv(t)
	e.tag(1, "#야경")
	e.spot("S1", "남산타워", "서울 용산구")
	e.spot("S2", "경복궁", "서울 종로구")
	e.spot("S3", "해운대", "부산 해운대구")

	_, tok := e.userToken("kim@example.com")
	_, body := e.do(http.MethodPost, "/api/users/me/preferences", tok, map[string]any{"tags": []string{"#야경"}})
	if code(t, body) != codeOK {
		t.Fatalf("preferences: %v", body)
	}
	_, body = e.do(http.MethodPost, "/api/places/S1/reviews", tok, map[string]any{"rating": 5, "content": "야경이 멋져요"})
	if code(t, body) != codeOK {
		t.Fatalf("review: %v", body)
	}

	_, body = e.do(http.MethodGet, "/api/recommendations?region="+url.QueryEscape("서울"), tok, nil)
	if body["result_msg"] != "AI 코스 추천 성공" {
		t.Fatalf("msg = %v", body["result_msg"])
	}
	course := courseOf(t, body)
	if len(course) != 2 {
		t.Fatalf("course = %v", course)
	}
	if course[0]["spotId"] != "S1" || course[0]["matchScore"] != 0.64 {
		t.Fatalf("first = %v", course[0])
	}
	if course[1]["spotId"] != "S2" || course[1]["matchScore"] != 0.5 {
		t.Fatalf("second = %v", course[1])
	}
	features := course[0]["features"].([]any)
	if len(features) != 2 || features[0] != "#AI추천" {
		t.Fatalf("features = %v", features)
	}

	_, body = e.do(http.MethodGet, "/api/recommendations/retry?region="+url.QueryEscape("서울")+"&exclude=S1", tok, nil)
	course = courseOf(t, body)
	if len(course) != 1 || course[0]["spotId"] != "S2" {
		t.Fatalf("retry course = %v", course)
	}
}

func TestRecommendEmptyRegion(t *testing.T) {
	e := newEnv(t)
	e.spot("S1", "남산타워", "서울 용산구")
	_, tok := e.userToken("kim@example.com")

	rec, body := e.do(http.MethodGet, "/api/recommendations?region="+url.QueryEscape("제주"), tok, nil)
	if rec.Code != http.StatusOK || code(t, body) != codeOK {
		t.Fatalf("%d %v", rec.Code, body)
	}
	if body["result_msg"] != "추천 결과가 없습니다." {
		t.Fatalf("msg = %v", body["result_msg"])
	}
	if len(courseOf(t, body)) != 0 {
		t.Fatalf("course = %v", body["course"])
	}
}
