package recommend

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"coursemate-engine/internal/domain"
)

type fakeSource struct {
	tags    []string
	spots   []domain.Spot
	crawled map[string]int
	user    map[string]int

	calls        int
	gotRegion    string
	gotKeywords  []string
	gotExcludeID []string
	err          error
}

func (f *fakeSource) UserTags(ctx context.Context, userID string) ([]string, error) {
	f.calls++
	return f.tags, f.err
}

func (f *fakeSource) SpotsByRegion(ctx context.Context, region string, excludeIDs []string) ([]domain.Spot, error) {
	f.calls++
	f.gotRegion = region
	f.gotExcludeID = excludeIDs
	var out []domain.Spot
	for _, s := range f.spots {
		if strings.Contains(s.Address, region) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSource) CountCrawledHits(ctx context.Context, spotID string, keywords []string) (int, error) {
	f.calls++
	f.gotKeywords = keywords
	return f.crawled[spotID], nil
}

func (f *fakeSource) CountUserHits(ctx context.Context, spotID string, keywords []string) (int, error) {
	f.calls++
	return f.user[spotID], nil
}

func TestMatchScore(t *testing.T) {
	cases := []struct {
		raw  int
		want float64
	}{
		{0, 0.50},
		{12, 0.76},
		{1, 0.57},
		{100000, 0.99},
	}
	for _, c := range cases {
		if got := MatchScore(c.raw); got != c.want {
			t.Errorf("MatchScore(%d) = %v, want %v", c.raw, got, c.want)
		}
	}
}

func TestMatchScoreBoundsAndMonotonic(t *testing.T) {
	prev := 0.0
	for raw := 0; raw <= 5000; raw++ {
		s := MatchScore(raw)
		if s < 0.5 || s > 0.99 {
			t.Fatalf("MatchScore(%d) = %v out of range", raw, s)
		}
		if s < prev {
			t.Fatalf("MatchScore(%d) = %v < previous %v", raw, s, prev)
		}
		prev = s
	}
}

func TestKeywords(t *testing.T) {
	got := Keywords([]string{"#맛집", "뷰맛집", " #맛집 ", "#", ""})
	want := []string{"맛집", "뷰맛집"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Keywords = %v, want %v", got, want)
	}

	if got := Keywords(nil); !reflect.DeepEqual(got, DefaultTags) {
		t.Fatalf("fallback = %v", got)
	}
	if got := Keywords([]string{"#", "  "}); !reflect.DeepEqual(got, DefaultTags) {
		t.Fatalf("blank-only fallback = %v", got)
	}
}

func TestRecommendSeoulScenario(t *testing.T) {
	src := &fakeSource{
		tags: []string{"#맛집", "#뷰맛집"},
		spots: []domain.Spot{
			{ID: "S1", Name: "남산타워", Address: "서울 용산구"},
			{ID: "S2", Name: "경복궁", Address: "서울 종로구"},
		},
		crawled: map[string]int{"S1": 3},
		user:    map[string]int{"S1": 2},
	}

	got, err := Recommend(context.Background(), src, Request{UserID: "U1", Region: "서울"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d", len(got))
	}
	if got[0].SpotID != "S1" || got[0].MatchScore != 0.76 {
		t.Fatalf("first = %+v", got[0])
	}
	if got[1].SpotID != "S2" || got[1].MatchScore != 0.50 {
		t.Fatalf("second = %+v", got[1])
	}
	if !reflect.DeepEqual(got[0].Features, []string{"#AI추천", "#취향저격"}) {
		t.Fatalf("features = %v", got[0].Features)
	}
	if !reflect.DeepEqual(src.gotKeywords, []string{"맛집", "뷰맛집"}) {
		t.Fatalf("keywords = %v", src.gotKeywords)
	}
}

func TestRecommendEmptyRegionResult(t *testing.T) {
	src := &fakeSource{
		spots: []domain.Spot{{ID: "S1", Name: "남산타워", Address: "서울 용산구"}},
	}
	got, err := Recommend(context.Background(), src, Request{UserID: "U1", Region: "부산"})
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("got %#v, want empty non-nil slice", got)
	}
}

func TestRecommendUsesDefaultTags(t *testing.T) {
	src := &fakeSource{
		spots: []domain.Spot{{ID: "S1", Address: "서울"}},
	}
	if _, err := Recommend(context.Background(), src, Request{UserID: "U1", Region: "서울"}); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(src.gotKeywords, DefaultTags) {
		t.Fatalf("keywords = %v", src.gotKeywords)
	}
}

func TestRecommendRequiresRegion(t *testing.T) {
	for _, region := range []string{"", "   "} {
		src := &fakeSource{}
		_, err := Recommend(context.Background(), src, Request{UserID: "U1", Region: region})
		if !errors.Is(err, ErrRegionRequired) {
			t.Fatalf("region %q: err = %v", region, err)
		}
		if src.calls != 0 {
			t.Fatalf("region %q: %d source calls", region, src.calls)
		}
	}
}

func TestRecommendExcludes(t *testing.T) {
	src := &fakeSource{
		spots: []domain.Spot{
			{ID: "S1", Address: "서울"},
			{ID: "S2", Address: "서울"},
		},
		crawled: map[string]int{"S1": 50},
	}
	got, err := Recommend(context.Background(), src, Request{Region: "서울", ExcludeIDs: []string{"S1"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].SpotID != "S2" {
		t.Fatalf("got %+v", got)
	}
	if !reflect.DeepEqual(src.gotExcludeID, []string{"S1"}) {
		t.Fatalf("exclude passed = %v", src.gotExcludeID)
	}
}

func TestRecommendCapsAndSorts(t *testing.T) {
	src := &fakeSource{crawled: map[string]int{}, user: map[string]int{}}
	for i := 0; i < 8; i++ {
		id := fmt.Sprintf("S%d", i)
		src.spots = append(src.spots, domain.Spot{ID: id, Address: "서울"})
		src.crawled[id] = i % 4
	}
	src.user["S0"] = 1

	got, err := Recommend(context.Background(), src, Request{Region: "서울"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != MaxResults {
		t.Fatalf("len = %d", len(got))
	}
	// raw: S3,S7=6  S2,S6=4  S0=3 S1,S5=2
	wantIDs := []string{"S3", "S7", "S2", "S6", "S0"}
	for i, r := range got {
		if r.SpotID != wantIDs[i] {
			t.Fatalf("order = %+v", got)
		}
		if i > 0 && r.MatchScore > got[i-1].MatchScore {
			t.Fatalf("not descending at %d: %+v", i, got)
		}
	}
}

func TestRecommendSourceError(t *testing.T) {
	boom := errors.New("db down")
	src := &fakeSource{err: boom}
	_, err := Recommend(context.Background(), src, Request{Region: "서울"})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}

func TestRecommendFeaturesNotShared(t *testing.T) {
	src := &fakeSource{spots: []domain.Spot{{ID: "S1", Address: "서울"}}}
	got, _ := Recommend(context.Background(), src, Request{Region: "서울"})
	got[0].Features[0] = "changed"
	if Features[0] != "#AI추천" {
		t.Fatal("result aliases package Features")
	}
}

func TestRecommendMatchesRegionAsGiven(t *testing.T) {
	src := &fakeSource{
		spots: []domain.Spot{
			{ID: "S1", Address: "서울 용산구"},
			{ID: "S2", Address: "특별시 서울 중구"},
		},
	}
	got, err := Recommend(context.Background(), src, Request{Region: " 서울"})
	if err != nil {
		t.Fatal(err)
	}
	if src.gotRegion != " 서울" {
		t.Fatalf("region passed = %q", src.gotRegion)
	}
	if len(got) != 1 || got[0].SpotID != "S2" {
		t.Fatalf("got %+v", got)
	}
}

func TestRecommendIsRepeatable(t *testing.T) {
	src := &fakeSource{
		tags: []string{"#야경"},
		spots: []domain.Spot{
			{ID: "S3", Address: "서울"},
			{ID: "S1", Address: "서울"},
			{ID: "S2", Address: "서울"},
		},
		crawled: map[string]int{"S1": 1, "S2": 1, "S3": 4},
		user:    map[string]int{"S3": 1},
	}
	req := Request{UserID: "U1", Region: "서울"}

	first, err := Recommend(context.Background(), src, req)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		again, err := Recommend(context.Background(), src, req)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d = %+v, first = %+v", i+2, again, first)
		}
	}
}
