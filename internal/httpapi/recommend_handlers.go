package httpapi

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"coursemate-engine/internal/logging"
	"coursemate-engine/internal/metrics"
	"coursemate-engine/internal/recommend"
	"coursemate-engine/internal/store"
	"coursemate-engine/internal/textutil"
)

type RecommendHandler struct {
	DB *sql.DB
}

// Recommend serves both /recommendations and /recommendations/retry.
// The retry client passes the ids it has already shown in exclude.
func (h RecommendHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	region := q.Get("region")
	if strings.TrimSpace(region) == "" {
		WriteError(w, r, http.StatusBadRequest, codeBadRequest, "지역(region) 정보가 필요합니다.")
		return
	}
	req := recommend.Request{
		UserID:     UserIDFrom(r.Context()),
		Region:     region,
		ExcludeIDs: textutil.SplitList(q.Get("exclude")),
	}

	start := time.Now()
	var course []recommend.Recommendation
	err := store.WithRecommendSource(r.Context(), h.DB, func(src store.RecommendSource) error {
		var err error
		course, err = recommend.Recommend(r.Context(), src, req)
		return err
	})
	if errors.Is(err, recommend.ErrRegionRequired) {
		WriteError(w, r, http.StatusBadRequest, codeBadRequest, "지역(region) 정보가 필요합니다.")
		return
	}
	if err != nil {
		internalError(w, r, err, "recommend")
		return
	}
	metrics.ObserveRecommend(start, len(course))

	logging.Ctx(r.Context()).Debug().
		Str("region", region).
		Int("excluded", len(req.ExcludeIDs)).
		Int("results", len(course)).
		Msg("recommendation")

	if len(course) == 0 {
		writeOK(w, "추천 결과가 없습니다.", result{"course": course})
		return
	}
	writeOK(w, "AI 코스 추천 성공", result{"course": course})
}
