package httpapi

import (
	"database/sql"
	"errors"
	"net/http"

	"coursemate-engine/internal/events"
	"coursemate-engine/internal/logging"
	"coursemate-engine/internal/store"
	"coursemate-engine/internal/textutil"
)

type ReviewsHandler struct {
	DB  *sql.DB
	Hub *events.Hub
}

func (h ReviewsHandler) ListBySpot(w http.ResponseWriter, r *http.Request) {
	reviews, err := store.ReviewsBySpot(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		internalError(w, r, err, "list reviews")
		return
	}
	writeOK(w, "성공", result{"reviews": reviews})
}

type reviewReq struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Content string `json:"content" validate:"required,max=2000"`
}

// reviewText strips markup; a body that is only markup is rejected.
func reviewText(w http.ResponseWriter, r *http.Request, raw string) (string, bool) {
	text := textutil.PlainText(raw)
	if text == "" {
		WriteError(w, r, http.StatusBadRequest, codeBadRequest, "리뷰 내용이 비어 있습니다.")
		return "", false
	}
	return text, true
}

func (h ReviewsHandler) Create(w http.ResponseWriter, r *http.Request) {
	spotID := r.PathValue("id")

	var req reviewReq
	if !decodeBody(w, r, &req) {
		return
	}
	content, ok := reviewText(w, r, req.Content)
	if !ok {
		return
	}

	if _, err := store.SpotByID(r.Context(), h.DB, spotID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			WriteError(w, r, http.StatusNotFound, codeNotFound, "존재하지 않는 관광지입니다.")
			return
		}
		internalError(w, r, err, "load place")
		return
	}

	rev, err := store.CreateReview(r.Context(), h.DB, UserIDFrom(r.Context()), spotID, req.Rating, content)
	if err != nil {
		internalError(w, r, err, "create review")
		return
	}

	h.Hub.Emit(RequestIDFrom(r.Context()), events.ReviewCreated, map[string]any{
		"reviewId": rev.ID,
		"spotId":   rev.SpotID,
		"rating":   rev.Rating,
	})
	writeOK(w, "리뷰 등록 성공", result{"reviewId": rev.ID, "sentiment": rev.Sentiment})
}

func (h ReviewsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req reviewReq
	if !decodeBody(w, r, &req) {
		return
	}
	content, ok := reviewText(w, r, req.Content)
	if !ok {
		return
	}

	sentiment, err := store.UpdateReview(r.Context(), h.DB,
		r.PathValue("reviewId"), UserIDFrom(r.Context()), req.Rating, content)
	if errors.Is(err, store.ErrNotFound) {
		WriteError(w, r, http.StatusNotFound, codeNotFound, "리뷰가 존재하지 않습니다.")
		return
	}
	if err != nil {
		internalError(w, r, err, "update review")
		return
	}
	writeOK(w, "리뷰 수정 및 감성 업데이트 성공", result{"sentiment": sentiment})
}

func (h ReviewsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	reviewID := r.PathValue("reviewId")

	err := store.DeleteOwnReview(r.Context(), h.DB, reviewID, UserIDFrom(r.Context()))
	if errors.Is(err, store.ErrNotFound) {
		WriteError(w, r, http.StatusForbidden, codeForbidden, "권한이 없거나 존재하지 않는 리뷰입니다.")
		return
	}
	if err != nil {
		internalError(w, r, err, "delete review")
		return
	}

	logging.Ctx(r.Context()).Info().Str("review_id", reviewID).Msg("review deleted by owner")
	h.Hub.Emit(RequestIDFrom(r.Context()), events.ReviewDeleted, map[string]any{"reviewId": reviewID})
	writeOK(w, "리뷰 삭제 성공", nil)
}
