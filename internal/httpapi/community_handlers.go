package httpapi

import (
	"database/sql"
	"errors"
	"net/http"

	"coursemate-engine/internal/events"
	"coursemate-engine/internal/store"
	"coursemate-engine/internal/textutil"
)

type CommunityHandler struct {
	DB  *sql.DB
	Hub *events.Hub
}

func (h CommunityHandler) Notices(w http.ResponseWriter, r *http.Request) {
	notices, err := store.ListNotices(r.Context(), h.DB)
	if err != nil {
		internalError(w, r, err, "list notices")
		return
	}
	writeOK(w, "공지사항 목록 조회 성공", result{"notices": notices})
}

func (h CommunityHandler) Notice(w http.ResponseWriter, r *http.Request) {
	n, err := store.NoticeByID(r.Context(), h.DB, r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		WriteError(w, r, http.StatusNotFound, codeNotFound, "공지사항이 없습니다.")
		return
	}
	if err != nil {
		internalError(w, r, err, "notice detail")
		return
	}
	writeOK(w, "상세 조회 성공", result{"notice": n})
}

type feedbackReq struct {
	Title   string `json:"title" validate:"required,max=255"`
	Content string `json:"content" validate:"required,max=5000"`
}

func (h CommunityHandler) CreateFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackReq
	if !decodeBody(w, r, &req) {
		return
	}

	id, err := store.CreateInquiry(r.Context(), h.DB, UserIDFrom(r.Context()),
		textutil.CleanText(req.Title), textutil.PlainText(req.Content))
	if err != nil {
		internalError(w, r, err, "create inquiry")
		return
	}

	h.Hub.Emit(RequestIDFrom(r.Context()), events.InquiryCreated, map[string]any{"inquiryId": id})
	writeOK(w, "문의 등록 성공", result{"inquiryId": id})
}

func (h CommunityHandler) MyFeedback(w http.ResponseWriter, r *http.Request) {
	list, err := store.InquiriesByUser(r.Context(), h.DB, UserIDFrom(r.Context()))
	if err != nil {
		internalError(w, r, err, "my inquiries")
		return
	}
	writeOK(w, "내 문의 조회 성공", result{"feedbacks": list})
}
