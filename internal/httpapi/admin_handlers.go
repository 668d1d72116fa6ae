package httpapi

import (
	"database/sql"
	"errors"
	"net/http"

	"coursemate-engine/internal/domain"
	"coursemate-engine/internal/events"
	"coursemate-engine/internal/logging"
	"coursemate-engine/internal/store"
)

type AdminHandler struct {
	DB  *sql.DB
	Hub *events.Hub
}

func (h AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := store.DashboardStats(r.Context(), h.DB)
	if err != nil {
		internalError(w, r, err, "dashboard stats")
		return
	}
	writeOK(w, "통계 조회 성공", result{"stats": stats})
}

func (h AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	users, err := store.ListUsers(r.Context(), h.DB)
	if err != nil {
		internalError(w, r, err, "list users")
		return
	}
	writeOK(w, "", result{"users": users})
}

type userStatusReq struct {
	IsActive string `json:"isActive" validate:"required,oneof=Y N"`
}

func (h AdminHandler) SetUserStatus(w http.ResponseWriter, r *http.Request) {
	var req userStatusReq
	if !decodeBody(w, r, &req) {
		return
	}

	userID := r.PathValue("userId")
	err := store.SetUserActive(r.Context(), h.DB, userID, req.IsActive == domain.UserActive)
	if errors.Is(err, store.ErrNotFound) {
		WriteError(w, r, http.StatusNotFound, codeNotFound, "사용자 없음")
		return
	}
	if err != nil {
		internalError(w, r, err, "set user status")
		return
	}
	logging.Ctx(r.Context()).Info().Str("user_id", userID).Str("is_active", req.IsActive).Msg("user status changed")
	writeOK(w, "회원 상태 변경 성공", nil)
}

type adminPlace struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

func (h AdminHandler) Places(w http.ResponseWriter, r *http.Request) {
	spots, err := store.ListAllSpots(r.Context(), h.DB)
	if err != nil {
		internalError(w, r, err, "list all places")
		return
	}
	out := make([]adminPlace, 0, len(spots))
	for _, s := range spots {
		out = append(out, adminPlace{ID: s.ID, Name: s.Name, Address: s.Address})
	}
	writeOK(w, "관광지 목록 조회 성공", result{"places": out})
}

type createPlaceReq struct {
	SpotID    string  `json:"spotId" validate:"omitempty,max=64"`
	Name      string  `json:"name" validate:"required,max=255"`
	Address   string  `json:"address" validate:"required,max=500"`
	Category  string  `json:"category" validate:"omitempty,max=100"`
	Latitude  float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude float64 `json:"longitude" validate:"omitempty,longitude"`
}

func (h AdminHandler) CreatePlace(w http.ResponseWriter, r *http.Request) {
	var req createPlaceReq
	if !decodeBody(w, r, &req) {
		return
	}

	id, err := store.CreateSpot(r.Context(), h.DB, store.NewSpot{
		ID:        req.SpotID,
		Name:      req.Name,
		Address:   req.Address,
		Category:  req.Category,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	})
	if errors.Is(err, store.ErrDuplicate) {
		WriteResult(w, http.StatusOK, codeDuplicate, "이미 존재하는 관광지 ID입니다.", nil)
		return
	}
	if err != nil {
		internalError(w, r, err, "create place")
		return
	}

	h.Hub.Emit(RequestIDFrom(r.Context()), events.SpotCreated, map[string]any{"spotId": id})
	writeOK(w, "관광지 등록 성공", result{"spotId": id})
}

func (h AdminHandler) DeletePlace(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	err := store.DeleteSpot(r.Context(), h.DB, id)
	if errors.Is(err, store.ErrNotFound) {
		WriteError(w, r, http.StatusNotFound, codeNotFound, "존재하지 않는 관광지입니다.")
		return
	}
	if err != nil {
		internalError(w, r, err, "delete place")
		return
	}

	h.Hub.Emit(RequestIDFrom(r.Context()), events.SpotDeleted, map[string]any{"spotId": id})
	writeOK(w, "관광지 삭제 성공", nil)
}

func (h AdminHandler) Reviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := store.ListAllReviews(r.Context(), h.DB)
	if err != nil {
		internalError(w, r, err, "list all reviews")
		return
	}
	writeOK(w, "", result{"reviews": reviews})
}

func (h AdminHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("reviewId")
	err := store.DeleteReview(r.Context(), h.DB, id)
	if errors.Is(err, store.ErrNotFound) {
		WriteError(w, r, http.StatusNotFound, codeNotFound, "리뷰가 존재하지 않습니다.")
		return
	}
	if err != nil {
		internalError(w, r, err, "admin delete review")
		return
	}

	h.Hub.Emit(RequestIDFrom(r.Context()), events.ReviewDeleted, map[string]any{"reviewId": id, "by": "admin"})
	writeOK(w, "관리자 권한으로 리뷰 삭제 성공", nil)
}

func (h AdminHandler) Feedbacks(w http.ResponseWriter, r *http.Request) {
	list, err := store.ListInquiries(r.Context(), h.DB)
	if err != nil {
		internalError(w, r, err, "list inquiries")
		return
	}
	writeOK(w, "", result{"feedbacks": list})
}

func (h AdminHandler) Inquiry(w http.ResponseWriter, r *http.Request) {
	d, err := store.InquiryByID(r.Context(), h.DB, r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		WriteError(w, r, http.StatusNotFound, codeNotFound, "해당 문의를 찾을 수 없습니다.")
		return
	}
	if err != nil {
		internalError(w, r, err, "inquiry detail")
		return
	}
	writeOK(w, "", result{"inquiry": d})
}

type answerReq struct {
	AnswerContent string `json:"answerContent" validate:"required,max=5000"`
}

func (h AdminHandler) AnswerInquiry(w http.ResponseWriter, r *http.Request) {
	var req answerReq
	if !decodeBody(w, r, &req) {
		return
	}

	id := r.PathValue("id")
	err := store.AnswerInquiry(r.Context(), h.DB, id, req.AnswerContent)
	if errors.Is(err, store.ErrNotFound) {
		WriteError(w, r, http.StatusNotFound, codeNotFound, "해당 문의를 찾을 수 없습니다.")
		return
	}
	if err != nil {
		internalError(w, r, err, "answer inquiry")
		return
	}

	h.Hub.Emit(RequestIDFrom(r.Context()), events.InquiryAnswered, map[string]any{"inquiryId": id})
	writeOK(w, "답변 등록 성공", nil)
}

type noticeReq struct {
	Title   string `json:"title" validate:"required,max=255"`
	Content string `json:"content" validate:"required"`
}

func (h AdminHandler) CreateNotice(w http.ResponseWriter, r *http.Request) {
	var req noticeReq
	if !decodeBody(w, r, &req) {
		return
	}

	id, err := store.CreateNotice(r.Context(), h.DB, req.Title, req.Content)
	if err != nil {
		internalError(w, r, err, "create notice")
		return
	}
	writeOK(w, "등록 성공", result{"noticeId": id})
}

func (h AdminHandler) DeleteNotice(w http.ResponseWriter, r *http.Request) {
	err := store.DeleteNotice(r.Context(), h.DB, r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		WriteError(w, r, http.StatusNotFound, codeNotFound, "공지사항이 없습니다.")
		return
	}
	if err != nil {
		internalError(w, r, err, "delete notice")
		return
	}
	writeOK(w, "삭제 성공", nil)
}
