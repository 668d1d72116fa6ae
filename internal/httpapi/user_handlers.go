package httpapi

import (
	"database/sql"
	"errors"
	"net/http"

	"coursemate-engine/internal/auth"
	"coursemate-engine/internal/logging"
	"coursemate-engine/internal/store"
)

type UsersHandler struct {
	DB *sql.DB
}

// Tags lists the whole tag vocabulary by name. Public.
func (h UsersHandler) Tags(w http.ResponseWriter, r *http.Request) {
	tags, err := store.ListTags(r.Context(), h.DB)
	if err != nil {
		internalError(w, r, err, "list tags")
		return
	}
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}
	writeOK(w, "전체 태그 목록 조회 성공", result{"tags": names})
}

func (h UsersHandler) Preferences(w http.ResponseWriter, r *http.Request) {
	tags, err := store.UserTags(r.Context(), h.DB, UserIDFrom(r.Context()))
	if err != nil {
		internalError(w, r, err, "user tags")
		return
	}
	writeOK(w, "내 취향 조회 성공", result{"tags": tags})
}

type preferencesReq struct {
	Tags []string `json:"tags" validate:"required,max=50,dive,max=100"`
}

func (h UsersHandler) SetPreferences(w http.ResponseWriter, r *http.Request) {
	var req preferencesReq
	if !decodeBody(w, r, &req) {
		return
	}

	n, err := store.ReplaceUserTags(r.Context(), h.DB, UserIDFrom(r.Context()), req.Tags)
	if err != nil {
		internalError(w, r, err, "replace user tags")
		return
	}
	writeOK(w, "취향 태그 설정 성공", result{"saved": n})
}

func (h UsersHandler) Settings(w http.ResponseWriter, r *http.Request) {
	u, err := store.UserByID(r.Context(), h.DB, UserIDFrom(r.Context()))
	if errors.Is(err, store.ErrNotFound) {
		WriteError(w, r, http.StatusNotFound, codeNotFound, "사용자 없음")
		return
	}
	if err != nil {
		internalError(w, r, err, "load user")
		return
	}
	writeOK(w, "", result{"setting": map[string]any{
		"name":      u.Name,
		"email":     u.Email,
		"age":       u.Age,
		"gender":    u.Gender,
		"is_active": u.IsActive,
	}})
}

type updateMeReq struct {
	Name     string `json:"name" validate:"required,max=100"`
	Age      int    `json:"age" validate:"omitempty,min=0,max=150"`
	Gender   string `json:"gender" validate:"omitempty,max=10"`
	Password string `json:"password" validate:"omitempty,min=4,max=72"`
}

func (h UsersHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req updateMeReq
	if !decodeBody(w, r, &req) {
		return
	}

	upd := store.ProfileUpdate{Name: req.Name, Age: req.Age, Gender: req.Gender}
	if req.Password != "" {
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			internalError(w, r, err, "hash password")
			return
		}
		upd.Password = hash
	}

	err := store.UpdateProfile(r.Context(), h.DB, UserIDFrom(r.Context()), upd)
	if errors.Is(err, store.ErrNotFound) {
		WriteError(w, r, http.StatusNotFound, codeNotFound, "사용자 없음")
		return
	}
	if err != nil {
		internalError(w, r, err, "update profile")
		return
	}
	writeOK(w, "수정 성공", nil)
}

func (h UsersHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFrom(r.Context())

	err := store.DeleteUser(r.Context(), h.DB, userID)
	if errors.Is(err, store.ErrNotFound) {
		WriteError(w, r, http.StatusNotFound, codeNotFound, "사용자 없음")
		return
	}
	if err != nil {
		internalError(w, r, err, "delete user")
		return
	}
	logging.Ctx(r.Context()).Info().Str("user_id", userID).Msg("account deleted")
	writeOK(w, "탈퇴 성공", nil)
}

func (h UsersHandler) MyReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := store.ReviewsByUser(r.Context(), h.DB, UserIDFrom(r.Context()))
	if err != nil {
		internalError(w, r, err, "my reviews")
		return
	}
	writeOK(w, "내 리뷰 조회 성공", result{"reviews": reviews})
}

func (h UsersHandler) Wishlist(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListWishlist(r.Context(), h.DB, UserIDFrom(r.Context()))
	if err != nil {
		internalError(w, r, err, "wishlist")
		return
	}
	writeOK(w, "위시리스트 조회 성공", result{"wishlist": items})
}

type wishlistReq struct {
	PlaceID string `json:"placeId" validate:"required"`
}

func (h UsersHandler) ToggleWishlist(w http.ResponseWriter, r *http.Request) {
	var req wishlistReq
	if !decodeBody(w, r, &req) {
		return
	}

	if _, err := store.SpotByID(r.Context(), h.DB, req.PlaceID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			WriteError(w, r, http.StatusNotFound, codeNotFound, "존재하지 않는 관광지입니다.")
			return
		}
		internalError(w, r, err, "load place")
		return
	}

	added, err := store.ToggleWishlist(r.Context(), h.DB, UserIDFrom(r.Context()), req.PlaceID)
	if err != nil {
		internalError(w, r, err, "toggle wishlist")
		return
	}
	if added {
		writeOK(w, "위시리스트에 추가되었습니다.", result{"action": "added"})
		return
	}
	writeOK(w, "위시리스트에서 삭제되었습니다.", result{"action": "removed"})
}

func (h UsersHandler) RemoveWishlist(w http.ResponseWriter, r *http.Request) {
	if err := store.RemoveWishlist(r.Context(), h.DB, UserIDFrom(r.Context()), r.PathValue("placeId")); err != nil {
		internalError(w, r, err, "remove wishlist")
		return
	}
	writeOK(w, "삭제 성공", nil)
}
