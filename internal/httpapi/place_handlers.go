package httpapi

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"coursemate-engine/internal/store"
)

type PlacesHandler struct {
	DB *sql.DB
}

func (h PlacesHandler) List(w http.ResponseWriter, r *http.Request) {
	region := strings.TrimSpace(r.URL.Query().Get("region"))

	spots, err := store.ListSpots(r.Context(), h.DB, region)
	if err != nil {
		internalError(w, r, err, "list places")
		return
	}
	writeOK(w, "관광지 목록 조회 성공", result{
		"totalCount": len(spots),
		"places":     spots,
	})
}

func (h PlacesHandler) Detail(w http.ResponseWriter, r *http.Request) {
	d, err := store.SpotDetail(r.Context(), h.DB, r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		WriteError(w, r, http.StatusNotFound, codeNotFound, "존재하지 않는 관광지입니다.")
		return
	}
	if err != nil {
		internalError(w, r, err, "place detail")
		return
	}
	writeOK(w, "관광지 상세 정보 조회 성공", result{"place": d})
}

func (h PlacesHandler) Photos(w http.ResponseWriter, r *http.Request) {
	photos, err := store.SpotPhotos(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		internalError(w, r, err, "place photos")
		return
	}
	writeOK(w, "사진 목록 조회 성공", result{"photos": photos})
}
