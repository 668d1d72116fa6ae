package httpapi

import (
	"errors"
	"net/http"

	"coursemate-engine/internal/logging"
	"coursemate-engine/internal/store"
)

type DBHandler struct {
	DB *store.DB
}

// Checkpoint folds the sqlite WAL back into the database file.
func (h DBHandler) Checkpoint(w http.ResponseWriter, r *http.Request) {
	res, err := h.DB.Checkpoint(r.Context())
	if errors.Is(err, store.ErrUnsupported) {
		WriteError(w, r, http.StatusBadRequest, codeBadRequest, "WAL 모드의 sqlite 에서만 지원합니다.")
		return
	}
	if err != nil {
		internalError(w, r, err, "wal checkpoint")
		return
	}
	logging.Ctx(r.Context()).Info().
		Bool("busy", res.Busy).
		Int("log_frames", res.LogFrames).
		Int("checkpointed", res.Checkpointed).
		Msg("wal checkpoint")
	writeOK(w, "체크포인트 완료", result{"checkpoint": res})
}
