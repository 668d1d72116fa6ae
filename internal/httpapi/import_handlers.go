package httpapi

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"coursemate-engine/internal/domain"
	"coursemate-engine/internal/events"
	"coursemate-engine/internal/ingest"
	"coursemate-engine/internal/logging"
)

const maxImportBytes = 16 << 20

// ImportHandler loads crawler output into CRAWLED_REVIEW. One import runs at
// a time.
type ImportHandler struct {
	DB  *sql.DB
	Hub *events.Hub

	mu     *sync.Mutex
	status *ImportStatus
}

func NewImportHandler(db *sql.DB, hub *events.Hub) ImportHandler {
	return ImportHandler{DB: db, Hub: hub, mu: &sync.Mutex{}, status: &ImportStatus{}}
}

func (h ImportHandler) Status(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	st := *h.status
	h.mu.Unlock()
	writeOK(w, "", result{"status": st})
}

func (h ImportHandler) Run(w http.ResponseWriter, r *http.Request) {
	var records []domain.CrawledReview
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err := dec.Decode(&records); err != nil {
		WriteError(w, r, http.StatusBadRequest, codeBadRequest, "invalid JSON: "+err.Error())
		return
	}

	h.mu.Lock()
	if h.status.Running {
		h.mu.Unlock()
		WriteError(w, r, http.StatusConflict, codeDuplicate, "already running")
		return
	}
	h.status.Running = true
	h.status.LastRunAt = time.Now().UTC().Format(time.RFC3339)
	h.mu.Unlock()

	res, err := ingest.Process(r.Context(), h.DB, records)

	h.mu.Lock()
	h.status.Running = false
	if err != nil {
		h.status.LastError = err.Error()
	} else {
		h.status.LastError = ""
		h.status.LastOkAt = time.Now().UTC().Format(time.RFC3339)
		h.status.LastAdded = res.Added
		h.status.LastSkipped = res.Skipped
	}
	h.mu.Unlock()

	if err != nil {
		internalError(w, r, err, "import crawled reviews")
		return
	}

	logging.Ctx(r.Context()).Info().
		Int("records", len(records)).
		Int("added", res.Added).
		Interface("skipped", res.Skipped).
		Msg("crawled reviews imported")
	h.Hub.Emit(RequestIDFrom(r.Context()), events.CrawlImported, res)
	writeOK(w, "크롤링 리뷰 등록 성공", result{"added": res.Added, "skipped": res.Skipped})
}
