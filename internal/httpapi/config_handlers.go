package httpapi

import (
	"encoding/json"
	"net/http"
	"sync/atomic"

	"coursemate-engine/internal/config"
	"coursemate-engine/internal/events"
	"coursemate-engine/internal/logging"
)

// SettingsHandler exposes the admin-editable security section of the config.
type SettingsHandler struct {
	CfgVal      *atomic.Value // stores config.Config
	UserCfgPath string
	LoadCfg     func() (config.Config, error)
	OnChange    func(config.Config)
	Hub         *events.Hub
}

func (h SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	cur := h.CfgVal.Load().(config.Config)
	writeOK(w, "", result{"settings": cur.Security})
}

func (h SettingsHandler) Put(w http.ResponseWriter, r *http.Request) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	// Start from the file so env-only secrets are never written to disk.
	file, err := config.LoadFile(h.UserCfgPath)
	if err != nil {
		internalError(w, r, err, "read config file")
		return
	}

	incoming := file.Security
	if err := dec.Decode(&incoming); err != nil {
		WriteError(w, r, http.StatusBadRequest, codeBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if dec.More() {
		WriteError(w, r, http.StatusBadRequest, codeBadRequest, "invalid JSON: trailing data")
		return
	}
	file.Security = incoming

	normalized, vr := config.NormalizeAndValidate(file)
	if !vr.OK() {
		// Structured errors so the console can show them per field
		WriteResult(w, http.StatusBadRequest, codeBadRequest, "설정 값이 올바르지 않습니다.", result{"validation": vr})
		return
	}

	if err := config.SaveAtomic(h.UserCfgPath, normalized); err != nil {
		WriteError(w, r, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	saved, err := h.LoadCfg()
	if err != nil {
		internalError(w, r, err, "saved but reload failed")
		return
	}
	h.CfgVal.Store(saved)
	if h.OnChange != nil {
		h.OnChange(saved)
	}

	logging.Ctx(r.Context()).Info().
		Int("login_failed_limit", saved.Security.LoginFailedLimit).
		Int("lock_minutes", saved.Security.LockMinutes).
		Bool("allow_new_admins", saved.Security.AllowNewAdmins).
		Msg("security settings updated")
	h.Hub.Emit(RequestIDFrom(r.Context()), events.SettingsChanged, saved.Security)
	writeOK(w, "설정 저장 성공", result{"settings": saved.Security, "warnings": vr.Warnings})
}
