package httpapi

import (
	"encoding/json"
	"net/http"

	"coursemate-engine/internal/logging"
)

// Every response carries result_code and result_msg. Business failures such
// as a wrong password keep HTTP 200 and report the reason in result_code.
const (
	codeOK            = 200
	codeLoginFailed   = 101
	codeDuplicate     = 102
	codeSuspended     = 103
	codeLocked        = 104
	codeUserNotFound  = 201
	codeBadRequest    = 400
	codeUnauthorized  = 401
	codeForbidden     = 403
	codeNotFound      = 404
	codeTooMany       = 429
	codeTokenExpired  = 419
	codeInternalError = 500
)

const msgInternal = "서버 오류"

type result map[string]any

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteResult writes a result envelope; extra keys are merged in.
func WriteResult(w http.ResponseWriter, status, code int, msg string, extra result) {
	body := result{"result_code": code}
	if msg != "" {
		body["result_msg"] = msg
	}
	for k, v := range extra {
		body[k] = v
	}
	WriteJSON(w, status, body)
}

func writeOK(w http.ResponseWriter, msg string, extra result) {
	WriteResult(w, http.StatusOK, codeOK, msg, extra)
}

func WriteError(w http.ResponseWriter, r *http.Request, status, code int, message string) {
	WriteResult(w, status, code, message, result{"request_id": RequestIDFrom(r.Context())})
}

// internalError logs err with the request id and answers an opaque 500.
func internalError(w http.ResponseWriter, r *http.Request, err error, what string) {
	logging.Ctx(r.Context()).Error().Err(err).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg(what)
	WriteError(w, r, http.StatusInternalServerError, codeInternalError, msgInternal)
}
