package httpapi

import (
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"coursemate-engine/internal/auth"
	"coursemate-engine/internal/config"
	"coursemate-engine/internal/domain"
	"coursemate-engine/internal/logging"
	"coursemate-engine/internal/metrics"
	"coursemate-engine/internal/ratelimit"
	"coursemate-engine/internal/store"
)

type AuthHandler struct {
	DB      *sql.DB
	JWT     *auth.JWTManager
	Limiter *ratelimit.KeyLimiter
	Lockout *ratelimit.Lockout
	CfgVal  *atomic.Value // stores config.Config
}

type signupReq struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=4,max=72"`
	Name     string `json:"name" validate:"required,max=100"`
	Gender   string `json:"gender" validate:"omitempty,max=10"`
	Age      int    `json:"age" validate:"omitempty,min=0,max=150"`
}

func (h AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupReq
	if !decodeBody(w, r, &req) {
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		internalError(w, r, err, "hash password")
		return
	}

	id, err := store.CreateUser(r.Context(), h.DB, store.NewUser{
		Email:    req.Email,
		Password: hash,
		Name:     req.Name,
		Gender:   req.Gender,
		Age:      req.Age,
	})
	if errors.Is(err, store.ErrDuplicate) {
		WriteResult(w, http.StatusOK, codeDuplicate, "이미 존재하는 이메일입니다.", nil)
		return
	}
	if err != nil {
		internalError(w, r, err, "create user")
		return
	}

	logging.Ctx(r.Context()).Info().Str("user_id", id).Msg("signup")
	writeOK(w, "회원가입 성공", result{"userId": id})
}

type loginReq struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// allow applies the per-IP rate limit and the per-account lockout. It writes
// the rejection itself.
func (h AuthHandler) allow(w http.ResponseWriter, r *http.Request, account string) bool {
	cfg := h.CfgVal.Load().(config.Config)
	if h.Limiter != nil && !h.Limiter.Allow(clientIP(r, cfg.Security.TrustedProxies)) {
		metrics.LoginFailures.WithLabelValues("rate").Inc()
		WriteError(w, r, http.StatusTooManyRequests, codeTooMany, "요청이 너무 많습니다. 잠시 후 다시 시도하세요.")
		return false
	}
	if h.Lockout != nil {
		if locked, until := h.Lockout.Locked(account); locked {
			metrics.LoginFailures.WithLabelValues("locked").Inc()
			mins := int(time.Until(until).Minutes()) + 1
			WriteResult(w, http.StatusOK, codeLocked,
				fmt.Sprintf("로그인 시도가 너무 많습니다. %d분 후 다시 시도하세요.", mins), nil)
			return false
		}
	}
	return true
}

func (h AuthHandler) failed(r *http.Request, account, reason string) {
	metrics.LoginFailures.WithLabelValues(reason).Inc()
	if h.Lockout != nil && h.Lockout.Fail(account) {
		logging.Ctx(r.Context()).Warn().Str("account", account).Msg("account locked after repeated login failures")
	}
}

func (h AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if !decodeBody(w, r, &req) {
		return
	}
	account := accountKey(req.Email)
	if !h.allow(w, r, account) {
		return
	}

	u, err := store.UserByEmail(r.Context(), h.DB, req.Email)
	if errors.Is(err, store.ErrNotFound) {
		h.failed(r, account, "unknown_user")
		WriteResult(w, http.StatusOK, codeLoginFailed, "존재하지 않는 사용자입니다.", nil)
		return
	}
	if err != nil {
		internalError(w, r, err, "load user")
		return
	}
	if !auth.CheckPassword(u.Password, req.Password) {
		h.failed(r, account, "password")
		WriteResult(w, http.StatusOK, codeLoginFailed, "비밀번호가 일치하지 않습니다.", nil)
		return
	}
	if u.IsActive == domain.UserSuspended {
		metrics.LoginFailures.WithLabelValues("suspended").Inc()
		WriteResult(w, http.StatusOK, codeSuspended, "이용이 정지된 계정입니다.", nil)
		return
	}
	if h.Lockout != nil {
		h.Lockout.Reset(account)
	}

	token, err := h.JWT.Issue(u.ID, u.Email, auth.RoleUser)
	if err != nil {
		internalError(w, r, err, "issue token")
		return
	}
	writeOK(w, "로그인 성공", result{"token": token})
}

// accountKey folds an email the way the users table compares it, so case
// variants share one lockout counter.
func accountKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type findIDReq struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required"`
}

func (h AuthHandler) FindID(w http.ResponseWriter, r *http.Request) {
	var req findIDReq
	if !decodeBody(w, r, &req) {
		return
	}

	id, err := store.FindUserID(r.Context(), h.DB, req.Name, req.Email)
	if errors.Is(err, store.ErrNotFound) {
		WriteResult(w, http.StatusOK, codeUserNotFound, "일치하는 사용자 정보를 찾을 수 없습니다.", nil)
		return
	}
	if err != nil {
		internalError(w, r, err, "find user id")
		return
	}
	writeOK(w, "아이디 찾기 성공", result{"userId": id})
}

type resetPasswordReq struct {
	Email       string `json:"email" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=4,max=72"`
}

func (h AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordReq
	if !decodeBody(w, r, &req) {
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		internalError(w, r, err, "hash password")
		return
	}

	err = store.UpdatePasswordByEmail(r.Context(), h.DB, req.Email, hash)
	if errors.Is(err, store.ErrNotFound) {
		WriteResult(w, http.StatusOK, codeForbidden, "이메일이 일치하지 않습니다.", nil)
		return
	}
	if err != nil {
		internalError(w, r, err, "reset password")
		return
	}
	writeOK(w, "비밀번호 변경(재설정) 성공", nil)
}

type adminLoginReq struct {
	AdminID  string `json:"adminId" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AdminLogin checks the console credentials from config and issues an
// admin-role token.
func (h AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req adminLoginReq
	if !decodeBody(w, r, &req) {
		return
	}
	account := "admin:" + accountKey(req.AdminID)
	if !h.allow(w, r, account) {
		return
	}

	cfg := h.CfgVal.Load().(config.Config)
	if !adminCredentialsMatch(cfg, req.AdminID, req.Password) {
		h.failed(r, account, "admin")
		WriteResult(w, http.StatusOK, codeLoginFailed, "관리자 로그인 실패", nil)
		return
	}
	if h.Lockout != nil {
		h.Lockout.Reset(account)
	}

	token, err := h.JWT.Issue("ADMIN-"+cfg.Admin.Username, "", auth.RoleAdmin)
	if err != nil {
		internalError(w, r, err, "issue admin token")
		return
	}
	writeOK(w, "관리자 로그인 성공", result{"token": token})
}

func adminCredentialsMatch(cfg config.Config, id, password string) bool {
	if cfg.Admin.Password == "" {
		return false
	}
	idOK := subtle.ConstantTimeCompare([]byte(id), []byte(cfg.Admin.Username)) == 1
	pwOK := subtle.ConstantTimeCompare([]byte(password), []byte(cfg.Admin.Password)) == 1
	return idOK && pwOK
}
