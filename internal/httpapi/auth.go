package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"coursemate-engine/internal/auth"
	"coursemate-engine/internal/logging"
)

type claimsKey struct{}

// Authenticator checks bearer tokens in front of protected handlers.
type Authenticator struct {
	JWT *auth.JWTManager
}

func claimsFrom(ctx context.Context) *auth.Claims {
	c, _ := ctx.Value(claimsKey{}).(*auth.Claims)
	return c
}

// UserIDFrom returns the authenticated user id, or "" outside RequireUser.
func UserIDFrom(ctx context.Context) string {
	if c := claimsFrom(ctx); c != nil {
		return c.UserID
	}
	return ""
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func (a Authenticator) authenticate(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
	token := bearerToken(r)
	if token == "" {
		WriteError(w, r, http.StatusUnauthorized, codeUnauthorized, "로그인이 필요합니다.")
		return nil, false
	}
	c, err := a.JWT.Parse(token)
	if errors.Is(err, auth.ErrTokenExpired) {
		WriteError(w, r, codeTokenExpired, codeTokenExpired, "토큰 만료")
		return nil, false
	}
	if err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("rejected token")
		WriteError(w, r, http.StatusUnauthorized, codeUnauthorized, "유효하지 않은 토큰입니다.")
		return nil, false
	}
	return c, true
}

func (a Authenticator) RequireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, ok := a.authenticate(w, r)
		if !ok {
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), claimsKey{}, c)))
	}
}

func (a Authenticator) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, ok := a.authenticate(w, r)
		if !ok {
			return
		}
		if c.Role != auth.RoleAdmin {
			WriteError(w, r, http.StatusForbidden, codeForbidden, "관리자 권한이 필요합니다.")
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), claimsKey{}, c)))
	}
}
