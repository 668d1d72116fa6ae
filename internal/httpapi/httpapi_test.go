package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"coursemate-engine/internal/auth"
	"coursemate-engine/internal/config"
	"coursemate-engine/internal/domain"
	"coursemate-engine/internal/events"
	"coursemate-engine/internal/logging"
	"coursemate-engine/internal/ratelimit"
	"coursemate-engine/internal/store"
)

const testSecret = "test-secret-0123456789abcdef-0123456789"

type testEnv struct {
	t       *testing.T
	db      *store.DB
	hub     *events.Hub
	jwt     *auth.JWTManager
	cfg     *atomic.Value
	cfgPath string
	lockout *ratelimit.Lockout
	h       http.Handler
}

type envOptions struct {
	dbPath         string // defaults to :memory:
	limiter        *ratelimit.KeyLimiter
	trustedProxies []string
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	return newEnvWith(t, envOptions{})
}

func newEnvWith(t *testing.T, o envOptions) *testEnv {
	t.Helper()
	logging.Init(logging.Config{Level: "disabled", Output: io.Discard})

	if o.dbPath == "" {
		o.dbPath = ":memory:"
	}
	if o.limiter == nil {
		o.limiter = ratelimit.NewKeyLimiter(1000, 1000)
	}
	db, err := store.OpenSQLite(o.dbPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := store.Migrate(context.Background(), db.Pool); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := config.Default()
	cfg.Database.Driver = "sqlite"
	cfg.Admin.Password = "admin-pw"
	cfg.Cors.AllowedOrigins = []string{"http://app.local"}
	cfg.Security.TrustedProxies = o.trustedProxies
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := config.SaveAtomic(path, cfg); err != nil {
		t.Fatalf("save config: %v", err)
	}
	var cv atomic.Value
	cv.Store(cfg)

	jm, err := auth.NewJWTManager(testSecret, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	lockout := ratelimit.NewLockout(cfg.Security.LoginFailedLimit, time.Duration(cfg.Security.LockMinutes)*time.Minute)

	e := &testEnv{
		t:       t,
		db:      db,
		hub:     events.NewHub(),
		jwt:     jm,
		cfg:     &cv,
		cfgPath: path,
		lockout: lockout,
	}
	e.h = NewHandler(Deps{
		Store:        db,
		Hub:          e.hub,
		JWT:          jm,
		LoginLimiter: o.limiter,
		Lockout:      lockout,
		CfgVal:       &cv,
		UserCfgPath:  path,
		LoadCfg:      func() (config.Config, error) { return config.Load(path) },
		OnConfigChange: func(c config.Config) {
			lockout.SetPolicy(c.Security.LoginFailedLimit, time.Duration(c.Security.LockMinutes)*time.Minute)
		},
	})
	return e
}

// do runs one request through the full handler and decodes the envelope.
func (e *testEnv) do(method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	e.t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			e.t.Fatal(err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return e.serve(req)
}

// serve is do for a request the caller built, with its own headers.
func (e *testEnv) serve(req *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	e.t.Helper()
	rec := httptest.NewRecorder()
	e.h.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 && rec.Header().Get("Content-Type") != "" {
		_ = json.Unmarshal(rec.Body.Bytes(), &out)
	}
	return rec, out
}

func code(t *testing.T, body map[string]any) int {
	t.Helper()
	v, ok := body["result_code"].(float64)
	if !ok {
		t.Fatalf("no result_code in %v", body)
	}
	return int(v)
}

func (e *testEnv) signup(email, password, name string) string {
	e.t.Helper()
	_, body := e.do(http.MethodPost, "/api/auth/signup", "", map[string]any{
		"email": email, "password": password, "name": name,
	})
	if code(e.t, body) != codeOK {
		e.t.Fatalf("signup: %v", body)
	}
	return body["userId"].(string)
}

func (e *testEnv) login(email, password string) string {
	e.t.Helper()
	_, body := e.do(http.MethodPost, "/api/auth/login", "", map[string]any{
		"email": email, "password": password,
	})
	if code(e.t, body) != codeOK {
		e.t.Fatalf("login: %v", body)
	}
	return body["token"].(string)
}

// userToken signs up a fresh account and returns its id and token.
func (e *testEnv) userToken(email string) (string, string) {
	e.t.Helper()
	id := e.signup(email, "pw1234", "tester")
	return id, e.login(email, "pw1234")
}

func (e *testEnv) adminToken() string {
	e.t.Helper()
	tok, err := e.jwt.Issue("ADMIN-admin", "", auth.RoleAdmin)
	if err != nil {
		e.t.Fatal(err)
	}
	return tok
}

func (e *testEnv) spot(id, name, addr string) {
	e.t.Helper()
	if _, err := store.CreateSpot(context.Background(), e.db.Pool, store.NewSpot{ID: id, Name: name, Address: addr}); err != nil {
		e.t.Fatalf("create spot: %v", err)
	}
}

func (e *testEnv) tag(id int64, name string) {
	e.t.Helper()
	if err := store.CreateTag(context.Background(), e.db.Pool, domain.Tag{ID: id, Name: name}); err != nil {
		e.t.Fatalf("create tag: %v", err)
	}
}
