package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofrs/flock"

	"coursemate-engine/internal/auth"
	"coursemate-engine/internal/config"
	"coursemate-engine/internal/events"
	"coursemate-engine/internal/httpapi"
	"coursemate-engine/internal/logging"
	"coursemate-engine/internal/metrics"
	"coursemate-engine/internal/ratelimit"
	"coursemate-engine/internal/scheduler"
	"coursemate-engine/internal/secrets"
	"coursemate-engine/internal/store"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "secret" {
		os.Exit(runSecret(os.Args[2:]))
	}

	dataDir := flag.String("data-dir", envOr("COURSEMATE_DATA_DIR", "."), "directory holding config.yml and the sqlite database")
	defaultCfg := flag.String("config", filepath.Join("config", "config.yml"), "default config copied into the data dir on first start")
	migrate := flag.Bool("migrate", false, "create missing tables on MariaDB too (sqlite always migrates)")
	flag.Parse()

	if err := run(*dataDir, *defaultCfg, *migrate); err != nil {
		logging.Error().Err(err).Msg("engine stopped")
		os.Exit(1)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// bootstrapConfig seeds the user config if needed and returns its path with
// a loader that re-reads it.
func bootstrapConfig(dataDir, defaultCfg string) (string, func() (config.Config, error), error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", nil, err
	}
	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultCfg)
	if err != nil {
		return "", nil, fmt.Errorf("config bootstrap failed: %w", err)
	}
	loadCfg := func() (config.Config, error) {
		return config.Load(userCfgPath)
	}
	return userCfgPath, loadCfg, nil
}

func run(dataDir, defaultCfg string, migrateMySQL bool) error {
	userCfgPath, loadCfg, err := bootstrapConfig(dataDir, defaultCfg)
	if err != nil {
		return err
	}

	// Load config and keep it reloadable
	var cfgVal atomic.Value // stores config.Config
	cfg, err := loadCfg()
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", userCfgPath, err)
	}
	cfg, vr := config.NormalizeAndValidate(cfg)
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	for _, w := range vr.Warnings {
		logging.Warn().Str("config", userCfgPath).Msg(w)
	}
	if !vr.OK() {
		return config.Validate(cfg)
	}
	cfgVal.Store(cfg)

	secret, err := secrets.JWTSecret(cfg)
	if err != nil {
		return err
	}
	jm, err := auth.NewJWTManager(secret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)
	if err != nil {
		return err
	}

	db, unlock, err := openDB(cfg, dataDir, migrateMySQL)
	if err != nil {
		return err
	}
	defer unlock()
	defer db.Close()

	hub := events.NewHub()
	limiter := ratelimit.NewKeyLimiter(cfg.Security.LoginRatePerSec, cfg.Security.LoginBurst)
	lockout := ratelimit.NewLockout(cfg.Security.LoginFailedLimit, time.Duration(cfg.Security.LockMinutes)*time.Minute)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go scheduler.Every(ctx, 15*time.Second, "db-pool-stats", func(context.Context) error {
		metrics.RecordPoolStats(db.Pool.Stats())
		return nil
	})
	go scheduler.Every(ctx, 5*time.Minute, "login-limiter-prune", func(context.Context) error {
		pruneLogin(limiter, lockout, 10*time.Minute)
		return nil
	})

	handler := httpapi.NewHandler(httpapi.Deps{
		Store:        db,
		Hub:          hub,
		JWT:          jm,
		LoginLimiter: limiter,
		Lockout:      lockout,
		CfgVal:       &cfgVal,
		UserCfgPath:  userCfgPath,
		LoadCfg:      loadCfg,
		OnConfigChange: func(c config.Config) {
			lockout.SetPolicy(c.Security.LoginFailedLimit, time.Duration(c.Security.LockMinutes)*time.Minute)
		},
	})

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		// SSE streams end with the process context.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	logging.Info().
		Str("addr", ln.Addr().String()).
		Str("db", db.Driver).
		Str("config", userCfgPath).
		Msg("engine listening")

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logging.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openDB connects to the configured database. In sqlite mode the data dir is
// locked so a second engine cannot share the file.
func openDB(cfg config.Config, dataDir string, migrateMySQL bool) (*store.DB, func(), error) {
	noop := func() {}

	if cfg.Database.Driver != "sqlite" {
		dbc := cfg.Database
		dbc.Password = secrets.DBPassword(cfg)
		db, err := store.Open(dbc)
		if err != nil {
			return nil, noop, err
		}
		if migrateMySQL {
			if err := store.Migrate(context.Background(), db.Pool); err != nil {
				_ = db.Close()
				return nil, noop, fmt.Errorf("migrate: %w", err)
			}
		}
		return db, noop, nil
	}

	dir := cfg.App.DataDir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(dataDir, dir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, noop, err
	}

	lock := flock.New(filepath.Join(dir, "coursemate.lock"))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, noop, fmt.Errorf("lock data dir: %w", err)
	}
	if !ok {
		return nil, noop, fmt.Errorf("data dir %s is in use by another engine", dir)
	}
	unlock := func() { _ = lock.Unlock() }

	path := cfg.Database.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	db, err := store.OpenSQLite(path)
	if err != nil {
		unlock()
		return nil, noop, err
	}
	if err := store.Migrate(context.Background(), db.Pool); err != nil {
		_ = db.Close()
		unlock()
		return nil, noop, fmt.Errorf("migrate: %w", err)
	}
	return db, unlock, nil
}

// pruneLogin forgets idle per-IP buckets and stale lockout entries.
func pruneLogin(limiter *ratelimit.KeyLimiter, lockout *ratelimit.Lockout, idle time.Duration) (ips, accounts int) {
	ips = limiter.Prune(idle)
	accounts = lockout.Prune(idle)
	if ips > 0 || accounts > 0 {
		logging.Debug().Int("ips", ips).Int("accounts", accounts).Msg("login limiter pruned")
	}
	return ips, accounts
}
