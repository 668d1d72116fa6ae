package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"coursemate-engine/internal/config"
	"coursemate-engine/internal/ratelimit"
	"coursemate-engine/internal/store"
)

func TestOpenDBLocksSQLiteDataDir(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Database.Driver = "sqlite"
	cfg.Database.Path = "test.db"

	db, unlock, err := openDB(cfg, dir, false)
	if err != nil {
		t.Fatal(err)
	}
	defer unlock()
	defer db.Close()

	if _, err := os.Stat(filepath.Join(dir, "test.db")); err != nil {
		t.Fatalf("db file: %v", err)
	}
	if _, err := store.ListTags(t.Context(), db.Pool); err != nil {
		t.Fatalf("schema not migrated: %v", err)
	}

	if _, _, err := openDB(cfg, dir, false); err == nil || !strings.Contains(err.Error(), "in use") {
		t.Fatalf("second open: %v", err)
	}
}

func TestBootstrapConfigSeedsDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	path, load, err := bootstrapConfig(dir, filepath.Join(dir, "missing.yml"))
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Dir(path) != dir {
		t.Fatalf("path = %s", path)
	}
	cfg, err := load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.App.Port != 3000 {
		t.Fatalf("port = %d", cfg.App.Port)
	}
}

func TestRandomToken(t *testing.T) {
	a, err := randomToken(32)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := randomToken(32)
	if len(a) != 64 || a == b {
		t.Fatalf("tokens %q %q", a, b)
	}
}

func TestPruneLoginCoversLockout(t *testing.T) {
	limiter := ratelimit.NewKeyLimiter(1, 1)
	lockout := ratelimit.NewLockout(5, time.Minute)
	limiter.Allow("1.2.3.4")
	lockout.Fail("nobody@example.com")

	if ips, accounts := pruneLogin(limiter, lockout, time.Hour); ips != 0 || accounts != 0 {
		t.Fatalf("fresh entries pruned: ips=%d accounts=%d", ips, accounts)
	}
	// a negative idle window makes every entry stale
	ips, accounts := pruneLogin(limiter, lockout, -time.Second)
	if ips != 1 || accounts != 1 {
		t.Fatalf("ips=%d accounts=%d", ips, accounts)
	}
	if lockout.Len() != 0 || limiter.Len() != 0 {
		t.Fatalf("left: lockout=%d limiter=%d", lockout.Len(), limiter.Len())
	}
}
