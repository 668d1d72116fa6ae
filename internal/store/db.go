package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"coursemate-engine/internal/config"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrDuplicate   = errors.New("duplicate entry")
	ErrUnsupported = errors.New("not supported by this driver")
)

// Querier is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type DB struct {
	Pool   *sql.DB
	Driver string
}

// Open connects to MariaDB, or to a sqlite file when cfg.Driver is "sqlite".
func Open(cfg config.Database) (*DB, error) {
	if cfg.Driver == "sqlite" {
		return OpenSQLite(cfg.Path)
	}

	mc := mysql.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	mc.DBName = cfg.Name
	mc.ParseTime = true
	mc.Loc = time.UTC
	mc.Collation = "utf8mb4_unicode_ci"
	// RowsAffected counts matched rows, so a no-op UPDATE is not ErrNotFound.
	mc.ClientFoundRows = true

	pool, err := sql.Open("mysql", mc.FormatDSN())
	if err != nil {
		return nil, err
	}
	pool.SetMaxOpenConns(cfg.MaxOpenConns)
	pool.SetMaxIdleConns(cfg.MaxOpenConns)
	pool.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeSeconds) * time.Second)

	if err := ping(pool); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("ping mariadb %s: %w", mc.Addr, err)
	}
	return &DB{Pool: pool, Driver: "mysql"}, nil
}

func OpenSQLite(path string) (*DB, error) {
	// modernc sqlite uses DSN like: file:foo.db?_pragma=busy_timeout(5000)
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)
	if !isMemoryPath(path) {
		dsn += "&_pragma=journal_mode(WAL)"
	}

	pool, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// one connection: sqlite has a single writer, and :memory: is per-connection
	pool.SetMaxOpenConns(1)
	pool.SetConnMaxLifetime(0)

	if err := ping(pool); err != nil {
		_ = pool.Close()
		return nil, err
	}
	return &DB{Pool: pool, Driver: "sqlite"}, nil
}

func ping(pool *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return pool.PingContext(ctx)
}

func (d *DB) Close() error {
	if d == nil || d.Pool == nil {
		return nil
	}
	return d.Pool.Close()
}

func isMemoryPath(path string) bool {
	return path == ":memory:" || strings.Contains(path, "mode=memory")
}

// CheckpointResult is the row PRAGMA wal_checkpoint reports.
type CheckpointResult struct {
	Busy         bool `json:"busy"`
	LogFrames    int  `json:"log_frames"`
	Checkpointed int  `json:"checkpointed_frames"`
}

// Checkpoint runs a full WAL checkpoint. MariaDB has nothing to fold back,
// and a sqlite database outside WAL mode (in-memory) reports ErrUnsupported.
func (d *DB) Checkpoint(ctx context.Context) (CheckpointResult, error) {
	var res CheckpointResult
	if d.Driver != "sqlite" {
		return res, ErrUnsupported
	}
	var busy int
	err := d.Pool.QueryRowContext(ctx, `PRAGMA wal_checkpoint(FULL);`).
		Scan(&busy, &res.LogFrames, &res.Checkpointed)
	if err != nil {
		return res, err
	}
	if res.LogFrames < 0 {
		return res, ErrUnsupported
	}
	res.Busy = busy != 0
	return res, nil
}

// JournalMode reports the sqlite journal mode, "wal" for file databases.
func (d *DB) JournalMode(ctx context.Context) (string, error) {
	if d.Driver != "sqlite" {
		return "", ErrUnsupported
	}
	var mode string
	err := d.Pool.QueryRowContext(ctx, `PRAGMA journal_mode;`).Scan(&mode)
	return strings.ToLower(mode), err
}

func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1062
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
	}
	return false
}

func now() time.Time { return time.Now().UTC().Truncate(time.Second) }
