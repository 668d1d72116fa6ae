package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Statements are written to run unchanged on MariaDB and sqlite:
// no AUTO_INCREMENT, no engine clauses, identifiers in upper case.
var migrations = [][]string{
	// v1: core tables
	{
		`CREATE TABLE IF NOT EXISTS USER (
  USER_ID VARCHAR(64) NOT NULL PRIMARY KEY,
  EMAIL VARCHAR(255) NOT NULL UNIQUE,
  PASSWORD VARCHAR(255) NOT NULL,
  NAME VARCHAR(100) NOT NULL,
  GENDER VARCHAR(10),
  AGE INT,
  IS_ACTIVE CHAR(1) NOT NULL DEFAULT 'Y',
  JOIN_DATE DATETIME NOT NULL
)`,
		`CREATE TABLE IF NOT EXISTS TAG (
  TAG_ID INT NOT NULL PRIMARY KEY,
  TAG_NAME VARCHAR(100) NOT NULL UNIQUE
)`,
		`CREATE TABLE IF NOT EXISTS USER_PREFERENCE (
  USER_ID VARCHAR(64) NOT NULL,
  TAG_ID INT NOT NULL,
  PRIMARY KEY (USER_ID, TAG_ID)
)`,
		`CREATE TABLE IF NOT EXISTS TOUR_SPOT (
  SPOT_ID VARCHAR(64) NOT NULL PRIMARY KEY,
  NAME VARCHAR(255) NOT NULL,
  ADDRESS VARCHAR(500) NOT NULL,
  CATEGORY VARCHAR(100),
  LATITUDE DOUBLE,
  LONGITUDE DOUBLE
)`,
		`CREATE TABLE IF NOT EXISTS PHOTO (
  PHOTO_ID VARCHAR(64) NOT NULL PRIMARY KEY,
  SPOT_ID VARCHAR(64) NOT NULL,
  IMG_URL VARCHAR(1000) NOT NULL
)`,
		`CREATE TABLE IF NOT EXISTS SPOT_TAG_SCORES (
  SPOT_ID VARCHAR(64) NOT NULL,
  TAG_NAME VARCHAR(100) NOT NULL,
  SCORE DOUBLE NOT NULL DEFAULT 0,
  PRIMARY KEY (SPOT_ID, TAG_NAME)
)`,
		`CREATE TABLE IF NOT EXISTS CRAWLED_REVIEW (
  CRAWLED_ID VARCHAR(64) NOT NULL PRIMARY KEY,
  SPOT_ID VARCHAR(64) NOT NULL,
  NICKNAME VARCHAR(100),
  CONTENT TEXT NOT NULL,
  SENTIMENT_LABEL VARCHAR(10),
  SENTIMENT_SCORE DOUBLE,
  KEYWORDS TEXT
)`,
		`CREATE TABLE IF NOT EXISTS REVIEW (
  REVIEW_ID VARCHAR(64) NOT NULL PRIMARY KEY,
  USER_ID VARCHAR(64) NOT NULL,
  SPOT_ID VARCHAR(64) NOT NULL,
  RATING INT NOT NULL,
  CONTENT TEXT NOT NULL,
  SENTIMENT CHAR(1) NOT NULL,
  REG_DATE DATETIME NOT NULL
)`,
		`CREATE TABLE IF NOT EXISTS WISHLIST (
  WISHLIST_ID VARCHAR(64) NOT NULL PRIMARY KEY,
  USER_ID VARCHAR(64) NOT NULL,
  SPOT_ID VARCHAR(64) NOT NULL,
  REG_DATE DATETIME NOT NULL,
  UNIQUE (USER_ID, SPOT_ID)
)`,
		`CREATE TABLE IF NOT EXISTS NOTICE (
  NOTICE_ID VARCHAR(64) NOT NULL PRIMARY KEY,
  TITLE VARCHAR(255) NOT NULL,
  CONTENT TEXT NOT NULL,
  REG_DATE DATETIME NOT NULL
)`,
		`CREATE TABLE IF NOT EXISTS INQUIRY (
  INQUIRY_ID VARCHAR(64) NOT NULL PRIMARY KEY,
  USER_ID VARCHAR(64) NOT NULL,
  TITLE VARCHAR(255) NOT NULL,
  CONTENT TEXT NOT NULL,
  STATUS VARCHAR(10) NOT NULL,
  REG_DATE DATETIME NOT NULL,
  ANSWER_CONTENT TEXT,
  ANSWER_DATE DATETIME
)`,
	},
	// v2: lookup indexes
	{
		`CREATE INDEX IDX_REVIEW_SPOT ON REVIEW (SPOT_ID)`,
		`CREATE INDEX IDX_REVIEW_USER ON REVIEW (USER_ID)`,
		`CREATE INDEX IDX_CRAWLED_SPOT ON CRAWLED_REVIEW (SPOT_ID)`,
		`CREATE INDEX IDX_PHOTO_SPOT ON PHOTO (SPOT_ID)`,
		`CREATE INDEX IDX_INQUIRY_USER ON INQUIRY (USER_ID)`,
	},
}

// SchemaVersion is the version Migrate brings a database up to.
func SchemaVersion() int { return len(migrations) }

func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx,
		`CREATE TABLE IF NOT EXISTS SCHEMA_VERSION (VERSION INT NOT NULL)`); err != nil {
		return fmt.Errorf("schema_version: %w", err)
	}

	v, err := currentVersion(ctx, db)
	if err != nil {
		return err
	}

	for i := v; i < len(migrations); i++ {
		if err := applyMigration(ctx, db, i+1, migrations[i]); err != nil {
			return fmt.Errorf("migrate v%d: %w", i+1, err)
		}
	}
	return nil
}

func currentVersion(ctx context.Context, q Querier) (int, error) {
	var v sql.NullInt64
	if err := q.QueryRowContext(ctx, `SELECT MAX(VERSION) FROM SCHEMA_VERSION`).Scan(&v); err != nil {
		return 0, err
	}
	return int(v.Int64), nil
}

func applyMigration(ctx context.Context, db *sql.DB, version int, stmts []string) error {
	// MariaDB commits DDL implicitly, so only sqlite gets a real rollback here.
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, s := range stmts {
		if _, err := tx.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM SCHEMA_VERSION`); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO SCHEMA_VERSION (VERSION) VALUES (?)`, version); err != nil {
		return err
	}
	return tx.Commit()
}
