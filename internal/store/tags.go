package store

import (
	"context"
	"database/sql"
	"errors"

	"coursemate-engine/internal/domain"
)

func ListTags(ctx context.Context, q Querier) ([]domain.Tag, error) {
	rows, err := q.QueryContext(ctx, `SELECT TAG_ID, TAG_NAME FROM TAG ORDER BY TAG_ID`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Tag{}
	for rows.Next() {
		var t domain.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func CreateTag(ctx context.Context, q Querier, t domain.Tag) error {
	_, err := q.ExecContext(ctx, `INSERT INTO TAG (TAG_ID, TAG_NAME) VALUES (?, ?)`, t.ID, t.Name)
	if isDuplicate(err) {
		return ErrDuplicate
	}
	return err
}

// UserTags returns the tag names a user picked, as stored (with any '#').
func UserTags(ctx context.Context, q Querier, userID string) ([]string, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT t.TAG_NAME FROM USER_PREFERENCE up
		 JOIN TAG t ON up.TAG_ID = t.TAG_ID
		 WHERE up.USER_ID = ?
		 ORDER BY t.TAG_ID`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// ReplaceUserTags swaps the user's preference set for names. Names that do
// not exist in TAG are skipped; the number of stored tags is returned.
func ReplaceUserTags(ctx context.Context, db *sql.DB, userID string, names []string) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM USER_PREFERENCE WHERE USER_ID = ?`, userID); err != nil {
		return 0, err
	}

	seen := map[int64]bool{}
	for _, name := range names {
		var id int64
		err := tx.QueryRowContext(ctx, `SELECT TAG_ID FROM TAG WHERE TAG_NAME = ?`, name).Scan(&id)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return 0, err
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO USER_PREFERENCE (USER_ID, TAG_ID) VALUES (?, ?)`, userID, id); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(seen), nil
}
