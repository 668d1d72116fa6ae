package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"coursemate-engine/internal/domain"
)

type NewUser struct {
	Email    string
	Password string // bcrypt hash
	Name     string
	Gender   string
	Age      int
}

// CreateUser returns the new USER_ID, or ErrDuplicate when the email is taken.
func CreateUser(ctx context.Context, q Querier, u NewUser) (string, error) {
	id := "USER-" + uuid.NewString()
	_, err := q.ExecContext(ctx,
		`INSERT INTO USER (USER_ID, EMAIL, PASSWORD, NAME, GENDER, AGE, IS_ACTIVE, JOIN_DATE)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, u.Email, u.Password, u.Name, nullString(u.Gender), nullInt(u.Age), domain.UserActive, now(),
	)
	if isDuplicate(err) {
		return "", ErrDuplicate
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

const userColumns = `USER_ID, EMAIL, PASSWORD, NAME, GENDER, AGE, IS_ACTIVE, JOIN_DATE`

func scanUser(row interface{ Scan(...any) error }) (domain.User, error) {
	var (
		u      domain.User
		gender sql.NullString
		age    sql.NullInt64
		joined dbTime
	)
	if err := row.Scan(&u.ID, &u.Email, &u.Password, &u.Name, &gender, &age, &u.IsActive, &joined); err != nil {
		return domain.User{}, err
	}
	u.Gender = gender.String
	u.Age = int(age.Int64)
	u.JoinDate = joined.Time
	return u, nil
}

func UserByEmail(ctx context.Context, q Querier, email string) (domain.User, error) {
	u, err := scanUser(q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM USER WHERE EMAIL = ?`, email))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, ErrNotFound
	}
	return u, err
}

func UserByID(ctx context.Context, q Querier, id string) (domain.User, error) {
	u, err := scanUser(q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM USER WHERE USER_ID = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, ErrNotFound
	}
	return u, err
}

// FindUserID looks an account up by its registered name and email.
func FindUserID(ctx context.Context, q Querier, name, email string) (string, error) {
	var id string
	err := q.QueryRowContext(ctx,
		`SELECT USER_ID FROM USER WHERE NAME = ? AND EMAIL = ?`, name, email).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return id, err
}

func UpdatePasswordByEmail(ctx context.Context, q Querier, email, hash string) error {
	res, err := q.ExecContext(ctx, `UPDATE USER SET PASSWORD = ? WHERE EMAIL = ?`, hash, email)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

type ProfileUpdate struct {
	Name     string
	Age      int
	Gender   string
	Password string // bcrypt hash; empty keeps the current one
}

func UpdateProfile(ctx context.Context, q Querier, userID string, p ProfileUpdate) error {
	var (
		res sql.Result
		err error
	)
	if p.Password != "" {
		res, err = q.ExecContext(ctx,
			`UPDATE USER SET NAME = ?, AGE = ?, GENDER = ?, PASSWORD = ? WHERE USER_ID = ?`,
			p.Name, nullInt(p.Age), nullString(p.Gender), p.Password, userID)
	} else {
		res, err = q.ExecContext(ctx,
			`UPDATE USER SET NAME = ?, AGE = ?, GENDER = ? WHERE USER_ID = ?`,
			p.Name, nullInt(p.Age), nullString(p.Gender), userID)
	}
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

// DeleteUser removes the account and everything it owns.
func DeleteUser(ctx context.Context, db *sql.DB, userID string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []string{
		`DELETE FROM USER_PREFERENCE WHERE USER_ID = ?`,
		`DELETE FROM WISHLIST WHERE USER_ID = ?`,
		`DELETE FROM REVIEW WHERE USER_ID = ?`,
		`DELETE FROM INQUIRY WHERE USER_ID = ?`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, userID); err != nil {
			return err
		}
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM USER WHERE USER_ID = ?`, userID)
	if err != nil {
		return err
	}
	if err := affectedOrNotFound(res); err != nil {
		return err
	}
	return tx.Commit()
}

// ListUsers returns every account, newest first.
func ListUsers(ctx context.Context, q Querier) ([]domain.User, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT `+userColumns+` FROM USER ORDER BY JOIN_DATE DESC, USER_ID`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func SetUserActive(ctx context.Context, q Querier, userID string, active bool) error {
	flag := domain.UserSuspended
	if active {
		flag = domain.UserActive
	}
	res, err := q.ExecContext(ctx, `UPDATE USER SET IS_ACTIVE = ? WHERE USER_ID = ?`, flag, userID)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

func CountUsers(ctx context.Context, q Querier) (int64, error) {
	return count(ctx, q, `SELECT COUNT(*) FROM USER`)
}

func affectedOrNotFound(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func count(ctx context.Context, q Querier, query string, args ...any) (int64, error) {
	var n int64
	err := q.QueryRowContext(ctx, query, args...).Scan(&n)
	return n, err
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(n int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(n), Valid: n != 0}
}
