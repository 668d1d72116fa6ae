package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"coursemate-engine/internal/domain"
)

func ListWishlist(ctx context.Context, q Querier, userID string) ([]domain.WishItem, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT w.WISHLIST_ID, t.SPOT_ID, t.NAME, t.ADDRESS, p.IMG_URL
		 FROM WISHLIST w
		 JOIN TOUR_SPOT t ON w.SPOT_ID = t.SPOT_ID
		 LEFT JOIN (
		   SELECT SPOT_ID, MIN(IMG_URL) AS IMG_URL FROM PHOTO GROUP BY SPOT_ID
		 ) p ON t.SPOT_ID = p.SPOT_ID
		 WHERE w.USER_ID = ?
		 ORDER BY w.REG_DATE DESC, w.WISHLIST_ID DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.WishItem{}
	for rows.Next() {
		var (
			w     domain.WishItem
			thumb sql.NullString
		)
		if err := rows.Scan(&w.WishID, &w.PlaceID, &w.PlaceName, &w.Address, &thumb); err != nil {
			return nil, err
		}
		w.Thumbnail = thumb.String
		out = append(out, w)
	}
	return out, rows.Err()
}

// ToggleWishlist adds the spot when absent and removes it when present.
// It reports whether the spot ended up on the list.
func ToggleWishlist(ctx context.Context, db *sql.DB, userID, spotID string) (bool, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	var id string
	err = tx.QueryRowContext(ctx,
		`SELECT WISHLIST_ID FROM WISHLIST WHERE USER_ID = ? AND SPOT_ID = ?`, userID, spotID).Scan(&id)

	added := false
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO WISHLIST (WISHLIST_ID, USER_ID, SPOT_ID, REG_DATE) VALUES (?, ?, ?, ?)`,
			"WISH-"+uuid.NewString(), userID, spotID, now()); err != nil {
			return false, err
		}
		added = true
	case err != nil:
		return false, err
	default:
		if _, err := tx.ExecContext(ctx, `DELETE FROM WISHLIST WHERE WISHLIST_ID = ?`, id); err != nil {
			return false, err
		}
	}

	return added, tx.Commit()
}

// RemoveWishlist is idempotent; removing an absent entry is not an error.
func RemoveWishlist(ctx context.Context, q Querier, userID, spotID string) error {
	_, err := q.ExecContext(ctx,
		`DELETE FROM WISHLIST WHERE USER_ID = ? AND SPOT_ID = ?`, userID, spotID)
	return err
}
