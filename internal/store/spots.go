package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"coursemate-engine/internal/domain"
)

const spotListLimit = 100

// ListSpots returns up to 100 spots whose address contains region (all
// spots when region is empty), ordered by name.
func ListSpots(ctx context.Context, q Querier, region string) ([]domain.Spot, error) {
	query := `SELECT SPOT_ID, NAME, ADDRESS, CATEGORY, LATITUDE, LONGITUDE FROM TOUR_SPOT`
	var args []any
	if region != "" {
		query += ` WHERE ADDRESS LIKE ? ESCAPE '!'`
		args = append(args, containsPattern(region))
	}
	query += fmt.Sprintf(` ORDER BY NAME ASC LIMIT %d`, spotListLimit)
	return querySpots(ctx, q, query, args...)
}

// ListAllSpots is the admin listing, unbounded.
func ListAllSpots(ctx context.Context, q Querier) ([]domain.Spot, error) {
	return querySpots(ctx, q,
		`SELECT SPOT_ID, NAME, ADDRESS, CATEGORY, LATITUDE, LONGITUDE FROM TOUR_SPOT ORDER BY NAME ASC`)
}

func querySpots(ctx context.Context, q Querier, query string, args ...any) ([]domain.Spot, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Spot{}
	for rows.Next() {
		s, err := scanSpot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanSpot(row interface{ Scan(...any) error }) (domain.Spot, error) {
	var (
		s        domain.Spot
		category sql.NullString
		lat, lng sql.NullFloat64
	)
	if err := row.Scan(&s.ID, &s.Name, &s.Address, &category, &lat, &lng); err != nil {
		return domain.Spot{}, err
	}
	s.Category = category.String
	s.Latitude = lat.Float64
	s.Longitude = lng.Float64
	return s, nil
}

func SpotByID(ctx context.Context, q Querier, id string) (domain.Spot, error) {
	s, err := scanSpot(q.QueryRowContext(ctx,
		`SELECT SPOT_ID, NAME, ADDRESS, CATEGORY, LATITUDE, LONGITUDE FROM TOUR_SPOT WHERE SPOT_ID = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Spot{}, ErrNotFound
	}
	return s, err
}

// SpotRating returns the average rating formatted to one decimal ("0.0"
// without reviews) and the review count.
func SpotRating(ctx context.Context, q Querier, spotID string) (string, int, error) {
	var (
		avg sql.NullFloat64
		n   int
	)
	err := q.QueryRowContext(ctx,
		`SELECT AVG(RATING), COUNT(*) FROM REVIEW WHERE SPOT_ID = ?`, spotID).Scan(&avg, &n)
	if err != nil {
		return "", 0, err
	}
	if !avg.Valid {
		return "0.0", n, nil
	}
	return fmt.Sprintf("%.1f", avg.Float64), n, nil
}

func SpotPhotos(ctx context.Context, q Querier, spotID string) ([]domain.Photo, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT PHOTO_ID, IMG_URL FROM PHOTO WHERE SPOT_ID = ? ORDER BY PHOTO_ID`, spotID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Photo{}
	for rows.Next() {
		var p domain.Photo
		if err := rows.Scan(&p.ID, &p.URL); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func AddPhoto(ctx context.Context, q Querier, spotID, url string) (string, error) {
	id := "PHOTO-" + uuid.NewString()
	_, err := q.ExecContext(ctx,
		`INSERT INTO PHOTO (PHOTO_ID, SPOT_ID, IMG_URL) VALUES (?, ?, ?)`, id, spotID, url)
	return id, err
}

// SpotTopTags returns the five best scored tags, '#'-prefixed.
func SpotTopTags(ctx context.Context, q Querier, spotID string) ([]string, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT TAG_NAME FROM SPOT_TAG_SCORES WHERE SPOT_ID = ? ORDER BY SCORE DESC, TAG_NAME LIMIT 5`, spotID)
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
		out = append(out, "#"+name)
	}
	return out, rows.Err()
}

func SetSpotTagScore(ctx context.Context, q Querier, spotID, tag string, score float64) error {
	if _, err := q.ExecContext(ctx,
		`DELETE FROM SPOT_TAG_SCORES WHERE SPOT_ID = ? AND TAG_NAME = ?`, spotID, tag); err != nil {
		return err
	}
	_, err := q.ExecContext(ctx,
		`INSERT INTO SPOT_TAG_SCORES (SPOT_ID, TAG_NAME, SCORE) VALUES (?, ?, ?)`, spotID, tag, score)
	return err
}

// SpotDetail loads a spot with its rating, photos and top tags. The three
// lookups run concurrently once the spot is known to exist.
func SpotDetail(ctx context.Context, q Querier, id string) (domain.SpotDetail, error) {
	spot, err := SpotByID(ctx, q, id)
	if err != nil {
		return domain.SpotDetail{}, err
	}

	d := domain.SpotDetail{Spot: spot}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		avg, n, err := SpotRating(gctx, q, id)
		d.AvgRating, d.ReviewCount = avg, n
		return err
	})
	g.Go(func() error {
		photos, err := SpotPhotos(gctx, q, id)
		d.Photos = make([]string, 0, len(photos))
		for _, p := range photos {
			d.Photos = append(d.Photos, p.URL)
		}
		return err
	})
	g.Go(func() error {
		tags, err := SpotTopTags(gctx, q, id)
		d.TopTags = tags
		return err
	})

	if err := g.Wait(); err != nil {
		return domain.SpotDetail{}, err
	}
	return d, nil
}

type NewSpot struct {
	ID        string // generated when empty
	Name      string
	Address   string
	Category  string
	Latitude  float64
	Longitude float64
}

func CreateSpot(ctx context.Context, q Querier, s NewSpot) (string, error) {
	id := s.ID
	if id == "" {
		id = "SPOT-" + uuid.NewString()
	}
	_, err := q.ExecContext(ctx,
		`INSERT INTO TOUR_SPOT (SPOT_ID, NAME, ADDRESS, CATEGORY, LATITUDE, LONGITUDE) VALUES (?, ?, ?, ?, ?, ?)`,
		id, s.Name, s.Address, nullString(s.Category),
		sql.NullFloat64{Float64: s.Latitude, Valid: s.Latitude != 0},
		sql.NullFloat64{Float64: s.Longitude, Valid: s.Longitude != 0},
	)
	if isDuplicate(err) {
		return "", ErrDuplicate
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

// DeleteSpot removes a spot together with everything keyed on it: photos,
// tag scores, wishlist rows, user reviews and crawled reviews.
func DeleteSpot(ctx context.Context, db *sql.DB, id string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []string{
		`DELETE FROM PHOTO WHERE SPOT_ID = ?`,
		`DELETE FROM SPOT_TAG_SCORES WHERE SPOT_ID = ?`,
		`DELETE FROM WISHLIST WHERE SPOT_ID = ?`,
		`DELETE FROM REVIEW WHERE SPOT_ID = ?`,
		`DELETE FROM CRAWLED_REVIEW WHERE SPOT_ID = ?`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
			return err
		}
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM TOUR_SPOT WHERE SPOT_ID = ?`, id)
	if err != nil {
		return err
	}
	if err := affectedOrNotFound(res); err != nil {
		return err
	}
	return tx.Commit()
}

func CountSpots(ctx context.Context, q Querier) (int64, error) {
	return count(ctx, q, `SELECT COUNT(*) FROM TOUR_SPOT`)
}
