package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"coursemate-engine/internal/domain"
)

// RecommendSource serves the recommender from a single connection, so one
// scoring run holds exactly one pooled connection until the caller closes it.
type RecommendSource struct {
	Conn *sql.Conn
}

// WithRecommendSource runs fn on a RecommendSource bound to one connection
// from db and returns the connection to the pool when fn returns, error or not.
func WithRecommendSource(ctx context.Context, db *sql.DB, fn func(RecommendSource) error) error {
	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()
	return fn(RecommendSource{Conn: conn})
}

func (s RecommendSource) UserTags(ctx context.Context, userID string) ([]string, error) {
	return UserTags(ctx, s.Conn, userID)
}

// SpotsByRegion lists spots whose address contains region literally,
// skipping excludeIDs, ordered by SPOT_ID.
func (s RecommendSource) SpotsByRegion(ctx context.Context, region string, excludeIDs []string) ([]domain.Spot, error) {
	query := `SELECT SPOT_ID, NAME, ADDRESS, CATEGORY, LATITUDE, LONGITUDE FROM TOUR_SPOT
	 WHERE ADDRESS LIKE ? ESCAPE '!'`
	args := []any{containsPattern(region)}

	if len(excludeIDs) > 0 {
		query += ` AND SPOT_ID NOT IN (` + placeholders(len(excludeIDs)) + `)`
		for _, id := range excludeIDs {
			args = append(args, id)
		}
	}
	query += ` ORDER BY SPOT_ID`
	return querySpots(ctx, s.Conn, query, args...)
}

// CountCrawledHits counts crawled reviews of the spot whose content contains
// any keyword. A review matching several keywords counts once.
func (s RecommendSource) CountCrawledHits(ctx context.Context, spotID string, keywords []string) (int, error) {
	return countHits(ctx, s.Conn, "CRAWLED_REVIEW", spotID, keywords)
}

func (s RecommendSource) CountUserHits(ctx context.Context, spotID string, keywords []string) (int, error) {
	return countHits(ctx, s.Conn, "REVIEW", spotID, keywords)
}

func countHits(ctx context.Context, q Querier, table, spotID string, keywords []string) (int, error) {
	if len(keywords) == 0 {
		return 0, nil
	}
	cond, kwArgs := likeAny("CONTENT", keywords)
	args := append([]any{spotID}, kwArgs...)

	var n int
	err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM `+table+` WHERE SPOT_ID = ? AND `+cond, args...).Scan(&n)
	return n, err
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
