// Package ingest loads crawled third-party reviews into CRAWLED_REVIEW,
// where the recommender counts keyword hits against them.
package ingest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"coursemate-engine/internal/domain"
	"coursemate-engine/internal/logging"
	"coursemate-engine/internal/store"
	"coursemate-engine/internal/textutil"
)

// Skip reasons reported in Result.Skipped.
const (
	SkipEmpty       = "empty_content"
	SkipUnknownSpot = "unknown_spot"
	SkipDuplicate   = "duplicate"
	SkipLabel       = "bad_label"
)

type Result struct {
	Added   int            `json:"added"`
	Skipped map[string]int `json:"skipped"`
}

// Normalize cleans one record as the crawler exported it: markup is
// stripped, keywords are re-joined without blanks or repeats, and the
// sentiment label is upper-cased.
func Normalize(c domain.CrawledReview) domain.CrawledReview {
	c.SpotID = strings.TrimSpace(c.SpotID)
	c.Nickname = textutil.CleanText(c.Nickname)
	c.Content = textutil.PlainText(c.Content)
	c.Keywords = strings.Join(textutil.SplitList(c.Keywords), ",")
	c.SentimentLabel = strings.ToUpper(strings.TrimSpace(c.SentimentLabel))
	return c
}

// ShouldKeep reports whether a normalized record can be stored and, if not,
// why.
func ShouldKeep(c domain.CrawledReview) (bool, string) {
	if c.Content == "" {
		return false, SkipEmpty
	}
	switch c.SentimentLabel {
	case "", domain.SentimentPositive, domain.SentimentNegative:
	default:
		return false, SkipLabel
	}
	return true, ""
}

// Process stores the keepable records in one transaction. Records whose spot
// is missing, or which repeat an earlier record of the batch, are skipped.
func Process(ctx context.Context, db *sql.DB, records []domain.CrawledReview) (Result, error) {
	res := Result{Skipped: map[string]int{}}

	// Run-local caches
	spotKnown := make(map[string]bool)
	seen := make(map[string]bool)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return res, err
	}
	defer func() { _ = tx.Rollback() }()

	for _, raw := range records {
		c := Normalize(raw)
		if keep, why := ShouldKeep(c); !keep {
			res.Skipped[why]++
			continue
		}

		known, ok := spotKnown[c.SpotID]
		if !ok {
			_, err := store.SpotByID(ctx, tx, c.SpotID)
			switch {
			case err == nil:
				known = true
			case errors.Is(err, store.ErrNotFound):
				known = false
			default:
				return Result{}, fmt.Errorf("lookup spot %s: %w", c.SpotID, err)
			}
			spotKnown[c.SpotID] = known
		}
		if !known {
			logging.Debug().Str("spot_id", c.SpotID).Msg("crawled review for unknown spot skipped")
			res.Skipped[SkipUnknownSpot]++
			continue
		}

		key := c.SpotID + "\x00" + c.Content
		if seen[key] {
			res.Skipped[SkipDuplicate]++
			continue
		}
		seen[key] = true

		if err := store.CreateCrawledReview(ctx, tx, c); err != nil {
			return Result{}, fmt.Errorf("insert crawled review for %s: %w", c.SpotID, err)
		}
		res.Added++
	}

	if err := tx.Commit(); err != nil {
		return Result{}, err
	}
	return res, nil
}
