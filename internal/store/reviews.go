package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"coursemate-engine/internal/domain"
)

// ReviewsBySpot lists a spot's reviews with the writer's name, newest first.
func ReviewsBySpot(ctx context.Context, q Querier, spotID string) ([]domain.Review, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT r.REVIEW_ID, r.USER_ID, r.SPOT_ID, r.RATING, r.CONTENT, r.SENTIMENT, r.REG_DATE, u.NAME
		 FROM REVIEW r
		 JOIN USER u ON r.USER_ID = u.USER_ID
		 WHERE r.SPOT_ID = ?
		 ORDER BY r.REG_DATE DESC, r.REVIEW_ID DESC`, spotID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Review{}
	for rows.Next() {
		var (
			r   domain.Review
			reg dbTime
		)
		if err := rows.Scan(&r.ID, &r.UserID, &r.SpotID, &r.Rating, &r.Content, &r.Sentiment, &reg, &r.Nickname); err != nil {
			return nil, err
		}
		r.RegDate = reg.Time
		out = append(out, r)
	}
	return out, rows.Err()
}

// CreateReview stores a review; sentiment is derived from the rating.
func CreateReview(ctx context.Context, q Querier, userID, spotID string, rating int, content string) (domain.Review, error) {
	r := domain.Review{
		ID:        "REV-" + uuid.NewString(),
		UserID:    userID,
		SpotID:    spotID,
		Rating:    rating,
		Content:   content,
		Sentiment: domain.SentimentForRating(rating),
		RegDate:   now(),
	}
	_, err := q.ExecContext(ctx,
		`INSERT INTO REVIEW (REVIEW_ID, USER_ID, SPOT_ID, RATING, CONTENT, SENTIMENT, REG_DATE)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.UserID, r.SpotID, r.Rating, r.Content, r.Sentiment, r.RegDate)
	if err != nil {
		return domain.Review{}, err
	}
	return r, nil
}

// UpdateReview rewrites the writer's own review and recomputes its
// sentiment. ErrNotFound covers both a missing review and a foreign one.
func UpdateReview(ctx context.Context, q Querier, reviewID, userID string, rating int, content string) (string, error) {
	sentiment := domain.SentimentForRating(rating)
	res, err := q.ExecContext(ctx,
		`UPDATE REVIEW SET RATING = ?, CONTENT = ?, SENTIMENT = ? WHERE REVIEW_ID = ? AND USER_ID = ?`,
		rating, content, sentiment, reviewID, userID)
	if err != nil {
		return "", err
	}
	if err := affectedOrNotFound(res); err != nil {
		return "", err
	}
	return sentiment, nil
}

func DeleteOwnReview(ctx context.Context, q Querier, reviewID, userID string) error {
	res, err := q.ExecContext(ctx,
		`DELETE FROM REVIEW WHERE REVIEW_ID = ? AND USER_ID = ?`, reviewID, userID)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

// DeleteReview is the admin delete, no ownership check.
func DeleteReview(ctx context.Context, q Querier, reviewID string) error {
	res, err := q.ExecContext(ctx, `DELETE FROM REVIEW WHERE REVIEW_ID = ?`, reviewID)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

func ReviewByID(ctx context.Context, q Querier, reviewID string) (domain.Review, error) {
	var (
		r   domain.Review
		reg dbTime
	)
	err := q.QueryRowContext(ctx,
		`SELECT r.REVIEW_ID, r.USER_ID, r.SPOT_ID, r.RATING, r.CONTENT, r.SENTIMENT, r.REG_DATE, u.NAME
		 FROM REVIEW r
		 JOIN USER u ON r.USER_ID = u.USER_ID
		 WHERE r.REVIEW_ID = ?`, reviewID).
		Scan(&r.ID, &r.UserID, &r.SpotID, &r.Rating, &r.Content, &r.Sentiment, &reg, &r.Nickname)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Review{}, ErrNotFound
	}
	r.RegDate = reg.Time
	return r, err
}

func ReviewsByUser(ctx context.Context, q Querier, userID string) ([]domain.MyReview, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT r.REVIEW_ID, r.CONTENT, r.RATING, r.REG_DATE, t.NAME, t.SPOT_ID
		 FROM REVIEW r
		 JOIN TOUR_SPOT t ON r.SPOT_ID = t.SPOT_ID
		 WHERE r.USER_ID = ?
		 ORDER BY r.REG_DATE DESC, r.REVIEW_ID DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.MyReview{}
	for rows.Next() {
		var (
			r   domain.MyReview
			reg dbTime
		)
		if err := rows.Scan(&r.ReviewID, &r.Content, &r.Rating, &reg, &r.SpotName, &r.SpotID); err != nil {
			return nil, err
		}
		r.RegDate = reg.Time
		out = append(out, r)
	}
	return out, rows.Err()
}

func ListAllReviews(ctx context.Context, q Querier) ([]domain.AdminReview, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT r.REVIEW_ID, u.NAME, ts.NAME, r.CONTENT, r.RATING, r.REG_DATE
		 FROM REVIEW r
		 JOIN USER u ON r.USER_ID = u.USER_ID
		 JOIN TOUR_SPOT ts ON r.SPOT_ID = ts.SPOT_ID
		 ORDER BY r.REG_DATE DESC, r.REVIEW_ID DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.AdminReview{}
	for rows.Next() {
		var (
			r   domain.AdminReview
			reg dbTime
		)
		if err := rows.Scan(&r.ReviewID, &r.Writer, &r.SpotName, &r.Content, &r.Rating, &reg); err != nil {
			return nil, err
		}
		r.RegDate = reg.Time
		out = append(out, r)
	}
	return out, rows.Err()
}

func CountReviews(ctx context.Context, q Querier) (int64, error) {
	return count(ctx, q, `SELECT COUNT(*) FROM REVIEW`)
}

func CreateCrawledReview(ctx context.Context, q Querier, c domain.CrawledReview) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO CRAWLED_REVIEW (CRAWLED_ID, SPOT_ID, NICKNAME, CONTENT, SENTIMENT_LABEL, SENTIMENT_SCORE, KEYWORDS)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		"CRW-"+uuid.NewString(), c.SpotID, nullString(c.Nickname), c.Content,
		nullString(c.SentimentLabel), c.SentimentScore, nullString(c.Keywords))
	return err
}
