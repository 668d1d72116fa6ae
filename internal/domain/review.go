package domain

import "time"

const (
	SentimentPositive = "P"
	SentimentNegative = "N"
)

// SentimentForRating derives the stored sentiment label from a 1..5 rating.
func SentimentForRating(rating int) string {
	if rating >= 3 {
		return SentimentPositive
	}
	return SentimentNegative
}

// Review is a first-party review as listed under a spot.
type Review struct {
	ID        string    `json:"REVIEW_ID"`
	UserID    string    `json:"-"`
	SpotID    string    `json:"-"`
	Rating    int       `json:"RATING"`
	Content   string    `json:"CONTENT"`
	Sentiment string    `json:"SENTIMENT"`
	RegDate   time.Time `json:"REG_DATE"`
	Nickname  string    `json:"nickname"`
}

// MyReview is a review joined with its spot, as shown on "my reviews".
type MyReview struct {
	ReviewID string    `json:"reviewId"`
	Content  string    `json:"content"`
	Rating   int       `json:"rating"`
	RegDate  time.Time `json:"regDate"`
	SpotName string    `json:"spotName"`
	SpotID   string    `json:"spotId"`
}

// AdminReview is a review joined with writer and spot names.
type AdminReview struct {
	ReviewID string    `json:"REVIEW_ID"`
	Writer   string    `json:"writer"`
	SpotName string    `json:"spotName"`
	Content  string    `json:"CONTENT"`
	Rating   int       `json:"RATING"`
	RegDate  time.Time `json:"REG_DATE"`
}

// CrawledReview is third-party review text ingested out-of-band.
type CrawledReview struct {
	SpotID         string  `json:"spotId"`
	Nickname       string  `json:"nickname"`
	Content        string  `json:"content"`
	SentimentLabel string  `json:"sentimentLabel"`
	SentimentScore float64 `json:"sentimentScore"`
	Keywords       string  `json:"keywords"`
}
