package recommend

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
)

const (
	CrawledWeight = 2
	UserWeight    = 3
	MaxResults    = 5
)

var ErrRegionRequired = errors.New("region is required")

// Features is attached to every result as is.
var Features = []string{"#AI추천", "#취향저격"}

type Request struct {
	UserID     string
	Region     string
	ExcludeIDs []string
}

type Recommendation struct {
	SpotID     string   `json:"spotId"`
	SpotName   string   `json:"spotName"`
	Address    string   `json:"address"`
	MatchScore float64  `json:"matchScore"`
	Features   []string `json:"features"`
}

// RawScore weights first-party review hits above crawled ones.
func RawScore(crawledHits, userHits int) int {
	return crawledHits*CrawledWeight + userHits*UserWeight
}

// MatchScore maps a raw score onto 0.50..0.99, rounded to two decimals.
func MatchScore(raw int) float64 {
	s := math.Min(0.99, 0.5+math.Log(float64(raw)+1)*0.1)
	return math.Round(s*100) / 100
}

type candidate struct {
	rec Recommendation
	raw int
}

// Recommend ranks the spots of req.Region for req.UserID and returns at
// most MaxResults of them, best first. Ties go to the lower spot id.
// A blank region is rejected; any other region is matched as given.
func Recommend(ctx context.Context, src Source, req Request) ([]Recommendation, error) {
	if strings.TrimSpace(req.Region) == "" {
		return nil, ErrRegionRequired
	}
	region := req.Region

	tags, err := src.UserTags(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("user tags: %w", err)
	}
	keywords := Keywords(tags)

	spots, err := src.SpotsByRegion(ctx, region, req.ExcludeIDs)
	if err != nil {
		return nil, fmt.Errorf("spots by region: %w", err)
	}

	excluded := map[string]bool{}
	for _, id := range req.ExcludeIDs {
		excluded[id] = true
	}

	cands := make([]candidate, 0, len(spots))
	for _, s := range spots {
		if excluded[s.ID] {
			continue
		}
		crawled, err := src.CountCrawledHits(ctx, s.ID, keywords)
		if err != nil {
			return nil, fmt.Errorf("crawled hits %s: %w", s.ID, err)
		}
		user, err := src.CountUserHits(ctx, s.ID, keywords)
		if err != nil {
			return nil, fmt.Errorf("user hits %s: %w", s.ID, err)
		}
		cands = append(cands, candidate{
			rec: Recommendation{SpotID: s.ID, SpotName: s.Name, Address: s.Address},
			raw: RawScore(crawled, user),
		})
	}

	slices.SortFunc(cands, func(a, b candidate) int {
		if c := cmp.Compare(b.raw, a.raw); c != 0 {
			return c
		}
		return cmp.Compare(a.rec.SpotID, b.rec.SpotID)
	})
	if len(cands) > MaxResults {
		cands = cands[:MaxResults]
	}

	out := make([]Recommendation, 0, len(cands))
	for _, c := range cands {
		r := c.rec
		r.MatchScore = MatchScore(c.raw)
		r.Features = slices.Clone(Features)
		out = append(out, r)
	}
	return out, nil
}
