package recommend

import (
	"context"

	"coursemate-engine/internal/domain"
)

// Source is the read-only data the scorer needs.
type Source interface {
	UserTags(ctx context.Context, userID string) ([]string, error)
	SpotsByRegion(ctx context.Context, region string, excludeIDs []string) ([]domain.Spot, error)
	CountCrawledHits(ctx context.Context, spotID string, keywords []string) (int, error)
	CountUserHits(ctx context.Context, spotID string, keywords []string) (int, error)
}
