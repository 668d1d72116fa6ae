package store

import (
	"context"

	"golang.org/x/sync/errgroup"

	"coursemate-engine/internal/domain"
)

func DashboardStats(ctx context.Context, q Querier) (domain.DashboardStats, error) {
	var s domain.DashboardStats
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		s.TotalUsers, err = CountUsers(gctx, q)
		return err
	})
	g.Go(func() (err error) {
		s.TotalReviews, err = CountReviews(gctx, q)
		return err
	})
	g.Go(func() (err error) {
		s.TotalSpots, err = CountSpots(gctx, q)
		return err
	})

	if err := g.Wait(); err != nil {
		return domain.DashboardStats{}, err
	}
	return s, nil
}
