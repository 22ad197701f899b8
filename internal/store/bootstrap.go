package store

import (
	"context"

	"bigtrip/internal/async"
	"bigtrip/internal/model"

	"golang.org/x/sync/errgroup"
)

// Bootstrap loads offers and destinations concurrently and then the points,
// so every point can be resolved by the time observers hear about it.
// Offers and destinations are committed together on the loop.
func Bootstrap(ctx context.Context, runner async.Runner, offers *OffersModel, destinations *DestinationsModel, points *PointsModel) {
	var (
		groups         []model.OfferGroup
		dests          []model.Destination
		offersErr      error
		destinationErr error
	)

	runner.Run(ctx, func(ctx context.Context) error {
		// Each load fails on its own; neither cancels the other.
		var g errgroup.Group
		g.Go(func() error {
			groups, offersErr = offers.fetch(ctx)
			return nil
		})
		g.Go(func() error {
			dests, destinationErr = destinations.fetch(ctx)
			return nil
		})
		return g.Wait()
	}, func(error) {
		offers.commit(groups, offersErr)
		destinations.commit(dests, destinationErr)
		points.Init(ctx)
	})
}
