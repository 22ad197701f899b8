// Package store holds the observable data models of the trip: points,
// offers, destinations and the active filter.
package store

import (
	"context"

	"bigtrip/internal/api"
)

// PointsPort is the remote collection behind PointsModel.
type PointsPort interface {
	ListPoints(ctx context.Context) ([]api.RawPoint, error)
	CreatePoint(ctx context.Context, p api.RawPoint) (api.RawPoint, error)
	UpdatePoint(ctx context.Context, id string, p api.RawPoint) (api.RawPoint, error)
	DeletePoint(ctx context.Context, id string) error
}

// OffersPort is the remote collection behind OffersModel.
type OffersPort interface {
	ListOffers(ctx context.Context) ([]api.RawOfferGroup, error)
}

// DestinationsPort is the remote collection behind DestinationsModel.
type DestinationsPort interface {
	ListDestinations(ctx context.Context) ([]api.RawDestination, error)
}

var (
	_ PointsPort       = (*api.Client)(nil)
	_ OffersPort       = (*api.Client)(nil)
	_ DestinationsPort = (*api.Client)(nil)
)
