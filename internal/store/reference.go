package store

import (
	"context"
	"slices"

	"bigtrip/internal/api"
	"bigtrip/internal/async"
	"bigtrip/internal/model"
	"bigtrip/internal/observable"

	"go.uber.org/zap"
)

// OffersModel holds the offers of every point type. It is loaded once.
type OffersModel struct {
	*observable.Observable[model.Event]

	port   OffersPort
	runner async.Runner
	log    *zap.Logger
	groups []model.OfferGroup
}

func NewOffersModel(port OffersPort, runner async.Runner, log *zap.Logger) *OffersModel {
	if log == nil {
		log = zap.NewNop()
	}
	return &OffersModel{
		Observable: observable.New[model.Event](log),
		port:       port,
		runner:     runner,
		log:        log,
	}
}

// Init loads the offers. A failed load leaves the list empty and is only
// logged; observers get INIT either way.
func (m *OffersModel) Init(ctx context.Context) {
	var groups []model.OfferGroup
	m.runner.Run(ctx, func(ctx context.Context) error {
		var err error
		groups, err = m.fetch(ctx)
		return err
	}, func(err error) {
		m.commit(groups, err)
	})
}

func (m *OffersModel) fetch(ctx context.Context) ([]model.OfferGroup, error) {
	raw, err := m.port.ListOffers(ctx)
	if err != nil {
		return nil, err
	}
	return api.OfferGroupsToClient(raw), nil
}

func (m *OffersModel) commit(groups []model.OfferGroup, err error) {
	if err != nil {
		m.log.Warn("failed to load offers", zap.Error(err))
		groups = nil
	}
	m.groups = groups
	m.Notify(model.InitEvent{})
}

// Offers returns every offer group.
func (m *OffersModel) Offers() []model.OfferGroup {
	return slices.Clone(m.groups)
}

// ByType returns the offers available for t.
func (m *OffersModel) ByType(t model.PointType) []model.Offer {
	for _, g := range m.groups {
		if g.Type == t {
			return slices.Clone(g.Offers)
		}
	}
	return nil
}

// DestinationsModel holds every known destination. It is loaded once.
type DestinationsModel struct {
	*observable.Observable[model.Event]

	port         DestinationsPort
	runner       async.Runner
	log          *zap.Logger
	destinations []model.Destination
}

func NewDestinationsModel(port DestinationsPort, runner async.Runner, log *zap.Logger) *DestinationsModel {
	if log == nil {
		log = zap.NewNop()
	}
	return &DestinationsModel{
		Observable: observable.New[model.Event](log),
		port:       port,
		runner:     runner,
		log:        log,
	}
}

// Init loads the destinations. A failed load leaves the list empty and is
// only logged; observers get INIT either way.
func (m *DestinationsModel) Init(ctx context.Context) {
	var destinations []model.Destination
	m.runner.Run(ctx, func(ctx context.Context) error {
		var err error
		destinations, err = m.fetch(ctx)
		return err
	}, func(err error) {
		m.commit(destinations, err)
	})
}

func (m *DestinationsModel) fetch(ctx context.Context) ([]model.Destination, error) {
	raw, err := m.port.ListDestinations(ctx)
	if err != nil {
		return nil, err
	}
	return api.DestinationsToClient(raw), nil
}

func (m *DestinationsModel) commit(destinations []model.Destination, err error) {
	if err != nil {
		m.log.Warn("failed to load destinations", zap.Error(err))
		destinations = nil
	}
	m.destinations = destinations
	m.Notify(model.InitEvent{})
}

// Destinations returns every destination in server order.
func (m *DestinationsModel) Destinations() []model.Destination {
	return slices.Clone(m.destinations)
}

// ByID looks up a destination.
func (m *DestinationsModel) ByID(id string) (model.Destination, bool) {
	for _, d := range m.destinations {
		if d.ID == id {
			return d, true
		}
	}
	return model.Destination{}, false
}

// Catalog resolves the reference data a point refers to.
type Catalog struct {
	offers       *OffersModel
	destinations *DestinationsModel
}

func NewCatalog(offers *OffersModel, destinations *DestinationsModel) Catalog {
	return Catalog{offers: offers, destinations: destinations}
}

// OffersByType returns the offers available for t.
func (c Catalog) OffersByType(t model.PointType) []model.Offer {
	return c.offers.ByType(t)
}

// Destination looks up a destination by id.
func (c Catalog) Destination(id string) (model.Destination, bool) {
	return c.destinations.ByID(id)
}

// Destinations returns every destination.
func (c Catalog) Destinations() []model.Destination {
	return c.destinations.Destinations()
}

// SelectedOffers returns the offers of p that resolve in its type bucket,
// in bucket order.
func (c Catalog) SelectedOffers(p model.Point) []model.Offer {
	var selected []model.Offer
	for _, o := range c.offers.ByType(p.Type) {
		if p.HasOffer(o.ID) {
			selected = append(selected, o)
		}
	}
	return selected
}
