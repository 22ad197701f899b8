package store

import (
	"context"
	"fmt"
	"slices"

	"bigtrip/internal/api"
	"bigtrip/internal/async"
	"bigtrip/internal/model"
	"bigtrip/internal/observable"

	"go.uber.org/zap"
)

// PointsModel owns the trip points. Mutations go to the backend first; the
// local collection changes only after the backend confirmed them.
//
// All methods and completion callbacks run on the UI loop.
type PointsModel struct {
	*observable.Observable[model.Event]

	port    PointsPort
	runner  async.Runner
	catalog Catalog
	log     *zap.Logger
	points  []model.Point
}

func NewPointsModel(port PointsPort, runner async.Runner, catalog Catalog, log *zap.Logger) *PointsModel {
	if log == nil {
		log = zap.NewNop()
	}
	return &PointsModel{
		Observable: observable.New[model.Event](log),
		port:       port,
		runner:     runner,
		catalog:    catalog,
		log:        log,
	}
}

// Points returns a copy of the collection in display order.
func (m *PointsModel) Points() []model.Point {
	out := make([]model.Point, len(m.points))
	for i, p := range m.points {
		out[i] = p.Clone()
	}
	return out
}

// Init loads every point. On success observers get INIT; on failure the
// collection is emptied and observers get ERROR.
func (m *PointsModel) Init(ctx context.Context) {
	var loaded []model.Point
	m.runner.Run(ctx, func(ctx context.Context) error {
		raw, err := m.port.ListPoints(ctx)
		if err != nil {
			return err
		}
		loaded = make([]model.Point, 0, len(raw))
		for _, r := range raw {
			loaded = append(loaded, api.ToClient(r))
		}
		return nil
	}, func(err error) {
		if err != nil {
			m.log.Error("failed to load points", zap.Error(err))
			m.points = nil
			m.Notify(model.ErrorEvent{Err: err})
			return
		}
		m.points = dedupe(loaded)
		m.Notify(model.InitEvent{})
	})
}

// UpdatePoint replaces the point with p.ID. Observers get ut with the
// record the backend confirmed. done receives ErrNotFound, ErrValidation or
// the backend error.
func (m *PointsModel) UpdatePoint(ctx context.Context, ut model.UpdateType, p model.Point, done func(error)) {
	if m.indexOf(p.ID) < 0 {
		finish(done, fmt.Errorf("failed to update point %q: %w", p.ID, model.ErrNotFound))
		return
	}
	if err := m.validate(p); err != nil {
		finish(done, fmt.Errorf("failed to update point %q: %w", p.ID, err))
		return
	}

	var updated api.RawPoint
	m.runner.Run(ctx, func(ctx context.Context) error {
		var err error
		updated, err = m.port.UpdatePoint(ctx, p.ID, api.ToServer(p))
		return err
	}, func(err error) {
		if err != nil {
			m.log.Warn("failed to update point", zap.String("id", p.ID), zap.Error(err))
			finish(done, err)
			return
		}
		// The record stays under the id it was stored with.
		confirmed := api.ToClient(updated)
		confirmed.ID = p.ID
		// The point may have been removed while the request was in flight.
		idx := m.indexOf(p.ID)
		if idx < 0 {
			finish(done, fmt.Errorf("failed to update point %q: %w", p.ID, model.ErrNotFound))
			return
		}
		m.points[idx] = confirmed
		m.Notify(model.NewEvent(ut, confirmed.Clone()))
		finish(done, nil)
	})
}

// AddPoint creates p on the backend and prepends the stored record. A draft
// id is kept when the backend does not assign one.
func (m *PointsModel) AddPoint(ctx context.Context, ut model.UpdateType, p model.Point, done func(error)) {
	if p.ID != "" && m.indexOf(p.ID) >= 0 {
		finish(done, fmt.Errorf("failed to add point %q: %w", p.ID, model.ErrDuplicateID))
		return
	}
	if err := m.validate(p); err != nil {
		finish(done, fmt.Errorf("failed to add point: %w", err))
		return
	}

	var created api.RawPoint
	m.runner.Run(ctx, func(ctx context.Context) error {
		var err error
		created, err = m.port.CreatePoint(ctx, api.ToServer(p))
		return err
	}, func(err error) {
		if err != nil {
			m.log.Warn("failed to add point", zap.Error(err))
			finish(done, err)
			return
		}
		confirmed := api.ToClient(created)
		if confirmed.ID == "" {
			confirmed.ID = p.ID
		}
		if confirmed.ID == "" {
			finish(done, fmt.Errorf("failed to add point: %w: no id assigned", model.ErrValidation))
			return
		}
		if m.indexOf(confirmed.ID) >= 0 {
			finish(done, fmt.Errorf("failed to add point %q: %w", confirmed.ID, model.ErrDuplicateID))
			return
		}
		m.points = slices.Insert(m.points, 0, confirmed)
		m.Notify(model.NewEvent(ut, confirmed.Clone()))
		finish(done, nil)
	})
}

// DeletePoint removes the point with p.ID. Observers get ut without a point.
func (m *PointsModel) DeletePoint(ctx context.Context, ut model.UpdateType, p model.Point, done func(error)) {
	if m.indexOf(p.ID) < 0 {
		finish(done, fmt.Errorf("failed to delete point %q: %w", p.ID, model.ErrNotFound))
		return
	}

	m.runner.Run(ctx, func(ctx context.Context) error {
		return m.port.DeletePoint(ctx, p.ID)
	}, func(err error) {
		if err != nil {
			m.log.Warn("failed to delete point", zap.String("id", p.ID), zap.Error(err))
			finish(done, err)
			return
		}
		if idx := m.indexOf(p.ID); idx >= 0 {
			m.points = slices.Delete(m.points, idx, idx+1)
		}
		m.Notify(model.NewEvent(ut, model.Point{}))
		finish(done, nil)
	})
}

func (m *PointsModel) indexOf(id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(m.points, func(p model.Point) bool { return p.ID == id })
}

func (m *PointsModel) validate(p model.Point) error {
	switch {
	case !p.Type.Valid():
		return fmt.Errorf("%w: unknown type %q", model.ErrValidation, p.Type)
	case p.StartDate.IsZero() || p.EndDate.IsZero():
		return fmt.Errorf("%w: start and end dates are required", model.ErrValidation)
	case p.EndDate.Before(p.StartDate):
		return fmt.Errorf("%w: end date is before start date", model.ErrValidation)
	case p.Price < 0:
		return fmt.Errorf("%w: negative price %d", model.ErrValidation, p.Price)
	}

	if _, ok := m.catalog.Destination(p.DestinationID); !ok {
		return fmt.Errorf("%w: unknown destination %q", model.ErrValidation, p.DestinationID)
	}

	available := m.catalog.OffersByType(p.Type)
	seen := make(map[string]bool, len(p.Offers))
	for _, id := range p.Offers {
		if seen[id] {
			return fmt.Errorf("%w: offer %q selected twice", model.ErrValidation, id)
		}
		seen[id] = true
		if !slices.ContainsFunc(available, func(o model.Offer) bool { return o.ID == id }) {
			return fmt.Errorf("%w: offer %q is not available for %s", model.ErrValidation, id, p.Type)
		}
	}
	return nil
}

// dedupe drops later records that repeat an id.
func dedupe(points []model.Point) []model.Point {
	seen := make(map[string]bool, len(points))
	out := points[:0]
	for _, p := range points {
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		out = append(out, p)
	}
	return out
}

func finish(done func(error), err error) {
	if done != nil {
		done(err)
	}
}
