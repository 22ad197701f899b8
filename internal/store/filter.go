package store

import (
	"bigtrip/internal/model"
	"bigtrip/internal/observable"

	"go.uber.org/zap"
)

// FilterModel holds the process-wide active filter.
type FilterModel struct {
	*observable.Observable[model.Event]

	filter model.FilterType
}

// NewFilterModel creates a filter model starting at initial. An unknown
// initial value falls back to everything.
func NewFilterModel(initial model.FilterType, log *zap.Logger) *FilterModel {
	if !initial.Valid() {
		initial = model.FilterEverything
	}
	return &FilterModel{
		Observable: observable.New[model.Event](log),
		filter:     initial,
	}
}

func (m *FilterModel) Filter() model.FilterType {
	return m.filter
}

// SetFilter replaces the active filter and notifies observers with ut.
func (m *FilterModel) SetFilter(ut model.UpdateType, f model.FilterType) {
	m.filter = f
	m.Notify(model.NewEvent(ut, model.Point{}))
}
