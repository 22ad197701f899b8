// Package presenter keeps the rendered trip in sync with the data models.
// Presenters own view instances and swap them inside containers; they never
// draw anything themselves.
package presenter

import (
	"context"

	"bigtrip/internal/model"
	"bigtrip/internal/util"
)

// Node is a renderable piece of the screen.
type Node interface {
	View(width int) string
}

// Container holds an ordered list of nodes.
type Container interface {
	Append(n Node)
	Prepend(n Node)
	// Replace puts next where prev is. It does nothing if prev is not held.
	Replace(next, prev Node)
	// Remove drops n. It does nothing if n is not held.
	Remove(n Node)
}

// ListView is the container of point cards and forms.
type ListView interface {
	Node
	Container
}

// PointView is the read-only card of a point.
type PointView interface {
	Node
	Shake(done func())
}

// EditorState is the transient state of a point form.
type EditorState struct {
	Saving   bool
	Deleting bool
}

// EditorView is the form of a point.
type EditorView interface {
	Node
	// Reset replaces the form fields with p.
	Reset(p model.Point)
	// Draft returns the point as currently entered.
	Draft() model.Point
	SetState(s EditorState)
	Shake(done func())
}

// ButtonView is the "New event" control.
type ButtonView interface {
	Node
	SetDisabled(disabled bool)
}

type PointHandlers struct {
	OnEdit     func()
	OnFavorite func()
}

type EditorHandlers struct {
	OnSubmit func(draft model.Point)
	OnCancel func()
	OnDelete func(draft model.Point)
}

// MessageKind selects the text block shown instead of the list.
type MessageKind int

const (
	MessageLoading MessageKind = iota
	MessageEmpty
	MessageError
)

const (
	LoadingText = "Loading..."
	FailedText  = "Failed to load latest route information"
)

// FilterItem is one filter control.
type FilterItem struct {
	Type     model.FilterType
	Count    int
	Disabled bool
}

// SortItem is one sort control.
type SortItem struct {
	Type     model.SortType
	Disabled bool
}

// Views builds view instances. Implementations resolve offers and
// destinations themselves.
type Views interface {
	PointView(p model.Point, h PointHandlers) PointView
	EditorView(p model.Point, isNew bool, h EditorHandlers) EditorView
	ListView() ListView
	SortView(items []SortItem, current model.SortType, onChange func(model.SortType)) Node
	MessageView(kind MessageKind, text string) Node
	ButtonView(onClick func()) ButtonView
	FilterView(items []FilterItem, current model.FilterType, onChange func(model.FilterType)) Node
	TripInfoView(s util.TripSummary) Node
}

// ActionFunc dispatches a user action to the models.
type ActionFunc func(action model.UserAction, ut model.UpdateType, p model.Point)

// PointsSource is the read side of the points model.
type PointsSource interface {
	Points() []model.Point
	Subscribe(fn func(model.Event)) func()
}

// PointsModel is the points model as the board uses it.
type PointsModel interface {
	PointsSource
	UpdatePoint(ctx context.Context, ut model.UpdateType, p model.Point, done func(error))
	AddPoint(ctx context.Context, ut model.UpdateType, p model.Point, done func(error))
	DeletePoint(ctx context.Context, ut model.UpdateType, p model.Point, done func(error))
}

// FilterModel is the filter model as presenters use it.
type FilterModel interface {
	Filter() model.FilterType
	SetFilter(ut model.UpdateType, f model.FilterType)
	Subscribe(fn func(model.Event)) func()
}

// Subscriber is anything observers can register with.
type Subscriber interface {
	Subscribe(fn func(model.Event)) func()
}
