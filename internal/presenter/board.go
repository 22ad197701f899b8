package presenter

import (
	"context"
	"strconv"
	"time"

	"bigtrip/internal/model"
	"bigtrip/internal/util"

	"go.uber.org/zap"
)

const newPointKey = "\x00new"

// Board is the top-level presenter of the trip list. It owns the sort
// order, one PointPresenter per visible point, the creation form and the
// loading, failure and empty states.
type Board struct {
	ctx             context.Context
	container       Container
	buttonContainer Container
	views           Views
	points          PointsModel
	filter          FilterModel
	escape          *EscapeBus
	log             *zap.Logger
	now             func() time.Time
	onError         func(action model.UserAction, err error)

	list       ListView
	button     ButtonView
	sortView   Node
	emptyView  Node
	loadView   Node
	errorView  Node
	sortType   model.SortType
	presenters map[string]*PointPresenter
	newPoint   *NewPointFormPresenter
	inFlight   map[string]bool

	isLoading  bool
	loadFailed bool
	isAdding   bool
}

type BoardConfig struct {
	Container       Container
	ButtonContainer Container
	Views           Views
	Points          PointsModel
	Filter          FilterModel
	Escape          *EscapeBus
	Log             *zap.Logger
	// Now defaults to time.Now.
	Now func() time.Time
	// OnError is told about every rejected request.
	OnError func(action model.UserAction, err error)
}

// NewBoard creates the board and subscribes it to the points and filter
// models. ctx is passed to every model call.
func NewBoard(ctx context.Context, cfg BoardConfig) *Board {
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.OnError == nil {
		cfg.OnError = func(model.UserAction, error) {}
	}
	b := &Board{
		ctx:             ctx,
		container:       cfg.Container,
		buttonContainer: cfg.ButtonContainer,
		views:           cfg.Views,
		points:          cfg.Points,
		filter:          cfg.Filter,
		escape:          cfg.Escape,
		log:             cfg.Log,
		now:             cfg.Now,
		onError:         cfg.OnError,
		list:            cfg.Views.ListView(),
		sortType:        model.SortDay,
		presenters:      make(map[string]*PointPresenter),
		inFlight:        make(map[string]bool),
		isLoading:       true,
	}
	b.button = cfg.Views.ButtonView(b.handleNewPointClick)
	b.button.SetDisabled(true)
	b.newPoint = NewNewPointPresenter(b.list, b.views, b.escape, b.handleViewAction, b.handleNewPointClose, b.now)

	b.points.Subscribe(b.handleModelEvent)
	b.filter.Subscribe(b.handleModelEvent)
	return b
}

// Init mounts the board in its loading state.
func (b *Board) Init() {
	b.buttonContainer.Append(b.button)
	b.container.Append(b.list)
	b.renderBoard(false)
}

// Visible returns the points as currently shown: filtered, then sorted.
func (b *Board) Visible() []model.Point {
	filtered := util.Filter(b.points.Points(), b.filter.Filter(), b.now())
	return util.Sort(filtered, b.sortType)
}

func (b *Board) SortType() model.SortType {
	return b.sortType
}

// InFlight returns the number of requests awaiting the backend.
func (b *Board) InFlight() int {
	return len(b.inFlight)
}

// Adding reports whether the creation form is open.
func (b *Board) Adding() bool {
	return b.isAdding
}

// Presenter returns the presenter of a rendered point.
func (b *Board) Presenter(id string) (*PointPresenter, bool) {
	pp, ok := b.presenters[id]
	return pp, ok
}

// SetSort switches the sort order. Choosing the active or a disabled
// order does nothing.
func (b *Board) SetSort(s model.SortType) {
	b.handleSortChange(s)
}

// NewPoint opens the creation form, as the "New event" button does.
func (b *Board) NewPoint() {
	b.handleNewPointClick()
}

func (b *Board) handleViewAction(action model.UserAction, ut model.UpdateType, p model.Point) {
	key := p.ID
	form := b.newPoint.Form()
	if action == model.ActionAdd {
		key = newPointKey + strconv.Itoa(form)
	}
	if b.inFlight[key] {
		b.log.Warn("request already in flight, dropping",
			zap.Stringer("action", action),
			zap.String("id", p.ID),
		)
		b.onError(action, model.ErrInFlight)
		if pp, ok := b.presenters[p.ID]; ok && action != model.ActionAdd {
			pp.Shake()
		}
		return
	}
	b.inFlight[key] = true

	switch action {
	case model.ActionUpdate:
		if pp, ok := b.presenters[p.ID]; ok {
			pp.SetSaving()
		}
		b.points.UpdatePoint(b.ctx, ut, p, func(err error) {
			delete(b.inFlight, key)
			if err != nil {
				b.abortPoint(action, p.ID, err)
			}
		})
	case model.ActionAdd:
		b.newPoint.SetSaving()
		b.points.AddPoint(b.ctx, ut, p, func(err error) {
			delete(b.inFlight, key)
			// Only the form that sent the request reacts to its result.
			sender := b.newPoint.Form() == form
			if err != nil {
				b.log.Warn("failed to add point", zap.Error(err))
				b.onError(action, err)
				if sender {
					b.newPoint.SetAborting()
				}
				return
			}
			if sender {
				b.newPoint.Destroy()
			}
		})
	case model.ActionDelete:
		if pp, ok := b.presenters[p.ID]; ok {
			pp.SetDeleting()
		}
		b.points.DeletePoint(b.ctx, ut, p, func(err error) {
			delete(b.inFlight, key)
			if err != nil {
				b.abortPoint(action, p.ID, err)
			}
		})
	}
}

func (b *Board) abortPoint(action model.UserAction, id string, err error) {
	b.log.Warn("request rejected",
		zap.Stringer("action", action),
		zap.String("id", id),
		zap.Error(err),
	)
	b.onError(action, err)
	if pp, ok := b.presenters[id]; ok {
		pp.SetAborting()
	}
}

func (b *Board) handleModelEvent(e model.Event) {
	switch ev := e.(type) {
	case model.PatchEvent:
		if pp, ok := b.presenters[ev.Point.ID]; ok {
			pp.Init(ev.Point)
		}
	case model.MinorEvent:
		b.clearBoard()
		b.renderBoard(false)
	case model.MajorEvent:
		b.clearBoard()
		b.renderBoard(true)
	case model.InitEvent:
		b.isLoading = false
		b.clearBoard()
		b.renderBoard(false)
		b.button.SetDisabled(false)
	case model.ErrorEvent:
		b.isLoading = false
		b.loadFailed = true
		b.clearBoard()
		b.renderBoard(false)
	}
}

// handleModeChange collapses every open form before another one opens.
func (b *Board) handleModeChange() {
	for _, pp := range b.presenters {
		pp.ResetView()
	}
	b.newPoint.Destroy()
}

func (b *Board) handleSortChange(s model.SortType) {
	if s == b.sortType || !s.Enabled() {
		return
	}
	b.sortType = s
	b.clearPoints()
	b.renderSort()
	b.renderPoints(b.Visible())
}

func (b *Board) handleNewPointClick() {
	if b.isLoading || b.loadFailed || b.isAdding {
		return
	}
	b.isAdding = true
	b.sortType = model.SortDay
	b.filter.SetFilter(model.UpdateMajor, model.FilterEverything)
	b.handleModeChange()
	b.newPoint.Init()
	b.button.SetDisabled(true)
	b.removeEmpty()
}

func (b *Board) handleNewPointClose() {
	b.button.SetDisabled(false)
	b.isAdding = false
	if !b.isLoading && !b.loadFailed && len(b.Visible()) == 0 {
		b.renderEmpty()
	}
}

func (b *Board) renderBoard(resetSort bool) {
	if b.isLoading {
		b.loadView = b.views.MessageView(MessageLoading, LoadingText)
		b.container.Append(b.loadView)
		return
	}
	if b.loadFailed {
		b.errorView = b.views.MessageView(MessageError, FailedText)
		b.container.Append(b.errorView)
		return
	}
	if resetSort {
		b.sortType = model.SortDay
	}

	points := b.Visible()
	if len(points) == 0 {
		b.renderEmpty()
		return
	}
	b.renderSort()
	b.renderPoints(points)
}

func (b *Board) renderSort() {
	items := make([]SortItem, 0, len(model.SortTypes))
	for _, s := range model.SortTypes {
		items = append(items, SortItem{Type: s, Disabled: !s.Enabled()})
	}
	next := b.views.SortView(items, b.sortType, b.handleSortChange)
	if b.sortView == nil {
		b.container.Prepend(next)
	} else {
		b.container.Replace(next, b.sortView)
	}
	b.sortView = next
}

func (b *Board) renderPoints(points []model.Point) {
	for _, p := range points {
		pp := NewPointPresenter(b.list, b.views, b.escape, b.handleViewAction, b.handleModeChange)
		pp.Init(p)
		b.presenters[p.ID] = pp
	}
}

func (b *Board) renderEmpty() {
	if b.isAdding {
		return
	}
	b.removeEmpty()
	b.emptyView = b.views.MessageView(MessageEmpty, model.NoPointsTexts[b.filter.Filter()])
	b.container.Append(b.emptyView)
}

func (b *Board) removeEmpty() {
	if b.emptyView != nil {
		b.container.Remove(b.emptyView)
		b.emptyView = nil
	}
}

func (b *Board) clearBoard() {
	b.removeEmpty()
	for _, n := range []*Node{&b.loadView, &b.errorView, &b.sortView} {
		if *n != nil {
			b.container.Remove(*n)
			*n = nil
		}
	}
	b.clearPoints()
}

func (b *Board) clearPoints() {
	for id, pp := range b.presenters {
		pp.Destroy()
		delete(b.presenters, id)
	}
}
