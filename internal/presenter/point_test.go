package presenter

import (
	"context"
	"testing"
	"time"

	"bigtrip/internal/model"
	"bigtrip/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dispatched struct {
	action model.UserAction
	ut     model.UpdateType
	point  model.Point
}

func recordActions(into *[]dispatched) ActionFunc {
	return func(a model.UserAction, ut model.UpdateType, p model.Point) {
		*into = append(*into, dispatched{a, ut, p})
	}
}

func samplePoint() model.Point {
	return model.Point{
		ID:            "p1",
		Type:          model.TypeTaxi,
		StartDate:     testNow,
		EndDate:       testNow.Add(time.Hour),
		Price:         20,
		DestinationID: "d1",
		Offers:        []string{"o1"},
	}
}

// ---- escape bus ------------------------------------------------------------

func TestEscapeBus(t *testing.T) {
	bus := NewEscapeBus(nil)
	assert.False(t, bus.Press())

	presses := 0
	sub := bus.Acquire(func() { presses++ })
	assert.True(t, bus.Active())
	assert.True(t, bus.Press())

	sub.Release()
	sub.Release()
	var none *Subscription
	none.Release()

	assert.False(t, bus.Active())
	assert.False(t, bus.Press())
	assert.Equal(t, 1, presses)
}

// ---- point presenter -------------------------------------------------------

func TestPointPresenter_Lifecycle(t *testing.T) {
	list := &fakeList{}
	views := newFakeViews()
	bus := NewEscapeBus(nil)
	var actions []dispatched
	modeChanges := 0
	pp := NewPointPresenter(list, views, bus, recordActions(&actions), func() { modeChanges++ })

	pp.Init(samplePoint())
	require.Len(t, list.nodes, 1)
	assert.Same(t, views.cards["p1"], list.nodes[0])

	views.cards["p1"].h.OnEdit()
	assert.Equal(t, 1, modeChanges)
	assert.Same(t, views.editors["p1"], list.nodes[0])

	views.cards["p1"].h.OnEdit()
	assert.Equal(t, 1, modeChanges, "editing twice is ignored")

	pp.Destroy()
	assert.Empty(t, list.nodes)
	assert.False(t, bus.Active(), "destroy releases escape")
	assert.Empty(t, actions)
}

func TestPointPresenter_SubmitAndDeleteDispatch(t *testing.T) {
	list := &fakeList{}
	views := newFakeViews()
	var actions []dispatched
	pp := NewPointPresenter(list, views, NewEscapeBus(nil), recordActions(&actions), func() {})
	pp.Init(samplePoint())
	views.cards["p1"].h.OnEdit()

	form := views.editors["p1"]
	form.draft.ID = ""
	form.draft.Price = 75
	form.submit()
	form.h.OnDelete(form.Draft())

	require.Len(t, actions, 2)
	assert.Equal(t, model.ActionUpdate, actions[0].action)
	assert.Equal(t, model.UpdateMinor, actions[0].ut)
	assert.Equal(t, "p1", actions[0].point.ID)
	assert.Equal(t, 75, actions[0].point.Price)

	assert.Equal(t, model.ActionDelete, actions[1].action)
	assert.Equal(t, model.UpdateMinor, actions[1].ut)
	assert.Equal(t, 20, actions[1].point.Price, "delete targets the stored point")
}

func TestPointPresenter_StatesOnlyWhileEditing(t *testing.T) {
	list := &fakeList{}
	views := newFakeViews()
	pp := NewPointPresenter(list, views, NewEscapeBus(nil), func(model.UserAction, model.UpdateType, model.Point) {}, func() {})
	pp.Init(samplePoint())
	form := views.editors["p1"]

	pp.SetSaving()
	pp.SetDeleting()
	assert.Empty(t, form.states)

	views.cards["p1"].h.OnEdit()
	pp.SetSaving()
	assert.Equal(t, EditorState{Saving: true}, form.state)
	pp.SetAborting()
	assert.Equal(t, EditorState{}, form.state)
	assert.Equal(t, 1, form.shakes)
}

func TestPointPresenter_FavoriteOnlyFromCard(t *testing.T) {
	list := &fakeList{}
	views := newFakeViews()
	var actions []dispatched
	pp := NewPointPresenter(list, views, NewEscapeBus(nil), recordActions(&actions), func() {})
	pp.Init(samplePoint())
	card := views.cards["p1"]

	card.h.OnFavorite()
	require.Len(t, actions, 1)
	assert.Equal(t, model.UpdatePatch, actions[0].ut)
	assert.True(t, actions[0].point.IsFavorite)
	assert.False(t, pp.Point().IsFavorite, "stored point changes only on confirmation")

	views.cards["p1"].h.OnEdit()
	card.h.OnFavorite()
	assert.Len(t, actions, 1)
}

func TestPointPresenter_AbortAfterOpeningForm(t *testing.T) {
	list := &fakeList{}
	views := newFakeViews()
	pp := NewPointPresenter(list, views, NewEscapeBus(nil), func(model.UserAction, model.UpdateType, model.Point) {}, func() {})
	pp.Init(samplePoint())

	views.cards["p1"].h.OnFavorite()
	views.cards["p1"].h.OnEdit()
	pp.SetAborting()

	form := views.editors["p1"]
	assert.Zero(t, form.shakes, "the form did not send the favourite")
	assert.Empty(t, form.states)
	assert.False(t, views.cards["p1"].point.IsFavorite, "hidden card is reverted too")
	assert.Equal(t, 1, views.cards["p1"].shakes)

	form.h.OnCancel()
	assert.Same(t, views.cards["p1"], list.nodes[0])
}

func TestReconcile(t *testing.T) {
	base := samplePoint()

	draft := base.Clone()
	draft.Price = 99
	draft.Type = model.TypeBus
	draft.Offers = []string{"o3"}

	fresh := base.Clone()
	fresh.Price = 30
	fresh.DestinationID = "d2"
	fresh.IsFavorite = true

	got := reconcile(base, draft, fresh)

	assert.Equal(t, 99, got.Price)
	assert.Equal(t, model.TypeBus, got.Type)
	assert.Equal(t, []string{"o3"}, got.Offers)
	assert.Equal(t, "d2", got.DestinationID)
	assert.True(t, got.IsFavorite)
	assert.True(t, got.StartDate.Equal(base.StartDate))
}

// ---- new point presenter ---------------------------------------------------

func TestNewPointPresenter(t *testing.T) {
	list := &fakeList{}
	list.Append(&fakeCard{point: model.Point{ID: "x"}})
	views := newFakeViews()
	bus := NewEscapeBus(nil)
	var actions []dispatched
	closed := 0
	p := NewNewPointPresenter(list, views, bus, recordActions(&actions), func() { closed++ }, clock)

	p.Init()
	p.Init()
	require.Len(t, list.nodes, 2)
	form := views.lastNewEditor()
	assert.Same(t, form, list.nodes[0])
	assert.True(t, p.Active())

	form.draft.DestinationID = "d1"
	form.submit()
	require.Len(t, actions, 1)
	assert.Equal(t, model.ActionAdd, actions[0].action)
	assert.Equal(t, model.UpdateMajor, actions[0].ut)
	assert.NotEmpty(t, actions[0].point.ID)

	p.SetSaving()
	assert.Equal(t, EditorState{Saving: true}, form.state)
	p.SetAborting()
	assert.Equal(t, EditorState{}, form.state)

	require.True(t, bus.Press())
	p.Destroy()
	assert.Equal(t, 1, closed)
	assert.Len(t, list.nodes, 1)
	assert.False(t, p.Active())
	assert.False(t, bus.Active())

	p.SetSaving()
	p.SetAborting()
	assert.Equal(t, 1, form.shakes, "closed form ignores late results")
}

func TestBlankPoint(t *testing.T) {
	p := BlankPoint(time.Date(2025, 7, 10, 12, 34, 56, 0, time.UTC))

	assert.Equal(t, model.TypeFlight, p.Type)
	assert.Equal(t, time.Date(2025, 7, 10, 12, 34, 0, 0, time.UTC), p.StartDate)
	assert.Equal(t, p.StartDate, p.EndDate)
	assert.Zero(t, p.Price)
	assert.Empty(t, p.DestinationID)
	assert.Empty(t, p.Offers)
}

// ---- filter and header presenters ------------------------------------------

func TestFilterPresenter(t *testing.T) {
	h := newHarness(t, &fakeBackend{points: tripPoints()[:2]})
	controls := &fakeContainer{}
	fp := NewFilterPresenter(controls, h.views, h.points, h.filter, clock)
	fp.Init()
	h.flush()

	require.Len(t, controls.nodes, 1)
	assert.Equal(t, []FilterItem{
		{Type: model.FilterEverything, Count: 2},
		{Type: model.FilterFuture, Count: 1},
		{Type: model.FilterPresent, Count: 1},
		{Type: model.FilterPast, Count: 0, Disabled: true},
	}, h.views.filter.items)

	h.views.filter.onChange(model.FilterPast)
	assert.Equal(t, model.FilterEverything, h.filter.Filter(), "disabled filter is ignored")

	h.views.filter.onChange(model.FilterFuture)
	assert.Equal(t, model.FilterFuture, h.filter.Filter())
	assert.Equal(t, model.FilterFuture, h.views.filter.current)
	assert.Same(t, h.views.filter, controls.nodes[0])
	assert.Equal(t, []string{"card:a"}, h.list())
}

func TestHeaderPresenter(t *testing.T) {
	h := newHarness(t, &fakeBackend{points: tripPoints()})
	header := &fakeContainer{}
	hp := NewHeaderPresenter(header, h.views, h.points, store.NewCatalog(h.offers, h.dests), h.offers, h.dests)
	hp.Init()
	assert.Empty(t, header.nodes)

	h.flush()

	require.Len(t, header.nodes, 1)
	assert.Equal(t, "Amsterdam", h.views.info.summary.Route)
	assert.Equal(t, 100+300+200+3*50, h.views.info.summary.Total)
	assert.Equal(t, "8 Jul — 11 Jul", h.views.info.summary.Dates)
}

func TestHeaderPresenter_RemovedWhenTripEmpties(t *testing.T) {
	h := newHarness(t, &fakeBackend{points: tripPoints()[:1]})
	header := &fakeContainer{}
	NewHeaderPresenter(header, h.views, h.points, store.NewCatalog(h.offers, h.dests)).Init()
	h.flush()
	require.Len(t, header.nodes, 1)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	h.points.DeletePoint(ctx, model.UpdateMinor, h.points.Points()[0], nil)
	h.flush()

	assert.Empty(t, header.nodes)
}
