package presenter

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"bigtrip/internal/api"
	"bigtrip/internal/async"
	"bigtrip/internal/model"
	"bigtrip/internal/store"
	"bigtrip/internal/util"

	"github.com/stretchr/testify/require"
)

// ---- containers ------------------------------------------------------------

type fakeContainer struct {
	nodes []Node
}

func (c *fakeContainer) Append(n Node)  { c.nodes = append(c.nodes, n) }
func (c *fakeContainer) Prepend(n Node) { c.nodes = append([]Node{n}, c.nodes...) }

func (c *fakeContainer) Replace(next, prev Node) {
	if i := slices.Index(c.nodes, prev); i >= 0 {
		c.nodes[i] = next
	}
}

func (c *fakeContainer) Remove(n Node) {
	if i := slices.Index(c.nodes, n); i >= 0 {
		c.nodes = slices.Delete(c.nodes, i, i+1)
	}
}

type fakeList struct {
	fakeContainer
}

func (l *fakeList) View(int) string { return "list" }

// ---- views -----------------------------------------------------------------

type fakeCard struct {
	point  model.Point
	h      PointHandlers
	shakes int
}

func (c *fakeCard) View(int) string { return "card:" + c.point.ID }
func (c *fakeCard) Shake(done func()) {
	c.shakes++
	if done != nil {
		done()
	}
}

type fakeEditor struct {
	point  model.Point
	draft  model.Point
	isNew  bool
	h      EditorHandlers
	state  EditorState
	states []EditorState
	shakes int
}

func (e *fakeEditor) View(int) string     { return "editor:" + e.point.ID }
func (e *fakeEditor) Reset(p model.Point) { e.draft = p.Clone() }
func (e *fakeEditor) Draft() model.Point  { return e.draft.Clone() }
func (e *fakeEditor) SetState(s EditorState) {
	e.state = s
	e.states = append(e.states, s)
}
func (e *fakeEditor) Shake(done func()) {
	e.shakes++
	if done != nil {
		done()
	}
}

func (e *fakeEditor) submit() { e.h.OnSubmit(e.Draft()) }

type fakeMessage struct {
	kind MessageKind
	text string
}

func (m *fakeMessage) View(int) string { return m.text }

type fakeButton struct {
	disabled bool
	onClick  func()
}

func (b *fakeButton) View(int) string    { return "button" }
func (b *fakeButton) SetDisabled(d bool) { b.disabled = d }
func (b *fakeButton) click()             { b.onClick() }

type fakeSort struct {
	items    []SortItem
	current  model.SortType
	onChange func(model.SortType)
}

func (s *fakeSort) View(int) string { return "sort:" + string(s.current) }

type fakeFilter struct {
	items    []FilterItem
	current  model.FilterType
	onChange func(model.FilterType)
}

func (f *fakeFilter) View(int) string { return "filter:" + string(f.current) }

type fakeTripInfo struct {
	summary util.TripSummary
}

func (i *fakeTripInfo) View(int) string { return i.summary.Route }

type fakeViews struct {
	list    *fakeList
	cards   map[string]*fakeCard
	editors map[string]*fakeEditor
	created []*fakeEditor
	button  *fakeButton
	sort    *fakeSort
	filter  *fakeFilter
	info    *fakeTripInfo
}

func newFakeViews() *fakeViews {
	return &fakeViews{
		list:    &fakeList{},
		cards:   map[string]*fakeCard{},
		editors: map[string]*fakeEditor{},
	}
}

func (v *fakeViews) PointView(p model.Point, h PointHandlers) PointView {
	c := &fakeCard{point: p.Clone(), h: h}
	v.cards[p.ID] = c
	return c
}

func (v *fakeViews) EditorView(p model.Point, isNew bool, h EditorHandlers) EditorView {
	e := &fakeEditor{point: p.Clone(), draft: p.Clone(), isNew: isNew, h: h}
	if !isNew {
		v.editors[p.ID] = e
	}
	v.created = append(v.created, e)
	return e
}

func (v *fakeViews) ListView() ListView { return v.list }

func (v *fakeViews) SortView(items []SortItem, current model.SortType, onChange func(model.SortType)) Node {
	v.sort = &fakeSort{items: items, current: current, onChange: onChange}
	return v.sort
}

func (v *fakeViews) MessageView(kind MessageKind, text string) Node {
	return &fakeMessage{kind: kind, text: text}
}

func (v *fakeViews) ButtonView(onClick func()) ButtonView {
	v.button = &fakeButton{onClick: onClick}
	return v.button
}

func (v *fakeViews) FilterView(items []FilterItem, current model.FilterType, onChange func(model.FilterType)) Node {
	v.filter = &fakeFilter{items: items, current: current, onChange: onChange}
	return v.filter
}

func (v *fakeViews) TripInfoView(s util.TripSummary) Node {
	v.info = &fakeTripInfo{summary: s}
	return v.info
}

// lastNewEditor returns the most recent creation form.
func (v *fakeViews) lastNewEditor() *fakeEditor {
	for i := len(v.created) - 1; i >= 0; i-- {
		if v.created[i].isNew {
			return v.created[i]
		}
	}
	return nil
}

// ---- backend ---------------------------------------------------------------

var errRejected = errors.New("rejected")

type fakeBackend struct {
	points    []api.RawPoint
	listErr   error
	updateErr error
	createErr error
	deleteErr error
	updates   []api.RawPoint
	creates   []api.RawPoint
	deletes   []string
}

func (b *fakeBackend) ListPoints(context.Context) ([]api.RawPoint, error) {
	if b.listErr != nil {
		return nil, b.listErr
	}
	return slices.Clone(b.points), nil
}

func (b *fakeBackend) CreatePoint(_ context.Context, p api.RawPoint) (api.RawPoint, error) {
	b.creates = append(b.creates, p)
	if b.createErr != nil {
		return api.RawPoint{}, b.createErr
	}
	return p, nil
}

func (b *fakeBackend) UpdatePoint(_ context.Context, _ string, p api.RawPoint) (api.RawPoint, error) {
	b.updates = append(b.updates, p)
	if b.updateErr != nil {
		return api.RawPoint{}, b.updateErr
	}
	return p, nil
}

func (b *fakeBackend) DeletePoint(_ context.Context, id string) error {
	b.deletes = append(b.deletes, id)
	return b.deleteErr
}

func (b *fakeBackend) ListOffers(context.Context) ([]api.RawOfferGroup, error) {
	return []api.RawOfferGroup{
		{Type: "taxi", Offers: []api.RawOffer{{ID: "o1", Title: "Upgrade", Price: 50}}},
		{Type: "flight", Offers: []api.RawOffer{{ID: "o2", Title: "Meal", Price: 15}}},
	}, nil
}

func (b *fakeBackend) ListDestinations(context.Context) ([]api.RawDestination, error) {
	return []api.RawDestination{
		{ID: "d1", Name: "Amsterdam"},
		{ID: "d2", Name: "Geneva"},
	}, nil
}

// ---- harness ---------------------------------------------------------------

var testNow = time.Date(2025, 7, 10, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return testNow }

func raw(id string, start time.Time, hours int, price int) api.RawPoint {
	return api.RawPoint{
		ID:          id,
		Type:        "taxi",
		DateFrom:    start,
		DateTo:      start.Add(time.Duration(hours) * time.Hour),
		BasePrice:   price,
		Destination: "d1",
		Offers:      []string{"o1"},
	}
}

// tripPoints are, in day order: c (past), b (present), a (future).
func tripPoints() []api.RawPoint {
	return []api.RawPoint{
		raw("a", testNow.Add(24*time.Hour), 1, 100),
		raw("b", testNow.Add(-time.Hour), 5, 300),
		raw("c", testNow.Add(-48*time.Hour), 2, 200),
	}
}

type harness struct {
	t        *testing.T
	backend  *fakeBackend
	queue    *async.Queue
	offers   *store.OffersModel
	dests    *store.DestinationsModel
	points   *store.PointsModel
	filter   *store.FilterModel
	views    *fakeViews
	escape   *EscapeBus
	main     *fakeContainer
	controls *fakeContainer
	board    *Board
}

// newHarness builds a board over real models. Requests stay queued until
// flush is called.
func newHarness(t *testing.T, backend *fakeBackend) *harness {
	t.Helper()
	h := &harness{
		t:        t,
		backend:  backend,
		queue:    &async.Queue{},
		views:    newFakeViews(),
		escape:   NewEscapeBus(nil),
		main:     &fakeContainer{},
		controls: &fakeContainer{},
	}
	h.offers = store.NewOffersModel(backend, h.queue, nil)
	h.dests = store.NewDestinationsModel(backend, h.queue, nil)
	h.points = store.NewPointsModel(backend, h.queue, store.NewCatalog(h.offers, h.dests), nil)
	h.filter = store.NewFilterModel(model.FilterEverything, nil)

	h.board = NewBoard(context.Background(), BoardConfig{
		Container:       h.main,
		ButtonContainer: h.controls,
		Views:           h.views,
		Points:          h.points,
		Filter:          h.filter,
		Escape:          h.escape,
		Now:             clock,
	})
	h.board.Init()
	store.Bootstrap(context.Background(), h.queue, h.offers, h.dests, h.points)
	return h
}

// loaded builds a harness and completes the initial load.
func loaded(t *testing.T, backend *fakeBackend) *harness {
	t.Helper()
	h := newHarness(t, backend)
	h.flush()
	return h
}

func (h *harness) flush() { h.queue.Flush() }

// list describes the list contents in order.
func (h *harness) list() []string {
	out := make([]string, 0, len(h.views.list.nodes))
	for _, n := range h.views.list.nodes {
		switch v := n.(type) {
		case *fakeCard:
			out = append(out, "card:"+v.point.ID)
		case *fakeEditor:
			if v.isNew {
				out = append(out, "new")
			} else {
				out = append(out, "edit:"+v.point.ID)
			}
		}
	}
	return out
}

// messages returns the texts of message views on the board.
func (h *harness) messages() []string {
	var out []string
	for _, n := range h.main.nodes {
		if m, ok := n.(*fakeMessage); ok {
			out = append(out, m.text)
		}
	}
	return out
}

func (h *harness) card(id string) *fakeCard {
	h.t.Helper()
	c, ok := h.views.cards[id]
	require.True(h.t, ok, "no card for %s", id)
	return c
}

func (h *harness) editor(id string) *fakeEditor {
	h.t.Helper()
	e, ok := h.views.editors[id]
	require.True(h.t, ok, "no editor for %s", id)
	return e
}

func (h *harness) presenter(id string) *PointPresenter {
	h.t.Helper()
	pp, ok := h.board.Presenter(id)
	require.True(h.t, ok, "no presenter for %s", id)
	return pp
}

func (h *harness) editing() int {
	n := 0
	for _, s := range h.list() {
		if strings.HasPrefix(s, "edit:") {
			n++
		}
	}
	return n
}
