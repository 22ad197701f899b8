package ui

import (
	"slices"
	"testing"
	"time"

	"bigtrip/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

// ---- catalog ---------------------------------------------------------------

type fakeCatalog struct {
	offers map[model.PointType][]model.Offer
	dests  []model.Destination
}

func (c fakeCatalog) OffersByType(t model.PointType) []model.Offer {
	return c.offers[t]
}

func (c fakeCatalog) Destinations() []model.Destination {
	return c.dests
}

func (c fakeCatalog) Destination(id string) (model.Destination, bool) {
	i := slices.IndexFunc(c.dests, func(d model.Destination) bool { return d.ID == id })
	if i < 0 {
		return model.Destination{}, false
	}
	return c.dests[i], true
}

func (c fakeCatalog) SelectedOffers(p model.Point) []model.Offer {
	var out []model.Offer
	for _, o := range c.offers[p.Type] {
		if p.HasOffer(o.ID) {
			out = append(out, o)
		}
	}
	return out
}

func testCatalog() fakeCatalog {
	return fakeCatalog{
		offers: map[model.PointType][]model.Offer{
			model.TypeTaxi: {
				{ID: "o1", Title: "Upgrade", Price: 50},
				{ID: "o2", Title: "Radio", Price: 5},
			},
			model.TypeFlight: {
				{ID: "o3", Title: "Meal", Price: 15},
			},
		},
		dests: []model.Destination{
			{ID: "d1", Name: "Amsterdam", Description: "Canals.", Pictures: []model.Picture{{Src: "http://img/1.png"}}},
			{ID: "d2", Name: "Geneva"},
		},
	}
}

var testStart = time.Date(2025, 7, 10, 10, 0, 0, 0, time.UTC)

func testPoint() model.Point {
	return model.Point{
		ID:            "p1",
		Type:          model.TypeTaxi,
		StartDate:     testStart,
		EndDate:       testStart.Add(90 * time.Minute),
		Price:         120,
		DestinationID: "d1",
		Offers:        []string{"o1"},
		IsFavorite:    true,
	}
}

// ---- keys ------------------------------------------------------------------

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keyTab      = tea.KeyMsg{Type: tea.KeyTab}
	keyShiftTab = tea.KeyMsg{Type: tea.KeyShiftTab}
	keyEnter    = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc      = tea.KeyMsg{Type: tea.KeyEsc}
	keyRight    = tea.KeyMsg{Type: tea.KeyRight}
	keyDown     = tea.KeyMsg{Type: tea.KeyDown}
	keySpace    = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	keyCtrlS    = tea.KeyMsg{Type: tea.KeyCtrlS}
	keyCtrlD    = tea.KeyMsg{Type: tea.KeyCtrlD}
)

// ---- commands --------------------------------------------------------------

// collect runs cmd and every command batched inside it, returning the
// messages that are not batches. Timer commands block until they fire.
func collect(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	var out []tea.Msg
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case nil:
		default:
			out = append(out, msg)
		}
	}
	return out
}
