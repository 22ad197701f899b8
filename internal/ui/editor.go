package ui

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"bigtrip/internal/model"
	"bigtrip/internal/presenter"
	"bigtrip/internal/util"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type editorField int

const (
	fieldType editorField = iota
	fieldDestination
	fieldStart
	fieldEnd
	fieldPrice
	fieldOffers
	fieldCount
)

var fieldLabels = [fieldCount]string{"Type", "Destination", "From", "To", "Price", "Offers"}

// editorView is the form of a point. The same view serves new and
// existing points; only the delete control differs.
type editorView struct {
	shaker
	views *Views
	isNew bool
	h     presenter.EditorHandlers

	base        model.Point
	resetName   string
	pointType   model.PointType
	destination textinput.Model
	start       textinput.Model
	end         textinput.Model
	price       textinput.Model
	offers      []string
	offerCursor int

	focus editorField
	state presenter.EditorState
	err   string
}

func newEditorView(v *Views, p model.Point, isNew bool, h presenter.EditorHandlers) *editorView {
	e := &editorView{
		shaker:      shaker{sched: v.sched},
		views:       v,
		isNew:       isNew,
		h:           h,
		destination: newInput("Start typing a city", 64),
		start:       newInput("dd/mm/yy hh:mm", 16),
		end:         newInput("dd/mm/yy hh:mm", 16),
		price:       newInput("0", 9),
	}

	destinations := v.catalog.Destinations()
	names := make([]string, 0, len(destinations))
	for _, d := range destinations {
		names = append(names, d.Name)
	}
	e.destination.ShowSuggestions = true
	e.destination.SetSuggestions(names)
	e.destination.KeyMap.AcceptSuggestion = key.NewBinding(key.WithKeys("right"))

	e.Reset(p)
	e.setFocus(fieldType)
	return e
}

func newInput(placeholder string, limit int) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.Prompt = ""
	in.Cursor.SetMode(cursor.CursorStatic)
	return in
}

func (e *editorView) Reset(p model.Point) {
	e.base = p.Clone()
	e.pointType = p.Type
	e.resetName = ""
	if d, ok := e.views.catalog.Destination(p.DestinationID); ok {
		e.resetName = d.Name
	}
	e.destination.SetValue(e.resetName)
	e.start.SetValue(util.FormatEditorDate(p.StartDate))
	e.end.SetValue(util.FormatEditorDate(p.EndDate))
	e.price.SetValue(strconv.Itoa(p.Price))
	e.offers = slices.Clone(p.Offers)
	if e.offers == nil {
		e.offers = []string{}
	}
	e.offerCursor = 0
	e.err = ""
}

// Draft returns the point as entered. Fields that do not parse keep their
// last saved value.
func (e *editorView) Draft() model.Point {
	p, _ := e.parse()
	return p
}

func (e *editorView) SetState(s presenter.EditorState) {
	e.state = s
}

// parse reads the form and reports the first field that does not parse.
func (e *editorView) parse() (model.Point, error) {
	p := e.base.Clone()
	p.Type = e.pointType
	p.Offers = e.selectedOffers()

	var first error
	fail := func(err error) {
		if first == nil {
			first = err
		}
	}

	if id, ok := e.destinationID(); ok {
		p.DestinationID = id
	} else {
		fail(errors.New("choose a destination from the list"))
	}

	loc := e.location()
	if start, err := util.ParseEditorDate(e.start.Value(), loc); err == nil {
		p.StartDate = start
	} else {
		fail(fmt.Errorf("invalid start date: %w", err))
	}
	if end, err := util.ParseEditorDate(e.end.Value(), loc); err == nil {
		p.EndDate = end
	} else {
		fail(fmt.Errorf("invalid end date: %w", err))
	}
	if p.EndDate.Before(p.StartDate) {
		fail(errors.New("end date must not be before start date"))
	}

	if price, err := strconv.Atoi(strings.TrimSpace(e.price.Value())); err == nil && price >= 0 {
		p.Price = price
	} else {
		fail(errors.New("price must be a whole number of zero or more"))
	}

	return p, first
}

// Update handles a key press while the form is open.
func (e *editorView) Update(msg tea.KeyMsg) tea.Cmd {
	if e.state.Saving || e.state.Deleting {
		return nil
	}

	keys := e.views.formKeys
	switch {
	case key.Matches(msg, keys.Save):
		e.submit()
		return nil
	case key.Matches(msg, keys.Delete):
		if e.h.OnDelete != nil {
			e.h.OnDelete(e.Draft())
		}
		return nil
	case key.Matches(msg, keys.NextField):
		e.setFocus((e.focus + 1) % fieldCount)
		return nil
	case key.Matches(msg, keys.PrevField):
		e.setFocus((e.focus + fieldCount - 1) % fieldCount)
		return nil
	}

	switch e.focus {
	case fieldType:
		switch {
		case key.Matches(msg, keys.PrevOption):
			e.cycleType(-1)
		case key.Matches(msg, keys.NextOption):
			e.cycleType(1)
		}
		return nil
	case fieldOffers:
		offers := e.views.catalog.OffersByType(e.pointType)
		switch {
		case key.Matches(msg, keys.OptionUp):
			e.offerCursor = max(0, e.offerCursor-1)
		case key.Matches(msg, keys.OptionDown):
			e.offerCursor = max(0, min(len(offers)-1, e.offerCursor+1))
		case key.Matches(msg, keys.Toggle):
			if e.offerCursor < len(offers) {
				e.toggleOffer(offers[e.offerCursor].ID)
			}
		}
		return nil
	}

	input := e.input(e.focus)
	var cmd tea.Cmd
	*input, cmd = input.Update(msg)
	return cmd
}

func (e *editorView) submit() {
	p, err := e.parse()
	if err != nil {
		e.err = err.Error()
		e.Shake(nil)
		return
	}
	e.err = ""
	if e.h.OnSubmit != nil {
		e.h.OnSubmit(p)
	}
}

func (e *editorView) input(f editorField) *textinput.Model {
	switch f {
	case fieldDestination:
		return &e.destination
	case fieldStart:
		return &e.start
	case fieldEnd:
		return &e.end
	case fieldPrice:
		return &e.price
	default:
		return nil
	}
}

func (e *editorView) setFocus(f editorField) {
	for _, in := range []*textinput.Model{&e.destination, &e.start, &e.end, &e.price} {
		in.Blur()
	}
	e.focus = f
	if in := e.input(f); in != nil {
		in.Focus()
	}
}

// cycleType switches the point type. Offers belong to a type, so the
// selection is cleared.
func (e *editorView) cycleType(delta int) {
	n := len(model.PointTypes)
	i := max(0, slices.Index(model.PointTypes, e.pointType))
	e.pointType = model.PointTypes[(i+delta+n)%n]
	e.offers = []string{}
	e.offerCursor = 0
}

func (e *editorView) toggleOffer(id string) {
	if i := slices.Index(e.offers, id); i >= 0 {
		e.offers = slices.Delete(e.offers, i, i+1)
		return
	}
	e.offers = append(e.offers, id)
}

// selectedOffers returns the checked offers of the current type in
// catalog order.
func (e *editorView) selectedOffers() []string {
	ids := []string{}
	for _, o := range e.views.catalog.OffersByType(e.pointType) {
		if slices.Contains(e.offers, o.ID) {
			ids = append(ids, o.ID)
		}
	}
	return ids
}

func (e *editorView) destinationID() (string, bool) {
	name := strings.TrimSpace(e.destination.Value())
	if name != "" && name == e.resetName {
		return e.base.DestinationID, true
	}
	for _, d := range e.views.catalog.Destinations() {
		if name != "" && strings.EqualFold(d.Name, name) {
			return d.ID, true
		}
	}
	return "", false
}

func (e *editorView) currentDestination() (model.Destination, bool) {
	id, ok := e.destinationID()
	if !ok {
		return model.Destination{}, false
	}
	return e.views.catalog.Destination(id)
}

func (e *editorView) location() *time.Location {
	if !e.base.StartDate.IsZero() {
		return e.base.StartDate.Location()
	}
	return time.Local
}

// prefetchPictures starts loading the pictures of the chosen destination.
func (e *editorView) prefetchPictures() {
	if !e.views.showPictures || e.views.pictures == nil {
		return
	}
	dest, ok := e.currentDestination()
	if !ok {
		return
	}
	srcs := make([]string, 0, maxPictures)
	for _, pic := range dest.Pictures[:min(len(dest.Pictures), maxPictures)] {
		srcs = append(srcs, pic.Src)
	}
	e.views.pictures.Prefetch(srcs)
}

func (e *editorView) View(width int) string {
	rows := []string{
		e.row(fieldType, "‹ "+typeLabel(e.pointType)+" ›"),
		e.row(fieldDestination, InputStyle.Render(e.destination.View())),
		e.row(fieldStart, InputStyle.Render(e.start.View())),
		e.row(fieldEnd, InputStyle.Render(e.end.View())),
		e.row(fieldPrice, "€ "+InputStyle.Render(e.price.View())),
		e.row(fieldOffers, e.offersView()),
	}

	if dest, ok := e.currentDestination(); ok {
		rows = append(rows, "", e.destinationView(dest, width-10))
	}

	rows = append(rows, "", e.controlsView())
	if e.err != "" {
		rows = append(rows, ErrorStyle.Render(e.err))
	}

	style := EditorStyle
	if e.shaking {
		style = ShakeStyle.Padding(1, 2)
	}
	return style.Width(max(0, width-2)).Render(strings.Join(rows, "\n"))
}

func (e *editorView) row(f editorField, value string) string {
	label := LabelStyle.Width(13).Render(fieldLabels[f])
	if f == e.focus {
		label = ActiveLabelStyle.Width(13).Render(fieldLabels[f])
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, label, " ", value)
}

func (e *editorView) offersView() string {
	offers := e.views.catalog.OffersByType(e.pointType)
	if len(offers) == 0 {
		return MutedStyle.Render("No offers for this type")
	}

	lines := make([]string, 0, len(offers))
	for i, o := range offers {
		mark := "[ ]"
		if slices.Contains(e.offers, o.ID) {
			mark = "[x]"
		}
		line := fmt.Sprintf("%s %s  +%s", mark, o.Title, util.FormatPrice(o.Price))
		if e.focus == fieldOffers && i == e.offerCursor {
			line = ActiveLabelStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (e *editorView) destinationView(dest model.Destination, width int) string {
	parts := []string{LabelStyle.Render(dest.Name)}
	if dest.Description != "" {
		parts = append(parts, lipgloss.NewStyle().Width(max(20, width)).Render(dest.Description))
	}

	if e.views.showPictures && e.views.pictures != nil && len(dest.Pictures) > 0 {
		var pics []string
		for _, pic := range dest.Pictures[:min(len(dest.Pictures), maxPictures)] {
			ascii, state := e.views.pictures.Lookup(pic.Src)
			switch state {
			case pictureReady:
				pics = append(pics, ascii)
			case pictureFailed:
				pics = append(pics, MutedStyle.Width(pictureWidth).Render("picture unavailable"))
			default:
				pics = append(pics, MutedStyle.Width(pictureWidth).Render("loading picture..."))
			}
			pics = append(pics, "  ")
		}
		parts = append(parts, lipgloss.JoinHorizontal(lipgloss.Top, pics...))
	}
	return strings.Join(parts, "\n")
}

func (e *editorView) controlsView() string {
	save := "Save"
	if e.state.Saving {
		save = "Saving..."
	}

	del := "Delete"
	if e.isNew {
		del = "Cancel"
	}
	if e.state.Deleting {
		del = "Deleting..."
	}

	return strings.Join([]string{
		helpKey("ctrl+s", save),
		helpKey("ctrl+d", del),
		helpKey("esc", "Close"),
	}, "  ")
}
