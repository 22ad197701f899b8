package ui

import (
	"fmt"
	"strings"
	"time"

	"bigtrip/internal/model"
	"bigtrip/internal/presenter"
	"bigtrip/internal/util"

	"github.com/charmbracelet/lipgloss"
)

const (
	shakeDuration      = 600 * time.Millisecond
	maxCardDestination = 32
)

// Catalog resolves the reference data views show next to a point.
type Catalog interface {
	util.Resolver
	OffersByType(t model.PointType) []model.Offer
	Destinations() []model.Destination
}

// Views builds the terminal views of the trip board.
type Views struct {
	catalog      Catalog
	sched        *Scheduler
	pictures     *pictureCache
	showPictures bool
	formKeys     FormKeyMap

	list   *ListNode
	sort   *sortView
	filter *filterView
	button *buttonView
}

var _ presenter.Views = (*Views)(nil)

// NewViews creates the factory. pictures may be nil.
func NewViews(catalog Catalog, sched *Scheduler, pictures *pictureCache, showPictures bool) *Views {
	return &Views{
		catalog:      catalog,
		sched:        sched,
		pictures:     pictures,
		showPictures: showPictures,
		formKeys:     DefaultFormKeyMap(),
		list:         &ListNode{},
	}
}

func (v *Views) PointView(p model.Point, h presenter.PointHandlers) presenter.PointView {
	c := &cardView{
		point:  p.Clone(),
		offers: v.catalog.SelectedOffers(p),
		h:      h,
		shaker: shaker{sched: v.sched},
	}
	if d, ok := v.catalog.Destination(p.DestinationID); ok {
		c.destination = util.TruncateString(d.Name, maxCardDestination)
	}
	return c
}

func (v *Views) EditorView(p model.Point, isNew bool, h presenter.EditorHandlers) presenter.EditorView {
	return newEditorView(v, p, isNew, h)
}

func (v *Views) ListView() presenter.ListView {
	return v.list
}

func (v *Views) SortView(items []presenter.SortItem, current model.SortType, onChange func(model.SortType)) presenter.Node {
	v.sort = &sortView{items: items, current: current, onChange: onChange}
	return v.sort
}

func (v *Views) MessageView(kind presenter.MessageKind, text string) presenter.Node {
	return &messageView{kind: kind, text: text}
}

func (v *Views) ButtonView(onClick func()) presenter.ButtonView {
	v.button = &buttonView{onClick: onClick}
	return v.button
}

func (v *Views) FilterView(items []presenter.FilterItem, current model.FilterType, onChange func(model.FilterType)) presenter.Node {
	v.filter = &filterView{items: items, current: current, onChange: onChange}
	return v.filter
}

func (v *Views) TripInfoView(s util.TripSummary) presenter.Node {
	return &tripInfoView{summary: s}
}

// ---- card ------------------------------------------------------------------

// shaker flags a view as shaking for a moment after a rejected request.
type shaker struct {
	sched   *Scheduler
	shaking bool
}

func (s *shaker) Shake(done func()) {
	s.shaking = true
	s.sched.After(shakeDuration, func() {
		s.shaking = false
		if done != nil {
			done()
		}
	})
}

type cardView struct {
	shaker
	point       model.Point
	destination string
	offers      []model.Offer
	h           presenter.PointHandlers
}

func (c *cardView) View(width int) string {
	p := c.point

	star := MutedStyle.Render("☆")
	if p.IsFavorite {
		star = FavoriteStyle.Render("★")
	}

	head := strings.Join([]string{
		DateStyle.Render(util.FormatCardDate(p.StartDate)),
		PointTitleStyle.Render(strings.TrimSpace(typeLabel(p.Type) + " " + c.destination)),
		util.FormatTime(p.StartDate) + " — " + util.FormatTime(p.EndDate),
		MutedStyle.Render(util.FormatDuration(p.Duration())),
		PriceStyle.Render(util.FormatPrice(p.Price)),
		star,
	}, "  ")

	lines := []string{head}
	for _, o := range c.offers {
		lines = append(lines, MutedStyle.Render(fmt.Sprintf("         + %s  +%s", o.Title, util.FormatPrice(o.Price))))
	}

	style := CardStyle
	if c.shaking {
		style = ShakeStyle
	}
	return style.Width(max(0, width-2)).Render(strings.Join(lines, "\n"))
}

func (c *cardView) edit() {
	if c.h.OnEdit != nil {
		c.h.OnEdit()
	}
}

func (c *cardView) favorite() {
	if c.h.OnFavorite != nil {
		c.h.OnFavorite()
	}
}

// ---- controls --------------------------------------------------------------

var sortLabels = map[model.SortType]string{
	model.SortDay:   "Day",
	model.SortEvent: "Event",
	model.SortTime:  "Time",
	model.SortPrice: "Price",
	model.SortOffer: "Offers",
}

type sortView struct {
	items    []presenter.SortItem
	current  model.SortType
	onChange func(model.SortType)
}

func (s *sortView) View(width int) string {
	tabs := make([]string, 0, len(s.items))
	for _, item := range s.items {
		tabs = append(tabs, tabStyle(item.Type == s.current, item.Disabled).Render(sortLabels[item.Type]))
	}
	return BarStyle.Width(width).Render(lipgloss.JoinHorizontal(lipgloss.Left, tabs...))
}

func (s *sortView) change(t model.SortType) {
	if s.onChange != nil {
		s.onChange(t)
	}
}

type filterView struct {
	items    []presenter.FilterItem
	current  model.FilterType
	onChange func(model.FilterType)
}

func (f *filterView) View(int) string {
	tabs := make([]string, 0, len(f.items))
	for i, item := range f.items {
		label := fmt.Sprintf("%d %s (%d)", i+1, capitalize(string(item.Type)), item.Count)
		tabs = append(tabs, tabStyle(item.Type == f.current, item.Disabled).Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Left, tabs...)
}

func (f *filterView) change(t model.FilterType) {
	if f.onChange != nil {
		f.onChange(t)
	}
}

type buttonView struct {
	disabled bool
	onClick  func()
}

func (b *buttonView) View(int) string {
	if b.disabled {
		return DisabledTabStyle.Render("+ New event")
	}
	return ActiveTabStyle.Render("+ New event")
}

func (b *buttonView) SetDisabled(disabled bool) {
	b.disabled = disabled
}

func (b *buttonView) click() {
	if !b.disabled && b.onClick != nil {
		b.onClick()
	}
}

// ---- messages --------------------------------------------------------------

type messageView struct {
	kind presenter.MessageKind
	text string
}

func (m *messageView) View(width int) string {
	if m.kind == presenter.MessageError {
		return ErrorStyle.Width(width).Padding(2, 4).Render(m.text)
	}
	return EmptyStateStyle.Width(width).Render(m.text)
}

type tripInfoView struct {
	summary util.TripSummary
}

func (t *tripInfoView) View(width int) string {
	left := lipgloss.JoinVertical(lipgloss.Left,
		PointTitleStyle.Render(t.summary.Route),
		MutedStyle.Render(t.summary.Dates),
	)
	right := "Total: " + PriceStyle.Render(util.FormatPrice(t.summary.Total))
	padding := max(1, width-lipgloss.Width(left)-lipgloss.Width(right)-2)
	return StatusBarStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top, left, strings.Repeat(" ", padding), right))
}

func tabStyle(active, disabled bool) lipgloss.Style {
	switch {
	case disabled:
		return DisabledTabStyle
	case active:
		return ActiveTabStyle
	default:
		return TabStyle
	}
}

func typeLabel(t model.PointType) string {
	return capitalize(string(t))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
