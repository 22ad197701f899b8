package presenter

import (
	"time"

	"bigtrip/internal/model"
	"bigtrip/internal/util"
)

// FilterPresenter renders the filter controls with per-filter counts.
type FilterPresenter struct {
	container Container
	views     Views
	points    PointsSource
	filter    FilterModel
	now       func() time.Time

	view Node
}

func NewFilterPresenter(container Container, views Views, points PointsSource, filter FilterModel, now func() time.Time) *FilterPresenter {
	if now == nil {
		now = time.Now
	}
	p := &FilterPresenter{
		container: container,
		views:     views,
		points:    points,
		filter:    filter,
		now:       now,
	}
	points.Subscribe(func(model.Event) { p.render() })
	filter.Subscribe(func(model.Event) { p.render() })
	return p
}

func (p *FilterPresenter) Init() {
	p.render()
}

// Items returns the filter controls for the current points.
func (p *FilterPresenter) Items() []FilterItem {
	counts := util.CountByFilter(p.points.Points(), p.now())
	items := make([]FilterItem, 0, len(model.FilterTypes))
	for _, f := range model.FilterTypes {
		items = append(items, FilterItem{Type: f, Count: counts[f], Disabled: counts[f] == 0})
	}
	return items
}

func (p *FilterPresenter) render() {
	next := p.views.FilterView(p.Items(), p.filter.Filter(), p.handleFilterChange)
	if p.view == nil {
		p.container.Append(next)
	} else {
		p.container.Replace(next, p.view)
	}
	p.view = next
}

func (p *FilterPresenter) handleFilterChange(f model.FilterType) {
	if !f.Valid() || f == p.filter.Filter() {
		return
	}
	for _, item := range p.Items() {
		if item.Type == f && item.Disabled {
			return
		}
	}
	p.filter.SetFilter(model.UpdateMajor, f)
}
