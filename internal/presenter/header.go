package presenter

import (
	"bigtrip/internal/model"
	"bigtrip/internal/util"
)

// HeaderPresenter renders the trip summary above the list. Nothing is
// shown while there are no points.
type HeaderPresenter struct {
	container Container
	views     Views
	points    PointsSource
	resolver  util.Resolver

	view Node
}

// NewHeaderPresenter subscribes to points and to every model in refs whose
// data feeds the summary.
func NewHeaderPresenter(container Container, views Views, points PointsSource, resolver util.Resolver, refs ...Subscriber) *HeaderPresenter {
	p := &HeaderPresenter{
		container: container,
		views:     views,
		points:    points,
		resolver:  resolver,
	}
	points.Subscribe(func(model.Event) { p.render() })
	for _, r := range refs {
		r.Subscribe(func(model.Event) { p.render() })
	}
	return p
}

func (p *HeaderPresenter) Init() {
	p.render()
}

func (p *HeaderPresenter) render() {
	summary, ok := util.Summarize(p.points.Points(), p.resolver)
	if !ok {
		if p.view != nil {
			p.container.Remove(p.view)
			p.view = nil
		}
		return
	}

	next := p.views.TripInfoView(summary)
	if p.view == nil {
		p.container.Append(next)
	} else {
		p.container.Replace(next, p.view)
	}
	p.view = next
}
