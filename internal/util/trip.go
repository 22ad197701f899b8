package util

import (
	"slices"
	"strings"
	"time"

	"bigtrip/internal/model"
)

// maxRouteNames is how many destination names the trip title lists in full.
const maxRouteNames = 3

// Filter returns the points matching f at now, in input order.
func Filter(points []model.Point, f model.FilterType, now time.Time) []model.Point {
	out := make([]model.Point, 0, len(points))
	for _, p := range points {
		if Matches(p, f, now) {
			out = append(out, p)
		}
	}
	return out
}

// Matches reports whether p is visible under f at now.
func Matches(p model.Point, f model.FilterType, now time.Time) bool {
	switch f {
	case model.FilterFuture:
		return p.StartDate.After(now)
	case model.FilterPresent:
		return !p.StartDate.After(now) && !p.EndDate.Before(now)
	case model.FilterPast:
		return p.EndDate.Before(now)
	default:
		return true
	}
}

// CountByFilter returns how many points each filter would show.
func CountByFilter(points []model.Point, now time.Time) map[model.FilterType]int {
	counts := make(map[model.FilterType]int, len(model.FilterTypes))
	for _, f := range model.FilterTypes {
		counts[f] = 0
	}
	for _, p := range points {
		for _, f := range model.FilterTypes {
			if Matches(p, f, now) {
				counts[f]++
			}
		}
	}
	return counts
}

// Sort returns a sorted copy of points. Day sorts by start ascending, time
// by duration descending and price by price descending; ties keep input
// order. Disabled sort types leave the order unchanged.
func Sort(points []model.Point, s model.SortType) []model.Point {
	out := slices.Clone(points)
	switch s {
	case model.SortDay:
		slices.SortStableFunc(out, func(a, b model.Point) int {
			return a.StartDate.Compare(b.StartDate)
		})
	case model.SortTime:
		slices.SortStableFunc(out, func(a, b model.Point) int {
			return compareDesc(int64(a.Duration()), int64(b.Duration()))
		})
	case model.SortPrice:
		slices.SortStableFunc(out, func(a, b model.Point) int {
			return compareDesc(int64(a.Price), int64(b.Price))
		})
	}
	return out
}

func compareDesc(a, b int64) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	default:
		return 0
	}
}

// Resolver looks up the reference data of a point.
type Resolver interface {
	Destination(id string) (model.Destination, bool)
	SelectedOffers(p model.Point) []model.Offer
}

// TripSummary is the header line of a trip.
type TripSummary struct {
	Route string
	Dates string
	Total int
}

// Summarize builds the trip header from points. It reports false when
// there are no points.
func Summarize(points []model.Point, r Resolver) (TripSummary, bool) {
	if len(points) == 0 {
		return TripSummary{}, false
	}
	sorted := Sort(points, model.SortDay)

	var names []string
	total := 0
	for _, p := range sorted {
		if d, ok := r.Destination(p.DestinationID); ok && !slices.Contains(names, d.Name) {
			names = append(names, d.Name)
		}
		total += p.Price
		for _, o := range r.SelectedOffers(p) {
			total += o.Price
		}
	}

	route := strings.Join(names, " — ")
	if len(names) > maxRouteNames {
		route = names[0] + " — … — " + names[len(names)-1]
	}

	last := sorted[0].EndDate
	for _, p := range sorted[1:] {
		if p.EndDate.After(last) {
			last = p.EndDate
		}
	}

	return TripSummary{
		Route: route,
		Dates: FormatTripDate(sorted[0].StartDate) + " — " + FormatTripDate(last),
		Total: total,
	}, true
}
