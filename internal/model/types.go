package model

import (
	"slices"
	"time"
)

// PointType is the travel mode of a trip point.
type PointType string

const (
	TypeTaxi        PointType = "taxi"
	TypeBus         PointType = "bus"
	TypeTrain       PointType = "train"
	TypeShip        PointType = "ship"
	TypeDrive       PointType = "drive"
	TypeFlight      PointType = "flight"
	TypeCheckIn     PointType = "check-in"
	TypeSightseeing PointType = "sightseeing"
	TypeRestaurant  PointType = "restaurant"
)

// PointTypes lists every travel mode in display order.
var PointTypes = []PointType{
	TypeTaxi, TypeBus, TypeTrain, TypeShip, TypeDrive,
	TypeFlight, TypeCheckIn, TypeSightseeing, TypeRestaurant,
}

// Valid reports whether t is one of PointTypes.
func (t PointType) Valid() bool {
	return slices.Contains(PointTypes, t)
}

// Point represents a single trip event.
type Point struct {
	ID            string
	Type          PointType
	StartDate     time.Time
	EndDate       time.Time
	Price         int
	DestinationID string
	Offers        []string // offer ids within the Type bucket
	IsFavorite    bool
}

// Clone returns a copy that shares no slices with p.
func (p Point) Clone() Point {
	p.Offers = slices.Clone(p.Offers)
	return p
}

// Equal reports whether two points carry the same field values.
func (p Point) Equal(o Point) bool {
	return p.ID == o.ID &&
		p.Type == o.Type &&
		p.StartDate.Equal(o.StartDate) &&
		p.EndDate.Equal(o.EndDate) &&
		p.Price == o.Price &&
		p.DestinationID == o.DestinationID &&
		p.IsFavorite == o.IsFavorite &&
		slices.Equal(p.Offers, o.Offers)
}

// HasOffer reports whether the offer id is selected on the point.
func (p Point) HasOffer(id string) bool {
	return slices.Contains(p.Offers, id)
}

// Duration returns the time span of the point.
func (p Point) Duration() time.Duration {
	return p.EndDate.Sub(p.StartDate)
}

// Offer is a paid add-on scoped to a point type.
type Offer struct {
	ID    string
	Title string
	Price int
}

// OfferGroup holds every offer available for one point type.
type OfferGroup struct {
	Type   PointType
	Offers []Offer
}

// Picture is an image reference attached to a destination.
type Picture struct {
	Src         string
	Description string
}

// Destination is a place a point refers to.
type Destination struct {
	ID          string
	Name        string
	Description string
	Pictures    []Picture
}

// FilterType selects which points are visible.
type FilterType string

const (
	FilterEverything FilterType = "everything"
	FilterFuture     FilterType = "future"
	FilterPresent    FilterType = "present"
	FilterPast       FilterType = "past"
)

// FilterTypes lists filters in display order.
var FilterTypes = []FilterType{FilterEverything, FilterFuture, FilterPresent, FilterPast}

// Valid reports whether f is one of FilterTypes.
func (f FilterType) Valid() bool {
	return slices.Contains(FilterTypes, f)
}

// SortType selects the order of visible points.
type SortType string

const (
	SortDay   SortType = "day"
	SortEvent SortType = "event"
	SortTime  SortType = "time"
	SortPrice SortType = "price"
	SortOffer SortType = "offer"
)

// SortTypes lists sort controls in display order.
var SortTypes = []SortType{SortDay, SortEvent, SortTime, SortPrice, SortOffer}

// Enabled reports whether the sort control can be selected.
// Event and offer sorting are shown but never active.
func (s SortType) Enabled() bool {
	return s == SortDay || s == SortTime || s == SortPrice
}

// NoPointsTexts holds the empty-list message for each filter.
var NoPointsTexts = map[FilterType]string{
	FilterEverything: "Click New Event to create your first point",
	FilterFuture:     "There are no future events now",
	FilterPresent:    "There are no present events now",
	FilterPast:       "There are no past events now",
}

// UserAction classifies which CRUD operation a user interaction requests.
type UserAction int

const (
	ActionUpdate UserAction = iota
	ActionAdd
	ActionDelete
)

func (a UserAction) String() string {
	switch a {
	case ActionUpdate:
		return "update"
	case ActionAdd:
		return "add"
	case ActionDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Mode is the display mode of a point presenter.
type Mode int

const (
	ModeDefault Mode = iota
	ModeEditing
)

func (m Mode) String() string {
	if m == ModeEditing {
		return "editing"
	}
	return "default"
}
