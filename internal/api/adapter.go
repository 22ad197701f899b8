package api

import (
	"slices"
	"time"

	"bigtrip/internal/model"
)

// RawPoint is a point as the backend sends and accepts it.
type RawPoint struct {
	ID          string    `json:"id,omitempty"`
	Type        string    `json:"type"`
	DateFrom    time.Time `json:"date_from"`
	DateTo      time.Time `json:"date_to"`
	BasePrice   int       `json:"base_price"`
	Destination string    `json:"destination"`
	Offers      []string  `json:"offers"`
	IsFavorite  bool      `json:"is_favorite"`
}

// RawOffer is a single offer as the backend sends it.
type RawOffer struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Price int    `json:"price"`
}

// RawOfferGroup holds the offers of one point type.
type RawOfferGroup struct {
	Type   string     `json:"type"`
	Offers []RawOffer `json:"offers"`
}

// RawPicture is a destination picture as the backend sends it.
type RawPicture struct {
	Src         string `json:"src"`
	Description string `json:"description"`
}

// RawDestination is a destination as the backend sends it.
type RawDestination struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Pictures    []RawPicture `json:"pictures"`
}

// ToClient converts a backend point into the client shape.
func ToClient(r RawPoint) model.Point {
	offers := slices.Clone(r.Offers)
	if offers == nil {
		offers = []string{}
	}
	return model.Point{
		ID:            r.ID,
		Type:          model.PointType(r.Type),
		StartDate:     r.DateFrom,
		EndDate:       r.DateTo,
		Price:         r.BasePrice,
		DestinationID: r.Destination,
		Offers:        offers,
		IsFavorite:    r.IsFavorite,
	}
}

// ToServer converts a client point into the backend shape.
func ToServer(p model.Point) RawPoint {
	offers := slices.Clone(p.Offers)
	if offers == nil {
		offers = []string{}
	}
	return RawPoint{
		ID:          p.ID,
		Type:        string(p.Type),
		DateFrom:    p.StartDate,
		DateTo:      p.EndDate,
		BasePrice:   p.Price,
		Destination: p.DestinationID,
		Offers:      offers,
		IsFavorite:  p.IsFavorite,
	}
}

// OfferGroupsToClient converts backend offer groups.
func OfferGroupsToClient(raw []RawOfferGroup) []model.OfferGroup {
	groups := make([]model.OfferGroup, 0, len(raw))
	for _, g := range raw {
		offers := make([]model.Offer, 0, len(g.Offers))
		for _, o := range g.Offers {
			offers = append(offers, model.Offer{ID: o.ID, Title: o.Title, Price: o.Price})
		}
		groups = append(groups, model.OfferGroup{Type: model.PointType(g.Type), Offers: offers})
	}
	return groups
}

// DestinationsToClient converts backend destinations.
func DestinationsToClient(raw []RawDestination) []model.Destination {
	destinations := make([]model.Destination, 0, len(raw))
	for _, d := range raw {
		pictures := make([]model.Picture, 0, len(d.Pictures))
		for _, p := range d.Pictures {
			pictures = append(pictures, model.Picture{Src: p.Src, Description: p.Description})
		}
		destinations = append(destinations, model.Destination{
			ID:          d.ID,
			Name:        d.Name,
			Description: d.Description,
			Pictures:    pictures,
		})
	}
	return destinations
}
