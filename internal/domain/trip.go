package domain

import (
	"encoding/json"
	"time"
)

// Trip is a priced itinerary of one or two legs sold by a single airline.
type Trip struct {
	Airline    string
	TotalPrice Cents
	Flights    []Flight
	// TotalDuration is the summed airborne time of all legs, in minutes.
	TotalDuration int64
}

func (t Trip) Route() string {
	switch len(t.Flights) {
	case 0:
		return ""
	case 1:
		return t.Flights[0].Route()
	default:
		return t.Flights[0].SourceCode + " → " + t.Flights[len(t.Flights)-1].DestinationCode
	}
}

func (t Trip) IsDirect() bool {
	return len(t.Flights) == 1
}

func (t Trip) LegCount() int {
	return len(t.Flights)
}

func (t Trip) MarshalJSON() ([]byte, error) {
	flights := t.Flights
	if flights == nil {
		flights = []Flight{}
	}
	return json.Marshal(struct {
		Airline       string   `json:"airline"`
		TotalPrice    Cents    `json:"totalPrice"`
		Flights       []Flight `json:"flights"`
		TotalDuration int64    `json:"totalDuration"`
		Route         string   `json:"route"`
		IsDirect      bool     `json:"isDirect"`
		LegCount      int      `json:"legCount"`
	}{
		Airline:       t.Airline,
		TotalPrice:    t.TotalPrice,
		Flights:       flights,
		TotalDuration: t.TotalDuration,
		Route:         t.Route(),
		IsDirect:      t.IsDirect(),
		LegCount:      t.LegCount(),
	})
}

type SearchCriteria struct {
	SourceAirport      string     `json:"sourceAirport"`
	DestinationAirport string     `json:"destinationAirport"`
	DepartureTime      *time.Time `json:"departureTime,omitempty"`
}

type SearchResult struct {
	Trips          []Trip         `json:"trips"`
	SearchCriteria SearchCriteria `json:"searchCriteria"`
	TotalResults   int            `json:"totalResults"`
}

func NewSearchResult(trips []Trip, criteria SearchCriteria) *SearchResult {
	if trips == nil {
		trips = []Trip{}
	}
	return &SearchResult{Trips: trips, SearchCriteria: criteria, TotalResults: len(trips)}
}
