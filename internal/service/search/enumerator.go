package search

import (
	"sort"
	"time"

	"github.com/Domenick1991/flightsearch/internal/domain"
	"github.com/Domenick1991/flightsearch/internal/pricing"
)

// departureGrace lets a first leg leave up to this long before the requested departure floor.
const departureGrace = time.Hour

// Pricer prices a leg for an airline.
type Pricer interface {
	SelectPrice(airlineCode string, leg pricing.Leg, legCount int) (domain.Cents, bool)
}

type Query struct {
	Source         string
	Destination    string
	DepartureFloor *time.Time
}

// Enumerate builds every priced direct and one-stop trip from flights, ordered by
// ascending total price. Trips with equal prices keep discovery order.
func Enumerate(flights []domain.Flight, q Query, pricer Pricer) []domain.Trip {
	trips := make([]domain.Trip, 0)

	for _, f := range flights {
		if f.SourceCode != q.Source || f.DestinationCode != q.Destination || !departsInWindow(f, q.DepartureFloor) {
			continue
		}
		for _, code := range f.AirlineCodes {
			price, ok := pricer.SelectPrice(code, pricing.LegOf(f), 1)
			if !ok {
				continue
			}
			trips = append(trips, domain.Trip{
				Airline:       code,
				TotalPrice:    price,
				Flights:       []domain.Flight{f},
				TotalDuration: f.DurationMinutes(),
			})
		}
	}

	for _, first := range flights {
		if first.SourceCode != q.Source || !departsInWindow(first, q.DepartureFloor) {
			continue
		}
		for _, second := range flights {
			if second.SourceCode != first.DestinationCode || second.DestinationCode != q.Destination {
				continue
			}
			if !second.DepartureTime.After(first.ArrivalTime) {
				continue
			}
			for _, code := range commonAirlines(first, second) {
				price, ok := pricer.SelectPrice(code, pricing.LegOf(first), 2)
				if !ok {
					continue
				}
				trips = append(trips, domain.Trip{
					Airline:       code,
					TotalPrice:    price,
					Flights:       []domain.Flight{first, second},
					TotalDuration: first.DurationMinutes() + second.DurationMinutes(),
				})
			}
		}
	}

	sort.SliceStable(trips, func(i, j int) bool {
		return trips[i].TotalPrice < trips[j].TotalPrice
	})
	return trips
}

func departsInWindow(f domain.Flight, floor *time.Time) bool {
	if floor == nil {
		return true
	}
	return f.DepartureTime.After(floor.Add(-departureGrace))
}

// commonAirlines returns the codes present on both legs, in the first leg's order.
func commonAirlines(first, second domain.Flight) []string {
	common := make([]string, 0, len(first.AirlineCodes))
	for _, code := range first.AirlineCodes {
		if second.OperatedBy(code) {
			common = append(common, code)
		}
	}
	return common
}

// FirstLegAirlines lists the distinct airline codes of every flight that could
// start a trip for q. Only these airlines' fares are needed to price the search.
func FirstLegAirlines(flights []domain.Flight, q Query) []string {
	seen := make(map[string]struct{})
	codes := make([]string, 0)
	for _, f := range flights {
		if f.SourceCode != q.Source || !departsInWindow(f, q.DepartureFloor) {
			continue
		}
		for _, code := range f.AirlineCodes {
			if _, ok := seen[code]; ok {
				continue
			}
			seen[code] = struct{}{}
			codes = append(codes, code)
		}
	}
	return codes
}
