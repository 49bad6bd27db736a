// Package pricing decides which fares apply to a leg and picks the cheapest one.
package pricing

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Domenick1991/flightsearch/internal/domain"
)

// Leg is the pricing context of a single flight segment.
type Leg struct {
	Source      string
	Destination string
	Departure   time.Time
}

// LegOf builds the pricing context of a flight.
func LegOf(f domain.Flight) Leg {
	return Leg{Source: f.SourceCode, Destination: f.DestinationCode, Departure: f.DepartureTime}
}

// RestrictionError reports a restriction whose value cannot be interpreted for its kind.
type RestrictionError struct {
	FareID string
	Kind   domain.RestrictionKind
	Value  string
	Err    error
}

func (e *RestrictionError) Error() string {
	return fmt.Sprintf("fare %s: %s restriction value %q: %v", e.FareID, e.Kind, e.Value, e.Err)
}

func (e *RestrictionError) Unwrap() []error {
	return []error{domain.ErrMalformedRestriction, e.Err}
}

// RestrictionHolds evaluates one restriction against a leg travelled as part of
// an itinerary of legCount legs. Unknown kinds never hold.
func RestrictionHolds(r domain.FareRestriction, leg Leg, legCount int) (bool, error) {
	switch r.Kind {
	case domain.RestrictionEndpoint:
		return leg.Source == r.Value || leg.Destination == r.Value, nil

	case domain.RestrictionDepartureTime:
		limit, err := ParseTimeOfDay(r.Value)
		if err != nil {
			return false, &RestrictionError{FareID: r.FareID, Kind: r.Kind, Value: r.Value, Err: err}
		}
		return timeOfDay(leg.Departure) < limit, nil

	case domain.RestrictionMultiLeg:
		required, err := ParseMinLegs(r.Value)
		if err != nil {
			return false, &RestrictionError{FareID: r.FareID, Kind: r.Kind, Value: r.Value, Err: err}
		}
		return legCount >= required, nil

	default:
		return false, nil
	}
}

// FareApplies reports whether every restriction of the fare holds. A fare with
// no restrictions always applies. Every restriction is evaluated, so a malformed
// value is reported no matter where it sits in the set.
func FareApplies(f domain.Fare, leg Leg, legCount int) (bool, error) {
	applies := true
	for _, r := range f.Restrictions {
		if r.FareID == "" {
			r.FareID = f.ID
		}
		ok, err := RestrictionHolds(r, leg, legCount)
		if err != nil {
			return false, err
		}
		applies = applies && ok
	}
	return applies, nil
}

// ParseTimeOfDay parses "HH:MM" or "HH:MM:SS" into an offset from midnight.
func ParseTimeOfDay(value string) (time.Duration, error) {
	for _, layout := range []string{"15:04", "15:04:05"} {
		t, err := time.Parse(layout, value)
		if err == nil {
			return timeOfDay(t), nil
		}
	}
	return 0, errors.New("expected HH:MM")
}

// ParseMinLegs parses the minimum itinerary length of a MULTI_LEG restriction.
func ParseMinLegs(value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.New("expected an integer leg count")
	}
	return n, nil
}

// ValidateRestriction checks a restriction before it is stored.
func ValidateRestriction(r domain.FareRestriction) error {
	if !r.Kind.Valid() {
		return fmt.Errorf("%w: unknown restriction type %q", domain.ErrValidation, r.Kind)
	}
	switch r.Kind {
	case domain.RestrictionEndpoint:
		if !domain.IsAirportCode(r.Value) {
			return fmt.Errorf("%w: endpoint restriction %q is not an airport code", domain.ErrValidation, r.Value)
		}
	case domain.RestrictionDepartureTime:
		if _, err := ParseTimeOfDay(r.Value); err != nil {
			return fmt.Errorf("%w: departure time restriction %q: %v", domain.ErrValidation, r.Value, err)
		}
	case domain.RestrictionMultiLeg:
		n, err := ParseMinLegs(r.Value)
		if err != nil {
			return fmt.Errorf("%w: multi-leg restriction %q: %v", domain.ErrValidation, r.Value, err)
		}
		if n < 1 {
			return fmt.Errorf("%w: multi-leg restriction must be at least 1", domain.ErrValidation)
		}
	}
	return nil
}

func timeOfDay(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second +
		time.Duration(t.Nanosecond())
}
