package domain

import "time"

type RestrictionKind string

const (
	RestrictionEndpoint      RestrictionKind = "ENDPOINT"
	RestrictionDepartureTime RestrictionKind = "DEPARTURE_TIME"
	RestrictionMultiLeg      RestrictionKind = "MULTI_LEG"
)

func (k RestrictionKind) Valid() bool {
	switch k {
	case RestrictionEndpoint, RestrictionDepartureTime, RestrictionMultiLeg:
		return true
	default:
		return false
	}
}

type FareRestriction struct {
	ID     string          `json:"id"`
	FareID string          `json:"fareId"`
	Kind   RestrictionKind `json:"restrictionType"`
	Value  string          `json:"restrictionValue"`
}

type Fare struct {
	ID           string            `json:"id"`
	AirlineCode  string            `json:"airlineCode"`
	BasePrice    Cents             `json:"basePrice"`
	Name         string            `json:"fareName"`
	Description  string            `json:"description"`
	Restrictions []FareRestriction `json:"restrictions"`
	Status       RecordStatus      `json:"status"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

// IsBaseFare reports whether the fare carries no restrictions and so applies to every leg.
func (f Fare) IsBaseFare() bool {
	return len(f.Restrictions) == 0
}
