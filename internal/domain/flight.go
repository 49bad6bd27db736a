package domain

import (
	"slices"
	"time"
)

type Flight struct {
	ID              string       `json:"id"`
	FlightNumber    string       `json:"flightNumber"`
	SourceCode      string       `json:"sourceAirportCode"`
	DestinationCode string       `json:"destinationAirportCode"`
	DepartureTime   time.Time    `json:"departureTime"`
	ArrivalTime     time.Time    `json:"arrivalTime"`
	AirlineCodes    []string     `json:"airlineCodes"`
	Status          RecordStatus `json:"status"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
}

func (f Flight) Duration() time.Duration {
	return f.ArrivalTime.Sub(f.DepartureTime)
}

func (f Flight) DurationMinutes() int64 {
	return int64(f.Duration() / time.Minute)
}

func (f Flight) Route() string {
	return f.SourceCode + " → " + f.DestinationCode
}

// OperatedBy reports whether code is one of the operating or codeshare airlines.
func (f Flight) OperatedBy(code string) bool {
	return slices.Contains(f.AirlineCodes, code)
}
