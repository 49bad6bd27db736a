package domain

import "regexp"

var (
	airportCodeRX = regexp.MustCompile(`^[A-Z]{3}$`)
	airlineCodeRX = regexp.MustCompile(`^[A-Z0-9]{2,3}$`)
)

// IsAirportCode reports whether code is a normalized three-letter airport code.
func IsAirportCode(code string) bool {
	return airportCodeRX.MatchString(code)
}

// IsAirlineCode reports whether code is a normalized two or three character airline code.
func IsAirlineCode(code string) bool {
	return airlineCodeRX.MatchString(code)
}
