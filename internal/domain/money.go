package domain

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	minCents = decimal.NewFromInt(math.MinInt64)
	maxCents = decimal.NewFromInt(math.MaxInt64)
)

// Cents is an amount in minor currency units. It encodes to JSON as a decimal
// number with exactly two fraction digits.
type Cents int64

func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

func (c Cents) String() string {
	return c.Decimal().StringFixed(2)
}

func (c Cents) MarshalJSON() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalJSON accepts both a JSON number and a quoted decimal string.
func (c *Cents) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return nil
	}
	parsed, err := ParseCents(strings.Trim(raw, `"`))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCents parses a decimal amount with at most two fraction digits.
func ParseCents(s string) (Cents, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty amount", ErrValidation)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid amount %q", ErrValidation, s)
	}
	if d.Exponent() < -2 {
		return 0, fmt.Errorf("%w: amount %q must have at most two decimal places", ErrValidation, s)
	}
	minor := d.Shift(2)
	if minor.LessThan(minCents) || minor.GreaterThan(maxCents) {
		return 0, fmt.Errorf("%w: amount %q out of range", ErrValidation, s)
	}
	return Cents(minor.IntPart()), nil
}
