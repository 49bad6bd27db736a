package validation

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/Domenick1991/flightsearch/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type leg struct {
	Code string `json:"code" binding:"required,len=3"`
}

type signup struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Price    int64  `json:"price" binding:"gt=0"`
	Legs     []leg  `json:"legs" binding:"required,min=1,dive"`
}

func validSignup() signup {
	return signup{Email: "bob@example.com", Password: "long-enough", Price: 100, Legs: []leg{{Code: "BOS"}}}
}

func TestStruct_Valid(t *testing.T) {
	in := validSignup()
	assert.NoError(t, Struct(in))
	assert.NoError(t, Struct(&in))
}

func TestStruct_ReportsEveryField(t *testing.T) {
	in := signup{Email: "a@@", Password: "short", Legs: []leg{{Code: "BOSTON"}}}

	err := Struct(in)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.Contains(t, err.Error(), "email must be a valid email address")
	assert.Contains(t, err.Error(), "password must be at least 8 characters")
	assert.Contains(t, err.Error(), "price must be greater than 0")
	assert.Contains(t, err.Error(), "legs[0].code must be exactly 3 characters")
}

func TestStruct_EmptySlice(t *testing.T) {
	in := validSignup()
	in.Legs = []leg{}

	err := Struct(in)
	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.Contains(t, err.Error(), "legs must have at least 1 items")
}

func TestStruct_IgnoresNonStructs(t *testing.T) {
	assert.NoError(t, Struct(nil))
	assert.NoError(t, Struct((*signup)(nil)))
	assert.NoError(t, Struct([]int{1}))
}

func TestWrap(t *testing.T) {
	assert.NoError(t, Wrap(nil))

	already := Struct(signup{})
	assert.Equal(t, already, Wrap(already))

	var target map[string]any
	syntaxErr := json.Unmarshal([]byte(`{`), &target)
	err := Wrap(syntaxErr)
	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.Contains(t, err.Error(), "malformed request")
}
