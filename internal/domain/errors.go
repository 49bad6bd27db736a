package domain

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrValidation           = errors.New("validation failed")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrUnauthenticated      = errors.New("unauthenticated")
	ErrMalformedRestriction = errors.New("malformed fare restriction")
)
