package domain

import (
	"fmt"
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Role         Role   `json:"role"`
	// AssignedAirlineCode scopes an administrator to a single airline. Empty means unrestricted.
	AssignedAirlineCode string       `json:"assignedAirlineCode,omitempty"`
	Status              RecordStatus `json:"-"`
	CreatedAt           time.Time    `json:"createdAt"`
}

// NewUser builds an active user. The role is mandatory; there is no implicit default.
func NewUser(username, email, passwordHash, firstName, lastName string, role Role, assignedAirlineCode string) (*User, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: role %q is not supported", ErrValidation, role)
	}
	if strings.TrimSpace(username) == "" || strings.TrimSpace(email) == "" {
		return nil, fmt.Errorf("%w: username and email are required", ErrValidation)
	}
	if passwordHash == "" {
		return nil, fmt.Errorf("%w: password hash is required", ErrValidation)
	}
	return &User{
		Username:            username,
		Email:               email,
		PasswordHash:        passwordHash,
		FirstName:           firstName,
		LastName:            lastName,
		Role:                role,
		AssignedAirlineCode: strings.ToUpper(strings.TrimSpace(assignedAirlineCode)),
		Status:              StatusActive,
	}, nil
}

func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type Session struct {
	ID        string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
