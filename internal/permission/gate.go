package permission

import (
	"fmt"

	"github.com/Domenick1991/flightsearch/internal/domain"
)

// CanManageAirline reports whether user may administer airlineCode. Administrators
// without an assigned airline manage every airline.
func CanManageAirline(user *domain.User, airlineCode string) bool {
	if user == nil || !user.IsAdmin() {
		return false
	}
	return user.AssignedAirlineCode == "" || user.AssignedAirlineCode == airlineCode
}

func IsSuperAdmin(user *domain.User) bool {
	return user != nil && user.IsAdmin() && user.AssignedAirlineCode == ""
}

func IsAirlineAdmin(user *domain.User) bool {
	return user != nil && user.IsAdmin() && user.AssignedAirlineCode != ""
}

// RequireAirlines fails on the first airline code the user may not manage.
func RequireAirlines(user *domain.User, codes ...string) error {
	if user == nil {
		return domain.ErrUnauthenticated
	}
	if !user.IsAdmin() {
		return fmt.Errorf("%w: user %s is not an administrator", domain.ErrPermissionDenied, user.Username)
	}
	for _, code := range codes {
		if !CanManageAirline(user, code) {
			return fmt.Errorf("%w: user %s cannot manage airline %s", domain.ErrPermissionDenied, user.Username, code)
		}
	}
	return nil
}

func RequireSuperAdmin(user *domain.User) error {
	if user == nil {
		return domain.ErrUnauthenticated
	}
	if !IsSuperAdmin(user) {
		return fmt.Errorf("%w: operation requires an unrestricted administrator", domain.ErrPermissionDenied)
	}
	return nil
}
