package entities

import (
	"fmt"
	"time"
)

// Role is the role a user registers with. It is fixed for the lifetime of
// the account.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleOwner    Role = "owner"
	RoleAdmin    Role = "admin"
)

// ParseRole converts a raw string into a Role, rejecting anything outside
// the known set so role dispatch never falls through on a typo.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleCustomer, RoleOwner, RoleAdmin:
		return Role(raw), nil
	}
	return "", fmt.Errorf("unknown role %q", raw)
}

// Valid reports whether the role is one of the known variants.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleOwner, RoleAdmin:
		return true
	}
	return false
}

// CanCheckIn reports whether the role may record visits against shops.
func (r Role) CanCheckIn() bool {
	return r == RoleCustomer
}

// CanRegisterShops reports whether the role may register and manage shops.
func (r Role) CanRegisterShops() bool {
	return r == RoleOwner
}

// CanReviewShops reports whether the role may drive verification decisions.
func (r Role) CanReviewShops() bool {
	return r == RoleAdmin
}

// User represents a registered identity. Users are immutable after
// registration and there is no deletion path.
type User struct {
	ID          string    `json:"id" db:"id"`
	Email       string    `json:"email" db:"email"`
	DisplayName string    `json:"display_name" db:"display_name"`
	Role        Role      `json:"role" db:"role"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
