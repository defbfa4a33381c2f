// Package users implements the identity domain: registration, login,
// and role-based lookup of pipeline participants. Roles are assigned at
// registration and never mutated afterwards.
package users

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered pipeline participant. A user may hold multiple roles.
type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Roles     []Role    `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
}

// RoleSet returns the user's roles as a capability set.
func (u *User) RoleSet() RoleSet {
	return NewRoleSet(u.Roles...)
}

// HasRole reports whether the user holds the given role.
func (u *User) HasRole(role Role) bool {
	return u.RoleSet().Contains(role)
}

// RegisterCommand carries the data needed to register a new user.
type RegisterCommand struct {
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	Password  string   `json:"password"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Roles     []string `json:"roles"`
}
