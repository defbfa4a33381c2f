package users

import "fmt"

// Role identifies a pipeline capability held by a user. Roles form a
// closed enumeration; authorization is a set membership test, never a
// raw string comparison.
type Role string

// Pipeline roles.
const (
	RoleAdmin              Role = "ADMIN"
	RoleDirector           Role = "DIRECTOR"
	RoleAuditor            Role = "AUDITOR"
	RoleAccountantReceipt  Role = "ACCOUNTANT_RECEIPT"
	RoleAccountantOffer    Role = "ACCOUNTANT_OFFER"
	RoleAccountantInternal Role = "ACCOUNTANT_INTERNAL"
	RoleEmployee           Role = "EMPLOYEE"
)

// Roles lists every known role in declaration order.
var Roles = []Role{
	RoleAdmin,
	RoleDirector,
	RoleAuditor,
	RoleAccountantReceipt,
	RoleAccountantOffer,
	RoleAccountantInternal,
	RoleEmployee,
}

// ParseRole validates a role string against the closed enumeration.
func ParseRole(s string) (Role, error) {
	for _, role := range Roles {
		if s == string(role) {
			return role, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidRole, s)
}

// ParseRoles validates a slice of role strings.
func ParseRoles(names []string) ([]Role, error) {
	roles := make([]Role, 0, len(names))
	for _, name := range names {
		role, err := ParseRole(name)
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, nil
}

// RoleSet is a capability set supporting membership and intersection tests.
type RoleSet map[Role]struct{}

// NewRoleSet builds a RoleSet from the given roles.
func NewRoleSet(roles ...Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, role := range roles {
		set[role] = struct{}{}
	}
	return set
}

// Contains reports whether the set holds the given role.
func (s RoleSet) Contains(role Role) bool {
	_, ok := s[role]
	return ok
}

// ContainsAny reports whether the set intersects the given roles.
func (s RoleSet) ContainsAny(roles ...Role) bool {
	for _, role := range roles {
		if s.Contains(role) {
			return true
		}
	}
	return false
}

// Strings returns the role names for the given roles.
func Strings(roles []Role) []string {
	names := make([]string, len(roles))
	for i, role := range roles {
		names[i] = string(role)
	}
	return names
}
