package users_test

import (
	"errors"
	"testing"

	"github.com/scriba-dms/scriba/internal/users"
)

func TestParseRole(t *testing.T) {
	role, err := users.ParseRole("ACCOUNTANT_RECEIPT")
	if err != nil {
		t.Fatalf("ParseRole: %v", err)
	}

	if role != users.RoleAccountantReceipt {
		t.Errorf("role = %q, expected %q", role, users.RoleAccountantReceipt)
	}
}

func TestParseRoleUnknown(t *testing.T) {
	if _, err := users.ParseRole("JANITOR"); !errors.Is(err, users.ErrInvalidRole) {
		t.Errorf("expected ErrInvalidRole, received: %v", err)
	}
}

func TestParseRoleCaseSensitive(t *testing.T) {
	if _, err := users.ParseRole("auditor"); !errors.Is(err, users.ErrInvalidRole) {
		t.Errorf("expected ErrInvalidRole for lowercase input, received: %v", err)
	}
}

func TestParseRoles(t *testing.T) {
	roles, err := users.ParseRoles([]string{"EMPLOYEE", "AUDITOR"})
	if err != nil {
		t.Fatalf("ParseRoles: %v", err)
	}

	if len(roles) != 2 || roles[0] != users.RoleEmployee || roles[1] != users.RoleAuditor {
		t.Errorf("roles = %v, expected [EMPLOYEE AUDITOR]", roles)
	}
}

func TestParseRolesRejectsAnyInvalid(t *testing.T) {
	if _, err := users.ParseRoles([]string{"EMPLOYEE", "JANITOR"}); !errors.Is(err, users.ErrInvalidRole) {
		t.Errorf("expected ErrInvalidRole, received: %v", err)
	}
}

func TestRoleSet(t *testing.T) {
	set := users.NewRoleSet(users.RoleEmployee, users.RoleAuditor)

	if !set.Contains(users.RoleAuditor) {
		t.Error("expected set to contain AUDITOR")
	}

	if set.Contains(users.RoleAdmin) {
		t.Error("expected set to not contain ADMIN")
	}

	if !set.ContainsAny(users.RoleAdmin, users.RoleEmployee) {
		t.Error("expected set to intersect [ADMIN EMPLOYEE]")
	}

	if set.ContainsAny(users.RoleAdmin, users.RoleDirector) {
		t.Error("expected set to not intersect [ADMIN DIRECTOR]")
	}
}

func TestStrings(t *testing.T) {
	names := users.Strings([]users.Role{users.RoleAdmin, users.RoleDirector})

	if len(names) != 2 || names[0] != "ADMIN" || names[1] != "DIRECTOR" {
		t.Errorf("names = %v, expected [ADMIN DIRECTOR]", names)
	}
}

func TestUserHasRole(t *testing.T) {
	u := users.User{Roles: []users.Role{users.RoleEmployee}}

	if !u.HasRole(users.RoleEmployee) {
		t.Error("expected user to hold EMPLOYEE")
	}

	if u.HasRole(users.RoleAuditor) {
		t.Error("expected user to not hold AUDITOR")
	}
}
