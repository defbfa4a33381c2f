package assignment_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"

	"github.com/scriba-dms/scriba/internal/assignment"
	"github.com/scriba-dms/scriba/internal/documents"
	"github.com/scriba-dms/scriba/internal/users"
	"github.com/scriba-dms/scriba/pkg/repository"
)

type fakeUserSource struct {
	byRole map[users.Role][]users.User
}

func (f *fakeUserSource) ListByRole(_ context.Context, _ repository.DBTX, role users.Role) ([]users.User, error) {
	return f.byRole[role], nil
}

type fakeCounter struct {
	loads map[uuid.UUID]int
}

func (f *fakeCounter) PendingLoad(_ context.Context, _ repository.DBTX, assigneeID uuid.UUID) (int, error) {
	return f.loads[assigneeID], nil
}

func testUser(username string) users.User {
	return users.User{ID: uuid.New(), Username: username}
}

func testEngine(src *fakeUserSource, counter *fakeCounter) *assignment.Engine {
	counters := map[users.Role]assignment.LoadCounter{
		users.RoleAuditor: counter,
	}
	return assignment.NewEngine(src, counters, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestAssignPicksLeastLoaded(t *testing.T) {
	busy := testUser("busy")
	idle := testUser("idle")

	src := &fakeUserSource{byRole: map[users.Role][]users.User{
		users.RoleAuditor: {busy, idle},
	}}
	counter := &fakeCounter{loads: map[uuid.UUID]int{
		busy.ID: 3,
		idle.ID: 1,
	}}

	selected, err := testEngine(src, counter).Assign(context.Background(), nil, users.RoleAuditor)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}

	if selected.Username != "idle" {
		t.Errorf("assignee = %q, expected idle", selected.Username)
	}
}

func TestAssignTieBreaksByCandidateOrder(t *testing.T) {
	first := testUser("first")
	second := testUser("second")

	src := &fakeUserSource{byRole: map[users.Role][]users.User{
		users.RoleAuditor: {first, second},
	}}
	counter := &fakeCounter{loads: map[uuid.UUID]int{
		first.ID:  2,
		second.ID: 2,
	}}

	selected, err := testEngine(src, counter).Assign(context.Background(), nil, users.RoleAuditor)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}

	if selected.Username != "first" {
		t.Errorf("assignee = %q, expected the earlier candidate on a tie", selected.Username)
	}
}

func TestAssignNoEligibleUser(t *testing.T) {
	src := &fakeUserSource{byRole: map[users.Role][]users.User{}}
	counter := &fakeCounter{loads: map[uuid.UUID]int{}}

	_, err := testEngine(src, counter).Assign(context.Background(), nil, users.RoleAuditor)
	if !errors.Is(err, assignment.ErrNoEligibleUser) {
		t.Errorf("expected ErrNoEligibleUser, received: %v", err)
	}
}

func TestAssignUnknownRole(t *testing.T) {
	src := &fakeUserSource{byRole: map[users.Role][]users.User{
		users.RoleDirector: {testUser("director")},
	}}
	counter := &fakeCounter{loads: map[uuid.UUID]int{}}

	_, err := testEngine(src, counter).Assign(context.Background(), nil, users.RoleDirector)
	if !errors.Is(err, assignment.ErrNoEligibleUser) {
		t.Errorf("expected ErrNoEligibleUser for unregistered counter, received: %v", err)
	}
}

func TestRoleForDocumentType(t *testing.T) {
	tests := []struct {
		dtype    documents.Type
		expected users.Role
	}{
		{documents.TypeReceipt, users.RoleAccountantReceipt},
		{documents.TypeOffer, users.RoleAccountantOffer},
		{documents.TypeInternal, users.RoleAccountantInternal},
	}

	for _, tt := range tests {
		role, err := assignment.RoleForDocumentType(tt.dtype)
		if err != nil {
			t.Errorf("RoleForDocumentType(%s): %v", tt.dtype, err)
			continue
		}
		if role != tt.expected {
			t.Errorf("RoleForDocumentType(%s) = %s, expected %s", tt.dtype, role, tt.expected)
		}
	}

	if _, err := assignment.RoleForDocumentType("CONTRACT"); !errors.Is(err, assignment.ErrDocumentTypeNotProvided) {
		t.Errorf("expected ErrDocumentTypeNotProvided, received: %v", err)
	}
}
