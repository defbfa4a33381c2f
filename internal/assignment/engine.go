// Package assignment selects the least-loaded role-holder for each new
// task record. It is a greedy load balancer evaluated at call time,
// not a persisted scheduler queue.
package assignment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/scriba-dms/scriba/internal/documents"
	"github.com/scriba-dms/scriba/internal/users"
	"github.com/scriba-dms/scriba/pkg/repository"
)

// Assignment errors.
var (
	ErrNoEligibleUser          = errors.New("no eligible user holds the required role")
	ErrDocumentTypeNotProvided = errors.New("document type has no archival role mapping")
)

// UserSource lists the users holding a role, in a stable order that
// fixes tie-breaks. Satisfied by the identity system.
type UserSource interface {
	ListByRole(ctx context.Context, dbtx repository.DBTX, role users.Role) ([]users.User, error)
}

// LoadCounter reports a user's unfinished task count for one task
// kind. Satisfied by each task registry.
type LoadCounter interface {
	PendingLoad(ctx context.Context, dbtx repository.DBTX, assigneeID uuid.UUID) (int, error)
}

// Engine picks assignees by minimum pending load.
type Engine struct {
	users    UserSource
	counters map[users.Role]LoadCounter
	locks    map[users.Role]*sync.Mutex
	logger   *slog.Logger
}

// NewEngine creates an Engine over the given user source and per-role
// load counters.
func NewEngine(src UserSource, counters map[users.Role]LoadCounter, logger *slog.Logger) *Engine {
	locks := make(map[users.Role]*sync.Mutex, len(counters))
	for role := range counters {
		locks[role] = &sync.Mutex{}
	}

	return &Engine{
		users:    src,
		counters: counters,
		locks:    locks,
		logger:   logger.With("system", "assignment"),
	}
}

// RoleForDocumentType maps a document type to the accountant role that
// archives it.
func RoleForDocumentType(dtype documents.Type) (users.Role, error) {
	switch dtype {
	case documents.TypeReceipt:
		return users.RoleAccountantReceipt, nil
	case documents.TypeOffer:
		return users.RoleAccountantOffer, nil
	case documents.TypeInternal:
		return users.RoleAccountantInternal, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrDocumentTypeNotProvided, dtype)
	}
}

// Assign selects the least-loaded user holding the role. Ties break
// toward the earliest-registered candidate. Assignment for a role is
// serialized so two concurrent creations cannot both pick the same
// least-loaded user from a stale count.
func (e *Engine) Assign(ctx context.Context, dbtx repository.DBTX, role users.Role) (*users.User, error) {
	counter, ok := e.counters[role]
	if !ok {
		return nil, fmt.Errorf("%w: no load counter for role %s", ErrNoEligibleUser, role)
	}

	mu := e.locks[role]
	mu.Lock()
	defer mu.Unlock()

	candidates, err := e.users.ListByRole(ctx, dbtx, role)
	if err != nil {
		return nil, fmt.Errorf("list %s holders: %w", role, err)
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoEligibleUser, role)
	}

	var (
		selected *users.User
		minLoad  int
	)

	for i := range candidates {
		load, err := counter.PendingLoad(ctx, dbtx, candidates[i].ID)
		if err != nil {
			return nil, fmt.Errorf("count load for %s: %w", candidates[i].Username, err)
		}

		if selected == nil || load < minLoad {
			selected = &candidates[i]
			minLoad = load
		}
	}

	e.logger.Debug("assignee selected", "role", role, "assignee", selected.Username, "load", minLoad)
	return selected, nil
}
