package users

import (
	"context"

	"github.com/google/uuid"

	"github.com/scriba-dms/scriba/internal/auth"
	"github.com/scriba-dms/scriba/pkg/repository"
)

// System defines the public contract for the identity domain.
type System interface {
	Handler(tokens *auth.Tokens) *Handler

	Register(ctx context.Context, cmd RegisterCommand) (*User, error)
	Authenticate(ctx context.Context, username, password string) (*User, error)
	Find(ctx context.Context, username string) (*User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	List(ctx context.Context) ([]User, error)

	// GetByUsername and ListByRole participate in orchestration
	// transactions and read through the supplied handle.
	GetByUsername(ctx context.Context, dbtx repository.DBTX, username string) (*User, error)
	ListByRole(ctx context.Context, dbtx repository.DBTX, role Role) ([]User, error)
}
