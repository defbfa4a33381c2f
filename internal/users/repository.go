package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/scriba-dms/scriba/internal/auth"
	"github.com/scriba-dms/scriba/pkg/repository"
)

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a user repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "users"),
	}
}

func (r *repo) Handler(tokens *auth.Tokens) *Handler {
	return NewHandler(r, tokens, r.logger)
}

// Register creates a new user with hashed credentials. Admin and
// director are singleton roles; registering a second of either fails.
func (r *repo) Register(ctx context.Context, cmd RegisterCommand) (*User, error) {
	roles, err := ParseRoles(cmd.Roles)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (User, error) {
		set := NewRoleSet(roles...)

		if set.Contains(RoleAdmin) {
			if err := r.requireNone(ctx, tx, RoleAdmin, ErrAdminExists); err != nil {
				return User{}, err
			}
		}
		if set.Contains(RoleDirector) {
			if err := r.requireNone(ctx, tx, RoleDirector, ErrDirectorExists); err != nil {
				return User{}, err
			}
		}

		args := []any{
			uuid.New(),
			cmd.Username,
			cmd.Email,
			string(hash),
			cmd.FirstName,
			cmd.LastName,
			Strings(roles),
		}

		return repository.QueryOne(ctx, tx, insertUser, args, scanUser)
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("user registered", "username", u.Username, "roles", cmd.Roles)
	return &u, nil
}

// Authenticate verifies the password against the stored bcrypt hash.
func (r *repo) Authenticate(ctx context.Context, username, password string) (*User, error) {
	var hash string
	if err := r.db.QueryRowContext(ctx, selectHash, username).Scan(&hash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query credentials: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return r.Find(ctx, username)
}

func (r *repo) Find(ctx context.Context, username string) (*User, error) {
	return r.GetByUsername(ctx, r.db, username)
}

func (r *repo) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := repository.QueryOne(ctx, r.db, selectByID, []any{id}, scanUser)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &u, nil
}

func (r *repo) List(ctx context.Context) ([]User, error) {
	return repository.QueryMany(ctx, r.db, selectAll, nil, scanUser)
}

func (r *repo) GetByUsername(ctx context.Context, dbtx repository.DBTX, username string) (*User, error) {
	u, err := repository.QueryOne(ctx, dbtx, selectByUsername, []any{username}, scanUser)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &u, nil
}

// ListByRole returns the users holding role, ordered by registration
// time. Assignment relies on this ordering for deterministic tie-breaks.
func (r *repo) ListByRole(ctx context.Context, dbtx repository.DBTX, role Role) ([]User, error) {
	return repository.QueryMany(ctx, dbtx, selectByRole, []any{string(role)}, scanUser)
}

func (r *repo) requireNone(ctx context.Context, tx *sql.Tx, role Role, conflict error) error {
	count, err := repository.QueryCount(ctx, tx, countByRole, string(role))
	if err != nil {
		return fmt.Errorf("count %s holders: %w", role, err)
	}
	if count > 0 {
		return conflict
	}
	return nil
}
