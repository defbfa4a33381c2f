// Package statistics summarizes pipeline state for the dashboard: the
// document population by status plus the caller's own pending work.
package statistics

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/scriba-dms/scriba/internal/users"
	"github.com/scriba-dms/scriba/pkg/repository"
)

const (
	countDocumentsByStatus = `SELECT d.status, COUNT(*) FROM public.documents d GROUP BY d.status`
	countOwnedDocuments    = `SELECT COUNT(*) FROM public.documents d WHERE d.owner_id = $1`
	countPendingAudits     = `SELECT COUNT(*) FROM public.audits a WHERE a.assignee_id = $1 AND a.status = 'PENDING'`
	countPendingSignatures = `SELECT COUNT(*) FROM public.signatures s WHERE s.assignee_id = $1 AND s.status = 'PENDING'`
	countPendingArchives   = `SELECT COUNT(*) FROM public.archives ar WHERE ar.assignee_id = $1 AND ar.status IN ('PENDING', 'SIGNED_PENDING')`
)

// Summary reports pipeline counts. Task fields appear only for callers
// holding the matching role.
type Summary struct {
	Documents         map[string]int `json:"documents"`
	OwnedDocuments    int            `json:"owned_documents"`
	PendingAudits     *int           `json:"pending_audits,omitempty"`
	PendingSignatures *int           `json:"pending_signatures,omitempty"`
	PendingArchives   *int           `json:"pending_archives,omitempty"`
}

// System defines the public contract for pipeline statistics.
type System interface {
	Handler(owners Owners) *Handler
	Summarize(ctx context.Context, caller *users.User) (*Summary, error)
}

// Owners resolves usernames to registered users. Satisfied by the
// identity system.
type Owners interface {
	Find(ctx context.Context, username string) (*users.User, error)
}

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a statistics repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "statistics"),
	}
}

func (r *repo) Handler(owners Owners) *Handler {
	return NewHandler(r, owners, r.logger)
}

// Summarize gathers the counts concurrently; each count is an
// independent read.
func (r *repo) Summarize(ctx context.Context, caller *users.User) (*Summary, error) {
	summary := &Summary{}
	roles := caller.RoleSet()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		byStatus, err := r.documentsByStatus(ctx)
		if err != nil {
			return err
		}
		summary.Documents = byStatus
		return nil
	})

	g.Go(func() error {
		owned, err := repository.QueryCount(ctx, r.db, countOwnedDocuments, caller.ID)
		if err != nil {
			return fmt.Errorf("count owned documents: %w", err)
		}
		summary.OwnedDocuments = owned
		return nil
	})

	if roles.Contains(users.RoleAuditor) {
		g.Go(func() error {
			count, err := repository.QueryCount(ctx, r.db, countPendingAudits, caller.ID)
			if err != nil {
				return fmt.Errorf("count pending audits: %w", err)
			}
			summary.PendingAudits = &count
			return nil
		})
	}

	if roles.Contains(users.RoleDirector) {
		g.Go(func() error {
			count, err := repository.QueryCount(ctx, r.db, countPendingSignatures, caller.ID)
			if err != nil {
				return fmt.Errorf("count pending signatures: %w", err)
			}
			summary.PendingSignatures = &count
			return nil
		})
	}

	if roles.ContainsAny(users.RoleAccountantReceipt, users.RoleAccountantOffer, users.RoleAccountantInternal) {
		g.Go(func() error {
			count, err := repository.QueryCount(ctx, r.db, countPendingArchives, caller.ID)
			if err != nil {
				return fmt.Errorf("count pending archives: %w", err)
			}
			summary.PendingArchives = &count
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return summary, nil
}

func (r *repo) documentsByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, countDocumentsByStatus)
	if err != nil {
		return nil, fmt.Errorf("count documents by status: %w", err)
	}
	defer rows.Close()

	byStatus := make(map[string]int)
	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		byStatus[status] = count
	}

	return byStatus, rows.Err()
}
