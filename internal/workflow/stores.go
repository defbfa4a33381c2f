package workflow

import (
	"context"

	"github.com/google/uuid"

	"github.com/scriba-dms/scriba/internal/archives"
	"github.com/scriba-dms/scriba/internal/audits"
	"github.com/scriba-dms/scriba/internal/documents"
	"github.com/scriba-dms/scriba/internal/signatures"
	"github.com/scriba-dms/scriba/internal/users"
	"github.com/scriba-dms/scriba/pkg/repository"
)

// The orchestrator composes the domain systems inside a single
// transaction per operation. Each store is the transactional slice of
// its domain system.

// DocumentStore reads and writes documents inside a transaction.
type DocumentStore interface {
	GetForUpdate(ctx context.Context, dbtx repository.DBTX, id uuid.UUID) (*documents.Document, error)
	Apply(ctx context.Context, dbtx repository.DBTX, d *documents.Document) (*documents.Document, error)
}

// AuditStore manages audit records inside a transaction.
type AuditStore interface {
	Get(ctx context.Context, dbtx repository.DBTX, documentID uuid.UUID) (*audits.Audit, error)
	Create(ctx context.Context, dbtx repository.DBTX, documentID, assigneeID uuid.UUID) (*audits.Audit, error)
	Complete(ctx context.Context, dbtx repository.DBTX, audit *audits.Audit, actorID uuid.UUID) (*audits.Audit, error)
}

// SignatureStore manages signature records inside a transaction.
type SignatureStore interface {
	Get(ctx context.Context, dbtx repository.DBTX, documentID uuid.UUID) (*signatures.Signature, error)
	Create(ctx context.Context, dbtx repository.DBTX, documentID, assigneeID uuid.UUID) (*signatures.Signature, error)
	Complete(ctx context.Context, dbtx repository.DBTX, signature *signatures.Signature, actorID uuid.UUID) (*signatures.Signature, error)
}

// ArchiveStore manages archive records inside a transaction.
type ArchiveStore interface {
	Get(ctx context.Context, dbtx repository.DBTX, documentID uuid.UUID) (*archives.Archive, error)
	Create(ctx context.Context, dbtx repository.DBTX, documentID, assigneeID uuid.UUID) (*archives.Archive, error)
	Advance(ctx context.Context, dbtx repository.DBTX, archive *archives.Archive, target archives.Status, actorID uuid.UUID) (*archives.Archive, error)
	Move(ctx context.Context, dbtx repository.DBTX, archive *archives.Archive, target archives.Status) (*archives.Archive, error)
}

// UserStore resolves acting usernames inside a transaction.
type UserStore interface {
	GetByUsername(ctx context.Context, dbtx repository.DBTX, username string) (*users.User, error)
}

// Assigner selects the least-loaded holder of a role.
type Assigner interface {
	Assign(ctx context.Context, dbtx repository.DBTX, role users.Role) (*users.User, error)
}
