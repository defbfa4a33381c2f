package documents

import (
	"context"

	"github.com/google/uuid"

	"github.com/scriba-dms/scriba/internal/users"
	"github.com/scriba-dms/scriba/pkg/pagination"
	"github.com/scriba-dms/scriba/pkg/repository"
)

// Owners resolves usernames to registered users. Satisfied by the
// identity system.
type Owners interface {
	Find(ctx context.Context, username string) (*users.User, error)
}

// System defines the public contract for the document domain.
type System interface {
	Handler(owners Owners, maxUploadSize int64) *Handler

	Ingest(ctx context.Context, cmd IngestCommand) (*Document, error)
	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Document], error)
	Find(ctx context.Context, id uuid.UUID) (*Document, error)
	SetStatus(ctx context.Context, id uuid.UUID, cmd StatusCommand) (*Document, error)

	// GetForUpdate and Apply participate in orchestration transactions.
	// GetForUpdate locks the row so concurrent pipeline operations on
	// the same document serialize.
	GetForUpdate(ctx context.Context, dbtx repository.DBTX, id uuid.UUID) (*Document, error)
	Apply(ctx context.Context, dbtx repository.DBTX, d *Document) (*Document, error)
}
