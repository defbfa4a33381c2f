package signatures

import (
	"context"

	"github.com/google/uuid"

	"github.com/scriba-dms/scriba/pkg/pagination"
	"github.com/scriba-dms/scriba/pkg/repository"
)

// System defines the public contract for the signature registry.
type System interface {
	Handler() *Handler

	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Signature], error)
	FindByDocument(ctx context.Context, documentID uuid.UUID) (*Signature, error)

	// The remaining operations participate in orchestration
	// transactions. Get locks the row so concurrent signing attempts
	// on the same document serialize.
	Get(ctx context.Context, dbtx repository.DBTX, documentID uuid.UUID) (*Signature, error)
	Create(ctx context.Context, dbtx repository.DBTX, documentID, assigneeID uuid.UUID) (*Signature, error)
	Complete(ctx context.Context, dbtx repository.DBTX, signature *Signature, actorID uuid.UUID) (*Signature, error)
	PendingLoad(ctx context.Context, dbtx repository.DBTX, assigneeID uuid.UUID) (int, error)
}
