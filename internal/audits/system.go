package audits

import (
	"context"

	"github.com/google/uuid"

	"github.com/scriba-dms/scriba/pkg/pagination"
	"github.com/scriba-dms/scriba/pkg/repository"
)

// System defines the public contract for the audit registry.
type System interface {
	Handler() *Handler

	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Audit], error)
	FindByDocument(ctx context.Context, documentID uuid.UUID) (*Audit, error)

	// The remaining operations participate in orchestration
	// transactions. Get locks the row so concurrent completion
	// attempts on the same audit serialize.
	Get(ctx context.Context, dbtx repository.DBTX, documentID uuid.UUID) (*Audit, error)
	Create(ctx context.Context, dbtx repository.DBTX, documentID, assigneeID uuid.UUID) (*Audit, error)
	Complete(ctx context.Context, dbtx repository.DBTX, audit *Audit, actorID uuid.UUID) (*Audit, error)
	PendingLoad(ctx context.Context, dbtx repository.DBTX, assigneeID uuid.UUID) (int, error)
}
