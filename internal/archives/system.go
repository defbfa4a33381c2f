package archives

import (
	"context"

	"github.com/google/uuid"

	"github.com/scriba-dms/scriba/pkg/pagination"
	"github.com/scriba-dms/scriba/pkg/repository"
)

// System defines the public contract for the archive registry.
type System interface {
	Handler() *Handler

	List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Archive], error)
	FindByDocument(ctx context.Context, documentID uuid.UUID) (*Archive, error)

	// The remaining operations participate in orchestration
	// transactions. Get locks the row so concurrent advances on the
	// same archive serialize.
	Get(ctx context.Context, dbtx repository.DBTX, documentID uuid.UUID) (*Archive, error)
	Create(ctx context.Context, dbtx repository.DBTX, documentID, assigneeID uuid.UUID) (*Archive, error)
	Advance(ctx context.Context, dbtx repository.DBTX, archive *Archive, target Status, actorID uuid.UUID) (*Archive, error)
	// Move applies a policy-checked status change without an actor
	// gate. Used for the signing continuation, which is driven by the
	// director rather than the archive assignee.
	Move(ctx context.Context, dbtx repository.DBTX, archive *Archive, target Status) (*Archive, error)
	PendingLoad(ctx context.Context, dbtx repository.DBTX, assigneeID uuid.UUID) (int, error)
}
