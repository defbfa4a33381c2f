package archives

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/scriba-dms/scriba/pkg/pagination"
	"github.com/scriba-dms/scriba/pkg/query"
	"github.com/scriba-dms/scriba/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates an archive repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "archives"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Archive], error) {
	page.Normalize(r.pagination)

	qb := query.NewBuilder(projection, defaultSort)
	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count archives: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	records, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanArchive)
	if err != nil {
		return nil, fmt.Errorf("query archives: %w", err)
	}

	result := pagination.NewPageResult(records, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) FindByDocument(ctx context.Context, documentID uuid.UUID) (*Archive, error) {
	q, args := query.NewBuilder(projection).BuildSingle("DocumentID", documentID)

	ar, err := repository.QueryOne(ctx, r.db, q, args, scanArchive)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &ar, nil
}

func (r *repo) Get(ctx context.Context, dbtx repository.DBTX, documentID uuid.UUID) (*Archive, error) {
	ar, err := repository.QueryOne(ctx, dbtx, selectByDocumentForUpdate, []any{documentID}, scanArchive)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &ar, nil
}

// Create opens the archival stage for a document. The unique constraint
// on document_id turns a second create into ErrDuplicate.
func (r *repo) Create(ctx context.Context, dbtx repository.DBTX, documentID, assigneeID uuid.UUID) (*Archive, error) {
	args := []any{uuid.New(), documentID, assigneeID, string(StatusPending)}

	ar, err := repository.QueryOne(ctx, dbtx, insertArchive, args, scanArchive)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("archive created", "document", documentID, "assignee", assigneeID)
	return &ar, nil
}

// Advance moves the archive to the target status on behalf of its
// assignee. Assignees may only request DONE or AWAITING_SIGNATURE;
// SIGNED_PENDING is reserved for the signing continuation and is
// reached through Move.
func (r *repo) Advance(ctx context.Context, dbtx repository.DBTX, archive *Archive, target Status, actorID uuid.UUID) (*Archive, error) {
	if archive.AssigneeID != actorID {
		return nil, ErrNotAssignee
	}
	if archive.Status == StatusDone {
		return nil, ErrAlreadyCompleted
	}
	if target != StatusDone && target != StatusAwaitingSignature {
		return nil, fmt.Errorf("%w: %s not requestable", ErrIllegalStatus, target)
	}

	return r.Move(ctx, dbtx, archive, target)
}

// Move applies a policy-checked status change. Reaching DONE stamps
// the archival time.
func (r *repo) Move(ctx context.Context, dbtx repository.DBTX, archive *Archive, target Status) (*Archive, error) {
	if !CanAdvance(archive.Status, target) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrIllegalStatus, archive.Status, target)
	}

	var archivedAt *time.Time
	if target == StatusDone {
		now := time.Now().UTC()
		archivedAt = &now
	}

	ar, err := repository.QueryOne(
		ctx, dbtx,
		advanceArchive,
		[]any{archive.ID, string(target), archivedAt},
		scanArchive,
	)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("archive advanced", "document", ar.DocumentID, "status", ar.Status)
	return &ar, nil
}

func (r *repo) PendingLoad(ctx context.Context, dbtx repository.DBTX, assigneeID uuid.UUID) (int, error) {
	return repository.QueryCount(ctx, dbtx, pendingCountByAssignee, assigneeID)
}
