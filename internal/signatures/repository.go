package signatures

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

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

// New creates a signature repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "signatures"),
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
) (*pagination.PageResult[Signature], error) {
	page.Normalize(r.pagination)

	qb := query.NewBuilder(projection, defaultSort)
	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count signatures: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	records, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanSignature)
	if err != nil {
		return nil, fmt.Errorf("query signatures: %w", err)
	}

	result := pagination.NewPageResult(records, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) FindByDocument(ctx context.Context, documentID uuid.UUID) (*Signature, error) {
	q, args := query.NewBuilder(projection).BuildSingle("DocumentID", documentID)

	s, err := repository.QueryOne(ctx, r.db, q, args, scanSignature)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &s, nil
}

func (r *repo) Get(ctx context.Context, dbtx repository.DBTX, documentID uuid.UUID) (*Signature, error) {
	s, err := repository.QueryOne(ctx, dbtx, selectByDocumentForUpdate, []any{documentID}, scanSignature)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &s, nil
}

// Create opens the signing stage for a document. The unique constraint
// on document_id turns a second create into ErrDuplicate.
func (r *repo) Create(ctx context.Context, dbtx repository.DBTX, documentID, assigneeID uuid.UUID) (*Signature, error) {
	args := []any{uuid.New(), documentID, assigneeID, string(StatusPending)}

	s, err := repository.QueryOne(ctx, dbtx, insertSignature, args, scanSignature)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("signature created", "document", documentID, "assignee", assigneeID)
	return &s, nil
}

// Complete marks the signature DONE. Only the assignee may sign, and
// only once.
func (r *repo) Complete(ctx context.Context, dbtx repository.DBTX, signature *Signature, actorID uuid.UUID) (*Signature, error) {
	if signature.AssigneeID != actorID {
		return nil, ErrNotAssignee
	}
	if signature.Status == StatusDone {
		return nil, ErrAlreadyCompleted
	}

	s, err := repository.QueryOne(
		ctx, dbtx,
		completeSignature,
		[]any{signature.ID, string(StatusDone)},
		scanSignature,
	)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("signature completed", "document", s.DocumentID, "assignee", s.AssigneeID)
	return &s, nil
}

func (r *repo) PendingLoad(ctx context.Context, dbtx repository.DBTX, assigneeID uuid.UUID) (int, error) {
	return repository.QueryCount(ctx, dbtx, pendingCountByAssignee, assigneeID)
}
