package audits

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

// New creates an audit repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "audits"),
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
) (*pagination.PageResult[Audit], error) {
	page.Normalize(r.pagination)

	qb := query.NewBuilder(projection, defaultSort)
	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count audits: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	records, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanAudit)
	if err != nil {
		return nil, fmt.Errorf("query audits: %w", err)
	}

	result := pagination.NewPageResult(records, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) FindByDocument(ctx context.Context, documentID uuid.UUID) (*Audit, error) {
	q, args := query.NewBuilder(projection).BuildSingle("DocumentID", documentID)

	a, err := repository.QueryOne(ctx, r.db, q, args, scanAudit)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &a, nil
}

func (r *repo) Get(ctx context.Context, dbtx repository.DBTX, documentID uuid.UUID) (*Audit, error) {
	a, err := repository.QueryOne(ctx, dbtx, selectByDocumentForUpdate, []any{documentID}, scanAudit)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &a, nil
}

// Create opens the audit stage for a document. The unique constraint
// on document_id turns a second create into ErrDuplicate.
func (r *repo) Create(ctx context.Context, dbtx repository.DBTX, documentID, assigneeID uuid.UUID) (*Audit, error) {
	args := []any{uuid.New(), documentID, assigneeID, string(StatusPending)}

	a, err := repository.QueryOne(ctx, dbtx, insertAudit, args, scanAudit)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("audit created", "document", documentID, "assignee", assigneeID)
	return &a, nil
}

// Complete marks the audit DONE. Only the assignee may complete it,
// and only once.
func (r *repo) Complete(ctx context.Context, dbtx repository.DBTX, audit *Audit, actorID uuid.UUID) (*Audit, error) {
	if audit.AssigneeID != actorID {
		return nil, ErrNotAssignee
	}
	if audit.Status == StatusDone {
		return nil, ErrAlreadyCompleted
	}

	a, err := repository.QueryOne(
		ctx, dbtx,
		completeAudit,
		[]any{audit.ID, string(StatusDone)},
		scanAudit,
	)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("audit completed", "document", a.DocumentID, "assignee", a.AssigneeID)
	return &a, nil
}

func (r *repo) PendingLoad(ctx context.Context, dbtx repository.DBTX, assigneeID uuid.UUID) (int, error) {
	return repository.QueryCount(ctx, dbtx, pendingCountByAssignee, assigneeID)
}
