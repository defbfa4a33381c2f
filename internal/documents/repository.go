package documents

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/scriba-dms/scriba/internal/classifier"
	"github.com/scriba-dms/scriba/pkg/formatting"
	"github.com/scriba-dms/scriba/pkg/pagination"
	"github.com/scriba-dms/scriba/pkg/query"
	"github.com/scriba-dms/scriba/pkg/repository"
	"github.com/scriba-dms/scriba/pkg/storage"
)

type repo struct {
	db         *sql.DB
	storage    storage.System
	classifier classifier.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a document repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	classify classifier.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		storage:    store,
		classifier: classify,
		logger:     logger.With("system", "documents"),
		pagination: pagination,
	}
}

func (r *repo) Handler(owners Owners, maxUploadSize int64) *Handler {
	return NewHandler(r, owners, r.logger, r.pagination, maxUploadSize)
}

// Ingest runs a raw scan through the external classifier, detects the
// document type from the extracted text, stores the scan blob, and
// creates the document in SCANNED.
func (r *repo) Ingest(ctx context.Context, cmd IngestCommand) (*Document, error) {
	summary, err := r.classifier.Classify(ctx, cmd.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotDetected, err)
	}

	dtype, err := ClassifyText(summary)
	if err != nil {
		return nil, err
	}

	id := uuid.New()
	key := buildStorageKey(id, sanitizeFilename(cmd.Filename))

	if err := r.storage.Upload(ctx, key, bytes.NewReader(cmd.Data), cmd.ContentType); err != nil {
		return nil, fmt.Errorf("upload scan blob: %w", err)
	}

	args := []any{
		id,
		cmd.OwnerID,
		string(dtype),
		summary,
		string(StatusScanned),
		key,
		cmd.PageCount,
	}

	d, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Document, error) {
		return repository.QueryOne(ctx, tx, insertDocument, args, scanDocument)
	})

	if err != nil {
		if delErr := r.storage.Delete(ctx, key); delErr != nil {
			r.logger.Warn("compensating blob delete failed", "key", key, "error", delErr)
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info(
		"document ingested",
		"id", d.ID,
		"type", d.Type,
		"owner", d.OwnerID,
		"size", formatting.FormatBytes(int64(len(cmd.Data)), 1),
	)
	return &d, nil
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Document], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Summary")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	docs, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanDocument)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}

	result := pagination.NewPageResult(docs, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Document, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	d, err := repository.QueryOne(ctx, r.db, q, args, scanDocument)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &d, nil
}

// SetStatus applies a manual status change under its own transaction,
// optionally overwriting the summary with corrected text.
func (r *repo) SetStatus(ctx context.Context, id uuid.UUID, cmd StatusCommand) (*Document, error) {
	target, err := ParseStatus(cmd.Status)
	if err != nil {
		return nil, err
	}

	d, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Document, error) {
		doc, err := r.GetForUpdate(ctx, tx, id)
		if err != nil {
			return Document{}, err
		}

		if err := doc.Transition(target); err != nil {
			return Document{}, err
		}

		if cmd.Summary != nil {
			doc.Summary = *cmd.Summary
		}

		updated, err := r.Apply(ctx, tx, doc)
		if err != nil {
			return Document{}, err
		}
		return *updated, nil
	})

	if err != nil {
		return nil, err
	}

	r.logger.Info("document status set", "id", id, "status", d.Status)
	return &d, nil
}

func (r *repo) GetForUpdate(ctx context.Context, dbtx repository.DBTX, id uuid.UUID) (*Document, error) {
	d, err := repository.QueryOne(ctx, dbtx, selectForUpdate, []any{id}, scanDocument)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &d, nil
}

// Apply persists the document's current status and summary. Callers
// mutate through Transition first so only policy-approved states reach
// the store.
func (r *repo) Apply(ctx context.Context, dbtx repository.DBTX, d *Document) (*Document, error) {
	updated, err := repository.QueryOne(
		ctx, dbtx,
		updateDocument,
		[]any{d.ID, string(d.Status), d.Summary},
		scanDocument,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update document: %w", err)
	}
	return &updated, nil
}

func buildStorageKey(id uuid.UUID, filename string) string {
	return fmt.Sprintf("scans/%s/%s", id, filename)
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	if name == "." || name == "" {
		name = "scan"
	}
	return url.PathEscape(name)
}
