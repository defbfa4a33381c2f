package archives

import (
	"net/url"

	"github.com/google/uuid"

	"github.com/scriba-dms/scriba/pkg/query"
	"github.com/scriba-dms/scriba/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "archives", "ar").
	Project("id", "ID").
	Project("document_id", "DocumentID").
	Project("assignee_id", "AssigneeID").
	Project("status", "Status").
	Project("created_at", "CreatedAt").
	Project("archive_at", "ArchivedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

const archiveColumns = `ar.id, ar.document_id, ar.assignee_id, ar.status, ar.created_at, ar.archive_at`

const (
	selectByDocumentForUpdate = `SELECT ` + archiveColumns + ` FROM public.archives ar WHERE ar.document_id = $1 FOR UPDATE`

	insertArchive = `
		INSERT INTO public.archives(id, document_id, assignee_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, document_id, assignee_id, status, created_at, archive_at`

	advanceArchive = `
		UPDATE public.archives SET status = $2, archive_at = $3
		WHERE id = $1
		RETURNING id, document_id, assignee_id, status, created_at, archive_at`

	// SIGNED_PENDING counts toward load: the detour through signing
	// still ends on the original accountant's desk.
	pendingCountByAssignee = `
		SELECT COUNT(*) FROM public.archives ar
		WHERE ar.assignee_id = $1 AND ar.status IN ('PENDING', 'SIGNED_PENDING')`
)

// Filters contains optional filtering criteria for archive queries.
// Nil fields are ignored; all fields use exact matching.
type Filters struct {
	Status     *string    `json:"status,omitempty"`
	AssigneeID *uuid.UUID `json:"assignee_id,omitempty"`
	DocumentID *uuid.UUID `json:"document_id,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereEquals("AssigneeID", f.AssigneeID).
		WhereEquals("DocumentID", f.DocumentID)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	if assignee := values.Get("assignee_id"); assignee != "" {
		if id, err := uuid.Parse(assignee); err == nil {
			f.AssigneeID = &id
		}
	}

	if document := values.Get("document_id"); document != "" {
		if id, err := uuid.Parse(document); err == nil {
			f.DocumentID = &id
		}
	}

	return f
}

func scanArchive(s repository.Scanner) (Archive, error) {
	var ar Archive
	err := s.Scan(
		&ar.ID,
		&ar.DocumentID,
		&ar.AssigneeID,
		&ar.Status,
		&ar.CreatedAt,
		&ar.ArchivedAt,
	)
	return ar, err
}
