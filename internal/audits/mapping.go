package audits

import (
	"net/url"

	"github.com/google/uuid"

	"github.com/scriba-dms/scriba/pkg/query"
	"github.com/scriba-dms/scriba/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "audits", "a").
	Project("id", "ID").
	Project("document_id", "DocumentID").
	Project("assignee_id", "AssigneeID").
	Project("status", "Status").
	Project("created_at", "CreatedAt").
	Project("audited_at", "AuditedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

const auditColumns = `a.id, a.document_id, a.assignee_id, a.status, a.created_at, a.audited_at`

const (
	selectByDocumentForUpdate = `SELECT ` + auditColumns + ` FROM public.audits a WHERE a.document_id = $1 FOR UPDATE`

	insertAudit = `
		INSERT INTO public.audits(id, document_id, assignee_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, document_id, assignee_id, status, created_at, audited_at`

	completeAudit = `
		UPDATE public.audits SET status = $2, audited_at = now()
		WHERE id = $1
		RETURNING id, document_id, assignee_id, status, created_at, audited_at`

	pendingCountByAssignee = `
		SELECT COUNT(*) FROM public.audits a
		WHERE a.assignee_id = $1 AND a.status = 'PENDING'`
)

// Filters contains optional filtering criteria for audit queries.
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

func scanAudit(s repository.Scanner) (Audit, error) {
	var a Audit
	err := s.Scan(
		&a.ID,
		&a.DocumentID,
		&a.AssigneeID,
		&a.Status,
		&a.CreatedAt,
		&a.AuditedAt,
	)
	return a, err
}
