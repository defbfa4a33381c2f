package signatures

import (
	"net/url"

	"github.com/google/uuid"

	"github.com/scriba-dms/scriba/pkg/query"
	"github.com/scriba-dms/scriba/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "signatures", "s").
	Project("id", "ID").
	Project("document_id", "DocumentID").
	Project("assignee_id", "AssigneeID").
	Project("status", "Status").
	Project("created_at", "CreatedAt").
	Project("signed_at", "SignedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

const signatureColumns = `s.id, s.document_id, s.assignee_id, s.status, s.created_at, s.signed_at`

const (
	selectByDocumentForUpdate = `SELECT ` + signatureColumns + ` FROM public.signatures s WHERE s.document_id = $1 FOR UPDATE`

	insertSignature = `
		INSERT INTO public.signatures(id, document_id, assignee_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, document_id, assignee_id, status, created_at, signed_at`

	completeSignature = `
		UPDATE public.signatures SET status = $2, signed_at = now()
		WHERE id = $1
		RETURNING id, document_id, assignee_id, status, created_at, signed_at`

	pendingCountByAssignee = `
		SELECT COUNT(*) FROM public.signatures s
		WHERE s.assignee_id = $1 AND s.status = 'PENDING'`
)

// Filters contains optional filtering criteria for signature queries.
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

func scanSignature(s repository.Scanner) (Signature, error) {
	var sig Signature
	err := s.Scan(
		&sig.ID,
		&sig.DocumentID,
		&sig.AssigneeID,
		&sig.Status,
		&sig.CreatedAt,
		&sig.SignedAt,
	)
	return sig, err
}
