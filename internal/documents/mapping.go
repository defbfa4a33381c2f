package documents

import (
	"net/url"

	"github.com/google/uuid"

	"github.com/scriba-dms/scriba/pkg/query"
	"github.com/scriba-dms/scriba/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "documents", "d").
	Project("id", "ID").
	Project("owner_id", "OwnerID").
	Project("document_type", "Type").
	Project("summary", "Summary").
	Project("status", "Status").
	Project("storage_key", "StorageKey").
	Project("page_count", "PageCount").
	Project("scanned_at", "ScannedAt")

var defaultSort = query.SortField{
	Field:      "ScannedAt",
	Descending: true,
}

const documentColumns = `d.id, d.owner_id, d.document_type, d.summary, d.status, d.storage_key, d.page_count, d.scanned_at`

const (
	selectForUpdate = `SELECT ` + documentColumns + ` FROM public.documents d WHERE d.id = $1 FOR UPDATE`

	insertDocument = `
		INSERT INTO public.documents(id, owner_id, document_type, summary, status, storage_key, page_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, owner_id, document_type, summary, status, storage_key, page_count, scanned_at`

	updateDocument = `
		UPDATE public.documents SET status = $2, summary = $3
		WHERE id = $1
		RETURNING id, owner_id, document_type, summary, status, storage_key, page_count, scanned_at`
)

// Filters contains optional filtering criteria for document queries.
// Nil fields are ignored; all fields use exact matching.
type Filters struct {
	Status  *string    `json:"status,omitempty"`
	Type    *string    `json:"document_type,omitempty"`
	OwnerID *uuid.UUID `json:"owner_id,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereEquals("Type", f.Type).
		WhereEquals("OwnerID", f.OwnerID)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	if dt := values.Get("document_type"); dt != "" {
		f.Type = &dt
	}

	if owner := values.Get("owner_id"); owner != "" {
		if id, err := uuid.Parse(owner); err == nil {
			f.OwnerID = &id
		}
	}

	return f
}

func scanDocument(s repository.Scanner) (Document, error) {
	var d Document
	err := s.Scan(
		&d.ID,
		&d.OwnerID,
		&d.Type,
		&d.Summary,
		&d.Status,
		&d.StorageKey,
		&d.PageCount,
		&d.ScannedAt,
	)
	return d, err
}
