// Package documents implements the document lifecycle: scan ingestion,
// type detection, and the status state machine that tracks a document's
// position in the approval pipeline.
package documents

import (
	"time"

	"github.com/google/uuid"
)

// Document is a scanned document moving through the approval pipeline.
// Mutable state is limited to Status and Summary; everything else is
// fixed at ingestion.
type Document struct {
	ID         uuid.UUID `json:"id"`
	OwnerID    uuid.UUID `json:"owner_id"`
	Type       Type      `json:"document_type"`
	Summary    string    `json:"summary"`
	Status     Status    `json:"status"`
	StorageKey string    `json:"storage_key"`
	PageCount  int       `json:"page_count"`
	ScannedAt  time.Time `json:"scanned_at"`
}

// IngestCommand carries a raw scan into the pipeline.
type IngestCommand struct {
	OwnerID     uuid.UUID
	Data        []byte
	ContentType string
	Filename    string
	PageCount   int
}

// StatusCommand requests a status change, optionally overwriting the
// summary with human-corrected text.
type StatusCommand struct {
	Status  string  `json:"status"`
	Summary *string `json:"summary,omitempty"`
}
