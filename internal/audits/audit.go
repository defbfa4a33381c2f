// Package audits implements the audit task registry: one audit record
// per document, assigned to an auditor, completed exactly once.
package audits

import (
	"time"

	"github.com/google/uuid"
)

// Status marks an audit's lifecycle position.
type Status string

// Audit statuses.
const (
	StatusPending Status = "PENDING"
	StatusDone    Status = "DONE"
)

// Audit is the task record for the audit stage. DocumentID and
// AssigneeID are fixed at creation.
type Audit struct {
	ID         uuid.UUID  `json:"id"`
	DocumentID uuid.UUID  `json:"document_id"`
	AssigneeID uuid.UUID  `json:"assignee_id"`
	Status     Status     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	AuditedAt  *time.Time `json:"audited_at,omitempty"`
}
