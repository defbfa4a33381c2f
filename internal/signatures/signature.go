// Package signatures implements the signature task registry: one
// signature record per document, assigned to the director, signed
// exactly once.
package signatures

import (
	"time"

	"github.com/google/uuid"
)

// Status marks a signature's lifecycle position.
type Status string

// Signature statuses.
const (
	StatusPending Status = "PENDING"
	StatusDone    Status = "DONE"
)

// Signature is the task record for the signing stage. DocumentID and
// AssigneeID are fixed at creation.
type Signature struct {
	ID         uuid.UUID  `json:"id"`
	DocumentID uuid.UUID  `json:"document_id"`
	AssigneeID uuid.UUID  `json:"assignee_id"`
	Status     Status     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	SignedAt   *time.Time `json:"signed_at,omitempty"`
}
