// Package archives implements the archive task registry. Archival has
// more states than the other task kinds because an accountant may
// require an interleaved signature before filing the document.
package archives

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status marks an archive's lifecycle position.
type Status string

// Archive statuses.
const (
	StatusPending           Status = "PENDING"
	StatusAwaitingSignature Status = "AWAITING_SIGNATURE"
	StatusSignedPending     Status = "SIGNED_PENDING"
	StatusDone              Status = "DONE"
)

// Statuses lists every archive status.
var Statuses = []Status{
	StatusPending,
	StatusAwaitingSignature,
	StatusSignedPending,
	StatusDone,
}

// advances is the archive status graph. PENDING forks between direct
// archival and the signature detour; SIGNED_PENDING funnels back to DONE.
var advances = map[Status][]Status{
	StatusPending:           {StatusDone, StatusAwaitingSignature},
	StatusAwaitingSignature: {StatusSignedPending},
	StatusSignedPending:     {StatusDone},
	StatusDone:              {},
}

// Archive is the task record for the archival stage. DocumentID and
// AssigneeID are fixed at creation.
type Archive struct {
	ID         uuid.UUID  `json:"id"`
	DocumentID uuid.UUID  `json:"document_id"`
	AssigneeID uuid.UUID  `json:"assignee_id"`
	Status     Status     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	ArchivedAt *time.Time `json:"archived_at,omitempty"`
}

// ParseStatus validates a status string against the closed enumeration.
func ParseStatus(s string) (Status, error) {
	for _, status := range Statuses {
		if s == string(status) {
			return status, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrIllegalStatus, s)
}

// CanAdvance reports whether the archive graph permits from → to.
func CanAdvance(from, to Status) bool {
	for _, next := range advances[from] {
		if next == to {
			return true
		}
	}
	return false
}
