package documents

import "fmt"

// Status marks a document's position in the approval pipeline. It is
// the single source of truth for pipeline position and only moves
// along edges of the transition graph.
type Status string

// Pipeline statuses.
const (
	StatusScanned           Status = "SCANNED"
	StatusApproved          Status = "APPROVED"
	StatusRefused           Status = "REFUSED"
	StatusAudited           Status = "AUDITED"
	StatusSigned            Status = "SIGNED"
	StatusArchived          Status = "ARCHIVED"
	StatusSignedAndArchived Status = "SIGNED_AND_ARCHIVED"
)

// Statuses lists every document status in pipeline order.
var Statuses = []Status{
	StatusScanned,
	StatusApproved,
	StatusRefused,
	StatusAudited,
	StatusSigned,
	StatusArchived,
	StatusSignedAndArchived,
}

// transitions is the status graph. A status maps to its legal
// successors; terminal statuses map to an empty set.
var transitions = map[Status][]Status{
	StatusScanned:           {StatusApproved, StatusRefused},
	StatusApproved:          {StatusAudited},
	StatusAudited:           {StatusSigned, StatusArchived},
	StatusSigned:            {StatusSignedAndArchived},
	StatusRefused:           {},
	StatusArchived:          {},
	StatusSignedAndArchived: {},
}

// ParseStatus validates a status string against the closed enumeration.
func ParseStatus(s string) (Status, error) {
	for _, status := range Statuses {
		if s == string(status) {
			return status, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrStatusNotProvided, s)
}

// CanTransition reports whether the status graph permits from → to.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether a status has no successors.
func Terminal(status Status) bool {
	return len(transitions[status]) == 0
}

// Transition moves the document to the target status, failing with
// ErrStatusNotCompatible when the graph has no such edge. It is the
// only writer of the status field.
func (d *Document) Transition(to Status) error {
	if !CanTransition(d.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrStatusNotCompatible, d.Status, to)
	}
	d.Status = to
	return nil
}

// ValidateTransitions verifies the graph covers every status and that
// no status can reach itself. Called once at startup.
func ValidateTransitions() error {
	for _, status := range Statuses {
		if _, ok := transitions[status]; !ok {
			return fmt.Errorf("status %s has no transition entry", status)
		}
		if reaches(status, status, nil) {
			return fmt.Errorf("status %s can reach itself", status)
		}
	}
	return nil
}

func reaches(from, target Status, seen []Status) bool {
	for _, visited := range seen {
		if visited == from {
			return false
		}
	}
	seen = append(seen, from)

	for _, next := range transitions[from] {
		if next == target || reaches(next, target, seen) {
			return true
		}
	}
	return false
}
