package archives

import (
	"errors"
	"net/http"
)

// Domain errors for archive operations.
var (
	ErrNotFound         = errors.New("archive not found")
	ErrDuplicate        = errors.New("archive already exists for this document")
	ErrAlreadyCompleted = errors.New("archive is already completed")
	ErrNotAssignee      = errors.New("actor is not the archive assignee")
	ErrIllegalStatus    = errors.New("archive status move not permitted")
)

// MapHTTPStatus maps archive domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate),
		errors.Is(err, ErrAlreadyCompleted),
		errors.Is(err, ErrIllegalStatus):
		return http.StatusConflict
	case errors.Is(err, ErrNotAssignee):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
