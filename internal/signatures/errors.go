package signatures

import (
	"errors"
	"net/http"
)

// Domain errors for signature operations.
var (
	ErrNotFound         = errors.New("signature not found")
	ErrDuplicate        = errors.New("signature already exists for this document")
	ErrAlreadyCompleted = errors.New("signature is already completed")
	ErrNotAssignee      = errors.New("actor is not the signature assignee")
)

// MapHTTPStatus maps signature domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrAlreadyCompleted):
		return http.StatusConflict
	case errors.Is(err, ErrNotAssignee):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
