package audits

import (
	"errors"
	"net/http"
)

// Domain errors for audit operations.
var (
	ErrNotFound         = errors.New("audit not found")
	ErrDuplicate        = errors.New("audit already exists for this document")
	ErrAlreadyCompleted = errors.New("audit is already completed")
	ErrNotAssignee      = errors.New("actor is not the audit assignee")
)

// MapHTTPStatus maps audit domain errors to HTTP status codes.
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
