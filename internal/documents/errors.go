package documents

import (
	"errors"
	"net/http"
)

// Domain errors for document operations.
var (
	ErrNotFound            = errors.New("document not found")
	ErrDuplicate           = errors.New("document already exists")
	ErrStatusNotCompatible = errors.New("document status transition not permitted")
	ErrStatusNotProvided   = errors.New("document status not provided or unknown")
	ErrTypeNotRecognized   = errors.New("document type not recognized")
	ErrNotDetected         = errors.New("document could not be detected in scan")
	ErrNotOwner            = errors.New("document is not owned by this user")
	ErrFileTooLarge        = errors.New("scan exceeds the maximum upload size")
	ErrInvalidScan         = errors.New("scan payload is missing or unreadable")
)

// MapHTTPStatus maps document domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrStatusNotCompatible):
		return http.StatusConflict
	case errors.Is(err, ErrStatusNotProvided),
		errors.Is(err, ErrTypeNotRecognized),
		errors.Is(err, ErrInvalidScan):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotDetected):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}
