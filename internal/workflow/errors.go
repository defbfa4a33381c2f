package workflow

import (
	"errors"
	"net/http"

	"github.com/scriba-dms/scriba/internal/archives"
	"github.com/scriba-dms/scriba/internal/assignment"
	"github.com/scriba-dms/scriba/internal/audits"
	"github.com/scriba-dms/scriba/internal/documents"
	"github.com/scriba-dms/scriba/internal/signatures"
	"github.com/scriba-dms/scriba/internal/users"
)

// MapHTTPStatus maps any pipeline error to an HTTP status code. The
// orchestrator surfaces errors from every domain it composes, so this
// aggregates the per-domain mappings.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, assignment.ErrNoEligibleUser):
		return http.StatusConflict
	case errors.Is(err, assignment.ErrDocumentTypeNotProvided):
		return http.StatusBadRequest
	}

	mappers := []func(error) int{
		documents.MapHTTPStatus,
		audits.MapHTTPStatus,
		signatures.MapHTTPStatus,
		archives.MapHTTPStatus,
		users.MapHTTPStatus,
	}

	for _, mapper := range mappers {
		if status := mapper(err); status != http.StatusInternalServerError {
			return status
		}
	}

	return http.StatusInternalServerError
}
