package archives

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/scriba-dms/scriba/pkg/handlers"
	"github.com/scriba-dms/scriba/pkg/pagination"
	"github.com/scriba-dms/scriba/pkg/routes"
)

// Handler provides HTTP read endpoints for archive records. Mutation
// happens through the workflow endpoints only.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// NewHandler creates a Handler with the given system, logger, and pagination config.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "archives"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for archive endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/archives",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/statuses", Handler: h.Statuses},
			{Method: "GET", Pattern: "/document/{id}", Handler: h.FindByDocument},
		},
	}
}

// List returns a paginated list of archives with optional query parameter filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Statuses returns the archive status enumeration.
func (h *Handler) Statuses(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, Statuses)
}

// FindByDocument returns the archive record for a document.
func (h *Handler) FindByDocument(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotFound)
		return
	}

	archive, err := h.sys.FindByDocument(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, archive)
}
