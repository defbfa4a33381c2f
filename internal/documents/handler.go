package documents

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/scriba-dms/scriba/internal/auth"
	"github.com/scriba-dms/scriba/internal/users"
	"github.com/scriba-dms/scriba/pkg/handlers"
	"github.com/scriba-dms/scriba/pkg/pagination"
	"github.com/scriba-dms/scriba/pkg/routes"
)

// Handler provides HTTP endpoints for document operations.
type Handler struct {
	sys           System
	owners        Owners
	logger        *slog.Logger
	pagination    pagination.Config
	maxUploadSize int64
}

// SearchRequest combines pagination and filter criteria for the search endpoint.
type SearchRequest struct {
	pagination.PageRequest
	Filters
}

// NewHandler creates a Handler with the given system, owner resolver,
// logger, pagination config, and upload size limit.
func NewHandler(
	sys System,
	owners Owners,
	logger *slog.Logger,
	pagination pagination.Config,
	maxUploadSize int64,
) *Handler {
	return &Handler{
		sys:           sys,
		owners:        owners,
		logger:        logger.With("handler", "documents"),
		pagination:    pagination,
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group definition for document endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/documents",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Upload},
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/me", Handler: h.Mine},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "POST", Pattern: "/search", Handler: h.Search},
			{Method: "PUT", Pattern: "/{id}/status", Handler: h.SetStatus},
		},
	}
}

// Upload processes a multipart form upload containing a scan and
// ingests it into the pipeline owned by the authenticated caller.
// Extracts PDF page count automatically for PDF scans using pdfcpu.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	owner, ok := h.resolvePrincipal(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrFileTooLarge)
		return
	}

	file, header, err := r.FormFile("scan")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidScan)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidScan)
		return
	}

	contentType := detectContentType(header.Header.Get("Content-Type"), data)

	cmd := IngestCommand{
		OwnerID:     owner.ID,
		Data:        data,
		ContentType: contentType,
		Filename:    header.Filename,
		PageCount:   extractPDFPageCount(h.logger, data, contentType),
	}

	doc, err := h.sys.Ingest(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, doc)
}

// List returns a paginated list of documents with optional query
// parameter filters. Callers without an elevated role only see their
// own documents.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.resolvePrincipal(w, r)
	if !ok {
		return
	}

	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := h.scopeFilters(caller, FiltersFromQuery(r.URL.Query()))

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Mine returns the authenticated caller's own documents.
func (h *Handler) Mine(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.resolvePrincipal(w, r)
	if !ok {
		return
	}

	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())
	filters.OwnerID = &caller.ID

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns a single document by its UUID path parameter. Only the
// owner or an elevated role may read it.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.resolvePrincipal(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotFound)
		return
	}

	doc, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	if doc.OwnerID != caller.ID && !elevated(caller) {
		handlers.RespondError(w, h.logger, http.StatusForbidden, ErrNotOwner)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, doc)
}

// Search accepts a JSON body with pagination and filter criteria and
// returns matching documents, scoped to the caller's access.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.resolvePrincipal(w, r)
	if !ok {
		return
	}

	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	req.PageRequest.Normalize(h.pagination)

	result, err := h.sys.List(r.Context(), req.PageRequest, h.scopeFilters(caller, req.Filters))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// SetStatus applies a manual status correction. Restricted to admin.
func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.resolvePrincipal(w, r)
	if !ok {
		return
	}

	if !caller.HasRole(users.RoleAdmin) {
		handlers.RespondError(w, h.logger, http.StatusForbidden, users.ErrForbidden)
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrNotFound)
		return
	}

	var cmd StatusCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	doc, err := h.sys.SetStatus(r.Context(), id, cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, doc)
}

func (h *Handler) resolvePrincipal(w http.ResponseWriter, r *http.Request) (*users.User, bool) {
	principal, err := auth.FromRequest(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, err)
		return nil, false
	}

	user, err := h.owners.Find(r.Context(), principal.Username)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, err)
		return nil, false
	}

	return user, true
}

// scopeFilters pins non-elevated callers to their own documents.
func (h *Handler) scopeFilters(caller *users.User, filters Filters) Filters {
	if !elevated(caller) {
		filters.OwnerID = &caller.ID
	}
	return filters
}

func elevated(caller *users.User) bool {
	return caller.RoleSet().ContainsAny(users.RoleAdmin, users.RoleDirector, users.RoleAuditor)
}

func detectContentType(header string, data []byte) string {
	header = strings.TrimSpace(header)
	if header != "" && header != "application/octet-stream" {
		return header
	}
	return http.DetectContentType(data)
}

func extractPDFPageCount(logger *slog.Logger, data []byte, contentType string) int {
	if contentType != "application/pdf" {
		return 1
	}

	count, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		logger.Warn("failed to extract PDF page count", "error", err)
		return 1
	}

	return count
}
