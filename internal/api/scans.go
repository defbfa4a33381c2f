package api

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"

	"github.com/google/uuid"

	"github.com/scriba-dms/scriba/internal/auth"
	"github.com/scriba-dms/scriba/internal/documents"
	"github.com/scriba-dms/scriba/internal/users"
	"github.com/scriba-dms/scriba/pkg/handlers"
	"github.com/scriba-dms/scriba/pkg/routes"
	"github.com/scriba-dms/scriba/pkg/storage"
)

// scanHandler streams stored scan blobs back to authorized callers.
type scanHandler struct {
	documents documents.System
	users     users.System
	store     storage.System
	logger    *slog.Logger
}

func newScanHandler(
	docs documents.System,
	usersSystem users.System,
	store storage.System,
	logger *slog.Logger,
) *scanHandler {
	return &scanHandler{
		documents: docs,
		users:     usersSystem,
		store:     store,
		logger:    logger.With("handler", "scans"),
	}
}

func (h *scanHandler) routes() routes.Group {
	return routes.Group{
		Prefix: "/scans",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{id}", Handler: h.download},
		},
	}
}

func (h *scanHandler) download(w http.ResponseWriter, r *http.Request) {
	principal, err := auth.FromRequest(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, err)
		return
	}

	caller, err := h.users.Find(r.Context(), principal.Username)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, err)
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, documents.ErrNotFound)
		return
	}

	doc, err := h.documents.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, documents.MapHTTPStatus(err), err)
		return
	}

	allowed := doc.OwnerID == caller.ID ||
		caller.RoleSet().ContainsAny(users.RoleAdmin, users.RoleDirector, users.RoleAuditor)
	if !allowed {
		handlers.RespondError(w, h.logger, http.StatusForbidden, documents.ErrNotOwner)
		return
	}

	body, err := h.store.Download(r.Context(), doc.StorageKey)
	if err != nil {
		handlers.RespondError(w, h.logger, storage.MapHTTPStatus(err), err)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set(
		"Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", path.Base(doc.StorageKey)),
	)
	w.WriteHeader(http.StatusOK)
	io.Copy(w, body)
}
