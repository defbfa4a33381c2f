package workflow

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/scriba-dms/scriba/internal/archives"
	"github.com/scriba-dms/scriba/internal/auth"
	"github.com/scriba-dms/scriba/internal/documents"
	"github.com/scriba-dms/scriba/pkg/handlers"
	"github.com/scriba-dms/scriba/pkg/routes"
)

// Handler provides the HTTP endpoints that drive pipeline transitions.
type Handler struct {
	orchestrator *Orchestrator
	logger       *slog.Logger
}

// AdvanceCommand names the archive status an accountant wants to reach.
type AdvanceCommand struct {
	Target string `json:"target"`
}

// NewHandler creates a Handler with the given orchestrator and logger.
func NewHandler(orchestrator *Orchestrator, logger *slog.Logger) *Handler {
	return &Handler{
		orchestrator: orchestrator,
		logger:       logger.With("handler", "workflow"),
	}
}

// Routes returns the route group definition for workflow endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/workflow",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/documents/{id}/approve", Handler: h.Approve},
			{Method: "POST", Pattern: "/documents/{id}/audit", Handler: h.CompleteAudit},
			{Method: "POST", Pattern: "/documents/{id}/archive", Handler: h.AdvanceArchive},
			{Method: "POST", Pattern: "/documents/{id}/sign", Handler: h.Sign},
		},
	}
}

// Approve approves a document on behalf of the authenticated owner.
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	id, actor, ok := h.resolve(w, r)
	if !ok {
		return
	}

	result, err := h.orchestrator.Approve(r.Context(), id, actor)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// CompleteAudit completes a document's audit on behalf of the
// authenticated assignee.
func (h *Handler) CompleteAudit(w http.ResponseWriter, r *http.Request) {
	id, actor, ok := h.resolve(w, r)
	if !ok {
		return
	}

	result, err := h.orchestrator.CompleteAudit(r.Context(), id, actor)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// AdvanceArchive moves a document's archive to the requested target on
// behalf of the authenticated assignee.
func (h *Handler) AdvanceArchive(w http.ResponseWriter, r *http.Request) {
	id, actor, ok := h.resolve(w, r)
	if !ok {
		return
	}

	var cmd AdvanceCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	target, err := archives.ParseStatus(cmd.Target)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.orchestrator.AdvanceArchive(r.Context(), id, target, actor)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Sign completes a document's signature on behalf of the authenticated
// assignee.
func (h *Handler) Sign(w http.ResponseWriter, r *http.Request) {
	id, actor, ok := h.resolve(w, r)
	if !ok {
		return
	}

	result, err := h.orchestrator.Sign(r.Context(), id, actor)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) resolve(w http.ResponseWriter, r *http.Request) (uuid.UUID, string, bool) {
	principal, err := auth.FromRequest(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, err)
		return uuid.Nil, "", false
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, documents.ErrNotFound)
		return uuid.Nil, "", false
	}

	return id, principal.Username, true
}
