package statistics

import (
	"log/slog"
	"net/http"

	"github.com/scriba-dms/scriba/internal/auth"
	"github.com/scriba-dms/scriba/pkg/handlers"
	"github.com/scriba-dms/scriba/pkg/routes"
)

// Handler provides the HTTP endpoint for pipeline statistics.
type Handler struct {
	sys    System
	owners Owners
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system, owner resolver, and logger.
func NewHandler(sys System, owners Owners, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		owners: owners,
		logger: logger.With("handler", "statistics"),
	}
}

// Routes returns the route group definition for statistics endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/statistics",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.Summary},
		},
	}
}

// Summary returns pipeline counts scoped to the authenticated caller.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	principal, err := auth.FromRequest(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, err)
		return
	}

	caller, err := h.owners.Find(r.Context(), principal.Username)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, err)
		return
	}

	summary, err := h.sys.Summarize(r.Context(), caller)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, summary)
}
