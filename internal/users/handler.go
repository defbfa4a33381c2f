package users

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/scriba-dms/scriba/internal/auth"
	"github.com/scriba-dms/scriba/pkg/handlers"
	"github.com/scriba-dms/scriba/pkg/routes"
)

// Handler provides HTTP endpoints for registration, login, and user lookup.
type Handler struct {
	sys    System
	tokens *auth.Tokens
	logger *slog.Logger
}

// LoginCommand carries login credentials.
type LoginCommand struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse is the successful login payload.
type TokenResponse struct {
	Token string `json:"token"`
}

// NewHandler creates a Handler with the given system, token issuer, and logger.
func NewHandler(sys System, tokens *auth.Tokens, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		tokens: tokens,
		logger: logger.With("handler", "users"),
	}
}

// Routes returns the route group definition for user endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/users",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/register", Handler: h.Register},
			{Method: "POST", Pattern: "/login", Handler: h.Login},
			{Method: "GET", Pattern: "/me", Handler: h.Me},
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/{username}", Handler: h.Find},
		},
	}
}

// Register processes a JSON body to register a new user.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var cmd RegisterCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	user, err := h.sys.Register(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, user)
}

// Login verifies credentials and returns a signed access token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var cmd LoginCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	user, err := h.sys.Authenticate(r.Context(), cmd.Username, cmd.Password)
	if err != nil {
		// a missing user and a bad password look the same to the caller
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, ErrInvalidCredentials)
		return
	}

	token, err := h.tokens.Issue(user.Username, Strings(user.Roles))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, TokenResponse{Token: token})
}

// Me returns the profile of the authenticated caller.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	principal, err := auth.FromRequest(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, err)
		return
	}

	user, err := h.sys.Find(r.Context(), principal.Username)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, user)
}

// List returns every registered user. Restricted to admin and director.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	principal, err := auth.FromRequest(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, err)
		return
	}

	if !principal.HasAny(string(RoleAdmin), string(RoleDirector)) {
		handlers.RespondError(w, h.logger, http.StatusForbidden, ErrForbidden)
		return
	}

	result, err := h.sys.List(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns a single user by username. Restricted to admin and director.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	principal, err := auth.FromRequest(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, err)
		return
	}

	if !principal.HasAny(string(RoleAdmin), string(RoleDirector)) {
		handlers.RespondError(w, h.logger, http.StatusForbidden, ErrForbidden)
		return
	}

	user, err := h.sys.Find(r.Context(), r.PathValue("username"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, user)
}
