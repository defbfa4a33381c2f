package auth

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/scriba-dms/scriba/pkg/handlers"
)

type contextKey struct{}

// Principal is the authenticated caller attached to a request context.
type Principal struct {
	Username string
	Roles    []string
}

// HasAny reports whether the principal holds any of the given roles.
func (p Principal) HasAny(roles ...string) bool {
	for _, role := range roles {
		if slices.Contains(p.Roles, role) {
			return true
		}
	}
	return false
}

// FromContext returns the principal attached by the middleware.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(contextKey{}).(Principal)
	return p, ok
}

// FromRequest returns the request's principal or ErrNoPrincipal.
func FromRequest(r *http.Request) (Principal, error) {
	p, ok := FromContext(r.Context())
	if !ok {
		return Principal{}, ErrNoPrincipal
	}
	return p, nil
}

// Middleware returns HTTP middleware that authenticates bearer tokens
// and attaches the resulting Principal to the request context. Paths
// matching a public prefix pass through unauthenticated.
func Middleware(tokens *Tokens, logger *slog.Logger, public ...string) func(http.Handler) http.Handler {
	logger = logger.With("system", "auth")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, prefix := range public {
				if strings.HasPrefix(r.URL.Path, prefix) {
					next.ServeHTTP(w, r)
					return
				}
			}

			raw, err := bearerToken(r)
			if err != nil {
				handlers.RespondError(w, logger, http.StatusUnauthorized, err)
				return
			}

			claims, err := tokens.Parse(raw)
			if err != nil {
				handlers.RespondError(w, logger, http.StatusUnauthorized, ErrInvalidToken)
				return
			}

			principal := Principal{
				Username: claims.Username,
				Roles:    claims.Roles,
			}

			ctx := context.WithValue(r.Context(), contextKey{}, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", ErrMissingToken
	}
	return token, nil
}
