package auth_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/scriba-dms/scriba/internal/auth"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func principalEcho(t *testing.T, captured *auth.Principal) http.Handler {
	t.Helper()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, err := auth.FromRequest(r)
		if err == nil {
			*captured = p
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestMiddlewareAttachesPrincipal(t *testing.T) {
	tokens := testTokens(t, "middleware-secret", "1h")

	raw, err := tokens.Issue("jdoe", []string{"EMPLOYEE"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	var captured auth.Principal
	handler := auth.Middleware(tokens, discardLogger())(principalEcho(t, &captured))

	r := httptest.NewRequest(http.MethodGet, "/documents", nil)
	r.Header.Set("Authorization", "Bearer "+raw)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, expected %d", w.Code, http.StatusOK)
	}

	if captured.Username != "jdoe" {
		t.Errorf("principal username = %q, expected %q", captured.Username, "jdoe")
	}

	if !captured.HasAny("EMPLOYEE") {
		t.Errorf("principal missing EMPLOYEE role: %v", captured.Roles)
	}
}

func TestMiddlewareRejectsMissingToken(t *testing.T) {
	tokens := testTokens(t, "middleware-secret", "1h")

	handler := auth.Middleware(tokens, discardLogger())(principalEcho(t, &auth.Principal{}))

	r := httptest.NewRequest(http.MethodGet, "/documents", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, expected %d", w.Code, http.StatusUnauthorized)
	}
}

func TestMiddlewareRejectsInvalidToken(t *testing.T) {
	tokens := testTokens(t, "middleware-secret", "1h")
	forged := testTokens(t, "other-secret", "1h")

	raw, err := forged.Issue("jdoe", nil)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	handler := auth.Middleware(tokens, discardLogger())(principalEcho(t, &auth.Principal{}))

	r := httptest.NewRequest(http.MethodGet, "/documents", nil)
	r.Header.Set("Authorization", "Bearer "+raw)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, expected %d", w.Code, http.StatusUnauthorized)
	}
}

func TestMiddlewareSkipsPublicPaths(t *testing.T) {
	tokens := testTokens(t, "middleware-secret", "1h")

	handler := auth.Middleware(tokens, discardLogger(), "/users/login", "/users/register")(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)

	r := httptest.NewRequest(http.MethodPost, "/users/login", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, expected %d", w.Code, http.StatusOK)
	}
}

func TestPrincipalHasAny(t *testing.T) {
	p := auth.Principal{Username: "jdoe", Roles: []string{"AUDITOR"}}

	if !p.HasAny("ADMIN", "AUDITOR") {
		t.Error("expected HasAny to match AUDITOR")
	}

	if p.HasAny("ADMIN", "DIRECTOR") {
		t.Error("expected HasAny to reject unheld roles")
	}
}
