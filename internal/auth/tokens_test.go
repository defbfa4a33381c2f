package auth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/scriba-dms/scriba/internal/auth"
)

func testTokens(t *testing.T, secret, ttl string) *auth.Tokens {
	t.Helper()

	cfg := &auth.Config{
		Secret: secret,
		TTL:    ttl,
	}

	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	return auth.NewTokens(cfg)
}

func TestTokensRoundTrip(t *testing.T) {
	tokens := testTokens(t, "round-trip-secret", "1h")

	raw, err := tokens.Issue("jdoe", []string{"AUDITOR", "EMPLOYEE"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := tokens.Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if claims.Username != "jdoe" {
		t.Errorf("username = %q, expected %q", claims.Username, "jdoe")
	}

	if len(claims.Roles) != 2 || claims.Roles[0] != "AUDITOR" {
		t.Errorf("roles = %v, expected [AUDITOR EMPLOYEE]", claims.Roles)
	}
}

func TestTokensExpired(t *testing.T) {
	tokens := testTokens(t, "expired-secret", "-1m")

	raw, err := tokens.Issue("jdoe", nil)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := tokens.Parse(raw); !errors.Is(err, auth.ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for expired token, received: %v", err)
	}
}

func TestTokensWrongSecret(t *testing.T) {
	issuer := testTokens(t, "first-secret", "1h")
	verifier := testTokens(t, "second-secret", "1h")

	raw, err := issuer.Issue("jdoe", nil)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := verifier.Parse(raw); !errors.Is(err, auth.ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for mismatched secret, received: %v", err)
	}
}

func TestTokensTTL(t *testing.T) {
	tokens := testTokens(t, "ttl-secret", "30m")

	raw, err := tokens.Issue("jdoe", nil)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := tokens.Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining <= 0 || remaining > 30*time.Minute {
		t.Errorf("token lifetime = %v, expected within (0, 30m]", remaining)
	}
}
