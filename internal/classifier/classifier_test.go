package classifier_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/scriba-dms/scriba/internal/classifier"
)

func testClient(t *testing.T, handler http.HandlerFunc) classifier.System {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &classifier.Config{Endpoint: server.URL}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	return classifier.New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestClassify(t *testing.T) {
	sys := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if string(body) != "scan-bytes" {
			t.Errorf("body = %q, expected scan bytes", body)
		}
		io.WriteString(w, "Invoice no. 2293 for office supplies")
	})

	text, err := sys.Classify(context.Background(), []byte("scan-bytes"))
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}

	if text != "Invoice no. 2293 for office supplies" {
		t.Errorf("text = %q", text)
	}
}

func TestClassifyUpstreamFailure(t *testing.T) {
	sys := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	})

	if _, err := sys.Classify(context.Background(), []byte("scan-bytes")); !errors.Is(err, classifier.ErrClassification) {
		t.Errorf("expected ErrClassification, received: %v", err)
	}
}

func TestClassifyEmptyResponse(t *testing.T) {
	sys := testClient(t, func(w http.ResponseWriter, r *http.Request) {})

	if _, err := sys.Classify(context.Background(), nil); !errors.Is(err, classifier.ErrClassification) {
		t.Errorf("expected ErrClassification for empty body, received: %v", err)
	}
}
