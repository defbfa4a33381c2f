package archives_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"

	"github.com/scriba-dms/scriba/internal/archives"
	"github.com/scriba-dms/scriba/pkg/pagination"
)

func TestCanAdvance(t *testing.T) {
	tests := []struct {
		from     archives.Status
		to       archives.Status
		expected bool
	}{
		{archives.StatusPending, archives.StatusDone, true},
		{archives.StatusPending, archives.StatusAwaitingSignature, true},
		{archives.StatusAwaitingSignature, archives.StatusSignedPending, true},
		{archives.StatusSignedPending, archives.StatusDone, true},
		{archives.StatusPending, archives.StatusSignedPending, false},
		{archives.StatusAwaitingSignature, archives.StatusDone, false},
		{archives.StatusSignedPending, archives.StatusAwaitingSignature, false},
		{archives.StatusDone, archives.StatusPending, false},
	}

	for _, tt := range tests {
		if got := archives.CanAdvance(tt.from, tt.to); got != tt.expected {
			t.Errorf("CanAdvance(%s, %s) = %v, expected %v", tt.from, tt.to, got, tt.expected)
		}
	}
}

func TestParseStatus(t *testing.T) {
	status, err := archives.ParseStatus("AWAITING_SIGNATURE")
	if err != nil {
		t.Fatalf("ParseStatus: %v", err)
	}

	if status != archives.StatusAwaitingSignature {
		t.Errorf("status = %s, expected AWAITING_SIGNATURE", status)
	}

	if _, err := archives.ParseStatus("SHREDDED"); !errors.Is(err, archives.ErrIllegalStatus) {
		t.Errorf("expected ErrIllegalStatus, received: %v", err)
	}
}

func TestAdvanceRequestableTargets(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sys := archives.New(nil, logger, pagination.Config{})

	assignee := uuid.New()
	archive := &archives.Archive{
		ID:         uuid.New(),
		DocumentID: uuid.New(),
		AssigneeID: assignee,
		Status:     archives.StatusAwaitingSignature,
	}

	// SIGNED_PENDING belongs to the signing continuation; the
	// assignee cannot request it.
	for _, target := range []archives.Status{archives.StatusSignedPending, archives.StatusPending} {
		_, err := sys.Advance(context.Background(), nil, archive, target, assignee)
		if !errors.Is(err, archives.ErrIllegalStatus) {
			t.Errorf("target %s: expected ErrIllegalStatus, received: %v", target, err)
		}
	}
}
