package documents_test

import (
	"errors"
	"testing"

	"github.com/scriba-dms/scriba/internal/documents"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from     documents.Status
		to       documents.Status
		expected bool
	}{
		{documents.StatusScanned, documents.StatusApproved, true},
		{documents.StatusScanned, documents.StatusRefused, true},
		{documents.StatusApproved, documents.StatusAudited, true},
		{documents.StatusAudited, documents.StatusSigned, true},
		{documents.StatusAudited, documents.StatusArchived, true},
		{documents.StatusSigned, documents.StatusSignedAndArchived, true},
		{documents.StatusScanned, documents.StatusAudited, false},
		{documents.StatusApproved, documents.StatusSigned, false},
		{documents.StatusRefused, documents.StatusApproved, false},
		{documents.StatusArchived, documents.StatusSigned, false},
		{documents.StatusSignedAndArchived, documents.StatusScanned, false},
		{documents.StatusSigned, documents.StatusArchived, false},
	}

	for _, tt := range tests {
		if got := documents.CanTransition(tt.from, tt.to); got != tt.expected {
			t.Errorf("CanTransition(%s, %s) = %v, expected %v", tt.from, tt.to, got, tt.expected)
		}
	}
}

func TestTransitionRejectsIllegalMove(t *testing.T) {
	d := documents.Document{Status: documents.StatusScanned}

	err := d.Transition(documents.StatusSigned)
	if !errors.Is(err, documents.ErrStatusNotCompatible) {
		t.Fatalf("expected ErrStatusNotCompatible, received: %v", err)
	}

	if d.Status != documents.StatusScanned {
		t.Errorf("status mutated on rejected transition: %s", d.Status)
	}
}

func TestTransitionAppliesLegalMove(t *testing.T) {
	d := documents.Document{Status: documents.StatusScanned}

	if err := d.Transition(documents.StatusApproved); err != nil {
		t.Fatalf("Transition: %v", err)
	}

	if d.Status != documents.StatusApproved {
		t.Errorf("status = %s, expected APPROVED", d.Status)
	}
}

func TestTerminalStatuses(t *testing.T) {
	terminal := []documents.Status{
		documents.StatusRefused,
		documents.StatusArchived,
		documents.StatusSignedAndArchived,
	}

	for _, status := range terminal {
		if !documents.Terminal(status) {
			t.Errorf("expected %s to be terminal", status)
		}
	}

	if documents.Terminal(documents.StatusScanned) {
		t.Error("expected SCANNED to not be terminal")
	}
}

func TestParseStatus(t *testing.T) {
	status, err := documents.ParseStatus("AUDITED")
	if err != nil {
		t.Fatalf("ParseStatus: %v", err)
	}

	if status != documents.StatusAudited {
		t.Errorf("status = %s, expected AUDITED", status)
	}

	if _, err := documents.ParseStatus("FILED"); !errors.Is(err, documents.ErrStatusNotProvided) {
		t.Errorf("expected ErrStatusNotProvided, received: %v", err)
	}
}

func TestValidateTransitions(t *testing.T) {
	if err := documents.ValidateTransitions(); err != nil {
		t.Errorf("ValidateTransitions: %v", err)
	}
}
