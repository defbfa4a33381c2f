package documents_test

import (
	"errors"
	"testing"

	"github.com/scriba-dms/scriba/internal/documents"
)

func TestClassifyText(t *testing.T) {
	tests := []struct {
		text     string
		expected documents.Type
	}{
		{"Invoice no. 2293 for office supplies", documents.TypeReceipt},
		{"Racun za potrosni materijal", documents.TypeReceipt},
		{"Račun broj 17/2026", documents.TypeReceipt},
		{"RECEIPT issued by the vendor", documents.TypeReceipt},
		{"Ponuda za nabavu opreme", documents.TypeOffer},
		{"Quotation valid until end of month", documents.TypeOffer},
		{"We attach the offer discussed by phone", documents.TypeOffer},
		{"Interni dopis uprave", documents.TypeInternal},
		{"Internal memo regarding parking", documents.TypeInternal},
		{"Memo: office closed on Friday", documents.TypeInternal},
	}

	for _, tt := range tests {
		dtype, err := documents.ClassifyText(tt.text)
		if err != nil {
			t.Errorf("ClassifyText(%q): %v", tt.text, err)
			continue
		}
		if dtype != tt.expected {
			t.Errorf("ClassifyText(%q) = %s, expected %s", tt.text, dtype, tt.expected)
		}
	}
}

func TestClassifyTextFirstPatternWins(t *testing.T) {
	// receipt wording takes precedence when multiple patterns match
	dtype, err := documents.ClassifyText("Invoice for the offer accepted last week")
	if err != nil {
		t.Fatalf("ClassifyText: %v", err)
	}

	if dtype != documents.TypeReceipt {
		t.Errorf("dtype = %s, expected RECEIPT", dtype)
	}
}

func TestClassifyTextNoMatch(t *testing.T) {
	if _, err := documents.ClassifyText("handwritten note about lunch"); !errors.Is(err, documents.ErrTypeNotRecognized) {
		t.Errorf("expected ErrTypeNotRecognized, received: %v", err)
	}
}

func TestClassifyTextIgnoresSubstrings(t *testing.T) {
	// "memorandum" must not match the standalone word "memo"
	if _, err := documents.ClassifyText("memorandumlike scribble"); !errors.Is(err, documents.ErrTypeNotRecognized) {
		t.Errorf("expected ErrTypeNotRecognized, received: %v", err)
	}
}

func TestParseType(t *testing.T) {
	dtype, err := documents.ParseType("OFFER")
	if err != nil {
		t.Fatalf("ParseType: %v", err)
	}

	if dtype != documents.TypeOffer {
		t.Errorf("dtype = %s, expected OFFER", dtype)
	}

	if _, err := documents.ParseType("CONTRACT"); !errors.Is(err, documents.ErrTypeNotRecognized) {
		t.Errorf("expected ErrTypeNotRecognized, received: %v", err)
	}
}
