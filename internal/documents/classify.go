package documents

import (
	"fmt"
	"regexp"
)

// Type categorizes a document and selects the accountant role that
// will handle its archival.
type Type string

// Document types.
const (
	TypeReceipt  Type = "RECEIPT"
	TypeOffer    Type = "OFFER"
	TypeInternal Type = "INTERNAL"
)

// Types lists every document type.
var Types = []Type{TypeReceipt, TypeOffer, TypeInternal}

// Mutually exclusive detection patterns applied to the extracted
// summary text, checked in declaration order.
var typePatterns = []struct {
	dtype   Type
	pattern *regexp.Regexp
}{
	{TypeReceipt, regexp.MustCompile(`(?i)\b(ra[cč]un|receipt|invoice)\b`)},
	{TypeOffer, regexp.MustCompile(`(?i)\b(ponuda|offer|quotation)\b`)},
	{TypeInternal, regexp.MustCompile(`(?i)\b(interni|internal|memo)\b`)},
}

// ParseType validates a type string against the closed enumeration.
func ParseType(s string) (Type, error) {
	for _, dtype := range Types {
		if s == string(dtype) {
			return dtype, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrTypeNotRecognized, s)
}

// ClassifyText determines the document type from extracted summary
// text. The first matching pattern wins; no match fails with
// ErrTypeNotRecognized.
func ClassifyText(text string) (Type, error) {
	for _, entry := range typePatterns {
		if entry.pattern.MatchString(text) {
			return entry.dtype, nil
		}
	}
	return "", ErrTypeNotRecognized
}
