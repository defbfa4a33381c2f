package formatting_test

import (
	"testing"

	"github.com/scriba-dms/scriba/pkg/formatting"
)

func TestParseBytes(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{"0", 0},
		{"512", 512},
		{"1KB", 1024},
		{"50MB", 50 * 1024 * 1024},
		{"1.5 GB", 1610612736},
		{"2gb", 2 * 1024 * 1024 * 1024},
	}

	for _, tt := range tests {
		got, err := formatting.ParseBytes(tt.input)
		if err != nil {
			t.Errorf("ParseBytes(%q): %v", tt.input, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("ParseBytes(%q) = %d, expected %d", tt.input, got, tt.expected)
		}
	}
}

func TestParseBytesInvalid(t *testing.T) {
	for _, input := range []string{"", "fifty", "50XB", "-1MB"} {
		if _, err := formatting.ParseBytes(input); err == nil {
			t.Errorf("ParseBytes(%q): expected error", input)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n         int64
		precision int
		expected  string
	}{
		{0, 0, "0 B"},
		{512, 0, "512 B"},
		{1024, 0, "1 KB"},
		{1536, 1, "1.5 KB"},
		{52428800, 0, "50 MB"},
	}

	for _, tt := range tests {
		if got := formatting.FormatBytes(tt.n, tt.precision); got != tt.expected {
			t.Errorf("FormatBytes(%d, %d) = %q, expected %q", tt.n, tt.precision, got, tt.expected)
		}
	}
}
