package validation

import (
	"strings"
	"testing"
)

func TestSanitizeQuery(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Cats", "Cats"},
		{" dancing cat ", " dancing cat "},
		{"cat\x00s", "cats"},
		{"line\nbreak", "linebreak"},
		{strings.Repeat("x", 80), strings.Repeat("x", MaxQueryLength)},
		{"", ""},
	}

	for _, tt := range tests {
		if got := SanitizeQuery(tt.input); got != tt.expected {
			t.Errorf("SanitizeQuery(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestValidateQuery(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		wantErr  bool
	}{
		{input: " Dancing Cat ", expected: " Dancing Cat "},
		{input: "cat\x00s", expected: "cats"},
		{input: strings.Repeat("x", MaxQueryLength), expected: strings.Repeat("x", MaxQueryLength)},
		{input: strings.Repeat("é", MaxQueryLength), expected: strings.Repeat("é", MaxQueryLength)},
		{input: strings.Repeat("x", MaxQueryLength+1), wantErr: true},
		{input: "   ", wantErr: true},
		{input: "\n\t", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ValidateQuery(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ValidateQuery(%q) expected error, got %q", tt.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ValidateQuery(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("ValidateQuery(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}

	if _, err := ValidateQuery(""); err != ErrEmptyQuery {
		t.Errorf("expected ErrEmptyQuery, got %v", err)
	}
}
