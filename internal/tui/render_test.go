package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateEnd(t *testing.T) {
	tests := []struct {
		in    string
		limit int
		want  string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello world", 6, "hello…"},
		{"hello", 1, "…"},
		{"hello", 0, ""},
		{"héllo wörld", 4, "hél…"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, truncateEnd(tt.in, tt.limit), "truncateEnd(%q, %d)", tt.in, tt.limit)
	}
}

func TestTruncateMiddle(t *testing.T) {
	tests := []struct {
		in    string
		limit int
		want  string
	}{
		{"short", 10, "short"},
		{"abcdefghij", 5, "ab…ij"},
		{"abcdefghij", 6, "ab…hij"},
		{"abcdefghij", 2, "…j"},
		{"abcdefghij", 1, "…"},
		{"abcdefghij", 0, ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, truncateMiddle(tt.in, tt.limit), "truncateMiddle(%q, %d)", tt.in, tt.limit)
	}
}
