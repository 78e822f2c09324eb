package text

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "nested parenthetical",
			in:   "A (b (c) d) E",
			want: "A E",
		},
		{
			name: "blank and markup lines",
			in:   "First line.\n\n   \n== History ==\nSecond line.\n  === Early years ===\nThird.",
			want: "First line. Second line. Third.",
		},
		{
			name: "dates in parentheses",
			in:   "Ada Lovelace (10 December 1815 – 27 November 1852) was a mathematician.",
			want: "Ada Lovelace was a mathematician.",
		},
		{
			name: "backslashes and quotes",
			in:   `He said "hello" to C:\Users.`,
			want: "He said hello to C:Users.",
		},
		{
			name: "stray closing paren is kept",
			in:   "a) first b) second",
			want: "a) first b) second",
		},
		{
			name: "unclosed paren is kept",
			in:   "tail (never closed",
			want: "tail (never closed",
		},
		{
			name: "deeply nested",
			in:   "x (1 (2 (3) 2) 1) y (z) w",
			want: "x y w",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.in))
		})
	}
}

func TestSanitize_Properties(t *testing.T) {
	raw := strings.Join([]string{
		"= Title =",
		"Lighthouses (from Greek (pharos)) guide ships.",
		"",
		"  ",
		"== Design ==",
		"The lamp (or light) sits on top (see below).",
	}, "\n")

	got := Sanitize(raw)

	assert.NotContains(t, got, "=")
	assert.NotContains(t, got, "(")
	assert.NotContains(t, got, ")")
	assert.NotContains(t, got, "  ")
	assert.Equal(t, "Lighthouses guide ships. The lamp sits on top .", got)
}
