package assemble

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"inline", "  hi  ", "  hi  "},
		{"empty", "", ""},
		{"whitespace only", "\n    \n  ", ""},
		{"indented", "\n    first\n  ", "first"},
		{"block", "\n    a\n      b\n\n    c\n  ", "a\n  b\n\nc"},
		{"first line has text", "a\n  b", "a\n  b"},
		{"tabs", "\n\t\tx\n\t", "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalize(tt.in))
		})
	}
}
