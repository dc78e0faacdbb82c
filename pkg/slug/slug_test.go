package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateProfileSlug(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		id       int64
		expected string
	}{
		{"simple name", "Jane Doe", 42, "jane-doe-42"},
		{"apostrophe stripped", "Jane O'Connor", 7, "jane-oconnor-7"},
		{"extra whitespace collapsed", "  Ada   Lovelace ", 1, "ada-lovelace-1"},
		{"digits preserved", "Agent 99", 3, "agent-99-3"},
		{"empty name", "", 5, "-5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GenerateProfileSlug(tt.input, tt.id))
		})
	}
}
