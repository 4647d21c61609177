package batch

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadUsernames(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "one per line",
			input:    "alice\nbob\ncarol\n",
			expected: []string{"alice", "bob", "carol"},
		},
		{
			name:     "duplicates kept once in first seen order",
			input:    "alice\nalice\nbob\nalice\n",
			expected: []string{"alice", "bob"},
		},
		{
			name:     "whitespace and blank lines",
			input:    "  alice \n\n\t\nbob\r\n   \n",
			expected: []string{"alice", "bob"},
		},
		{
			name:     "no case folding",
			input:    "Alice\nalice\n",
			expected: []string{"Alice", "alice"},
		},
		{
			name:     "no trailing newline",
			input:    "alice",
			expected: []string{"alice"},
		},
		{
			name:  "empty file",
			input: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadUsernames(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestLoadUsernames(t *testing.T) {
	dir := t.TempDir()

	t.Run("existing file", func(t *testing.T) {
		path := filepath.Join(dir, "batch.txt")
		require.NoError(t, os.WriteFile(path, []byte("alice\nalice\nbob\n"), 0644))

		got, err := LoadUsernames(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"alice", "bob"}, got)
	})

	t.Run("missing file", func(t *testing.T) {
		path := filepath.Join(dir, "missing.txt")

		_, err := LoadUsernames(path)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrBatchFileNotFound)
		assert.Contains(t, err.Error(), path)
	})
}
