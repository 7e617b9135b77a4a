// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package hint

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead(t *testing.T) {
	tests := []struct {
		name    string
		content *string
		want    string
		ok      bool
		logged  string
	}{
		{
			name:    "appends missing slash",
			content: str("https://example.org/iiif\n"),
			want:    "https://example.org/iiif/",
			ok:      true,
		},
		{
			name:    "keeps existing slash and trims",
			content: str("  https://example.org/iiif/  \r\nsecond line ignored\n"),
			want:    "https://example.org/iiif/",
			ok:      true,
		},
		{
			name:    "no trailing newline",
			content: str("https://example.org"),
			want:    "https://example.org/",
			ok:      true,
		},
		{
			name:    "empty file",
			content: str(""),
			logged:  "is empty.",
		},
		{
			name:    "blank first line",
			content: str("   \nhttps://example.org/\n"),
			logged:  "is empty.",
		},
		{
			name:   "missing file",
			logged: "not found. Using default URL.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "home.txt")
			if tt.content != nil {
				require.NoError(t, os.WriteFile(path, []byte(*tt.content), 0o644))
			}

			var log bytes.Buffer
			got, ok := Read(path, &log)

			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
			if tt.logged != "" {
				assert.Contains(t, log.String(), path)
				assert.Contains(t, log.String(), tt.logged)
			} else {
				assert.Empty(t, log.String())
			}
		})
	}
}

func TestRead_Directory(t *testing.T) {
	var log bytes.Buffer
	_, ok := Read(t.TempDir(), &log)
	assert.False(t, ok)
	assert.Contains(t, log.String(), "Error reading")
}

func str(s string) *string { return &s }
