// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rewrite

import (
	"bytes"
	"crypto/sha256"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pdf-iiif/pkg/types"
)

var testPrefixes = Prefixes{Old: "http://localhost:8000", New: "https://example.org/iiif"}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func hashFile(t *testing.T, path string) [32]byte {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return sha256.Sum256(data)
}

// setupDocs creates a docs tree with a manifest and two info documents.
func setupDocs(t *testing.T) string {
	t.Helper()
	docs := t.TempDir()
	writeTestFile(t, filepath.Join(docs, "manifest.json"),
		`{"@id": "http://localhost:8000/manifest.json", "label": "x"}`)
	writeTestFile(t, filepath.Join(docs, "images", "00", "info.json"),
		`{"service":{"@id":"http://localhost:8000/images/00"}, "sizes":[{"w":90,"h":120}]}`)
	writeTestFile(t, filepath.Join(docs, "images", "01", "info.json"),
		`{"@id":"https://elsewhere.example/images/01"}`)
	writeTestFile(t, filepath.Join(docs, "images", "01", "full", "90,", "0", "default.jpg"), "jpeg")
	return docs
}

func TestFile(t *testing.T) {
	tests := []struct {
		name       string
		content    *string // nil: file does not exist
		wantStatus Status
		wantErr    error
		wantOut    string
	}{
		{
			name:       "manifest is rewritten",
			content:    ptr(`{"@id": "http://localhost:8000/manifest.json", "label": "x"}`),
			wantStatus: StatusUpdated,
			wantOut:    "{\n  \"@id\": \"https://example.org/iiif/manifest.json\",\n  \"label\": \"x\"\n}\n",
		},
		{
			name:       "nested info only touches the id",
			content:    ptr(`{"service":{"@id":"http://localhost:8000/images/00"}, "sizes":[{"w":90,"h":120}]}`),
			wantStatus: StatusUpdated,
			wantOut: `{
  "service": {
    "@id": "https://example.org/iiif/images/00"
  },
  "sizes": [
    {
      "w": 90,
      "h": 120
    }
  ]
}
`,
		},
		{
			name:       "no matching prefix",
			content:    ptr(`{"@id":"https://elsewhere.example/x"}`),
			wantStatus: StatusUnchanged,
			wantOut:    `{"@id":"https://elsewhere.example/x"}`,
		},
		{
			name:       "invalid JSON is skipped",
			content:    ptr(`{"@id": "http://localhost:8000/`),
			wantStatus: StatusSkipped,
			wantErr:    ErrParse,
			wantOut:    `{"@id": "http://localhost:8000/`,
		},
		{
			name:       "missing file is skipped",
			wantStatus: StatusSkipped,
			wantErr:    ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "doc.json")
			if tt.content != nil {
				writeTestFile(t, path, *tt.content)
			}

			res := File(path, testPrefixes)

			assert.Equal(t, tt.wantStatus, res.Status)
			if tt.wantErr != nil {
				assert.ErrorIs(t, res.Err, tt.wantErr)
				assert.NotEmpty(t, res.Reason())
			} else {
				assert.NoError(t, res.Err)
			}
			if tt.content != nil {
				assert.Equal(t, tt.wantOut, readFile(t, path))
			}
		})
	}
}

func TestFile_PreservesNonASCII(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	writeTestFile(t, path, `{"label":"Bücher & Karten","@id":"http://localhost:8000/a"}`)

	res := File(path, testPrefixes)
	require.Equal(t, StatusUpdated, res.Status)

	out := readFile(t, path)
	assert.Contains(t, out, `"label": "Bücher & Karten"`)
	assert.NotContains(t, out, `\u00fc`)
	assert.NotContains(t, out, `\u0026`)
}

func TestFile_UnchangedDoesNotWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	writeTestFile(t, path, `{"@id":"https://example.org/iiif/manifest.json"}`)

	old := time.Now().Add(-time.Hour).Truncate(time.Second)
	require.NoError(t, os.Chtimes(path, old, old))
	hash := hashFile(t, path)

	res := File(path, testPrefixes)
	assert.Equal(t, StatusUnchanged, res.Status)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(old), "mtime changed to %v", info.ModTime())
	assert.Equal(t, hash, hashFile(t, path))
}

func TestFile_KeepsPermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not meaningful on windows")
	}
	path := filepath.Join(t.TempDir(), "doc.json")
	writeTestFile(t, path, `{"@id":"http://localhost:8000/x"}`)
	require.NoError(t, os.Chmod(path, 0o600))

	require.Equal(t, StatusUpdated, File(path, testPrefixes).Status)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFile_UnreadableFails(t *testing.T) {
	if runtime.GOOS == "windows" || os.Getuid() == 0 {
		t.Skip("needs a non-root unix user")
	}
	path := filepath.Join(t.TempDir(), "doc.json")
	writeTestFile(t, path, `{}`)
	require.NoError(t, os.Chmod(path, 0o000))
	t.Cleanup(func() { os.Chmod(path, 0o644) })

	res := File(path, testPrefixes)
	assert.Equal(t, StatusFailed, res.Status)
	assert.Error(t, res.Err)
}

func TestTree(t *testing.T) {
	docs := setupDocs(t)
	var log bytes.Buffer

	summary, err := Tree(DocsTargets(docs), testPrefixes, &log)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Updated)
	assert.Equal(t, 1, summary.Unchanged)
	assert.Equal(t, 0, summary.Skipped)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, 3, summary.Total())
	require.Len(t, summary.Files, 3)
	assert.Equal(t, filepath.Join(docs, "manifest.json"), summary.Files[0].Path)

	assert.Contains(t, readFile(t, filepath.Join(docs, "manifest.json")), "https://example.org/iiif/manifest.json")
	assert.Contains(t, readFile(t, filepath.Join(docs, "images", "00", "info.json")), "https://example.org/iiif/images/00")

	out := log.String()
	assert.Contains(t, out, "Replacing 'http://localhost:8000' with 'https://example.org/iiif'")
	assert.Contains(t, out, "Updated: "+filepath.Join(docs, "manifest.json"))
	assert.Contains(t, out, "No changes needed: "+filepath.Join(docs, "images", "01", "info.json"))
	assert.Contains(t, out, "URL update process finished.")
	assert.NotContains(t, out, "default.jpg")
}

func TestTree_SecondRunIsNoOp(t *testing.T) {
	docs := setupDocs(t)
	_, err := Tree(DocsTargets(docs), testPrefixes, &bytes.Buffer{})
	require.NoError(t, err)

	manifest := filepath.Join(docs, "manifest.json")
	hash := hashFile(t, manifest)

	var log bytes.Buffer
	summary, err := Tree(DocsTargets(docs), testPrefixes, &log)
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Updated)
	assert.Equal(t, 3, summary.Unchanged)
	assert.Equal(t, hash, hashFile(t, manifest))
	assert.Contains(t, log.String(), "No changes needed: "+manifest)
	assert.Equal(t, 3, strings.Count(log.String(), "No changes needed:"))
}

func TestTree_BadFileDoesNotAbortBatch(t *testing.T) {
	docs := setupDocs(t)
	writeTestFile(t, filepath.Join(docs, "images", "00a", "info.json"), `not json`)

	var log bytes.Buffer
	summary, err := Tree(DocsTargets(docs), testPrefixes, &log)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Updated)
	assert.Equal(t, 1, summary.Skipped)
	assert.Contains(t, log.String(), "Error: Could not decode JSON - "+filepath.Join(docs, "images", "00a", "info.json"))
	// The file after the bad one in walk order was still processed.
	assert.Contains(t, log.String(), "No changes needed: "+filepath.Join(docs, "images", "01", "info.json"))
}

func TestTree_MissingTargets(t *testing.T) {
	docs := t.TempDir()
	var log bytes.Buffer

	summary, err := Tree(DocsTargets(docs), testPrefixes, &log)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Skipped)
	assert.ErrorIs(t, summary.Files[0].Err, ErrNotFound)
	assert.Contains(t, log.String(), "Warning: Specified file not found - "+filepath.Join(docs, "manifest.json"))
	assert.Contains(t, log.String(), "Warning: Specified directory not found - "+filepath.Join(docs, "images"))
}

func TestTree_ConfiguredLayout(t *testing.T) {
	root := t.TempDir()
	docs := filepath.Join(root, "site")
	manifest := filepath.Join(docs, "book.json")
	tiles := filepath.Join(root, "tiles")
	writeTestFile(t, manifest, `{"@id":"http://localhost:8000/book.json"}`)
	writeTestFile(t, filepath.Join(tiles, "00", "info.json"), `{"@id":"http://localhost:8000/tiles/00"}`)
	// Files at the default locations are not targets of this layout.
	writeTestFile(t, filepath.Join(docs, "manifest.json"), `{"@id":"http://localhost:8000/manifest.json"}`)

	targets := LayoutTargets(types.LayoutConfig{DocsDir: docs, ManifestName: "book.json", ImagesDir: tiles})
	summary, err := Tree(targets, testPrefixes, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Updated)
	assert.Equal(t, 0, summary.Skipped)
	assert.Contains(t, readFile(t, manifest), "https://example.org/iiif/book.json")
	assert.Contains(t, readFile(t, filepath.Join(tiles, "00", "info.json")), "https://example.org/iiif/tiles/00")
	assert.Contains(t, readFile(t, filepath.Join(docs, "manifest.json")), "http://localhost:8000/manifest.json")
}

func TestTree_RejectsEmptyOldBase(t *testing.T) {
	_, err := Tree(DocsTargets(t.TempDir()), Prefixes{New: "https://example.org/"}, &bytes.Buffer{})
	assert.Error(t, err)
}

func ptr(s string) *string { return &s }
