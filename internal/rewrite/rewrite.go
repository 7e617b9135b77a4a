// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rewrite replaces a base URL prefix inside the published JSON
// artifacts (the manifest and every info.json under the images tree).
// Failures are contained per file; a batch always runs to the end.
package rewrite

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/pdf-iiif/internal/jsontree"
	"github.com/pdiddy/pdf-iiif/pkg/types"
)

const jsonSuffix = ".json"

var (
	// ErrNotFound marks a target file that does not exist.
	ErrNotFound = errors.New("file not found")
	// ErrParse marks a target file whose content is not valid JSON.
	ErrParse = errors.New("could not decode JSON")
)

// Targets names the files a tree rewrite visits: one manifest and every
// .json file under the images directory.
type Targets struct {
	Manifest string
	Images   string
}

// LayoutTargets returns the targets of a configured layout.
func LayoutTargets(l types.LayoutConfig) Targets {
	return Targets{Manifest: l.Manifest(), Images: l.Images()}
}

// DocsTargets returns the targets of the default layout under docsDir.
func DocsTargets(docsDir string) Targets {
	return LayoutTargets(types.LayoutConfig{DocsDir: docsDir})
}

// Prefixes is the base URL pair for a rewrite. Old must be non-empty.
type Prefixes struct {
	Old string
	New string
}

// Validate reports whether the pair can be used.
func (p Prefixes) Validate() error {
	if p.Old == "" {
		return errors.New("old base URL must not be empty")
	}
	return nil
}

// Status is the outcome of rewriting one file.
type Status string

const (
	StatusUpdated   Status = "updated"
	StatusUnchanged Status = "unchanged"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// FileResult records what happened to one target file. Err is set for
// skipped and failed files.
type FileResult struct {
	Path   string
	Status Status
	Err    error
}

// Reason returns the error text, or "" when the file was processed.
func (r FileResult) Reason() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Summary aggregates file outcomes for a tree rewrite.
type Summary struct {
	Updated   int
	Unchanged int
	Skipped   int
	Failed    int
	Files     []FileResult
}

// Total returns the number of files considered.
func (s Summary) Total() int {
	return s.Updated + s.Unchanged + s.Skipped + s.Failed
}

// HasFailures reports whether any file failed for a reason other than
// being missing or malformed.
func (s Summary) HasFailures() bool {
	return s.Failed > 0
}

func (s *Summary) add(r FileResult) {
	switch r.Status {
	case StatusUpdated:
		s.Updated++
	case StatusUnchanged:
		s.Unchanged++
	case StatusSkipped:
		s.Skipped++
	case StatusFailed:
		s.Failed++
	}
	s.Files = append(s.Files, r)
}

// File rewrites the JSON document at path in place. The file is written
// only when the rewritten document differs from the original, so an
// unchanged file keeps its modification time.
func File(path string, p Prefixes) FileResult {
	res := FileResult{Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			res.Status, res.Err = StatusSkipped, fmt.Errorf("%w: %s", ErrNotFound, path)
			return res
		}
		res.Status, res.Err = StatusFailed, fmt.Errorf("reading %s: %w", path, err)
		return res
	}

	before, err := jsontree.Parse(data)
	if err != nil {
		res.Status, res.Err = StatusSkipped, fmt.Errorf("%w: %s: %v", ErrParse, path, err)
		return res
	}

	after := jsontree.Rewrite(before, p.Old, p.New)
	if bytes.Equal(jsontree.Canonical(before), jsontree.Canonical(after)) {
		res.Status = StatusUnchanged
		return res
	}

	if err := writeFile(path, jsontree.Marshal(after)); err != nil {
		res.Status, res.Err = StatusFailed, fmt.Errorf("writing %s: %w", path, err)
		return res
	}
	res.Status = StatusUpdated
	return res
}

// writeFile replaces path through a temp file in the same directory, keeping
// the original permissions.
func writeFile(path string, data []byte) error {
	mode := fs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".rewrite-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return writeErr
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return closeErr
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

// Tree rewrites the manifest and every .json file under the images
// directory of t, printing one line per file to w and returning the
// aggregated outcomes.
func Tree(t Targets, p Prefixes, w io.Writer) (Summary, error) {
	if err := p.Validate(); err != nil {
		return Summary{}, err
	}

	var summary Summary

	fmt.Fprintln(w, "Starting URL update process...")
	fmt.Fprintf(w, "Replacing '%s' with '%s'\n", p.Old, p.New)
	fmt.Fprintf(w, "Processing files: %s and under %s\n\n", t.Manifest, t.Images)

	manifest := t.Manifest
	if info, err := os.Stat(manifest); err == nil && !info.IsDir() {
		fmt.Fprintf(w, "Processing file: %s\n", manifest)
		summary.add(report(w, File(manifest, p)))
	} else {
		fmt.Fprintf(w, "Warning: Specified file not found - %s\n", manifest)
		summary.add(FileResult{Path: manifest, Status: StatusSkipped, Err: fmt.Errorf("%w: %s", ErrNotFound, manifest)})
	}

	fmt.Fprintln(w, "\n--- Processing directories ---")
	dir := t.Images
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		fmt.Fprintf(w, "Warning: Specified directory not found - %s\n", dir)
	} else {
		fmt.Fprintf(w, "Scanning directory: %s\n", dir)
		walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				// Unreadable subtree: record it and keep walking the rest.
				fmt.Fprintf(w, "An unexpected error occurred with %s: %v\n", path, err)
				summary.add(FileResult{Path: path, Status: StatusFailed, Err: err})
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if d.IsDir() || !strings.HasSuffix(d.Name(), jsonSuffix) {
				return nil
			}
			fmt.Fprintf(w, "Processing file: %s\n", path)
			summary.add(report(w, File(path, p)))
			return nil
		})
		if walkErr != nil {
			fmt.Fprintf(w, "An unexpected error occurred with %s: %v\n", dir, walkErr)
		}
	}

	fmt.Fprintf(w, "\nURL update summary: %d updated, %d unchanged, %d skipped, %d failed (total: %d)\n",
		summary.Updated, summary.Unchanged, summary.Skipped, summary.Failed, summary.Total())
	fmt.Fprintln(w, "URL update process finished.")
	return summary, nil
}

// report prints the per-file outcome line and passes the result through.
func report(w io.Writer, r FileResult) FileResult {
	switch r.Status {
	case StatusUpdated:
		fmt.Fprintf(w, "Updated: %s\n", r.Path)
	case StatusUnchanged:
		fmt.Fprintf(w, "No changes needed: %s\n", r.Path)
	case StatusSkipped:
		switch {
		case errors.Is(r.Err, ErrNotFound):
			fmt.Fprintf(w, "Error: File not found - %s\n", r.Path)
		case errors.Is(r.Err, ErrParse):
			fmt.Fprintf(w, "Error: Could not decode JSON - %s\n", r.Path)
		default:
			fmt.Fprintf(w, "Skipped: %s (%v)\n", r.Path, r.Err)
		}
	case StatusFailed:
		fmt.Fprintf(w, "An unexpected error occurred with %s: %v\n", r.Path, r.Err)
	}
	return r
}
