// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package audit checks published JSON for URLs that were not rewritten.
package audit

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
)

var (
	allValues = jp.MustParseString("$..*")
	canvases  = jp.MustParseString("$.sequences[*].canvases[*]")
)

// Leftover is a string value that still starts with the audited prefix.
type Leftover struct {
	File  string `json:"file" yaml:"file"`
	Value string `json:"value" yaml:"value"`
}

// FileError is a target file that could not be read or parsed.
type FileError struct {
	File  string `json:"file" yaml:"file"`
	Error string `json:"error" yaml:"error"`
}

// Report is the result of a Scan.
type Report struct {
	Prefix    string      `json:"prefix" yaml:"prefix"`
	Files     int         `json:"files" yaml:"files"`
	Canvases  int         `json:"canvases" yaml:"canvases"`
	Leftovers []Leftover  `json:"leftovers" yaml:"leftovers"`
	Errors    []FileError `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// Clean reports whether no leftovers were found.
func (r Report) Clean() bool {
	return len(r.Leftovers) == 0
}

// Scan parses the manifest and every .json file under imagesDir and
// collects the string values starting with prefix. Files that cannot be
// parsed are listed in Errors and do not stop the scan. It is an error when
// neither the manifest nor imagesDir exists.
func Scan(manifest, imagesDir, prefix string) (Report, error) {
	if prefix == "" {
		return Report{}, errors.New("audit prefix must not be empty")
	}
	_, manifestErr := os.Stat(manifest)
	info, imagesErr := os.Stat(imagesDir)
	if manifestErr != nil && (imagesErr != nil || !info.IsDir()) {
		return Report{}, fmt.Errorf("nothing to audit: %s and %s not found", manifest, imagesDir)
	}

	report := Report{Prefix: prefix}
	if manifestErr == nil {
		if doc, ok := report.parse(manifest); ok {
			report.Canvases = len(canvases.Get(doc))
		}
	}

	if imagesErr == nil && info.IsDir() {
		err := filepath.WalkDir(imagesDir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				report.Errors = append(report.Errors, FileError{File: path, Error: err.Error()})
				return nil
			}
			if d.IsDir() || !strings.HasSuffix(d.Name(), ".json") {
				return nil
			}
			report.parse(path)
			return nil
		})
		if err != nil {
			return report, fmt.Errorf("walking %s: %w", imagesDir, err)
		}
	}
	return report, nil
}

// parse reads one file, records its leftovers, and returns the parsed
// document.
func (r *Report) parse(path string) (any, bool) {
	r.Files++
	data, err := os.ReadFile(path)
	if err != nil {
		r.Errors = append(r.Errors, FileError{File: path, Error: err.Error()})
		return nil, false
	}
	doc, err := oj.Parse(data)
	if err != nil {
		r.Errors = append(r.Errors, FileError{File: path, Error: err.Error()})
		return nil, false
	}

	var found []string
	for _, v := range allValues.Get(doc) {
		if s, ok := v.(string); ok && strings.HasPrefix(s, r.Prefix) {
			found = append(found, s)
		}
	}
	sort.Strings(found)
	for _, s := range found {
		r.Leftovers = append(r.Leftovers, Leftover{File: path, Value: s})
	}
	return doc, true
}

// Print writes a human-readable report to w.
func (r Report) Print(w io.Writer) {
	fmt.Fprintf(w, "Audited %d files for '%s' (%d canvases in manifest)\n", r.Files, r.Prefix, r.Canvases)
	for _, l := range r.Leftovers {
		fmt.Fprintf(w, "leftover: %s: %s\n", l.File, l.Value)
	}
	for _, e := range r.Errors {
		fmt.Fprintf(w, "error:    %s: %s\n", e.File, e.Error)
	}
	fmt.Fprintf(w, "\nAudit summary: %d leftovers, %d errors\n", len(r.Leftovers), len(r.Errors))
}
