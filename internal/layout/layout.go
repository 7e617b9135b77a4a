// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package layout creates the directory tree a pipeline run writes into.
package layout

import (
	"fmt"
	"os"

	"github.com/pdiddy/pdf-iiif/pkg/types"
)

// Layout names the directories of one run.
type Layout struct {
	Staging string
	Images  string
	Docs    string
}

// New resolves the directories from cfg.
func New(cfg types.LayoutConfig) Layout {
	return Layout{
		Staging: cfg.StagingDir,
		Images:  cfg.Images(),
		Docs:    cfg.DocsDir,
	}
}

// Prepare creates the staging, images, and docs directories. Existing
// directories are left alone.
func (l Layout) Prepare() error {
	for _, dir := range []string{l.Staging, l.Images, l.Docs} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}
	return nil
}
