// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ImageRecord is one raster image saved by the extractor. Records are
// numbered sequentially from zero in page order, then in-page order.
type ImageRecord struct {
	// Index is the zero-based sequence number across the whole document.
	Index int `json:"index" yaml:"index"`

	// Path is the saved image file (e.g. "output/images/00.png").
	Path string `json:"path" yaml:"path"`

	// Page is the 1-based source page.
	Page int `json:"page" yaml:"page"`

	// Width and Height are the pixel dimensions of the saved image.
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// DocumentInfo holds descriptive fields read from the PDF Info dictionary.
type DocumentInfo struct {
	Title    string `json:"title,omitempty" yaml:"title,omitempty"`
	Author   string `json:"author,omitempty" yaml:"author,omitempty"`
	Subject  string `json:"subject,omitempty" yaml:"subject,omitempty"`
	Producer string `json:"producer,omitempty" yaml:"producer,omitempty"`
	Pages    int    `json:"pages" yaml:"pages"`
}

// RunState is a step of the publishing pipeline. States are strictly
// sequential; Rewritten is skipped when no target URL is known.
type RunState string

const (
	StateIdle      RunState = "idle"
	StateDirsReady RunState = "dirs_ready"
	StateExtracted RunState = "extracted"
	StateGenerated RunState = "generated"
	StateRewritten RunState = "rewritten"
	StateDone      RunState = "done"
)
