// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"path/filepath"
	"time"
)

// PlaceholderURL is the base URL written into generated artifacts before
// they are rewritten to the publishing location. It matches the default
// address of the preview server.
const PlaceholderURL = "http://localhost:8000"

// HTTPConfig holds shared HTTP settings used when the PDF source is remote.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// MaxRetries bounds retries on 429/503 responses (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// LayoutConfig names the directories and files the pipeline reads and writes.
type LayoutConfig struct {
	// StagingDir receives raw extracted images. It is not published.
	StagingDir string `json:"staging_dir" yaml:"staging_dir"`

	// DocsDir is the publishing root (contains manifest.json, images/).
	DocsDir string `json:"docs_dir" yaml:"docs_dir"`

	// ImagesDir holds one tile tree per image identifier.
	// Empty means DocsDir/images.
	ImagesDir string `json:"images_dir,omitempty" yaml:"images_dir,omitempty"`

	// ManifestName is the manifest file name under DocsDir.
	ManifestName string `json:"manifest_name" yaml:"manifest_name"`

	// HintFile holds the one-line publishing URL. Empty means DocsDir/home.txt.
	HintFile string `json:"hint_file,omitempty" yaml:"hint_file,omitempty"`
}

// Images returns the images directory, defaulting to DocsDir/images.
func (l LayoutConfig) Images() string {
	if l.ImagesDir != "" {
		return l.ImagesDir
	}
	return filepath.Join(l.DocsDir, "images")
}

// Manifest returns the path of the top-level manifest file.
func (l LayoutConfig) Manifest() string {
	name := l.ManifestName
	if name == "" {
		name = "manifest.json"
	}
	return filepath.Join(l.DocsDir, name)
}

// Hint returns the path of the target URL side file.
func (l LayoutConfig) Hint() string {
	if l.HintFile != "" {
		return l.HintFile
	}
	return filepath.Join(l.DocsDir, "home.txt")
}

// IIIFConfig holds settings for tile pyramid and manifest generation.
type IIIFConfig struct {
	// PlaceholderURL is the base URL used during generation.
	PlaceholderURL string `json:"placeholder_url" yaml:"placeholder_url"`

	// TileSize is the square tile edge in pixels (default 512).
	TileSize int `json:"tile_size" yaml:"tile_size"`

	// ThumbnailWidths lists the extra full-image widths to derive (default 90, 200).
	ThumbnailWidths []int `json:"thumbnail_widths" yaml:"thumbnail_widths"`

	// JPEGQuality is the encoder quality for tiles and derivatives (default 75).
	JPEGQuality int `json:"jpeg_quality" yaml:"jpeg_quality"`

	// Label is the manifest label.
	Label string `json:"label" yaml:"label"`

	// Description is the manifest description.
	Description string `json:"description" yaml:"description"`
}

// Config groups all settings for a pipeline run. It is built once at
// startup and passed to each component.
type Config struct {
	Layout LayoutConfig `json:"layout" yaml:"layout"`
	IIIF   IIIFConfig   `json:"iiif" yaml:"iiif"`
	HTTP   HTTPConfig   `json:"http" yaml:"http"`

	// LedgerPath is the SQLite run history. Empty disables the ledger.
	LedgerPath string `json:"ledger_path,omitempty" yaml:"ledger_path,omitempty"`
}

// DefaultConfig returns the standard publishing layout:
// staging in output/images, published artifacts in docs/.
func DefaultConfig() Config {
	return Config{
		Layout: LayoutConfig{
			StagingDir:   filepath.Join("output", "images"),
			DocsDir:      "docs",
			ManifestName: "manifest.json",
		},
		IIIF: IIIFConfig{
			PlaceholderURL:  PlaceholderURL,
			TileSize:        512,
			ThumbnailWidths: []int{90, 200},
			JPEGQuality:     75,
			Label:           "Example Manifest from PDF",
			Description:     "Sample P2 manifest with images from PDF",
		},
		HTTP: HTTPConfig{
			Timeout:    60 * time.Second,
			UserAgent:  "pdf-iiif/0.1",
			MaxRetries: 5,
		},
		LedgerPath: filepath.Join("output", "pdf-iiif.db"),
	}
}
