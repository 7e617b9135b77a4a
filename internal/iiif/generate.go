// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package iiif writes static IIIF Image API 2.1 level 0 tile pyramids and a
// Presentation API 2 manifest for a sequence of extracted images.
package iiif

import (
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	xdraw "golang.org/x/image/draw"

	"github.com/pdiddy/pdf-iiif/internal/jsontree"
	"github.com/pdiddy/pdf-iiif/pkg/types"
)

const (
	infoFile    = "info.json"
	defaultFile = "default.jpg"
)

// Document describes the PDF the images came from.
type Document struct {
	// Source is the PDF path or URL as given by the user.
	Source string
	Info   types.DocumentInfo
}

// Result is what a generation run produced.
type Result struct {
	Manifest    string   `json:"manifest" yaml:"manifest"`
	Identifiers []string `json:"identifiers" yaml:"identifiers"`
	Tiles       int      `json:"tiles" yaml:"tiles"`
}

// Generator writes tile trees under ImagesDir and the manifest to
// ManifestPath. URLs are built from their paths relative to DocsDir, the
// directory served at the base URL; when DocsDir is empty or a path lies
// outside it, "images" and "manifest.json" are used.
type Generator struct {
	DocsDir      string
	ImagesDir    string
	ManifestPath string
	Config       types.IIIFConfig
	Out          io.Writer
}

// Identifier returns the IIIF identifier for an image file: its stem.
func Identifier(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Generate writes one tile pyramid and info.json per image, then the
// manifest with one canvas per image in input order.
func (g Generator) Generate(ctx context.Context, images []types.ImageRecord, doc Document, baseURL string) (Result, error) {
	out := g.Out
	if out == nil {
		out = io.Discard
	}
	base := strings.TrimSuffix(baseURL, "/")
	imagesURL := base + "/" + g.urlPath(g.ImagesDir, "images")
	cfg := g.config()

	var res Result
	canvases := make([]canvas, 0, len(images))
	for idx, rec := range images {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		fmt.Fprintf(out, "processing image %d\n", idx)

		id := Identifier(rec.Path)
		src, err := loadImage(rec.Path)
		if err != nil {
			return res, fmt.Errorf("loading %s: %w", rec.Path, err)
		}
		b := src.Bounds()
		width, height := b.Dx(), b.Dy()

		n, err := g.writeImage(src, id, imagesURL, cfg)
		if err != nil {
			return res, fmt.Errorf("generating tiles for %s: %w", id, err)
		}
		res.Tiles += n
		res.Identifiers = append(res.Identifiers, id)
		canvases = append(canvases, buildCanvas(base, imagesURL, id, idx, width, height, cfg))
	}

	m := buildManifest(base, g.urlPath(g.ManifestPath, "manifest.json"), doc, cfg, canvases)
	if err := writeJSON(g.ManifestPath, m); err != nil {
		return res, fmt.Errorf("writing manifest: %w", err)
	}
	res.Manifest = g.ManifestPath
	return res, nil
}

// urlPath returns path relative to DocsDir in URL form, or def when it has
// no such relative form.
func (g Generator) urlPath(path, def string) string {
	if g.DocsDir == "" || path == "" {
		return def
	}
	rel, err := filepath.Rel(g.DocsDir, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return def
	}
	return filepath.ToSlash(rel)
}

// config fills unset fields with the defaults.
func (g Generator) config() types.IIIFConfig {
	cfg := g.Config
	def := types.DefaultConfig().IIIF
	if cfg.TileSize <= 0 {
		cfg.TileSize = def.TileSize
	}
	if cfg.JPEGQuality <= 0 {
		cfg.JPEGQuality = def.JPEGQuality
	}
	if cfg.ThumbnailWidths == nil {
		cfg.ThumbnailWidths = def.ThumbnailWidths
	}
	if cfg.Label == "" {
		cfg.Label = def.Label
	}
	return cfg
}

// writeImage writes the partial tiles, reduced full sizes, thumbnails, the
// full-resolution image, and info.json for one image. It returns the number
// of JPEG files written.
func (g Generator) writeImage(src image.Image, id, imagesURL string, cfg types.IIIFConfig) (int, error) {
	b := src.Bounds()
	width, height := b.Dx(), b.Dy()
	dir := filepath.Join(g.ImagesDir, id)
	written := 0

	sfs := ScaleFactors(width, height, cfg.TileSize)
	for _, t := range PartialTiles(width, height, cfg.TileSize, sfs) {
		r := t.Region
		rect := image.Rect(b.Min.X+r.X, b.Min.Y+r.Y, b.Min.X+r.X+r.W, b.Min.Y+r.Y+r.H)
		path := filepath.Join(dir, r.String(), sizeSegment(t.Width), "0", defaultFile)
		if err := writeJPEG(path, scale(src, rect, t.Width, t.Height), cfg.JPEGQuality); err != nil {
			return written, err
		}
		written++
	}

	sizes := FullSizes(width, height, cfg.TileSize)
	for _, s := range sizes {
		path := filepath.Join(dir, "full", sizeSegment(s.Width), "0", defaultFile)
		if err := writeJPEG(path, scale(src, b, s.Width, s.Height), cfg.JPEGQuality); err != nil {
			return written, err
		}
		written++
	}

	for _, w := range cfg.ThumbnailWidths {
		h := ScaledHeight(width, height, w)
		path := filepath.Join(dir, "full", sizeSegment(w), "0", defaultFile)
		if err := writeJPEG(path, scale(src, b, w, h), cfg.JPEGQuality); err != nil {
			return written, err
		}
		written++
		sizes = append(sizes, Size{Width: w, Height: h})
	}

	if err := writeJPEG(filepath.Join(dir, "full", "full", "0", defaultFile), src, cfg.JPEGQuality); err != nil {
		return written, err
	}
	written++

	info := imageInfo{
		Context:  ImageContext,
		ID:       serviceID(imagesURL, id),
		Protocol: ImageProtocol,
		Width:    width,
		Height:   height,
		Profile: []any{
			Level0Profile,
			profileDetail{Formats: []string{"jpg"}, Qualities: []string{"default"}},
		},
		Sizes: sizes,
		Tiles: []tileSpec{{Width: cfg.TileSize, Height: cfg.TileSize, ScaleFactors: sfs}},
	}
	if err := writeJSON(filepath.Join(dir, infoFile), info); err != nil {
		return written, err
	}
	return written, nil
}

func serviceID(imagesURL, id string) string {
	return imagesURL + "/" + id
}

func sizeSegment(w int) string {
	return strconv.Itoa(w) + ","
}

func buildCanvas(base, imagesURL, id string, idx, width, height int, cfg types.IIIFConfig) canvas {
	canvasID := base + "/canvas/" + id + ".json"
	svc := &service{Context: ImageContext, ID: serviceID(imagesURL, id), Profile: Level0Profile}

	c := canvas{
		ID:     canvasID,
		Type:   "sc:Canvas",
		Label:  fmt.Sprintf("Canvas %d", idx),
		Height: height,
		Width:  width,
		Images: []annotation{{
			ID:         fmt.Sprintf("%s/annotation/page-%d.json", base, idx),
			Type:       "oa:Annotation",
			Motivation: "sc:painting",
			Resource: imageResource{
				ID:      serviceID(imagesURL, id) + "/full/full/0/" + defaultFile,
				Type:    "dctypes:Image",
				Format:  "image/jpeg",
				Height:  height,
				Width:   width,
				Service: svc,
			},
			On: canvasID,
		}},
	}

	if n := len(cfg.ThumbnailWidths); n > 0 {
		tw := cfg.ThumbnailWidths[n-1]
		c.Thumbnail = &imageResource{
			ID:      serviceID(imagesURL, id) + "/full/" + sizeSegment(tw) + "/0/" + defaultFile,
			Type:    "dctypes:Image",
			Format:  "image/jpeg",
			Height:  ScaledHeight(width, height, tw),
			Width:   tw,
			Service: svc,
		}
	}
	return c
}

func buildManifest(base, manifestPath string, doc Document, cfg types.IIIFConfig, canvases []canvas) manifest {
	meta := []metadataEntry{{Label: "Generated from", Value: doc.Source}}
	for _, f := range []struct{ label, value string }{
		{"Title", doc.Info.Title},
		{"Author", doc.Info.Author},
		{"Subject", doc.Info.Subject},
		{"Producer", doc.Info.Producer},
	} {
		if f.value != "" {
			meta = append(meta, metadataEntry{Label: f.label, Value: f.value})
		}
	}
	if doc.Info.Pages > 0 {
		meta = append(meta, metadataEntry{Label: "Pages", Value: strconv.Itoa(doc.Info.Pages)})
	}

	return manifest{
		Context:     PresentationContext,
		ID:          base + "/" + manifestPath,
		Type:        "sc:Manifest",
		Label:       cfg.Label,
		Description: cfg.Description,
		Metadata:    meta,
		Sequences: []sequence{{
			ID:       base + "/sequence/normal.json",
			Type:     "sc:Sequence",
			Canvases: canvases,
		}},
	}
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	return img, err
}

// scale resamples the src rectangle r to a w x h image.
func scale(src image.Image, r image.Rectangle, w, h int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, r, xdraw.Src, nil)
	return dst
}

func writeJPEG(path string, img image.Image, quality int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: quality}); err != nil {
		f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return f.Close()
}

// writeJSON encodes v in the same indented form the URL rewriter produces.
func writeJSON(path string, v any) error {
	n, err := jsontree.FromValue(v)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, jsontree.Marshal(n), 0o644)
}
