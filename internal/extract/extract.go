// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract pulls the raster images embedded in a PDF and saves them
// as numbered PNG files in a staging directory. The PDF backend is
// pluggable; PDFCPU is the production implementation.
package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/tiff"

	"github.com/pdiddy/pdf-iiif/pkg/types"
)

// ErrUnsupported marks an embedded image encoding that cannot be decoded.
var ErrUnsupported = errors.New("unsupported image encoding")

// Extractor saves the images embedded in a PDF and returns them in
// document order.
type Extractor interface {
	Extract(ctx context.Context, pdfPath string) ([]types.ImageRecord, error)
}

// rawImage is one embedded image as delivered by a PDF backend, before
// decoding.
type rawImage struct {
	Page     int
	ObjNr    int
	FileType string
	Data     []byte
}

// order sorts images by page, then by object number within a page.
func order(raws []rawImage) {
	sort.SliceStable(raws, func(i, j int) bool {
		if raws[i].Page != raws[j].Page {
			return raws[i].Page < raws[j].Page
		}
		return raws[i].ObjNr < raws[j].ObjNr
	})
}

// FileName returns the staging file name for the image with index i.
func FileName(i int) string {
	return fmt.Sprintf("%02d.png", i)
}

// decode turns the backend payload into an image. fileType is the
// extension the backend reports for the payload.
func decode(fileType string, data []byte) (image.Image, error) {
	r := bytes.NewReader(data)
	switch strings.ToLower(fileType) {
	case "jpg", "jpeg":
		return jpeg.Decode(r)
	case "png":
		return png.Decode(r)
	case "tif", "tiff":
		return tiff.Decode(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, fileType)
	}
}

// normalize keeps gray and RGB color models and converts everything else
// (CMYK from Adobe JPEGs, 16-bit variants) to 8-bit RGBA.
func normalize(img image.Image) image.Image {
	switch img.(type) {
	case *image.Gray, *image.RGBA, *image.NRGBA, *image.YCbCr, *image.Paletted:
		return img
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(dst, dst.Bounds(), img, b.Min, xdraw.Src)
	return dst
}

// savePNG writes img to path.
func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// save decodes the ordered images and writes them to dir as 00.png,
// 01.png, and so on. pages is the document page count; a progress line is
// written for every page, including pages without images.
func save(ctx context.Context, raws []rawImage, pages int, dir string, w io.Writer) ([]types.ImageRecord, error) {
	order(raws)

	byPage := make(map[int][]rawImage)
	for _, r := range raws {
		byPage[r.Page] = append(byPage[r.Page], r)
		if r.Page > pages {
			pages = r.Page
		}
	}

	var records []types.ImageRecord
	for page := 1; page <= pages; page++ {
		fmt.Fprintf(w, "extracting images from page %d..\n", page)
		for _, r := range byPage[page] {
			if err := ctx.Err(); err != nil {
				return records, err
			}

			img, err := decode(r.FileType, r.Data)
			if err != nil {
				return records, fmt.Errorf("decoding image %d on page %d: %w", r.ObjNr, page, err)
			}
			img = normalize(img)

			idx := len(records)
			path := filepath.Join(dir, FileName(idx))
			if err := savePNG(path, img); err != nil {
				return records, fmt.Errorf("saving %s: %w", path, err)
			}
			b := img.Bounds()
			records = append(records, types.ImageRecord{
				Index:  idx,
				Path:   path,
				Page:   page,
				Width:  b.Dx(),
				Height: b.Dy(),
			})
		}
	}

	fmt.Fprintf(w, "finished extracting %d images\n", len(records))
	return records, nil
}
