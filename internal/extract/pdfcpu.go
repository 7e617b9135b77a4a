// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/pdiddy/pdf-iiif/pkg/types"
)

// PDFCPU extracts images with pdfcpu. Images are written to StagingDir and
// progress lines to Out.
type PDFCPU struct {
	StagingDir string
	Out        io.Writer
}

// Extract implements Extractor. Image masks, soft-mask targets, and
// embedded page thumbnails are not page content and are skipped.
func (p PDFCPU) Extract(ctx context.Context, pdfPath string) ([]types.ImageRecord, error) {
	f, err := os.Open(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", pdfPath, err)
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()

	pages, err := api.PageCount(f, conf)
	if err != nil {
		return nil, fmt.Errorf("reading page count of %s: %w", pdfPath, err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewinding %s: %w", pdfPath, err)
	}

	pageMaps, err := api.ExtractImagesRaw(f, nil, conf)
	if err != nil {
		return nil, fmt.Errorf("extracting images from %s: %w", pdfPath, err)
	}

	var raws []rawImage
	for _, m := range pageMaps {
		for objNr, img := range m {
			if img.IsImgMask || img.Thumb || img.Reader == nil {
				continue
			}
			data, err := io.ReadAll(img)
			if err != nil {
				return nil, fmt.Errorf("reading image %d on page %d: %w", objNr, img.PageNr, err)
			}
			raws = append(raws, rawImage{
				Page:     img.PageNr,
				ObjNr:    objNr,
				FileType: img.FileType,
				Data:     data,
			})
		}
	}

	out := p.Out
	if out == nil {
		out = io.Discard
	}
	return save(ctx, raws, pages, p.StagingDir, out)
}
