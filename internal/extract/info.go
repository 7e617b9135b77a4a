// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"fmt"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/pagetree"

	"github.com/pdiddy/pdf-iiif/pkg/types"
)

// ReadInfo returns the Info dictionary fields and the page count of the
// PDF at path. A document without an Info dictionary yields empty fields.
func ReadInfo(path string) (types.DocumentInfo, error) {
	r, err := pdf.Open(path, nil)
	if err != nil {
		return types.DocumentInfo{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer r.Close()

	var info types.DocumentInfo
	if meta := r.GetMeta(); meta != nil && meta.Info != nil {
		info.Title = string(meta.Info.Title)
		info.Author = string(meta.Info.Author)
		info.Subject = string(meta.Info.Subject)
		info.Producer = string(meta.Info.Producer)
	}

	n, err := pagetree.NumPages(r)
	if err != nil {
		return info, fmt.Errorf("counting pages of %s: %w", path, err)
	}
	info.Pages = n
	return info, nil
}
