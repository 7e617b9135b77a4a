// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"
)

// Export formats.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Export writes every run, oldest first, with its images and outcomes to w
// in the given format.
func (s *Store) Export(ctx context.Context, format string, w io.Writer) error {
	summaries, err := s.List(ctx, 0)
	if err != nil {
		return fmt.Errorf("querying for export: %w", err)
	}

	runs := make([]Run, 0, len(summaries))
	for i := len(summaries) - 1; i >= 0; i-- {
		run, err := s.Get(ctx, summaries[i].ID)
		if err != nil {
			return err
		}
		runs = append(runs, run)
	}

	var data []byte
	switch format {
	case FormatYAML, "yml":
		data, err = yaml.Marshal(runs)
		if err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
	case FormatJSON:
		data, err = json.MarshalIndent(runs, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		data = append(data, '\n')
	default:
		return fmt.Errorf("unknown export format %q (want yaml or json)", format)
	}

	_, err = w.Write(data)
	return err
}
