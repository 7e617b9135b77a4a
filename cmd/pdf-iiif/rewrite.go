// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdf-iiif/internal/hint"
	"github.com/pdiddy/pdf-iiif/internal/pipeline"
	"github.com/pdiddy/pdf-iiif/internal/rewrite"
)

var rewriteCmd = &cobra.Command{
	Use:   "rewrite",
	Short: "Replace the base URL in manifest.json and every info.json",
	Long: `Rewrite replaces a base URL prefix in every string value of
docs/manifest.json and of every .json file under docs/images. Keys, numbers,
and document structure are left untouched, and files whose content does not
change are not written.

--from defaults to the placeholder URL and --to to the URL in docs/home.txt.`,
	RunE: runRewrite,
}

func runRewrite(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")

	prefixes := rewrite.Prefixes{Old: from, New: to}
	if to == "" {
		target, ok := hint.Read(cfg.Layout.Hint(), os.Stderr)
		if !ok {
			return fmt.Errorf("no target URL: pass --to or write one to %s", cfg.Layout.Hint())
		}
		if from == "" {
			from = cfg.IIIF.PlaceholderURL
		}
		prefixes = pipeline.AlignBase(from, target)
	} else if from == "" {
		prefixes.Old = cfg.IIIF.PlaceholderURL
	}

	summary, err := rewrite.Tree(rewrite.LayoutTargets(cfg.Layout), prefixes, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if summary.HasFailures() {
		return fmt.Errorf("%d file(s) failed", summary.Failed)
	}
	return nil
}

func init() {
	rewriteCmd.Flags().String("from", "", "base URL to replace (default: the placeholder URL)")
	rewriteCmd.Flags().String("to", "", "replacement base URL (default: the URL in the hint file)")

	rootCmd.AddCommand(rewriteCmd)
}
