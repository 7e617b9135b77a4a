// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdf-iiif/internal/extract"
	"github.com/pdiddy/pdf-iiif/internal/iiif"
	"github.com/pdiddy/pdf-iiif/internal/ledger"
	"github.com/pdiddy/pdf-iiif/internal/pipeline"
)

func runPipeline(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Usage()
	}
	cfg := loadConfig()
	out := cmd.OutOrStdout()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	d := &pipeline.Driver{
		Config:    cfg,
		Extractor: extract.PDFCPU{StagingDir: cfg.Layout.StagingDir, Out: out},
		Generator: iiif.Generator{
			DocsDir:      cfg.Layout.DocsDir,
			ImagesDir:    cfg.Layout.Images(),
			ManifestPath: cfg.Layout.Manifest(),
			Config:       cfg.IIIF,
			Out:          out,
		},
		ReadInfo: extract.ReadInfo,
		Out:      out,
	}

	noLedger, _ := cmd.Flags().GetBool("no-ledger")
	if !noLedger && cfg.LedgerPath != "" {
		store, err := ledger.Open(cfg.LedgerPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: run history disabled: %v\n", err)
		} else {
			defer store.Close()
			d.Ledger = store
		}
	}

	report, err := d.Run(ctx, args[0])
	if err != nil {
		return err
	}
	if report.Rewrite != nil && report.Rewrite.HasFailures() {
		return fmt.Errorf("%d file(s) failed URL rewriting", report.Rewrite.Failed)
	}
	return nil
}
