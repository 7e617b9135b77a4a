// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdf-iiif/internal/preview"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the docs directory for local preview",
	Long: `Serve exposes the docs directory over HTTP with permissive CORS headers
so a IIIF viewer can load the manifest. The default address matches the
placeholder URL, so un-rewritten output works as generated.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		addr, _ := cmd.Flags().GetString("addr")

		log := slog.New(slog.NewTextHandler(os.Stderr, nil))
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return preview.ListenAndServe(ctx, addr, preview.NewServer(cfg.Layout.DocsDir, log), log)
	},
}

func init() {
	serveCmd.Flags().String("addr", ":8000", "listen address")

	rootCmd.AddCommand(serveCmd)
}
