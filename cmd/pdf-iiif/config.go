// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/viper"

	"github.com/pdiddy/pdf-iiif/pkg/types"
)

// loadConfig starts from the defaults and applies every key set in the
// config file, the environment, or a bound flag.
func loadConfig() types.Config {
	cfg := types.DefaultConfig()

	setString(&cfg.Layout.StagingDir, "layout.staging_dir")
	setString(&cfg.Layout.DocsDir, "layout.docs_dir")
	setString(&cfg.Layout.ImagesDir, "layout.images_dir")
	setString(&cfg.Layout.ManifestName, "layout.manifest_name")
	setString(&cfg.Layout.HintFile, "layout.hint_file")

	setString(&cfg.IIIF.PlaceholderURL, "iiif.placeholder_url")
	setInt(&cfg.IIIF.TileSize, "iiif.tile_size")
	setInt(&cfg.IIIF.JPEGQuality, "iiif.jpeg_quality")
	setString(&cfg.IIIF.Label, "iiif.label")
	setString(&cfg.IIIF.Description, "iiif.description")
	if viper.IsSet("iiif.thumbnail_widths") {
		cfg.IIIF.ThumbnailWidths = viper.GetIntSlice("iiif.thumbnail_widths")
	}

	if viper.IsSet("http.timeout") {
		cfg.HTTP.Timeout = viper.GetDuration("http.timeout")
	}
	setString(&cfg.HTTP.UserAgent, "http.user_agent")
	setInt(&cfg.HTTP.MaxRetries, "http.max_retries")

	if viper.IsSet("ledger_path") {
		cfg.LedgerPath = viper.GetString("ledger_path")
	}
	return cfg
}

func setString(dst *string, key string) {
	if v := viper.GetString(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if viper.IsSet(key) {
		*dst = viper.GetInt(key)
	}
}
