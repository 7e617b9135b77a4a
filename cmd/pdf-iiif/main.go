// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pdf-iiif CLI. The root command
// publishes a PDF as a static IIIF tree; subcommands rewrite, audit, serve,
// and report on that tree.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd runs the full pipeline for one PDF.
var rootCmd = &cobra.Command{
	Use:   "pdf-iiif [pdf-or-url]",
	Short: "Publish the images of a PDF as a static IIIF collection",
	Long: `pdf-iiif extracts the raster images embedded in a PDF, writes a static
IIIF Image API 2.1 (level 0) tile pyramid for each one, and writes a IIIF
Presentation 2 manifest with one canvas per image.

Everything is generated against the placeholder URL http://localhost:8000.
If docs/home.txt holds a publishing URL, every URL in the generated JSON is
then rewritten to it. The source may be a local path or an http(s) URL.`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         runPipeline,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pdf-iiif.yaml or ~/.config/pdf-iiif/pdf-iiif.yaml)")
	rootCmd.PersistentFlags().String("docs-dir", "", "publishing root containing manifest.json and images/ (default: docs)")
	viper.BindPFlag("layout.docs_dir", rootCmd.PersistentFlags().Lookup("docs-dir"))

	rootCmd.Flags().Bool("no-ledger", false, "do not record the run in the history database")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pdf-iiif")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pdf-iiif"))
		}
	}

	viper.SetEnvPrefix("PDF_IIIF")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
