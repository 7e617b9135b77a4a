// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pdf-iiif/internal/layout"
)

const configFile = "pdf-iiif.yaml"

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the working directories and a starter config file",
	Long: `Init creates the staging, docs, and images directories, writes
pdf-iiif.yaml with the default settings if it does not exist, and with --url
writes the publishing URL to the hint file.`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	out := cmd.OutOrStdout()

	if err := layout.New(cfg.Layout).Prepare(); err != nil {
		return err
	}
	fmt.Fprintf(out, "prepared: %s, %s\n", cfg.Layout.StagingDir, cfg.Layout.Images())

	if _, err := os.Stat(configFile); errors.Is(err, fs.ErrNotExist) {
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("marshaling config: %w", err)
		}
		if err := os.WriteFile(configFile, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", configFile, err)
		}
		fmt.Fprintf(out, "wrote:    %s\n", configFile)
	} else {
		fmt.Fprintf(out, "skipped:  %s (already exists)\n", configFile)
	}

	url, _ := cmd.Flags().GetString("url")
	if url != "" {
		if err := os.WriteFile(cfg.Layout.Hint(), []byte(url+"\n"), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", cfg.Layout.Hint(), err)
		}
		fmt.Fprintf(out, "wrote:    %s\n", cfg.Layout.Hint())
	}
	return nil
}

func init() {
	initCmd.Flags().String("url", "", "publishing URL to store in the hint file")

	rootCmd.AddCommand(initCmd)
}
