// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdf-iiif/internal/audit"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Report URLs in the published JSON that still carry a prefix",
	Long: `Audit scans the manifest and every .json file under the images directory
for string values that start with --prefix (default: the placeholder URL)
and counts the canvases in the manifest. It exits non-zero when any are
found unless --allow-leftovers is set.`,
	RunE: runAudit,
}

func runAudit(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	prefix, _ := cmd.Flags().GetString("prefix")
	if prefix == "" {
		prefix = cfg.IIIF.PlaceholderURL
	}
	allow, _ := cmd.Flags().GetBool("allow-leftovers")
	asJSON, _ := cmd.Flags().GetBool("json")

	report, err := audit.Scan(cfg.Layout.Manifest(), cfg.Layout.Images(), prefix)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling report: %w", err)
		}
		fmt.Fprintln(out, string(data))
	} else {
		report.Print(out)
	}

	if !report.Clean() && !allow {
		return fmt.Errorf("%d leftover URL(s) with prefix %s", len(report.Leftovers), prefix)
	}
	return nil
}

func init() {
	auditCmd.Flags().String("prefix", "", "prefix to look for (default: the placeholder URL)")
	auditCmd.Flags().Bool("allow-leftovers", false, "exit successfully even when leftovers are found")
	auditCmd.Flags().Bool("json", false, "print the report as JSON")

	rootCmd.AddCommand(auditCmd)
}
