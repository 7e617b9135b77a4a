// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdf-iiif/internal/ledger"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List or export previous pipeline runs",
	Long: `History reads the run ledger (output/pdf-iiif.db by default) and lists
the most recent runs. --export writes every run with its images and rewrite
outcomes as YAML or JSON.`,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if cfg.LedgerPath == "" {
		return fmt.Errorf("no ledger configured (set ledger_path)")
	}
	limit, _ := cmd.Flags().GetInt("limit")
	asJSON, _ := cmd.Flags().GetBool("json")
	format, _ := cmd.Flags().GetString("export")

	store, err := ledger.Open(cfg.LedgerPath)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	out := cmd.OutOrStdout()
	if format != "" {
		return store.Export(ctx, format, out)
	}

	runs, err := store.List(ctx, limit)
	if err != nil {
		return err
	}

	if asJSON {
		data, err := json.MarshalIndent(runs, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling runs: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded.")
		return nil
	}
	fmt.Fprintf(out, "%-4s  %-16s  %-10s  %-6s  %-7s  %-8s  %s\n",
		"ID", "FINISHED", "STATE", "IMAGES", "UPDATED", "PROBLEMS", "SOURCE")
	for _, r := range runs {
		fmt.Fprintf(out, "%-4d  %-16s  %-10s  %-6d  %-7d  %-8d  %s\n",
			r.ID, r.FinishedAt.Local().Format("2006-01-02 15:04"), r.State,
			r.Images, r.Updated, r.Problems, r.Source)
	}
	fmt.Fprintf(out, "\n%d run(s)\n", len(runs))
	return nil
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of runs to list (0 for all)")
	historyCmd.Flags().Bool("json", false, "print the list as JSON")
	historyCmd.Flags().String("export", "", "export every run in the given format: yaml or json")

	rootCmd.AddCommand(historyCmd)
}
