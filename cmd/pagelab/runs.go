// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pagelab/internal/report"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect and export recorded training runs",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded runs, most recent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openRegistry(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		runs, err := store.ListRuns(context.Background())
		if err != nil {
			return err
		}

		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(runs)
		}

		if len(runs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), report.RunsTable(runs))
		return nil
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show [run-id]",
	Short: "Show one run's metrics and confusion matrix",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openRegistry(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		run, err := store.GetRun(context.Background(), args[0])
		if err != nil {
			return err
		}

		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(run)
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "run %s\n", run.ID)
		fmt.Fprintf(w, "dataset:  %s\n", run.Dataset)
		fmt.Fprintf(w, "model:    %s\n", run.ModelType)
		fmt.Fprintf(w, "split:    train %d / test %d\n", run.TrainSize, run.TestSize)
		fmt.Fprintf(w, "accuracy: %.4f\n\n", run.Metrics.Accuracy)
		fmt.Fprintln(w, report.MetricsTable(run.Metrics))
		if len(run.Metrics.Confusion) > 0 {
			fmt.Fprintln(w, report.ConfusionTable(run.Metrics))
		}
		return nil
	},
}

var runsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all runs to YAML or JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		store, err := openRegistry(cmd)
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := context.Background()
		var path string
		switch format {
		case "yaml", "":
			path, err = store.ExportYAML(ctx)
		case "json":
			path, err = store.ExportJSON(ctx)
		default:
			return fmt.Errorf("unsupported format %q: use yaml or json", format)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
		return nil
	},
}

func init() {
	runsListCmd.Flags().Bool("json", false, "output runs as JSON")
	runsShowCmd.Flags().Bool("json", false, "output the run as JSON")
	runsExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsExportCmd)
	rootCmd.AddCommand(runsCmd)
}
