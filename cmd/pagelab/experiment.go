// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pagelab/internal/chop"
	"github.com/pdiddy/pagelab/internal/dataset"
	"github.com/pdiddy/pagelab/internal/report"
	"github.com/pdiddy/pagelab/pkg/types"
)

var experimentCmd = &cobra.Command{
	Use:   "experiment",
	Short: "Run the full pipeline: prepare, chop, train, compare",
	Long: `Experiment runs the whole lab in one pass. It prepares both corpora
(label filtering, marker filtering, overlap resolution), derives a chopped
dataset from the page-break-free documents, trains one classifier per
prepared dataset, records all three runs, and prints an accuracy comparison.`,
	RunE: runExperiment,
}

func runExperiment(cmd *cobra.Command, args []string) error {
	pbPath, _ := cmd.Flags().GetString("pagebreak")
	npbPath, _ := cmd.Flags().GetString("nopagebreak")
	chunkLength := chunkLengthFromFlags(cmd)
	reportPath, _ := cmd.Flags().GetString("report")
	marker := markerFromFlags(cmd)

	pipeline := pipelineFromConfig()
	pbCfg, err := resolveCorpus(cmd, "pagebreak", pbPath, pipeline.Dataset.PageBreak)
	if err != nil {
		return err
	}
	npbCfg, err := resolveCorpus(cmd, "nopagebreak", npbPath, pipeline.Dataset.NoPageBreak)
	if err != nil {
		return err
	}
	modelCfg, err := modelFromFlags(cmd)
	if err != nil {
		return err
	}
	splitCfg := splitFromFlags(cmd)

	w := cmd.OutOrStdout()

	pb, err := dataset.Load(pbCfg)
	if err != nil {
		return err
	}
	npb, err := dataset.Load(npbCfg)
	if err != nil {
		return err
	}

	pb = dataset.FilterCanonicalLabels(pb, w)
	pb = dataset.FilterPageBreak(pb, marker, w)
	npb = dataset.FilterCanonicalLabels(npb, w)
	npb = dataset.ResolveOverlap(npb, pb, w)

	chopped, err := chop.Dataset(npb, chunkLength)
	if err != nil {
		return err
	}
	chopped.Name = "chopped"
	fmt.Fprintf(w, "chopped: %d documents into %d chunks (length %d)\n", npb.Len(), chopped.Len(), chunkLength)

	store, err := openRegistry(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	var runs []types.Run
	for _, ds := range []*types.Dataset{pb, npb, chopped} {
		run, err := trainOne(ctx, store, ds, modelCfg, splitCfg)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s: accuracy %.4f (run %s)\n", ds.Name, run.Metrics.Accuracy, run.ID)
		runs = append(runs, *run)
	}

	fmt.Fprintln(w, report.ComparisonTable(runs))

	if reportPath != "" {
		if err := report.WriteMarkdown(reportPath, runs); err != nil {
			return err
		}
		fmt.Fprintf(w, "report written to %s\n", reportPath)
	}
	return nil
}

func init() {
	experimentCmd.Flags().String("pagebreak", "", "corpus file whose texts contain page-break markers")
	experimentCmd.Flags().String("nopagebreak", "", "corpus file of single-page documents")
	experimentCmd.Flags().Int("chunk-length", 500, "window size in runes for the chopped dataset")
	experimentCmd.Flags().String("report", "", "write a markdown comparison report to this path")
	addCorpusFlags(experimentCmd)
	addModelFlags(experimentCmd)
	addSplitFlags(experimentCmd)

	rootCmd.AddCommand(experimentCmd)
}
