// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pagelab/internal/dataset"
)

var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Prepare labelled corpora for training",
}

var datasetPrepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "Filter raw corpora and resolve identifier overlap",
	Long: `Prepare loads the page-break and page-break-free corpora, keeps only rows
with canonical (fully upper-case) labels, keeps only page-break rows that
actually contain the marker, and removes from the page-break-free corpus
every document whose identifier also appears in the page-break corpus.

The prepared datasets are written as id,label,text CSV files together with
a manifest recording what was dropped and why.`,
	RunE: runDatasetPrepare,
}

// prepareManifest records the audit trail of one prepare invocation.
type prepareManifest struct {
	CreatedAt       time.Time `yaml:"created_at"`
	Marker          string    `yaml:"marker"`
	PageBreakRows   int       `yaml:"page_break_rows"`
	NoPageBreakRows int       `yaml:"no_page_break_rows"`
	OverlapRemoved  []string  `yaml:"overlap_removed,omitempty"`
	PageBreakFile   string    `yaml:"page_break_file"`
	NoPageBreakFile string    `yaml:"no_page_break_file"`
}

func runDatasetPrepare(cmd *cobra.Command, args []string) error {
	pbPath, _ := cmd.Flags().GetString("pagebreak")
	npbPath, _ := cmd.Flags().GetString("nopagebreak")
	marker := markerFromFlags(cmd)

	pipeline := pipelineFromConfig()
	outDir, _ := cmd.Flags().GetString("out-dir")
	if !cmd.Flags().Changed("out-dir") && pipeline.Dataset.PreparedDir != "" {
		outDir = pipeline.Dataset.PreparedDir
	}

	pbCfg, err := resolveCorpus(cmd, "pagebreak", pbPath, pipeline.Dataset.PageBreak)
	if err != nil {
		return err
	}
	npbCfg, err := resolveCorpus(cmd, "nopagebreak", npbPath, pipeline.Dataset.NoPageBreak)
	if err != nil {
		return err
	}

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

	overlap := dataset.Overlap(npb, pb)
	npb = dataset.ResolveOverlap(npb, pb, w)

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", outDir, err)
	}
	pbOut := filepath.Join(outDir, "pagebreak.csv")
	npbOut := filepath.Join(outDir, "nopagebreak.csv")
	if err := dataset.Write(pb, pbOut); err != nil {
		return err
	}
	if err := dataset.Write(npb, npbOut); err != nil {
		return err
	}

	manifest := prepareManifest{
		CreatedAt:       time.Now().UTC(),
		Marker:          marker,
		PageBreakRows:   pb.Len(),
		NoPageBreakRows: npb.Len(),
		OverlapRemoved:  overlap,
		PageBreakFile:   pbOut,
		NoPageBreakFile: npbOut,
	}
	data, err := yaml.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outDir, "manifest.yaml"), data, 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}

	fmt.Fprintf(w, "prepared: %s (%d rows), %s (%d rows)\n", pbOut, pb.Len(), npbOut, npb.Len())
	return nil
}

var datasetOverlapCmd = &cobra.Command{
	Use:   "overlap",
	Short: "Print identifiers common to both corpora",
	RunE: func(cmd *cobra.Command, args []string) error {
		pbPath, _ := cmd.Flags().GetString("pagebreak")
		npbPath, _ := cmd.Flags().GetString("nopagebreak")

		pipeline := pipelineFromConfig()
		pbCfg, err := resolveCorpus(cmd, "pagebreak", pbPath, pipeline.Dataset.PageBreak)
		if err != nil {
			return err
		}
		npbCfg, err := resolveCorpus(cmd, "nopagebreak", npbPath, pipeline.Dataset.NoPageBreak)
		if err != nil {
			return err
		}

		pb, err := dataset.Load(pbCfg)
		if err != nil {
			return err
		}
		npb, err := dataset.Load(npbCfg)
		if err != nil {
			return err
		}

		overlap := dataset.Overlap(npb, pb)
		for _, id := range overlap {
			fmt.Fprintln(cmd.OutOrStdout(), id)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d overlapping identifiers\n", len(overlap))
		return nil
	},
}

func init() {
	for _, cmd := range []*cobra.Command{datasetPrepareCmd, datasetOverlapCmd} {
		cmd.Flags().String("pagebreak", "", "corpus file whose texts contain page-break markers")
		cmd.Flags().String("nopagebreak", "", "corpus file of single-page documents")
		addCorpusFlags(cmd)
	}
	datasetPrepareCmd.Flags().String("out-dir", "data/prepared", "directory for prepared datasets")

	datasetCmd.AddCommand(datasetPrepareCmd)
	datasetCmd.AddCommand(datasetOverlapCmd)
	rootCmd.AddCommand(datasetCmd)
}
