// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pagelab/internal/chop"
	"github.com/pdiddy/pagelab/internal/dataset"
)

var chopCmd = &cobra.Command{
	Use:   "chop",
	Short: "Slice a prepared dataset into fixed-length chunks",
	Long: `Chop partitions every document of a prepared dataset into non-overlapping
windows of at most --chunk-length runes. Each window inherits its parent's
label and carries a parentID#k identifier, synthesizing page-break-like
training data from single-page documents.`,
	RunE: runChop,
}

func runChop(cmd *cobra.Command, args []string) error {
	inPath, _ := cmd.Flags().GetString("in")
	outPath, _ := cmd.Flags().GetString("out")
	chunkLength := chunkLengthFromFlags(cmd)
	if inPath == "" || outPath == "" {
		return fmt.Errorf("both --in and --out are required")
	}

	ds, err := dataset.Load(dataset.Prepared("input", inPath))
	if err != nil {
		return err
	}

	chopped, err := chop.Dataset(ds, chunkLength)
	if err != nil {
		return err
	}
	if err := dataset.Write(chopped, outPath); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "chopped %d documents into %d chunks (length %d): %s\n",
		ds.Len(), chopped.Len(), chunkLength, outPath)
	return nil
}

func init() {
	chopCmd.Flags().String("in", "", "prepared dataset (id,label,text CSV)")
	chopCmd.Flags().String("out", "", "output path for the chopped dataset")
	chopCmd.Flags().Int("chunk-length", 500, "window size in runes")

	rootCmd.AddCommand(chopCmd)
}
