// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pagelab/internal/registry"
	"github.com/pdiddy/pagelab/pkg/types"
)

// addCorpusFlags registers the flags describing one raw corpus file.
func addCorpusFlags(cmd *cobra.Command) {
	cmd.Flags().String("format", "csv", "corpus format: csv or tsv")
	cmd.Flags().Int("id-col", 0, "column holding the document identifier")
	cmd.Flags().Int("label-col", 1, "column holding the label")
	cmd.Flags().Int("text-col", 2, "column holding the document text")
	cmd.Flags().Bool("header", false, "corpus files start with a header row")
}

// corpusFromFlags builds a CorpusConfig for one raw corpus file.
func corpusFromFlags(cmd *cobra.Command, name, path string) (types.CorpusConfig, error) {
	format, _ := cmd.Flags().GetString("format")
	if format != string(types.FormatCSV) && format != string(types.FormatTSV) {
		return types.CorpusConfig{}, fmt.Errorf("unsupported format %q: use csv or tsv", format)
	}
	idCol, _ := cmd.Flags().GetInt("id-col")
	labelCol, _ := cmd.Flags().GetInt("label-col")
	textCol, _ := cmd.Flags().GetInt("text-col")
	header, _ := cmd.Flags().GetBool("header")

	return types.CorpusConfig{
		Path:        path,
		Name:        name,
		Format:      types.CorpusFormat(format),
		IDColumn:    idCol,
		LabelColumn: labelCol,
		TextColumn:  textCol,
		HasHeader:   header,
	}, nil
}

// resolveCorpus picks the corpus description for one side of the
// experiment: the path flag wins, then the corpus block from the
// config file.
func resolveCorpus(cmd *cobra.Command, name, flagPath string, fromConfig types.CorpusConfig) (types.CorpusConfig, error) {
	if flagPath != "" {
		return corpusFromFlags(cmd, name, flagPath)
	}
	if fromConfig.Path == "" {
		return types.CorpusConfig{}, fmt.Errorf("no %s corpus: pass --%s or set its path in the config file", name, name)
	}
	cfg := fromConfig
	cfg.Name = name
	if cfg.Format == "" {
		cfg.Format = types.FormatCSV
	}
	if cfg.Format != types.FormatCSV && cfg.Format != types.FormatTSV {
		return types.CorpusConfig{}, fmt.Errorf("unsupported format %q: use csv or tsv", cfg.Format)
	}
	if cfg.IDColumn == 0 && cfg.LabelColumn == 0 && cfg.TextColumn == 0 {
		cfg.LabelColumn, cfg.TextColumn = 1, 2
	}
	return cfg, nil
}

// addModelFlags registers the flags selecting and tuning a classifier.
func addModelFlags(cmd *cobra.Command) {
	cmd.Flags().String("model-type", "", "classifier architecture: tfidf-xgboost or tfidf-knn (default tfidf-xgboost)")
	cmd.Flags().String("params", "", "YAML file of hyperparameters (e.g. rounds, max_depth, k)")
	cmd.Flags().String("class-weights", "", "YAML file mapping label to training weight")
	cmd.Flags().String("cost-matrix", "", "YAML file mapping actual label to predicted label to misclassification cost")
}

// modelFromFlags builds a ModelConfig: flags, then config file, then
// defaults.
func modelFromFlags(cmd *cobra.Command) (types.ModelConfig, error) {
	cfg := pipelineFromConfig().Model
	if modelType, _ := cmd.Flags().GetString("model-type"); modelType != "" {
		cfg.Type = modelType
	}
	if cfg.Type == "" {
		cfg.Type = "tfidf-xgboost"
	}
	if classWeights, _ := cmd.Flags().GetString("class-weights"); classWeights != "" {
		cfg.ClassWeightsPath = classWeights
	}
	if costMatrix, _ := cmd.Flags().GetString("cost-matrix"); costMatrix != "" {
		cfg.CostMatrixPath = costMatrix
	}

	if paramsPath, _ := cmd.Flags().GetString("params"); paramsPath != "" {
		data, err := os.ReadFile(paramsPath)
		if err != nil {
			return types.ModelConfig{}, fmt.Errorf("reading params %s: %w", paramsPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg.Parameters); err != nil {
			return types.ModelConfig{}, fmt.Errorf("parsing params %s: %w", paramsPath, err)
		}
	}
	return cfg, nil
}

// addSplitFlags registers the train/test split flags.
func addSplitFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("test-fraction", 0.2, "share of samples held out for evaluation")
	cmd.Flags().Int64("seed", 42, "random seed for the train/test shuffle")
}

// splitFromFlags resolves the split settings: a changed flag wins over
// the config file, which wins over the flag defaults.
func splitFromFlags(cmd *cobra.Command) types.SplitConfig {
	cfg := pipelineFromConfig().Split
	if cmd.Flags().Changed("test-fraction") || cfg.TestFraction == 0 {
		cfg.TestFraction, _ = cmd.Flags().GetFloat64("test-fraction")
	}
	if cmd.Flags().Changed("seed") || cfg.Seed == 0 {
		cfg.Seed, _ = cmd.Flags().GetInt64("seed")
	}
	return cfg
}

// chunkLengthFromFlags resolves the chopper window size the same way.
func chunkLengthFromFlags(cmd *cobra.Command) int {
	cfg := pipelineFromConfig().Chop
	if cmd.Flags().Changed("chunk-length") || cfg.ChunkLength == 0 {
		cfg.ChunkLength, _ = cmd.Flags().GetInt("chunk-length")
	}
	return cfg.ChunkLength
}

// openRegistry opens the run registry named by the persistent flag or
// the config file.
func openRegistry(cmd *cobra.Command) (*registry.Store, error) {
	cfg := pipelineFromConfig().Registry
	if cmd.Flags().Changed("registry-dir") || cfg.Dir == "" {
		cfg.Dir, _ = cmd.Flags().GetString("registry-dir")
	}
	return registry.Open(cfg)
}
