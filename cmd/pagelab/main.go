// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pagelab CLI.
//
// pagelab prepares labelled document corpora, synthesizes page-break-like
// training data, trains TF-IDF text classifiers, records runs in a local
// registry, and routes unseen samples to the right fitted model.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pagelab/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// defaultMarker is the page-break marker used when neither config nor
// flags supply one.
const defaultMarker = "[PAGE BREAK]"

// rootCmd is the base command for the pagelab CLI.
var rootCmd = &cobra.Command{
	Use:   "pagelab",
	Short: "Laboratory for document classification over page-break corpora",
	Long: `pagelab investigates document classification over corpora of scanned text
samples, some of which contain multiple documents separated by page-break
markers.

Each pipeline stage is a subcommand: dataset preparation, chopping, training,
run inspection, and prediction. Training runs and fitted models are recorded
in a local registry so experiments stay comparable.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pagelab.yaml or ~/.config/pagelab/config.yaml)")
	rootCmd.PersistentFlags().String("registry-dir", "registry", "base directory for the run registry")
	rootCmd.PersistentFlags().String("marker", "", "page-break marker substring (default \"[PAGE BREAK]\")")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pagelab")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pagelab"))
		}
	}

	viper.SetEnvPrefix("PAGELAB")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// markerFromFlags resolves the page-break marker: flag, then config,
// then the default.
func markerFromFlags(cmd *cobra.Command) string {
	if marker, _ := cmd.Flags().GetString("marker"); marker != "" {
		return marker
	}
	if marker := viper.GetString("dataset.marker"); marker != "" {
		return marker
	}
	return defaultMarker
}

// pipelineFromConfig materializes the stage settings found in the merged
// configuration. Flags still win; the stage helpers fall back to these
// values when a flag is left unset.
func pipelineFromConfig() types.PipelineConfig {
	return types.PipelineConfig{
		Dataset: types.DatasetConfig{
			PageBreak:   corpusFromConfig("dataset.page_break", "pagebreak"),
			NoPageBreak: corpusFromConfig("dataset.no_page_break", "nopagebreak"),
			Marker:      viper.GetString("dataset.marker"),
			PreparedDir: viper.GetString("dataset.prepared_dir"),
		},
		Split: types.SplitConfig{
			TestFraction: viper.GetFloat64("split.test_fraction"),
			Seed:         viper.GetInt64("split.seed"),
		},
		Chop: types.ChopConfig{
			ChunkLength: viper.GetInt("chop.chunk_length"),
		},
		Model: types.ModelConfig{
			Type:             viper.GetString("model.type"),
			Name:             viper.GetString("model.name"),
			ClassWeightsPath: viper.GetString("model.class_weights_path"),
			CostMatrixPath:   viper.GetString("model.cost_matrix_path"),
		},
		Registry: types.RegistryConfig{
			Dir: viper.GetString("registry.dir"),
		},
		Dispatch: types.DispatchConfig{
			Marker:       viper.GetString("dataset.marker"),
			PageBreakRun: viper.GetString("dispatch.page_break_run"),
			FallbackRun:  viper.GetString("dispatch.fallback_run"),
		},
	}
}

// corpusFromConfig reads one corpus block from the configuration.
func corpusFromConfig(key, name string) types.CorpusConfig {
	return types.CorpusConfig{
		Path:        viper.GetString(key + ".path"),
		Name:        name,
		Format:      types.CorpusFormat(viper.GetString(key + ".format")),
		IDColumn:    viper.GetInt(key + ".id_column"),
		LabelColumn: viper.GetInt(key + ".label_column"),
		TextColumn:  viper.GetInt(key + ".text_column"),
		HasHeader:   viper.GetBool(key + ".has_header"),
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
