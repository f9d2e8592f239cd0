// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pagelab/internal/dataset"
	"github.com/pdiddy/pagelab/internal/evaluate"
	"github.com/pdiddy/pagelab/internal/registry"
	"github.com/pdiddy/pagelab/internal/report"
	"github.com/pdiddy/pagelab/internal/textmodel"
	"github.com/pdiddy/pagelab/pkg/types"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train a classifier on a prepared dataset and record the run",
	Long: `Train splits a prepared dataset into train and test sets with a fixed
seed, fits a TF-IDF classifier on the training set, scores it on the held-out
set, and records the run (parameters, metrics, fitted model) in the registry.`,
	RunE: runTrain,
}

func runTrain(cmd *cobra.Command, args []string) error {
	dsPath, _ := cmd.Flags().GetString("dataset")
	name, _ := cmd.Flags().GetString("name")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	if dsPath == "" {
		return fmt.Errorf("--dataset is required")
	}
	if name == "" {
		return fmt.Errorf("--name is required (e.g. pagebreak, nopagebreak, chopped)")
	}

	modelCfg, err := modelFromFlags(cmd)
	if err != nil {
		return err
	}

	ds, err := dataset.Load(dataset.Prepared(name, dsPath))
	if err != nil {
		return err
	}

	store, err := openRegistry(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	run, err := trainOne(context.Background(), store, ds, modelCfg, splitFromFlags(cmd))
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(run)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "run %s: accuracy %.4f (train %d, test %d)\n",
		run.ID, run.Metrics.Accuracy, run.TrainSize, run.TestSize)
	fmt.Fprintln(cmd.OutOrStdout(), report.MetricsTable(run.Metrics))
	return nil
}

// trainOne fits one classifier on the dataset, evaluates it on the
// held-out split, and records the run.
func trainOne(ctx context.Context, store *registry.Store, ds *types.Dataset, modelCfg types.ModelConfig, splitCfg types.SplitConfig) (*types.Run, error) {
	train, test, err := dataset.Split(ds, splitCfg)
	if err != nil {
		return nil, err
	}
	if train.Len() == 0 || test.Len() == 0 {
		return nil, fmt.Errorf("dataset %s too small to split: %d samples", ds.Name, ds.Len())
	}

	model, err := textmodel.New(modelCfg)
	if err != nil {
		return nil, err
	}
	if err := model.Fit(train.Texts(), train.Labels()); err != nil {
		return nil, fmt.Errorf("fitting %s on %s: %w", modelCfg.Type, ds.Name, err)
	}

	predicted, err := model.Predict(test.Texts())
	if err != nil {
		return nil, fmt.Errorf("scoring %s on %s: %w", modelCfg.Type, ds.Name, err)
	}
	metrics, err := evaluate.Evaluate(predicted, test.Labels())
	if err != nil {
		return nil, err
	}

	run := &types.Run{
		Dataset:   ds.Name,
		ModelType: modelCfg.Type,
		Params:    modelCfg.Parameters,
		TrainSize: train.Len(),
		TestSize:  test.Len(),
		Metrics:   metrics,
	}
	if err := store.RecordRun(ctx, run, model); err != nil {
		return nil, err
	}
	return run, nil
}

func init() {
	trainCmd.Flags().String("dataset", "", "prepared dataset (id,label,text CSV)")
	trainCmd.Flags().String("name", "", "dataset name recorded in the registry")
	trainCmd.Flags().Bool("json", false, "output the run record as JSON")
	addModelFlags(trainCmd)
	addSplitFlags(trainCmd)

	rootCmd.AddCommand(trainCmd)
}
