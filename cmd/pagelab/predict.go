// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pagelab/internal/dataset"
	"github.com/pdiddy/pagelab/internal/dispatch"
	"github.com/pdiddy/pagelab/internal/registry"
	"github.com/pdiddy/pagelab/internal/textmodel"
)

var predictCmd = &cobra.Command{
	Use:   "predict [texts...]",
	Short: "Classify samples, routing each to the right fitted model",
	Long: `Predict detects the page-break marker in each sample and routes it to the
model trained on page-break documents, or to the fallback model otherwise.

Models are loaded from the registry by run ID. When --pagebreak-run or
--fallback-run is omitted, the most recent run for the "pagebreak" dataset
and for the --fallback-dataset (default "chopped") is used.

Samples come either from positional arguments or from a prepared CSV via
--in.`,
	RunE: runPredict,
}

func runPredict(cmd *cobra.Command, args []string) error {
	inPath, _ := cmd.Flags().GetString("in")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	texts := args
	if inPath != "" {
		ds, err := dataset.Load(dataset.Prepared("input", inPath))
		if err != nil {
			return err
		}
		texts = append(texts, ds.Texts()...)
	}
	if len(texts) == 0 {
		return fmt.Errorf("no samples: pass texts as arguments or a prepared CSV via --in")
	}

	store, err := openRegistry(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	dispatchCfg := pipelineFromConfig().Dispatch
	pbModel, pbRun, err := loadRouteModel(ctx, cmd, store, "pagebreak-run", dispatchCfg.PageBreakRun, "pagebreak")
	if err != nil {
		return err
	}
	fallbackDataset, _ := cmd.Flags().GetString("fallback-dataset")
	fbModel, fbRun, err := loadRouteModel(ctx, cmd, store, "fallback-run", dispatchCfg.FallbackRun, fallbackDataset)
	if err != nil {
		return err
	}

	selector, err := dispatch.NewSelector(markerFromFlags(cmd), pbModel, fbModel)
	if err != nil {
		return err
	}
	predictions, err := selector.Predict(texts)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(predictions)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "page-break model: run %s; fallback model: run %s\n", pbRun, fbRun)
	for i, p := range predictions {
		fmt.Fprintf(w, "%d\t%s\t%s\n", i+1, p.Route, p.Label)
	}
	return nil
}

// loadRouteModel loads the model named by the run-ID flag or the config
// file, falling back to the latest run recorded for the dataset.
func loadRouteModel(ctx context.Context, cmd *cobra.Command, store *registry.Store, flag, configured, datasetName string) (textmodel.Classifier, string, error) {
	runID, _ := cmd.Flags().GetString(flag)
	if runID == "" {
		runID = configured
	}
	if runID == "" {
		run, err := store.LatestRun(ctx, datasetName)
		if err != nil {
			return nil, "", err
		}
		runID = run.ID
	}
	model, run, err := store.LoadModel(ctx, runID)
	if err != nil {
		return nil, "", err
	}
	return model, run.ID, nil
}

func init() {
	predictCmd.Flags().String("in", "", "prepared dataset (id,label,text CSV) to classify")
	predictCmd.Flags().String("pagebreak-run", "", "run ID of the page-break model (default: latest pagebreak run)")
	predictCmd.Flags().String("fallback-run", "", "run ID of the fallback model (default: latest run for --fallback-dataset)")
	predictCmd.Flags().String("fallback-dataset", "chopped", "dataset whose latest run serves as fallback when --fallback-run is omitted")
	predictCmd.Flags().Bool("json", false, "output predictions as JSON")

	rootCmd.AddCommand(predictCmd)
}
