// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package registry

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pagelab/internal/textmodel"
	"github.com/pdiddy/pagelab/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(types.RegistryConfig{Dir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func fittedModel(t *testing.T) textmodel.Classifier {
	t.Helper()
	model, err := textmodel.New(types.ModelConfig{Type: textmodel.TypeTFIDFKNN, Parameters: map[string]float64{"k": 1}})
	require.NoError(t, err)
	require.NoError(t, model.Fit(
		[]string{"invoice amount due", "receipt cash store"},
		[]string{"INVOICE", "RECEIPT"},
	))
	return model
}

func testRun(dataset string) *types.Run {
	return &types.Run{
		Dataset:   dataset,
		ModelType: textmodel.TypeTFIDFKNN,
		Params:    map[string]float64{"k": 1},
		TrainSize: 2,
		TestSize:  1,
		Metrics: types.Metrics{
			Accuracy:       0.9,
			MacroPrecision: 0.85,
			MacroRecall:    0.8,
			PerLabel: map[string]types.LabelMetrics{
				"INVOICE": {Precision: 1, Recall: 0.8, Support: 5},
			},
		},
	}
}

// --- tests ---

func TestOpenRequiresDir(t *testing.T) {
	_, err := Open(types.RegistryConfig{})
	assert.Error(t, err)
}

func TestRecordAndGetRun(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	run := testRun("pagebreak")
	require.NoError(t, store.RecordRun(ctx, run, fittedModel(t)))
	require.NotEmpty(t, run.ID)
	assert.False(t, run.CreatedAt.IsZero())

	got, err := store.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.Dataset, got.Dataset)
	assert.Equal(t, run.ModelType, got.ModelType)
	assert.Equal(t, run.Params, got.Params)
	assert.Equal(t, run.Metrics, got.Metrics)
	assert.Equal(t, run.TrainSize, got.TrainSize)
	assert.Equal(t, run.TestSize, got.TestSize)
}

func TestGetRunNotFound(t *testing.T) {
	store := testStore(t)
	_, err := store.GetRun(context.Background(), "no-such-run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestListRuns(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	require.NoError(t, store.RecordRun(ctx, testRun("pagebreak"), fittedModel(t)))
	require.NoError(t, store.RecordRun(ctx, testRun("nopagebreak"), fittedModel(t)))

	runs, err := store.ListRuns(ctx)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestLatestRun(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	first := testRun("chopped")
	require.NoError(t, store.RecordRun(ctx, first, fittedModel(t)))
	second := testRun("chopped")
	require.NoError(t, store.RecordRun(ctx, second, fittedModel(t)))

	latest, err := store.LatestRun(ctx, "chopped")
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)

	_, err = store.LatestRun(ctx, "unknown")
	assert.Error(t, err)
}

func TestRunOrderingSubsecond(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 23, 10, 0, 0, 0, time.UTC)
	insert := func(id string, ts time.Time) {
		_, err := store.db.ExecContext(ctx,
			`INSERT INTO runs (id, created_at, dataset, model_type, params, train_size, test_size, accuracy, metrics, artifact_path)
			 VALUES (?, ?, ?, ?, '', 0, 0, 0, '', '')`,
			id, ts.Format(tsLayout), "chopped", textmodel.TypeTFIDFKNN)
		require.NoError(t, err)
	}

	// Variable-width fractions would sort ".5Z" above ".51Z"; the
	// fixed-width layout keeps string order chronological.
	insert("older-run", base.Add(500*time.Millisecond))
	insert("newer-run", base.Add(510*time.Millisecond))

	latest, err := store.LatestRun(ctx, "chopped")
	require.NoError(t, err)
	assert.Equal(t, "newer-run", latest.ID)

	runs, err := store.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "newer-run", runs[0].ID)
	assert.Equal(t, "older-run", runs[1].ID)
}

func TestLoadModelPredictsIdentically(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	model := fittedModel(t)
	probe := []string{"amount due on invoice", "cash at the store"}
	want, err := model.Predict(probe)
	require.NoError(t, err)

	run := testRun("pagebreak")
	require.NoError(t, store.RecordRun(ctx, run, model))

	loaded, gotRun, err := store.LoadModel(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, gotRun.ID)

	got, err := loaded.Predict(probe)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestExport(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	require.NoError(t, store.RecordRun(ctx, testRun("pagebreak"), fittedModel(t)))

	yamlPath, err := store.ExportYAML(ctx)
	require.NoError(t, err)
	assert.FileExists(t, yamlPath)

	jsonPath, err := store.ExportJSON(ctx)
	require.NoError(t, err)
	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)

	var runs []types.Run
	require.NoError(t, json.Unmarshal(data, &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, "pagebreak", runs[0].Dataset)
	assert.Equal(t, filepath.Join("models", runs[0].ID+".json"), runs[0].ArtifactPath)
}
