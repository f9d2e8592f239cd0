// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pagelab/pkg/types"
)

func sampleRuns() []types.Run {
	return []types.Run{
		{
			ID:        "0d6f9a11-1111-2222-3333-444455556666",
			CreatedAt: time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC),
			Dataset:   "pagebreak",
			ModelType: "tfidf-xgboost",
			TrainSize: 80,
			TestSize:  20,
			Metrics: types.Metrics{
				Accuracy:       0.95,
				MacroPrecision: 0.94,
				MacroRecall:    0.93,
				PerLabel: map[string]types.LabelMetrics{
					"INVOICE": {Precision: 1, Recall: 0.9, Support: 10},
					"RECEIPT": {Precision: 0.88, Recall: 0.96, Support: 10},
				},
				Confusion: map[string]map[string]int{
					"INVOICE": {"INVOICE": 9, "RECEIPT": 1},
					"RECEIPT": {"RECEIPT": 10},
				},
			},
		},
		{
			ID:        "ab12cd34-aaaa-bbbb-cccc-ddddeeeeffff",
			CreatedAt: time.Date(2026, 8, 21, 9, 30, 0, 0, time.UTC),
			Dataset:   "chopped",
			ModelType: "tfidf-knn",
			TrainSize: 400,
			TestSize:  100,
			Metrics:   types.Metrics{Accuracy: 0.81},
		},
	}
}

func TestRunsTable(t *testing.T) {
	out := RunsTable(sampleRuns())
	assert.Contains(t, out, "0d6f9a11")
	assert.Contains(t, out, "pagebreak")
	assert.Contains(t, out, "0.9500")
	assert.Contains(t, out, "tfidf-knn")
	assert.NotContains(t, out, "444455556666", "run IDs are shortened")
}

func TestComparisonTable(t *testing.T) {
	out := ComparisonTable(sampleRuns())
	assert.Contains(t, out, "chopped")
	assert.Contains(t, out, "0.8100")
	assert.Contains(t, out, "Macro P")
}

func TestMetricsTable(t *testing.T) {
	out := MetricsTable(sampleRuns()[0].Metrics)
	assert.Contains(t, out, "INVOICE")
	assert.Contains(t, out, "0.8800")
	assert.Contains(t, out, "macro")
}

func TestConfusionTable(t *testing.T) {
	out := ConfusionTable(sampleRuns()[0].Metrics)
	assert.Contains(t, out, "INVOICE")
	assert.Contains(t, out, "RECEIPT")
	assert.Contains(t, out, "9")
}

func TestWriteMarkdown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")
	require.NoError(t, WriteMarkdown(path, sampleRuns()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "# Model comparison")
	assert.Contains(t, content, "## pagebreak (tfidf-xgboost, run 0d6f9a11)")
	assert.Contains(t, content, "| INVOICE |")
}
