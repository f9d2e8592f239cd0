// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package textmodel

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pagelab/pkg/types"
)

// --- fixtures ---

// toyCorpus is a small separable corpus: each class uses its own
// vocabulary, so a fitted model must reproduce the training labels.
func toyCorpus() (texts, labels []string) {
	texts = []string{
		"invoice payment due net amount total",
		"invoice billing amount payable due",
		"payment invoice total amount outstanding",
		"receipt store purchase cash register",
		"receipt cash store thank you purchase",
		"store receipt purchase change tendered",
		"contract party agreement clause term",
		"agreement contract signed party obligations",
		"clause term contract agreement binding",
	}
	labels = []string{
		"INVOICE", "INVOICE", "INVOICE",
		"RECEIPT", "RECEIPT", "RECEIPT",
		"CONTRACT", "CONTRACT", "CONTRACT",
	}
	return texts, labels
}

// --- tokenizer / vectorizer ---

func TestTokenize(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"Hello, World!", []string{"hello", "world"}},
		{"page-break 123", []string{"page", "break", "123"}},
		{"", nil},
		{"  \t\n ", nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tokenize(tt.text), "text %q", tt.text)
	}
}

func TestVectorizer(t *testing.T) {
	v := &Vectorizer{}
	v.Fit([]string{"alpha beta", "alpha gamma", "alpha beta beta"})

	require.Equal(t, 3, v.NumFeatures())

	// "alpha" appears in every document, so its IDF is the smoothed floor.
	assert.InDelta(t, 1.0, v.IDF[v.Vocab["alpha"]], 1e-9)
	assert.Greater(t, v.IDF[v.Vocab["gamma"]], v.IDF[v.Vocab["beta"]])

	// Transformed vectors are L2-normalized.
	vec := v.Transform("alpha beta beta")
	var norm float64
	for _, w := range vec {
		norm += w * w
	}
	assert.InDelta(t, 1.0, norm, 1e-9)

	// Out-of-vocabulary terms are ignored.
	assert.Empty(t, v.Transform("unseen words only"))
}

func TestDot(t *testing.T) {
	a := Vector{0: 0.5, 2: 0.5}
	b := Vector{0: 0.5, 1: 0.9}
	assert.InDelta(t, 0.25, dot(a, b), 1e-9)
	assert.InDelta(t, dot(a, b), dot(b, a), 1e-12)
	assert.Zero(t, dot(a, Vector{}))
}

// --- factory ---

func TestNew(t *testing.T) {
	boost, err := New(types.ModelConfig{Type: TypeTFIDFXGBoost})
	require.NoError(t, err)
	assert.IsType(t, &BoostClassifier{}, boost)

	knn, err := New(types.ModelConfig{Type: TypeTFIDFKNN})
	require.NoError(t, err)
	assert.IsType(t, &KNNClassifier{}, knn)

	_, err = New(types.ModelConfig{Type: "tfidf-svm"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not recognized")
}

func TestLoadClassWeights(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "weights.yaml")
	require.NoError(t, os.WriteFile(path, []byte("INVOICE: 2.0\nRECEIPT: 0.5\n"), 0o644))

	weights, err := LoadClassWeights(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"INVOICE": 2.0, "RECEIPT": 0.5}, weights)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("INVOICE: -1\n"), 0o644))
	_, err = LoadClassWeights(bad)
	assert.Error(t, err)

	_, err = LoadClassWeights(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadCostMatrix(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "costs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("INVOICE:\n  RECEIPT: 5.0\nRECEIPT:\n  INVOICE: 2.0\n"), 0o644))

	costs, err := LoadCostMatrix(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]map[string]float64{
		"INVOICE": {"RECEIPT": 5.0},
		"RECEIPT": {"INVOICE": 2.0},
	}, costs)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("INVOICE:\n  RECEIPT: -1\n"), 0o644))
	_, err = LoadCostMatrix(bad)
	assert.Error(t, err)

	_, err = LoadCostMatrix(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	// Only boosting supports a cost matrix.
	_, err = New(types.ModelConfig{Type: TypeTFIDFKNN, CostMatrixPath: path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only supported")
}

// --- boosting ---

func TestBoostFitPredict(t *testing.T) {
	texts, labels := toyCorpus()

	c, err := New(types.ModelConfig{Type: TypeTFIDFXGBoost})
	require.NoError(t, err)
	require.NoError(t, c.Fit(texts, labels))

	got, err := c.Predict(texts)
	require.NoError(t, err)
	assert.Equal(t, labels, got)

	// Unseen texts built from class vocabulary route to that class.
	got, err = c.Predict([]string{"amount due on this invoice", "cash purchase at the store"})
	require.NoError(t, err)
	assert.Equal(t, []string{"INVOICE", "RECEIPT"}, got)
}

func TestBoostSingleClass(t *testing.T) {
	c := newBoost(nil, nil, nil)
	require.NoError(t, c.Fit([]string{"a b", "c d"}, []string{"ONLY", "ONLY"}))

	got, err := c.Predict([]string{"anything at all"})
	require.NoError(t, err)
	assert.Equal(t, []string{"ONLY"}, got)
}

func TestBoostErrors(t *testing.T) {
	c := newBoost(nil, nil, nil)

	_, err := c.Predict([]string{"x"})
	assert.Error(t, err, "predict before fit")

	assert.Error(t, c.Fit(nil, nil))
	assert.Error(t, c.Fit([]string{"a"}, []string{"A", "B"}))

	bad := newBoost(map[string]float64{"rounds": 0}, nil, nil)
	assert.Error(t, bad.Fit([]string{"a", "b"}, []string{"A", "B"}))
}

func TestBoostClassWeights(t *testing.T) {
	texts, labels := toyCorpus()
	weights := map[string]float64{"INVOICE": 2.0, "RECEIPT": 1.0, "CONTRACT": 1.0}

	c := newBoost(nil, weights, nil)
	require.NoError(t, c.Fit(texts, labels))

	got, err := c.Predict(texts)
	require.NoError(t, err)
	assert.Equal(t, labels, got)
}

func TestBoostCostMatrix(t *testing.T) {
	// Three identical texts with conflicting labels: the majority label
	// wins unless misreading B as A carries a heavy cost.
	texts := []string{"alpha", "alpha", "alpha"}
	labels := []string{"A", "A", "B"}

	plain := newBoost(nil, nil, nil)
	require.NoError(t, plain.Fit(texts, labels))
	got, err := plain.Predict([]string{"alpha"})
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, got)

	costly := newBoost(nil, nil, map[string]map[string]float64{"B": {"A": 10}})
	require.NoError(t, costly.Fit(texts, labels))
	got, err = costly.Predict([]string{"alpha"})
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, got)
}

func TestSoftmax(t *testing.T) {
	out := make([]float64, 3)
	softmax([]float64{1, 1, 1}, out)
	for _, p := range out {
		assert.InDelta(t, 1.0/3, p, 1e-9)
	}

	softmax([]float64{1000, 0, -1000}, out)
	assert.InDelta(t, 1.0, out[0], 1e-9)
	assert.False(t, math.IsNaN(out[2]))
}

// --- knn ---

func TestKNNFitPredict(t *testing.T) {
	texts, labels := toyCorpus()

	c, err := New(types.ModelConfig{
		Type:       TypeTFIDFKNN,
		Parameters: map[string]float64{"k": 3},
	})
	require.NoError(t, err)
	require.NoError(t, c.Fit(texts, labels))

	got, err := c.Predict(texts)
	require.NoError(t, err)
	assert.Equal(t, labels, got)

	got, err = c.Predict([]string{"contract clause binding term"})
	require.NoError(t, err)
	assert.Equal(t, []string{"CONTRACT"}, got)
}

func TestKNNErrors(t *testing.T) {
	c := newKNN(nil, nil)
	_, err := c.Predict([]string{"x"})
	assert.Error(t, err)

	assert.Error(t, c.Fit(nil, nil))

	bad := newKNN(map[string]float64{"k": 0}, nil)
	assert.Error(t, bad.Fit([]string{"a"}, []string{"A"}))
}

// --- persistence ---

func TestArtifactRoundTrip(t *testing.T) {
	texts, labels := toyCorpus()
	probe := []string{"invoice amount due", "receipt from the store", "agreement between the party"}

	for _, modelType := range []string{TypeTFIDFXGBoost, TypeTFIDFKNN} {
		t.Run(modelType, func(t *testing.T) {
			c, err := New(types.ModelConfig{Type: modelType})
			require.NoError(t, err)
			require.NoError(t, c.Fit(texts, labels))

			want, err := c.Predict(probe)
			require.NoError(t, err)

			path := filepath.Join(t.TempDir(), "model.json")
			require.NoError(t, Save(c, path))

			loaded, err := Load(path)
			require.NoError(t, err)
			got, err := loaded.Predict(probe)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestLoadArtifactErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"type":"tfidf-svm"}`), 0o644))
	_, err = Load(bad)
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte(`{"type":"tfidf-xgboost"}`), 0o644))
	_, err = Load(empty)
	assert.Error(t, err)
}
