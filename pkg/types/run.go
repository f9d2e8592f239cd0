// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// LabelMetrics holds per-label evaluation results.
type LabelMetrics struct {
	// Precision is true positives over predicted positives.
	Precision float64 `json:"precision" yaml:"precision"`

	// Recall is true positives over actual positives.
	Recall float64 `json:"recall" yaml:"recall"`

	// Support is the number of test samples carrying this label.
	Support int `json:"support" yaml:"support"`
}

// Metrics holds the evaluation results of one trained model on its
// held-out split.
type Metrics struct {
	// Accuracy is the fraction of correct predictions, in [0,1].
	Accuracy float64 `json:"accuracy" yaml:"accuracy"`

	// MacroPrecision is the unweighted mean of per-label precision.
	MacroPrecision float64 `json:"macro_precision" yaml:"macro_precision"`

	// MacroRecall is the unweighted mean of per-label recall.
	MacroRecall float64 `json:"macro_recall" yaml:"macro_recall"`

	// PerLabel maps each label seen in the test set to its metrics.
	PerLabel map[string]LabelMetrics `json:"per_label,omitempty" yaml:"per_label,omitempty"`

	// Confusion maps actual label -> predicted label -> count.
	Confusion map[string]map[string]int `json:"confusion,omitempty" yaml:"confusion,omitempty"`
}

// Run records one training invocation in the registry.
type Run struct {
	// ID is the run UUID, assigned when the run is recorded.
	ID string `json:"id" yaml:"id"`

	// CreatedAt is when the run was recorded.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`

	// Dataset names the prepared dataset the model was fit on
	// (e.g. "pagebreak", "nopagebreak", "chopped").
	Dataset string `json:"dataset" yaml:"dataset"`

	// ModelType is the classifier architecture (tfidf-xgboost, tfidf-knn).
	ModelType string `json:"model_type" yaml:"model_type"`

	// Params holds the hyperparameters the model was built with.
	Params map[string]float64 `json:"params,omitempty" yaml:"params,omitempty"`

	// TrainSize and TestSize are the split sizes.
	TrainSize int `json:"train_size" yaml:"train_size"`
	TestSize  int `json:"test_size" yaml:"test_size"`

	// Metrics holds the held-out evaluation results.
	Metrics Metrics `json:"metrics" yaml:"metrics"`

	// ArtifactPath is where the fitted model was persisted, relative to
	// the registry directory.
	ArtifactPath string `json:"artifact_path" yaml:"artifact_path"`
}
