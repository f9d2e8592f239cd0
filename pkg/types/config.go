// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the records and stage configurations shared across
// the pagelab pipeline.
package types

// CorpusFormat identifies the tabular layout of a corpus file.
type CorpusFormat string

const (
	FormatCSV CorpusFormat = "csv"
	FormatTSV CorpusFormat = "tsv"
)

// CorpusConfig describes one tabular corpus file and how to read samples
// out of it. Column offsets are zero-based.
type CorpusConfig struct {
	// Path is the location of the corpus file. Always supplied via config
	// or flags; the pipeline carries no built-in paths.
	Path string `json:"path" yaml:"path"`

	// Name labels the dataset in audit output and the run registry
	// (e.g. "pagebreak", "nopagebreak").
	Name string `json:"name" yaml:"name"`

	// Format selects the delimiter: csv or tsv.
	Format CorpusFormat `json:"format" yaml:"format"`

	// IDColumn is the column holding the document identifier.
	IDColumn int `json:"id_column" yaml:"id_column"`

	// LabelColumn is the column holding the label string.
	LabelColumn int `json:"label_column" yaml:"label_column"`

	// TextColumn is the column holding the document text.
	TextColumn int `json:"text_column" yaml:"text_column"`

	// HasHeader indicates the first row is a header and must be skipped.
	HasHeader bool `json:"has_header" yaml:"has_header"`
}

// DatasetConfig holds settings for dataset preparation.
type DatasetConfig struct {
	// PageBreak is the corpus whose texts contain page-break markers.
	PageBreak CorpusConfig `json:"page_break" yaml:"page_break"`

	// NoPageBreak is the corpus of single-page documents.
	NoPageBreak CorpusConfig `json:"no_page_break" yaml:"no_page_break"`

	// Marker is the page-break marker substring (default "[PAGE BREAK]").
	Marker string `json:"marker" yaml:"marker"`

	// PreparedDir is the directory prepared datasets are written to.
	PreparedDir string `json:"prepared_dir" yaml:"prepared_dir"`
}

// SplitConfig holds settings for the deterministic train/test split.
type SplitConfig struct {
	// TestFraction is the share of samples held out for evaluation
	// (default 0.2).
	TestFraction float64 `json:"test_fraction" yaml:"test_fraction"`

	// Seed drives the shuffle. The same seed and input order always
	// produce the same split (default 42).
	Seed int64 `json:"seed" yaml:"seed"`
}

// ChopConfig holds settings for synthesizing page-break-like training data.
type ChopConfig struct {
	// ChunkLength is the window size in runes. Must be positive.
	ChunkLength int `json:"chunk_length" yaml:"chunk_length"`
}

// ModelConfig describes which classifier to build and how.
type ModelConfig struct {
	// Type selects the architecture: tfidf-xgboost or tfidf-knn.
	Type string `json:"type" yaml:"type"`

	// Name labels the model in run records and reports.
	Name string `json:"name" yaml:"name"`

	// Parameters are architecture-specific hyperparameters
	// (e.g. rounds, max_depth, learning_rate for boosting; k for knn).
	Parameters map[string]float64 `json:"parameters,omitempty" yaml:"parameters,omitempty"`

	// ClassWeightsPath optionally points to a YAML file mapping
	// label -> weight, applied during training.
	ClassWeightsPath string `json:"class_weights_path,omitempty" yaml:"class_weights_path,omitempty"`

	// CostMatrixPath optionally points to a YAML file mapping
	// actual label -> predicted label -> misclassification cost.
	// Only the boosting architecture supports it.
	CostMatrixPath string `json:"cost_matrix_path,omitempty" yaml:"cost_matrix_path,omitempty"`
}

// RegistryConfig holds settings for the run registry.
type RegistryConfig struct {
	// Dir is the base directory for the registry database and model
	// artifacts.
	Dir string `json:"dir" yaml:"dir"`
}

// DispatchConfig holds settings for routing unseen samples to a fitted model.
type DispatchConfig struct {
	// Marker is the page-break marker substring used for detection.
	Marker string `json:"marker" yaml:"marker"`

	// PageBreakRun is the run ID of the model trained on page-break data.
	PageBreakRun string `json:"page_break_run" yaml:"page_break_run"`

	// FallbackRun is the run ID of the model applied when no marker is
	// detected (the page-break-free or chopped model).
	FallbackRun string `json:"fallback_run" yaml:"fallback_run"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Dataset  DatasetConfig  `json:"dataset" yaml:"dataset"`
	Split    SplitConfig    `json:"split" yaml:"split"`
	Chop     ChopConfig     `json:"chop" yaml:"chop"`
	Model    ModelConfig    `json:"model" yaml:"model"`
	Registry RegistryConfig `json:"registry" yaml:"registry"`
	Dispatch DispatchConfig `json:"dispatch" yaml:"dispatch"`
}
