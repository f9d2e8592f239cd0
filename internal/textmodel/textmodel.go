// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package textmodel implements the text classifiers used by the lab:
// TF-IDF vectorization feeding either gradient-boosted trees or a
// k-nearest-neighbours vote. Classifiers are built from a ModelConfig
// by New and persisted as JSON artifacts.
package textmodel

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pagelab/pkg/types"
)

// Model types accepted by New.
const (
	TypeTFIDFXGBoost = "tfidf-xgboost"
	TypeTFIDFKNN     = "tfidf-knn"
)

// Classifier is the fit/predict contract shared by all architectures.
type Classifier interface {
	// Fit trains on parallel slices of texts and labels.
	Fit(texts, labels []string) error

	// Predict returns one predicted label per input text. It is an
	// error to call Predict before Fit.
	Predict(texts []string) ([]string, error)
}

// New builds an unfitted classifier from the config. Class weights and
// the cost matrix are loaded from their paths when set. Unknown model
// types are an error.
func New(cfg types.ModelConfig) (Classifier, error) {
	var weights map[string]float64
	if cfg.ClassWeightsPath != "" {
		w, err := LoadClassWeights(cfg.ClassWeightsPath)
		if err != nil {
			return nil, err
		}
		weights = w
	}

	var costs map[string]map[string]float64
	if cfg.CostMatrixPath != "" {
		if cfg.Type != TypeTFIDFXGBoost {
			return nil, fmt.Errorf("cost matrix is only supported by %s", TypeTFIDFXGBoost)
		}
		c, err := LoadCostMatrix(cfg.CostMatrixPath)
		if err != nil {
			return nil, err
		}
		costs = c
	}

	switch cfg.Type {
	case TypeTFIDFXGBoost:
		return newBoost(cfg.Parameters, weights, costs), nil
	case TypeTFIDFKNN:
		return newKNN(cfg.Parameters, weights), nil
	default:
		return nil, fmt.Errorf("model type %q not recognized", cfg.Type)
	}
}

// LoadClassWeights reads a YAML file mapping label -> weight. Weights
// scale each training sample's contribution to the loss (boosting) or
// its vote (knn).
func LoadClassWeights(path string) (map[string]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading class weights %s: %w", path, err)
	}
	weights := make(map[string]float64)
	if err := yaml.Unmarshal(data, &weights); err != nil {
		return nil, fmt.Errorf("parsing class weights %s: %w", path, err)
	}
	for label, w := range weights {
		if w <= 0 {
			return nil, fmt.Errorf("class weight for %q is %v: must be positive", label, w)
		}
	}
	return weights, nil
}

// LoadCostMatrix reads a YAML file mapping actual label -> predicted
// label -> misclassification cost. During boosting, the gradient of a
// sample toward a wrong class is scaled by that entry (absent entries
// cost 1), making expensive confusions harder to learn.
func LoadCostMatrix(path string) (map[string]map[string]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading cost matrix %s: %w", path, err)
	}
	costs := make(map[string]map[string]float64)
	if err := yaml.Unmarshal(data, &costs); err != nil {
		return nil, fmt.Errorf("parsing cost matrix %s: %w", path, err)
	}
	for actual, row := range costs {
		for predicted, cost := range row {
			if cost < 0 {
				return nil, fmt.Errorf("cost for %q predicted as %q is %v: must be non-negative", actual, predicted, cost)
			}
		}
	}
	return costs, nil
}

// param reads a hyperparameter with a default.
func param(params map[string]float64, key string, def float64) float64 {
	if v, ok := params[key]; ok {
		return v
	}
	return def
}
