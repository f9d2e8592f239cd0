// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package textmodel

import (
	"encoding/json"
	"fmt"
	"os"
)

// artifact is the on-disk envelope for a fitted classifier.
type artifact struct {
	Type  string           `json:"type"`
	Boost *BoostClassifier `json:"boost,omitempty"`
	KNN   *KNNClassifier   `json:"knn,omitempty"`
}

// Save persists a fitted classifier as a JSON artifact.
func Save(c Classifier, path string) error {
	var a artifact
	switch m := c.(type) {
	case *BoostClassifier:
		a = artifact{Type: TypeTFIDFXGBoost, Boost: m}
	case *KNNClassifier:
		a = artifact{Type: TypeTFIDFKNN, KNN: m}
	default:
		return fmt.Errorf("unsupported classifier %T", c)
	}

	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshaling model artifact: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing model artifact %s: %w", path, err)
	}
	return nil
}

// Load reads a fitted classifier back from a JSON artifact.
func Load(path string) (Classifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model artifact %s: %w", path, err)
	}

	var a artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parsing model artifact %s: %w", path, err)
	}

	switch a.Type {
	case TypeTFIDFXGBoost:
		if a.Boost == nil {
			return nil, fmt.Errorf("artifact %s: missing boost payload", path)
		}
		return a.Boost, nil
	case TypeTFIDFKNN:
		if a.KNN == nil {
			return nil, fmt.Errorf("artifact %s: missing knn payload", path)
		}
		return a.KNN, nil
	default:
		return nil, fmt.Errorf("artifact %s: unknown model type %q", path, a.Type)
	}
}
