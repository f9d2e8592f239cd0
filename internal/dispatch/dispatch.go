// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dispatch routes unseen samples to the appropriate fitted
// model: texts containing the page-break marker go to the model trained
// on page-break documents, everything else to the configured fallback.
package dispatch

import (
	"fmt"
	"strings"

	"github.com/pdiddy/pagelab/internal/textmodel"
)

// Route identifies which model handled a sample.
type Route string

const (
	RoutePageBreak Route = "pagebreak"
	RouteFallback  Route = "fallback"
)

// Selector routes samples between two fitted classifiers by page-break
// detection.
type Selector struct {
	marker    string
	pageBreak textmodel.Classifier
	fallback  textmodel.Classifier
}

// NewSelector builds a selector. Both models must be fitted; the marker
// must be non-empty, otherwise every text would match it.
func NewSelector(marker string, pageBreak, fallback textmodel.Classifier) (*Selector, error) {
	if marker == "" {
		return nil, fmt.Errorf("page-break marker not configured")
	}
	if pageBreak == nil || fallback == nil {
		return nil, fmt.Errorf("both page-break and fallback models are required")
	}
	return &Selector{marker: marker, pageBreak: pageBreak, fallback: fallback}, nil
}

// Detect reports whether the text contains the page-break marker.
func (s *Selector) Detect(text string) bool {
	return strings.Contains(text, s.marker)
}

// Prediction is one routed classification result.
type Prediction struct {
	Label string `json:"label" yaml:"label"`
	Route Route  `json:"route" yaml:"route"`
}

// Predict classifies each text with the model its marker detection
// selects.
func (s *Selector) Predict(texts []string) ([]Prediction, error) {
	// Batch per route so each model sees one Predict call.
	var pbIdx, fbIdx []int
	var pbTexts, fbTexts []string
	for i, text := range texts {
		if s.Detect(text) {
			pbIdx = append(pbIdx, i)
			pbTexts = append(pbTexts, text)
		} else {
			fbIdx = append(fbIdx, i)
			fbTexts = append(fbTexts, text)
		}
	}

	out := make([]Prediction, len(texts))
	if len(pbTexts) > 0 {
		labels, err := s.pageBreak.Predict(pbTexts)
		if err != nil {
			return nil, fmt.Errorf("page-break model: %w", err)
		}
		for j, i := range pbIdx {
			out[i] = Prediction{Label: labels[j], Route: RoutePageBreak}
		}
	}
	if len(fbTexts) > 0 {
		labels, err := s.fallback.Predict(fbTexts)
		if err != nil {
			return nil, fmt.Errorf("fallback model: %w", err)
		}
		for j, i := range fbIdx {
			out[i] = Prediction{Label: labels[j], Route: RouteFallback}
		}
	}
	return out, nil
}
