// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package evaluate scores predicted labels against actual ones:
// accuracy, per-label precision/recall with macro averages, and a
// confusion matrix.
package evaluate

import (
	"fmt"

	"github.com/pdiddy/pagelab/pkg/types"
)

// Accuracy returns the fraction of predictions matching the actual
// labels, in [0,1]. Empty input scores zero; positions without a
// prediction count as incorrect.
func Accuracy(predicted, actual []string) float64 {
	if len(actual) == 0 {
		return 0
	}
	correct := 0
	for i, want := range actual {
		if i < len(predicted) && predicted[i] == want {
			correct++
		}
	}
	return float64(correct) / float64(len(actual))
}

// Evaluate computes the full metric set for one model's predictions.
func Evaluate(predicted, actual []string) (types.Metrics, error) {
	if len(predicted) != len(actual) {
		return types.Metrics{}, fmt.Errorf("predicted and actual differ in length: %d vs %d", len(predicted), len(actual))
	}

	confusion := make(map[string]map[string]int)
	support := make(map[string]int)
	predictedCount := make(map[string]int)
	truePositives := make(map[string]int)

	for i, want := range actual {
		got := predicted[i]
		if confusion[want] == nil {
			confusion[want] = make(map[string]int)
		}
		confusion[want][got]++
		support[want]++
		predictedCount[got]++
		if got == want {
			truePositives[want]++
		}
	}

	m := types.Metrics{
		Accuracy:  Accuracy(predicted, actual),
		PerLabel:  make(map[string]types.LabelMetrics),
		Confusion: confusion,
	}

	for label, sup := range support {
		lm := types.LabelMetrics{Support: sup}
		if predictedCount[label] > 0 {
			lm.Precision = float64(truePositives[label]) / float64(predictedCount[label])
		}
		if sup > 0 {
			lm.Recall = float64(truePositives[label]) / float64(sup)
		}
		m.PerLabel[label] = lm
		m.MacroPrecision += lm.Precision
		m.MacroRecall += lm.Recall
	}
	if len(support) > 0 {
		m.MacroPrecision /= float64(len(support))
		m.MacroRecall /= float64(len(support))
	}

	return m, nil
}
