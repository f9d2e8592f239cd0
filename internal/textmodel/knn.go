// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package textmodel

import (
	"fmt"
	"sort"
)

const defaultNeighbours = 5

// KNNClassifier is a TF-IDF k-nearest-neighbours classifier. Training
// vectors are L2-normalized, so cosine similarity reduces to a dot
// product. Votes are weighted by similarity and, when configured, by
// class weight.
type KNNClassifier struct {
	Vectorizer   *Vectorizer        `json:"vectorizer"`
	Neighbours   int                `json:"neighbours"`
	Train        []Vector           `json:"train"`
	Labels       []string           `json:"labels"`
	ClassWeights map[string]float64 `json:"class_weights,omitempty"`
}

func newKNN(params, classWeights map[string]float64) *KNNClassifier {
	return &KNNClassifier{
		Neighbours:   int(param(params, "k", defaultNeighbours)),
		ClassWeights: classWeights,
	}
}

// Fit stores the vectorized training corpus.
func (c *KNNClassifier) Fit(texts, labels []string) error {
	if len(texts) == 0 {
		return fmt.Errorf("no training samples")
	}
	if len(texts) != len(labels) {
		return fmt.Errorf("texts and labels differ in length: %d vs %d", len(texts), len(labels))
	}
	if c.Neighbours <= 0 {
		return fmt.Errorf("k %d: must be positive", c.Neighbours)
	}

	c.Vectorizer = &Vectorizer{}
	c.Vectorizer.Fit(texts)
	c.Train = c.Vectorizer.TransformAll(texts)
	c.Labels = append([]string(nil), labels...)
	return nil
}

// Predict returns the weighted-majority label among the k most similar
// training samples for each text.
func (c *KNNClassifier) Predict(texts []string) ([]string, error) {
	if c.Vectorizer == nil || len(c.Train) == 0 {
		return nil, fmt.Errorf("model is not fitted")
	}

	k := c.Neighbours
	if k > len(c.Train) {
		k = len(c.Train)
	}

	out := make([]string, len(texts))
	for i, text := range texts {
		vec := c.Vectorizer.Transform(text)

		type neighbour struct {
			sim   float64
			index int
		}
		sims := make([]neighbour, len(c.Train))
		for j, tv := range c.Train {
			sims[j] = neighbour{sim: dot(vec, tv), index: j}
		}
		sort.Slice(sims, func(a, b int) bool {
			if sims[a].sim != sims[b].sim {
				return sims[a].sim > sims[b].sim
			}
			return sims[a].index < sims[b].index
		})

		votes := make(map[string]float64)
		for _, nb := range sims[:k] {
			label := c.Labels[nb.index]
			w := 1.0
			if cw, ok := c.ClassWeights[label]; ok {
				w = cw
			}
			votes[label] += w * (nb.sim + 1e-9) // epsilon keeps zero-similarity ties resolvable
		}

		best, bestVote := "", -1.0
		for label, vote := range votes {
			if vote > bestVote || (vote == bestVote && label < best) {
				best, bestVote = label, vote
			}
		}
		out[i] = best
	}
	return out, nil
}
