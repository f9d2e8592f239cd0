// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package textmodel

import (
	"math"
	"strings"
	"unicode"
)

// Vector is a sparse feature vector: term index -> TF-IDF weight.
type Vector map[int]float64

// Vectorizer turns texts into L2-normalized TF-IDF vectors. Fit builds
// the vocabulary and inverse document frequencies from a training
// corpus; Transform maps any text into that fitted space, ignoring
// out-of-vocabulary terms.
type Vectorizer struct {
	Vocab map[string]int `json:"vocab"`
	IDF   []float64      `json:"idf"`
}

// Fit builds the vocabulary and IDF table from the corpus. IDF uses the
// smoothed form ln((1+n)/(1+df)) + 1 so no term gets a zero weight.
func (v *Vectorizer) Fit(texts []string) {
	v.Vocab = make(map[string]int)
	var df []int

	for _, text := range texts {
		seen := make(map[int]bool)
		for _, term := range tokenize(text) {
			idx, ok := v.Vocab[term]
			if !ok {
				idx = len(v.Vocab)
				v.Vocab[term] = idx
				df = append(df, 0)
			}
			if !seen[idx] {
				seen[idx] = true
				df[idx]++
			}
		}
	}

	n := float64(len(texts))
	v.IDF = make([]float64, len(df))
	for i, d := range df {
		v.IDF[i] = math.Log((1+n)/(1+float64(d))) + 1
	}
}

// Transform vectorizes a single text in the fitted space.
func (v *Vectorizer) Transform(text string) Vector {
	vec := make(Vector)
	for _, term := range tokenize(text) {
		if idx, ok := v.Vocab[term]; ok {
			vec[idx] += v.IDF[idx]
		}
	}
	normalize(vec)
	return vec
}

// TransformAll vectorizes a batch of texts.
func (v *Vectorizer) TransformAll(texts []string) []Vector {
	out := make([]Vector, len(texts))
	for i, text := range texts {
		out[i] = v.Transform(text)
	}
	return out
}

// NumFeatures returns the fitted vocabulary size.
func (v *Vectorizer) NumFeatures() int { return len(v.Vocab) }

// tokenize lowercases the text and splits it on anything that is not a
// letter or digit.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func normalize(vec Vector) {
	var sum float64
	for _, w := range vec {
		sum += w * w
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i, w := range vec {
		vec[i] = w / norm
	}
}

// dot returns the inner product of two sparse vectors.
func dot(a, b Vector) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var sum float64
	for i, w := range a {
		sum += w * b[i]
	}
	return sum
}
