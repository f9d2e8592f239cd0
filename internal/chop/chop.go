// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package chop slices document texts into fixed-length windows to
// synthesize page-break-like training data from single-page documents.
package chop

import (
	"fmt"

	"github.com/pdiddy/pagelab/pkg/types"
)

// Chop partitions each text into non-overlapping windows of at most
// chunkLength runes, in left-to-right order. Every window inherits the
// parent's label. A text of rune length L contributes ceil(L/chunkLength)
// windows; all have length chunkLength except possibly the last, which
// holds the remainder. Empty texts contribute nothing.
//
// Slicing is by runes so multi-byte characters never split mid-sequence.
func Chop(texts, labels []string, chunkLength int) (chunks, chunkLabels []string, err error) {
	if chunkLength <= 0 {
		return nil, nil, fmt.Errorf("chunk length %d: must be positive", chunkLength)
	}
	if len(texts) != len(labels) {
		return nil, nil, fmt.Errorf("texts and labels differ in length: %d vs %d", len(texts), len(labels))
	}

	for i, text := range texts {
		for _, chunk := range windows(text, chunkLength) {
			chunks = append(chunks, chunk)
			chunkLabels = append(chunkLabels, labels[i])
		}
	}
	return chunks, chunkLabels, nil
}

// Dataset chops every sample of ds. Derived samples carry identifiers of
// the form "parentID#k" (k starting at 0) so chunks stay traceable to
// their parent document.
func Dataset(ds *types.Dataset, chunkLength int) (*types.Dataset, error) {
	if chunkLength <= 0 {
		return nil, fmt.Errorf("chunk length %d: must be positive", chunkLength)
	}

	out := &types.Dataset{Name: ds.Name + "-chopped"}
	for _, s := range ds.Samples {
		for k, chunk := range windows(s.Text, chunkLength) {
			out.Samples = append(out.Samples, types.Sample{
				ID:    fmt.Sprintf("%s#%d", s.ID, k),
				Label: s.Label,
				Text:  chunk,
			})
		}
	}
	return out, nil
}

func windows(text string, chunkLength int) []string {
	runes := []rune(text)
	var out []string
	for start := 0; start < len(runes); start += chunkLength {
		end := start + chunkLength
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[start:end]))
	}
	return out
}
