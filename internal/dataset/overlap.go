// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataset

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pdiddy/pagelab/pkg/types"
)

// Overlap returns the sorted set of document identifiers present in both
// datasets. Identifiers are compared after trimming whitespace.
func Overlap(a, b *types.Dataset) []string {
	inA := make(map[string]bool, a.Len())
	for _, s := range a.Samples {
		inA[normalizeID(s.ID)] = true
	}

	seen := make(map[string]bool)
	var overlap []string
	for _, s := range b.Samples {
		id := normalizeID(s.ID)
		if inA[id] && !seen[id] {
			seen[id] = true
			overlap = append(overlap, id)
		}
	}
	sort.Strings(overlap)
	return overlap
}

// ResolveOverlap removes from ds every row whose identifier appears in
// other. The page-break-free dataset unconditionally yields so that
// page-break documents' content never leaks into its training set.
// Running it again on its own output removes nothing further.
func ResolveOverlap(ds, other *types.Dataset, w io.Writer) *types.Dataset {
	drop := make(map[string]bool)
	for _, id := range Overlap(ds, other) {
		drop[id] = true
	}

	out := &types.Dataset{Name: ds.Name}
	for _, s := range ds.Samples {
		if !drop[normalizeID(s.ID)] {
			out.Samples = append(out.Samples, s)
		}
	}
	if removed := ds.Len() - out.Len(); removed > 0 {
		fmt.Fprintf(w, "%s: removed %d rows overlapping %s\n", ds.Name, removed, other.Name)
	}
	return out
}

func normalizeID(id string) string {
	return strings.TrimSpace(id)
}
