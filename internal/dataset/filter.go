// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataset

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/pdiddy/pagelab/pkg/types"
)

// FilterCanonicalLabels keeps rows whose label is fully upper-case: at
// least one cased character and no lower-case ones. Upper-case labels
// are the corpus convention for clean, canonical label strings. The
// number of dropped rows is reported on w.
func FilterCanonicalLabels(ds *types.Dataset, w io.Writer) *types.Dataset {
	out := &types.Dataset{Name: ds.Name}
	for _, s := range ds.Samples {
		if isCanonicalLabel(s.Label) {
			out.Samples = append(out.Samples, s)
		}
	}
	if dropped := ds.Len() - out.Len(); dropped > 0 {
		fmt.Fprintf(w, "%s: dropped %d of %d rows (label not canonical)\n", ds.Name, dropped, ds.Len())
	}
	return out
}

func isCanonicalLabel(label string) bool {
	cased := false
	for _, r := range label {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			cased = true
		}
	}
	return cased
}

// FilterPageBreak keeps rows whose text contains the marker substring.
// The page-break corpus is not guaranteed to be clean; rows without a
// marker are dropped and counted on w.
func FilterPageBreak(ds *types.Dataset, marker string, w io.Writer) *types.Dataset {
	out := &types.Dataset{Name: ds.Name}
	for _, s := range ds.Samples {
		if strings.Contains(s.Text, marker) {
			out.Samples = append(out.Samples, s)
		}
	}
	if dropped := ds.Len() - out.Len(); dropped > 0 {
		fmt.Fprintf(w, "%s: dropped %d of %d rows (no page-break marker)\n", ds.Name, dropped, ds.Len())
	}
	return out
}
