// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dataset

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pagelab/pkg/types"
)

// --- test helpers ---

func writeCorpus(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corpus.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func makeDataset(name string, rows ...[3]string) *types.Dataset {
	ds := &types.Dataset{Name: name}
	for _, r := range rows {
		ds.Samples = append(ds.Samples, types.Sample{ID: r[0], Label: r[1], Text: r[2]})
	}
	return ds
}

// --- Load ---

func TestLoad(t *testing.T) {
	path := writeCorpus(t, "id,label,text\n1,INVOICE,hello world\n 2 ,receipt,more text\n")
	ds, err := Load(types.CorpusConfig{
		Path: path, Name: "test", Format: types.FormatCSV,
		IDColumn: 0, LabelColumn: 1, TextColumn: 2, HasHeader: true,
	})
	require.NoError(t, err)

	require.Equal(t, 2, ds.Len())
	assert.Equal(t, types.Sample{ID: "1", Label: "INVOICE", Text: "hello world"}, ds.Samples[0])
	// Identifiers are trimmed on load.
	assert.Equal(t, "2", ds.Samples[1].ID)
}

func TestLoadTSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.tsv")
	require.NoError(t, os.WriteFile(path, []byte("1\tCONTRACT\tbody, with comma\n"), 0o644))

	ds, err := Load(types.CorpusConfig{
		Path: path, Name: "test", Format: types.FormatTSV,
		IDColumn: 0, LabelColumn: 1, TextColumn: 2,
	})
	require.NoError(t, err)
	require.Equal(t, 1, ds.Len())
	assert.Equal(t, "body, with comma", ds.Samples[0].Text)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(types.CorpusConfig{Path: filepath.Join(t.TempDir(), "nope.csv")})
	assert.Error(t, err)
}

func TestLoadShortRow(t *testing.T) {
	path := writeCorpus(t, "1,INVOICE\n")
	_, err := Load(types.CorpusConfig{
		Path: path, Format: types.FormatCSV,
		IDColumn: 0, LabelColumn: 1, TextColumn: 2,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "columns")
}

func TestWriteRoundTrip(t *testing.T) {
	ds := makeDataset("prepared",
		[3]string{"1", "INVOICE", "text with, comma and \"quote\""},
		[3]string{"2", "RECEIPT", "plain"},
	)
	path := filepath.Join(t.TempDir(), "prepared.csv")
	require.NoError(t, Write(ds, path))

	got, err := Load(Prepared("prepared", path))
	require.NoError(t, err)
	assert.Equal(t, ds.Samples, got.Samples)
}

// --- filters ---

func TestIsCanonicalLabel(t *testing.T) {
	tests := []struct {
		label string
		want  bool
	}{
		{"INVOICE", true},
		{"TAX FORM", true},
		{"INVOICE-2024", true},
		{"Invoice", false},
		{"invoice", false},
		{"", false},
		{"1234", false}, // no cased character
		{"  ", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isCanonicalLabel(tt.label), "label %q", tt.label)
	}
}

func TestFilterCanonicalLabels(t *testing.T) {
	ds := makeDataset("raw",
		[3]string{"1", "INVOICE", "a"},
		[3]string{"2", "Invoice", "b"},
		[3]string{"3", "RECEIPT", "c"},
	)
	var buf bytes.Buffer
	got := FilterCanonicalLabels(ds, &buf)

	require.Equal(t, 2, got.Len())
	assert.Equal(t, []string{"1", "3"}, got.IDs())
	assert.Contains(t, buf.String(), "dropped 1 of 3")
}

func TestFilterPageBreak(t *testing.T) {
	ds := makeDataset("pagebreak",
		[3]string{"1", "A", "before [PAGE BREAK] after"},
		[3]string{"2", "B", "no marker here"},
	)
	var buf bytes.Buffer
	got := FilterPageBreak(ds, "[PAGE BREAK]", &buf)

	require.Equal(t, 1, got.Len())
	assert.Equal(t, "1", got.Samples[0].ID)
	assert.Contains(t, buf.String(), "dropped 1 of 2")
}

// --- overlap resolver ---

func TestOverlap(t *testing.T) {
	noBreaks := makeDataset("nopagebreak",
		[3]string{"1", "A", "x"}, [3]string{"2", "B", "y"}, [3]string{"3", "C", "z"})
	breaks := makeDataset("pagebreak",
		[3]string{"2", "B", "y"}, [3]string{"3", "C", "z"}, [3]string{"4", "D", "w"})

	assert.Equal(t, []string{"2", "3"}, Overlap(noBreaks, breaks))
}

func TestResolveOverlap(t *testing.T) {
	noBreaks := makeDataset("nopagebreak",
		[3]string{"1", "A", "x"}, [3]string{"2", "B", "y"}, [3]string{"3", "C", "z"})
	breaks := makeDataset("pagebreak",
		[3]string{"2", "B", "y"}, [3]string{"3", "C", "z"}, [3]string{"4", "D", "w"})

	var buf bytes.Buffer
	got := ResolveOverlap(noBreaks, breaks, &buf)

	assert.Equal(t, []string{"1"}, got.IDs())
	assert.Contains(t, buf.String(), "removed 2 rows")

	// Post-condition: no identifiers remain in common.
	assert.Empty(t, Overlap(got, breaks))

	// Idempotent: a second pass removes nothing.
	again := ResolveOverlap(got, breaks, &buf)
	assert.Equal(t, got.Samples, again.Samples)
}

func TestResolveOverlapNormalizesIDs(t *testing.T) {
	noBreaks := makeDataset("nopagebreak", [3]string{" 2 ", "B", "y"})
	breaks := makeDataset("pagebreak", [3]string{"2", "B", "y"})

	got := ResolveOverlap(noBreaks, breaks, &bytes.Buffer{})
	assert.Equal(t, 0, got.Len())
}

// --- split ---

func TestSplitDeterministic(t *testing.T) {
	ds := &types.Dataset{Name: "d"}
	for i := 0; i < 100; i++ {
		ds.Samples = append(ds.Samples, types.Sample{ID: string(rune('a' + i%26)), Label: "L", Text: "t"})
	}
	cfg := types.SplitConfig{TestFraction: 0.2, Seed: 42}

	train1, test1, err := Split(ds, cfg)
	require.NoError(t, err)
	train2, test2, err := Split(ds, cfg)
	require.NoError(t, err)

	assert.Equal(t, train1.Samples, train2.Samples)
	assert.Equal(t, test1.Samples, test2.Samples)
	assert.Equal(t, 20, test1.Len())
	assert.Equal(t, 80, train1.Len())
}

func TestSplitPartitionsInput(t *testing.T) {
	ds := makeDataset("d",
		[3]string{"1", "A", "a"}, [3]string{"2", "B", "b"},
		[3]string{"3", "C", "c"}, [3]string{"4", "D", "d"}, [3]string{"5", "E", "e"})

	train, test, err := Split(ds, types.SplitConfig{TestFraction: 0.2, Seed: 7})
	require.NoError(t, err)
	assert.Equal(t, ds.Len(), train.Len()+test.Len())

	seen := make(map[string]int)
	for _, s := range append(append([]types.Sample{}, train.Samples...), test.Samples...) {
		seen[s.ID]++
	}
	for _, s := range ds.Samples {
		assert.Equal(t, 1, seen[s.ID], "sample %s appears exactly once", s.ID)
	}
}

func TestSplitBadFraction(t *testing.T) {
	ds := makeDataset("d", [3]string{"1", "A", "a"})
	for _, fraction := range []float64{0, 1, -0.5, 2} {
		_, _, err := Split(ds, types.SplitConfig{TestFraction: fraction, Seed: 1})
		assert.Error(t, err, "fraction %v", fraction)
	}
}
