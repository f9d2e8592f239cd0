// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dataset loads labelled corpora from tabular files and prepares
// them for training: label-quality filtering, page-break filtering,
// identifier-overlap resolution, and deterministic splitting.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pdiddy/pagelab/pkg/types"
)

// Load reads a corpus file into a Dataset. Column offsets come from the
// config; rows too short to carry all three columns are an error, not a
// silent drop.
func Load(cfg types.CorpusConfig) (*types.Dataset, error) {
	f, err := os.Open(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening corpus %s: %w", cfg.Path, err)
	}
	defer f.Close()

	ds, err := read(f, cfg)
	if err != nil {
		return nil, fmt.Errorf("reading corpus %s: %w", cfg.Path, err)
	}
	return ds, nil
}

func read(r io.Reader, cfg types.CorpusConfig) (*types.Dataset, error) {
	cr := csv.NewReader(r)
	if cfg.Format == types.FormatTSV {
		cr.Comma = '\t'
	}
	cr.FieldsPerRecord = -1 // column counts are validated per row below
	cr.LazyQuotes = true

	maxCol := cfg.IDColumn
	if cfg.LabelColumn > maxCol {
		maxCol = cfg.LabelColumn
	}
	if cfg.TextColumn > maxCol {
		maxCol = cfg.TextColumn
	}

	ds := &types.Dataset{Name: cfg.Name}
	row := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row+1, err)
		}
		row++
		if cfg.HasHeader && row == 1 {
			continue
		}
		if len(record) <= maxCol {
			return nil, fmt.Errorf("row %d: %d columns, need at least %d", row, len(record), maxCol+1)
		}
		ds.Samples = append(ds.Samples, types.Sample{
			ID:    strings.TrimSpace(record[cfg.IDColumn]),
			Label: record[cfg.LabelColumn],
			Text:  record[cfg.TextColumn],
		})
	}
	return ds, nil
}

// Write persists a prepared dataset as CSV with a fixed id,label,text
// layout so later stages can reload it with default column offsets.
func Write(ds *types.Dataset, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write([]string{"id", "label", "text"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, s := range ds.Samples {
		if err := cw.Write([]string{s.ID, s.Label, s.Text}); err != nil {
			return fmt.Errorf("writing sample %s: %w", s.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing %s: %w", path, err)
	}
	return nil
}

// Prepared is the corpus layout produced by Write: id, label, text with
// a header row.
func Prepared(name, path string) types.CorpusConfig {
	return types.CorpusConfig{
		Path:        path,
		Name:        name,
		Format:      types.FormatCSV,
		IDColumn:    0,
		LabelColumn: 1,
		TextColumn:  2,
		HasHeader:   true,
	}
}
