// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders evaluation results and run comparisons as
// terminal tables and markdown.
package report

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/pdiddy/pagelab/pkg/types"
)

func newTable() table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	return tw
}

// RunsTable renders one row per run, most useful after `runs list`.
func RunsTable(runs []types.Run) string {
	tw := newTable()
	tw.AppendHeader(table.Row{"Run", "Created", "Dataset", "Model", "Train", "Test", "Accuracy"})
	for _, r := range runs {
		tw.AppendRow(table.Row{
			shortID(r.ID),
			r.CreatedAt.Format(time.RFC3339),
			r.Dataset,
			r.ModelType,
			r.TrainSize,
			r.TestSize,
			fmt.Sprintf("%.4f", r.Metrics.Accuracy),
		})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
		{Number: 7, Align: text.AlignRight},
	})
	return tw.Render()
}

// ComparisonTable renders the accuracy comparison across trained models.
func ComparisonTable(runs []types.Run) string {
	tw := newTable()
	tw.AppendHeader(table.Row{"Dataset", "Model", "Accuracy", "Macro P", "Macro R"})
	for _, r := range runs {
		tw.AppendRow(table.Row{
			r.Dataset,
			r.ModelType,
			fmt.Sprintf("%.4f", r.Metrics.Accuracy),
			fmt.Sprintf("%.4f", r.Metrics.MacroPrecision),
			fmt.Sprintf("%.4f", r.Metrics.MacroRecall),
		})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	return tw.Render()
}

// MetricsTable renders per-label precision, recall, and support.
func MetricsTable(m types.Metrics) string {
	tw := newTable()
	tw.AppendHeader(table.Row{"Label", "Precision", "Recall", "Support"})
	for _, label := range sortedLabels(m.PerLabel) {
		lm := m.PerLabel[label]
		tw.AppendRow(table.Row{
			label,
			fmt.Sprintf("%.4f", lm.Precision),
			fmt.Sprintf("%.4f", lm.Recall),
			lm.Support,
		})
	}
	tw.AppendFooter(table.Row{"macro", fmt.Sprintf("%.4f", m.MacroPrecision), fmt.Sprintf("%.4f", m.MacroRecall), ""})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	return tw.Render()
}

// ConfusionTable renders the confusion matrix, actual labels as rows
// and predicted labels as columns.
func ConfusionTable(m types.Metrics) string {
	labels := confusionLabels(m.Confusion)

	tw := newTable()
	header := table.Row{"actual \\ predicted"}
	for _, l := range labels {
		header = append(header, l)
	}
	tw.AppendHeader(header)

	for _, actual := range labels {
		row := table.Row{actual}
		for _, predicted := range labels {
			row = append(row, m.Confusion[actual][predicted])
		}
		tw.AppendRow(row)
	}
	return tw.Render()
}

// WriteMarkdown writes a markdown report of the given runs, one section
// per run with its per-label metrics.
func WriteMarkdown(path string, runs []types.Run) error {
	var b strings.Builder
	b.WriteString("# Model comparison\n\n")

	tw := newTable()
	tw.AppendHeader(table.Row{"Dataset", "Model", "Accuracy", "Macro P", "Macro R"})
	for _, r := range runs {
		tw.AppendRow(table.Row{
			r.Dataset, r.ModelType,
			fmt.Sprintf("%.4f", r.Metrics.Accuracy),
			fmt.Sprintf("%.4f", r.Metrics.MacroPrecision),
			fmt.Sprintf("%.4f", r.Metrics.MacroRecall),
		})
	}
	b.WriteString(tw.RenderMarkdown())
	b.WriteString("\n")

	for _, r := range runs {
		fmt.Fprintf(&b, "\n## %s (%s, run %s)\n\n", r.Dataset, r.ModelType, shortID(r.ID))

		lt := newTable()
		lt.AppendHeader(table.Row{"Label", "Precision", "Recall", "Support"})
		for _, label := range sortedLabels(r.Metrics.PerLabel) {
			lm := r.Metrics.PerLabel[label]
			lt.AppendRow(table.Row{label, fmt.Sprintf("%.4f", lm.Precision), fmt.Sprintf("%.4f", lm.Recall), lm.Support})
		}
		b.WriteString(lt.RenderMarkdown())
		b.WriteString("\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("writing report %s: %w", path, err)
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func sortedLabels(perLabel map[string]types.LabelMetrics) []string {
	labels := make([]string, 0, len(perLabel))
	for l := range perLabel {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

func confusionLabels(confusion map[string]map[string]int) []string {
	seen := make(map[string]bool)
	var labels []string
	add := func(l string) {
		if !seen[l] {
			seen[l] = true
			labels = append(labels, l)
		}
	}
	for actual, row := range confusion {
		add(actual)
		for predicted := range row {
			add(predicted)
		}
	}
	sort.Strings(labels)
	return labels
}
