// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Sample is one labelled document from a corpus.
type Sample struct {
	// ID is the document identifier as it appears in the corpus file,
	// trimmed of surrounding whitespace. Chopped samples carry derived
	// identifiers of the form "parentID#k".
	ID string `json:"id" yaml:"id"`

	// Label is the classification target.
	Label string `json:"label" yaml:"label"`

	// Text is the document body.
	Text string `json:"text" yaml:"text"`
}

// Dataset is a named collection of samples.
type Dataset struct {
	// Name labels the dataset in audit output and run records.
	Name string `json:"name" yaml:"name"`

	// Samples holds the rows in file order.
	Samples []Sample `json:"samples" yaml:"samples"`
}

// Len returns the number of samples.
func (d *Dataset) Len() int { return len(d.Samples) }

// Texts returns the sample texts in order.
func (d *Dataset) Texts() []string {
	out := make([]string, len(d.Samples))
	for i, s := range d.Samples {
		out[i] = s.Text
	}
	return out
}

// Labels returns the sample labels in order.
func (d *Dataset) Labels() []string {
	out := make([]string, len(d.Samples))
	for i, s := range d.Samples {
		out[i] = s.Label
	}
	return out
}

// IDs returns the sample identifiers in order.
func (d *Dataset) IDs() []string {
	out := make([]string, len(d.Samples))
	for i, s := range d.Samples {
		out[i] = s.ID
	}
	return out
}
