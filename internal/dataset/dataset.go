// Package dataset holds multi-split dataset containers and the
// standardization driver that turns raw records into canonical
// {text, label} examples.
package dataset

import (
	"canonry/internal/extract"
	"canonry/internal/record"
)

// Canonical split names.
const (
	SplitTrain      = "train"
	SplitValidation = "validation"
	SplitTest       = "test"
)

// Split is one named partition of raw records. Splits keep slice order
// because the "first available partition" rule depends on it.
type Split struct {
	Name    string
	Records []*record.Record
}

// Dataset is a named, ordered collection of raw splits.
type Dataset struct {
	Name   string
	Splits []Split
}

// Split returns the named split.
func (d *Dataset) Split(name string) (*Split, bool) {
	for i := range d.Splits {
		if d.Splits[i].Name == name {
			return &d.Splits[i], true
		}
	}
	return nil, false
}

// Has reports whether the named split exists.
func (d *Dataset) Has(name string) bool {
	_, ok := d.Split(name)
	return ok
}

// Example is one canonical output record: text is always present, the
// label only when extraction produced one.
type Example struct {
	Text  string        `json:"text"`
	Label extract.Label `json:"label,omitzero"`
}

// CanonicalSplit is one standardized partition.
type CanonicalSplit struct {
	Name     string    `json:"name"`
	Examples []Example `json:"examples"`
}

// Canonical is the standardized multi-split output.
type Canonical struct {
	Name   string           `json:"name"`
	Splits []CanonicalSplit `json:"splits"`
}

// Split returns the named canonical split.
func (c *Canonical) Split(name string) (*CanonicalSplit, bool) {
	for i := range c.Splits {
		if c.Splits[i].Name == name {
			return &c.Splits[i], true
		}
	}
	return nil, false
}

// Counts returns per-split example counts.
func (c *Canonical) Counts() map[string]int {
	counts := make(map[string]int, len(c.Splits))
	for _, s := range c.Splits {
		counts[s.Name] = len(s.Examples)
	}
	return counts
}
