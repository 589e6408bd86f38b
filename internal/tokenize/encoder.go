package tokenize

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"

	"canonry/internal/dataset"
	"canonry/internal/extract"
)

// sequenceEncoder is the surface the Encoder needs from the underlying
// tokenizer; *tokenizer.Tokenizer satisfies it.
type sequenceEncoder interface {
	EncodeSingle(sequence string, addSpecialTokensOpt ...bool) (*tokenizer.Encoding, error)
}

// Encoder turns canonical examples into model-ready token id sequences.
type Encoder struct {
	tk        sequenceEncoder
	maxLength int
	padToMax  bool
}

// NewEncoder loads a tokenizer.json vocabulary and configures truncation
// to maxLength. With padToMax, every sequence pads to exactly maxLength.
func NewEncoder(tokenizerPath string, maxLength int, padToMax bool) (*Encoder, error) {
	tk, err := pretrained.FromFile(tokenizerPath)
	if err != nil {
		return nil, fmt.Errorf("load tokenizer %q: %w", tokenizerPath, err)
	}
	if maxLength > 0 {
		tk.WithTruncation(&tokenizer.TruncationParams{
			MaxLength: maxLength,
			Strategy:  tokenizer.LongestFirst,
		})
	}
	return &Encoder{tk: tk, maxLength: maxLength, padToMax: padToMax}, nil
}

// Encoded is one tokenized example.
type Encoded struct {
	InputIDs      []int         `json:"input_ids"`
	AttentionMask []int         `json:"attention_mask"`
	Label         extract.Label `json:"label,omitzero"`
}

// EncodedSplit is one tokenized partition.
type EncodedSplit struct {
	Name     string
	Examples []Encoded
}

// EncodedDataset is the tokenized counterpart of a canonical dataset.
type EncodedDataset struct {
	Name   string
	Splits []EncodedSplit
}

// EncodeExample cleans and tokenizes a single canonical example.
func (e *Encoder) EncodeExample(ex dataset.Example) (Encoded, error) {
	enc, err := e.tk.EncodeSingle(Clean(ex.Text), true)
	if err != nil {
		return Encoded{}, fmt.Errorf("encode text: %w", err)
	}

	ids := append([]int(nil), enc.Ids...)
	mask := append([]int(nil), enc.AttentionMask...)
	if e.padToMax && e.maxLength > 0 {
		for len(ids) < e.maxLength {
			ids = append(ids, 0)
			mask = append(mask, 0)
		}
	}
	return Encoded{InputIDs: ids, AttentionMask: mask, Label: ex.Label}, nil
}

// EncodeDataset tokenizes every example of every split.
func (e *Encoder) EncodeDataset(ctx context.Context, c *dataset.Canonical) (*EncodedDataset, error) {
	out := &EncodedDataset{Name: c.Name, Splits: make([]EncodedSplit, len(c.Splits))}
	for i, split := range c.Splits {
		examples := make([]Encoded, len(split.Examples))
		for j, ex := range split.Examples {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			enc, err := e.EncodeExample(ex)
			if err != nil {
				return nil, fmt.Errorf("tokenize %s/%s[%d]: %w", c.Name, split.Name, j, err)
			}
			examples[j] = enc
		}
		out.Splits[i] = EncodedSplit{Name: split.Name, Examples: examples}
	}
	return out, nil
}

// SaveEncoded writes a tokenized dataset as one JSONL file per split under
// dir and returns the directory path.
func SaveEncoded(dir string, ed *EncodedDataset) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create tokenized dir: %w", err)
	}
	for _, split := range ed.Splits {
		path := filepath.Join(dir, split.Name+".jsonl")
		f, err := os.Create(path)
		if err != nil {
			return "", fmt.Errorf("create %q: %w", path, err)
		}
		w := bufio.NewWriter(f)
		enc := json.NewEncoder(w)
		for i, ex := range split.Examples {
			if err := enc.Encode(ex); err != nil {
				f.Close()
				return "", fmt.Errorf("encode %s[%d]: %w", split.Name, i, err)
			}
		}
		if err := w.Flush(); err != nil {
			f.Close()
			return "", fmt.Errorf("flush %q: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("close %q: %w", path, err)
		}
	}
	return dir, nil
}
