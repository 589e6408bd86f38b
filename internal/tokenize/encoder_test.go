package tokenize

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sugarme/tokenizer"

	"canonry/internal/dataset"
	"canonry/internal/extract"
)

// wordSplitter is a toy sequenceEncoder: one id per whitespace token.
type wordSplitter struct{}

func (wordSplitter) EncodeSingle(sequence string, _ ...bool) (*tokenizer.Encoding, error) {
	words := strings.Fields(sequence)
	enc := &tokenizer.Encoding{}
	for i := range words {
		enc.Ids = append(enc.Ids, i+1)
		enc.AttentionMask = append(enc.AttentionMask, 1)
	}
	return enc, nil
}

func TestEncodeExample_PadsToMax(t *testing.T) {
	e := &Encoder{tk: wordSplitter{}, maxLength: 6, padToMax: true}

	enc, err := e.EncodeExample(dataset.Example{Text: "three word text", Label: extract.IntLabel(1)})
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3, 0, 0, 0}, enc.InputIDs)
	assert.Equal(t, []int{1, 1, 1, 0, 0, 0}, enc.AttentionMask)
	i, ok := enc.Label.Int()
	assert.True(t, ok)
	assert.Equal(t, 1, i)
}

func TestEncodeExample_NoPaddingByDefault(t *testing.T) {
	e := &Encoder{tk: wordSplitter{}, maxLength: 6}

	enc, err := e.EncodeExample(dataset.Example{Text: "two words"})
	require.NoError(t, err)
	assert.Len(t, enc.InputIDs, 2)
	assert.True(t, enc.Label.IsAbsent())
}

func TestEncodeExample_CleansFirst(t *testing.T) {
	e := &Encoder{tk: wordSplitter{}}

	enc, err := e.EncodeExample(dataset.Example{Text: "a<br/>b https://x.example c"})
	require.NoError(t, err)
	// "a b URL c" → 4 tokens
	assert.Len(t, enc.InputIDs, 4)
}

func TestEncodeDataset_AndSave(t *testing.T) {
	e := &Encoder{tk: wordSplitter{}}
	c := &dataset.Canonical{
		Name: "d",
		Splits: []dataset.CanonicalSplit{
			{Name: "train", Examples: []dataset.Example{
				{Text: "hello world", Label: extract.IntLabel(0)},
				{Text: "bye", Label: extract.IntLabel(1)},
			}},
			{Name: "test", Examples: []dataset.Example{{Text: "unlabeled"}}},
		},
	}

	ed, err := e.EncodeDataset(context.Background(), c)
	require.NoError(t, err)
	require.Len(t, ed.Splits, 2)
	assert.Len(t, ed.Splits[0].Examples, 2)

	dir := filepath.Join(t.TempDir(), "tokenized")
	out, err := SaveEncoded(dir, ed)
	require.NoError(t, err)
	assert.Equal(t, dir, out)

	data, err := os.ReadFile(filepath.Join(dir, "train.jsonl"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)

	var first struct {
		InputIDs      []int `json:"input_ids"`
		AttentionMask []int `json:"attention_mask"`
		Label         int   `json:"label"`
	}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, []int{1, 2}, first.InputIDs)

	// Unlabeled examples must omit the label key entirely.
	testData, err := os.ReadFile(filepath.Join(dir, "test.jsonl"))
	require.NoError(t, err)
	assert.NotContains(t, string(testData), `"label"`)
}

func TestNewEncoder_MissingVocabulary(t *testing.T) {
	_, err := NewEncoder(filepath.Join(t.TempDir(), "tokenizer.json"), 128, false)
	require.Error(t, err)
}
