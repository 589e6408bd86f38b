package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute(), "canonry %s\n%s", strings.Join(args, " "), out.String())
	return out.String()
}

func writeJSONL(t *testing.T, path string, lines []string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
}

func TestPrepare_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "toxic.jsonl")
	lines := make([]string, 0, 20)
	for i := 0; i < 10; i++ {
		lines = append(lines, `{"text":"angry rant","toxicity":0.9}`)
		lines = append(lines, `{"text":"calm note","toxicity":0.1}`)
	}
	writeJSONL(t, input, lines)
	outDir := filepath.Join(dir, "standardized")

	out := execute(t, "prepare",
		"--input", input,
		"--name", "demo/toxic",
		"--score-field", "toxicity",
		"--out", outDir,
		"--seed", "42",
	)
	assert.Contains(t, out, "demo/toxic")

	datasetDir := filepath.Join(outDir, "demo__toxic")
	for _, f := range []string{"train.jsonl", "validation.jsonl", "test.jsonl", "info.json"} {
		_, err := os.Stat(filepath.Join(datasetDir, f))
		assert.NoError(t, err, "missing %s", f)
	}

	data, err := os.ReadFile(filepath.Join(datasetDir, "info.json"))
	require.NoError(t, err)
	var info struct {
		Task       string         `json:"task"`
		TextField  string         `json:"text_field"`
		LabelField string         `json:"label_field"`
		Splits     map[string]int `json:"splits"`
	}
	require.NoError(t, json.Unmarshal(data, &info))
	assert.Equal(t, "binary", info.Task)
	assert.Equal(t, "text", info.TextField)
	assert.Equal(t, "toxicity", info.LabelField)

	total := 0
	for _, n := range info.Splits {
		total += n
	}
	assert.Equal(t, 20, total)
	assert.Equal(t, 4, info.Splits["test"], "20%% of 20 records")
}

func TestPrepare_RegistryThreshold(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "scored.jsonl")
	writeJSONL(t, input, []string{
		`{"body":"borderline","score":0.6}`,
	})
	regPath := filepath.Join(dir, "registry.yaml")
	require.NoError(t, os.WriteFile(regPath, []byte(
		"datasets:\n  demo/scored:\n    text_field: body\n    label_field: score\n    label_is_score: true\n    threshold: 0.7\n",
	), 0o644))
	outDir := filepath.Join(dir, "out")

	execute(t, "prepare",
		"--input", input,
		"--name", "demo/scored",
		"--registry", regPath,
		"--out", outDir,
	)

	data, err := os.ReadFile(filepath.Join(outDir, "demo__scored", "train.jsonl"))
	require.NoError(t, err)
	// 0.6 is below the registry threshold of 0.7.
	assert.Contains(t, string(data), `"label":0`)
}

func TestInspect_ReportsSchema(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "chat.jsonl")
	writeJSONL(t, input, []string{
		`{"messages":[{"role":"user","content":"hi"}],"label":1}`,
	})

	out := execute(t, "inspect", input)
	assert.Contains(t, out, "messages")
	joinLine := ""
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "Join conversation:") {
			joinLine = line
		}
	}
	assert.Contains(t, joinLine, "true")
}

func TestRegistry_ListsBuiltins(t *testing.T) {
	out := execute(t, "registry")
	assert.Contains(t, out, "allenai/real-toxicity-prompts")
	assert.Contains(t, out, "toxicity")
}
