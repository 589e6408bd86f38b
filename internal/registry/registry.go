// Package registry maps known dataset identifiers to pre-validated
// extraction specs. It is pure data: the registry is never mutated at
// runtime, only the spec instances it hands out are later resolved.
package registry

import (
	"fmt"
	"os"
	"sort"

	yaml "gopkg.in/yaml.v3"
)

// DefaultThreshold is the decision threshold used for score-to-binary
// conversion when neither the caller nor a registry entry supplies one.
const DefaultThreshold = 0.5

// Spec is the per-dataset extraction configuration. A zero Spec means
// "nothing known": text and label fields are detected heuristically on
// the first record.
type Spec struct {
	// TextField names the field holding primary text, or "" if unknown.
	TextField string `json:"text_field,omitempty" yaml:"text_field"`
	// LabelField names the field holding the primary label or score.
	LabelField string `json:"label_field,omitempty" yaml:"label_field"`
	// LabelIsScore marks LabelField as a continuous score that needs
	// thresholding for binary tasks.
	LabelIsScore bool `json:"label_is_score,omitempty" yaml:"label_is_score"`
	// Threshold is the entry's default decision threshold. The caller's
	// threshold always wins during extraction; this is the registry default.
	Threshold float64 `json:"threshold,omitempty" yaml:"threshold"`
	// MultilabelFields maps output label name → source field name.
	// Consulted only for multilabel tasks.
	MultilabelFields map[string]string `json:"multilabel_fields,omitempty" yaml:"multilabel_fields"`
	// JoinConversation marks TextField as a sequence of chat turns that
	// must be flattened into a single string.
	JoinConversation bool `json:"join_conversation,omitempty" yaml:"join_conversation"`
}

// Registry holds extraction specs keyed by dataset identifier.
type Registry struct {
	entries map[string]Spec
}

// Builtin returns the registry of datasets with confirmed schemas.
func Builtin() *Registry {
	return &Registry{entries: map[string]Spec{
		// AllenAI RealToxicityPrompts: `text` plus continuous scores
		// (toxicity, severe_toxicity, insult, ...).
		"allenai/real-toxicity-prompts": {
			TextField:    "text",
			LabelField:   "toxicity",
			LabelIsScore: true,
			Threshold:    DefaultThreshold,
		},
		// Innodata RT variants expose free text under `text` or chat
		// `messages`. Schemas vary between configs, so stay heuristic.
		"innodatalabs/rt-realtoxicity-translation": {},
		"innodatalabs/rt-inod-bias":                {},
	}}
}

// Lookup returns the spec registered for name, or a zero spec when the
// dataset is unknown. The returned value is a copy; filling it in later
// never touches the registry.
func (r *Registry) Lookup(name string) Spec {
	return r.entries[name]
}

// Known reports whether name has a registered entry.
func (r *Registry) Known(name string) bool {
	_, ok := r.entries[name]
	return ok
}

// Names returns registered dataset identifiers in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for n := range r.entries {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// registryFile is the YAML shape for user-supplied registry entries.
type registryFile struct {
	Datasets map[string]Spec `yaml:"datasets"`
}

// MergeFile loads a YAML registry file and merges its entries over the
// existing ones. User entries replace builtins with the same identifier.
func (r *Registry) MergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read registry %q: %w", path, err)
	}
	return r.Merge(data)
}

// Merge parses YAML registry bytes and merges the entries.
func (r *Registry) Merge(data []byte) error {
	var f registryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse registry yaml: %w", err)
	}
	if r.entries == nil {
		r.entries = make(map[string]Spec)
	}
	for name, spec := range f.Datasets {
		r.entries[name] = spec
	}
	return nil
}
