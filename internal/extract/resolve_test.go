package extract

import (
	"testing"

	"canonry/internal/record"
	"canonry/internal/registry"

	"github.com/google/go-cmp/cmp"
)

func mustRecord(t *testing.T, raw string) *record.Record {
	t.Helper()
	rec, err := record.FromJSON([]byte(raw))
	if err != nil {
		t.Fatalf("FromJSON(%s): %v", raw, err)
	}
	return rec
}

func TestResolve_CandidateOrderIsAuthoritative(t *testing.T) {
	// "prompt" comes before "content" in the candidate list even though
	// "content" appears first in the record.
	rec := mustRecord(t, `{"content": "c", "prompt": "p"}`)
	res := Resolve(registry.Spec{}, rec)

	if res.TextField != "prompt" {
		t.Errorf("TextField = %q, want prompt", res.TextField)
	}
	if res.JoinConversation {
		t.Error("JoinConversation should be false")
	}
}

func TestResolve_SkipsNonStringCandidates(t *testing.T) {
	// "text" exists but holds a number; "sentence" is the first
	// string-valued candidate.
	rec := mustRecord(t, `{"text": 42, "sentence": "s"}`)
	res := Resolve(registry.Spec{}, rec)

	if res.TextField != "sentence" {
		t.Errorf("TextField = %q, want sentence", res.TextField)
	}
}

func TestResolve_Messages(t *testing.T) {
	rec := mustRecord(t, `{"messages": [{"role":"user","content":"hi"}]}`)
	res := Resolve(registry.Spec{}, rec)

	if res.TextField != "messages" {
		t.Errorf("TextField = %q, want messages", res.TextField)
	}
	if !res.JoinConversation {
		t.Error("JoinConversation should be true")
	}
}

func TestResolve_MessagesMustBeSequence(t *testing.T) {
	rec := mustRecord(t, `{"messages": "not a list", "other": 1}`)
	res := Resolve(registry.Spec{}, rec)

	// "messages" is not a candidate name, but it is the first string
	// field in key order.
	if res.TextField != "messages" {
		t.Errorf("TextField = %q, want messages (first string field)", res.TextField)
	}
	if res.JoinConversation {
		t.Error("JoinConversation should be false for a plain string field")
	}
}

func TestResolve_FirstStringFieldFallback(t *testing.T) {
	rec := mustRecord(t, `{"id": 7, "body": "hello", "extra": "more"}`)
	res := Resolve(registry.Spec{}, rec)

	if res.TextField != "body" {
		t.Errorf("TextField = %q, want body", res.TextField)
	}
}

func TestResolve_NoStringField(t *testing.T) {
	rec := mustRecord(t, `{"id": 7, "score": 0.5}`)
	res := Resolve(registry.Spec{}, rec)

	if res.TextField != "" {
		t.Errorf("TextField = %q, want undetermined", res.TextField)
	}
}

func TestResolve_SpecWinsOverHeuristics(t *testing.T) {
	rec := mustRecord(t, `{"text": "ignored", "body": "b"}`)
	res := Resolve(registry.Spec{TextField: "body"}, rec)

	if res.TextField != "body" {
		t.Errorf("TextField = %q, want body (spec)", res.TextField)
	}
}

func TestResolve_Idempotent(t *testing.T) {
	rec := mustRecord(t, `{"messages": [{"role":"user","content":"hi"}]}`)
	first := Resolve(registry.Spec{}, rec)

	// Feeding the first resolution back as a spec must yield the same
	// decision without re-scanning — even against a different record shape.
	spec := registry.Spec{
		TextField:        first.TextField,
		JoinConversation: first.JoinConversation,
	}
	other := mustRecord(t, `{"text": "would win a fresh scan"}`)
	second := Resolve(spec, other)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("resolution not idempotent:\n%s", diff)
	}
}

func TestResolve_CarriesLabelConfig(t *testing.T) {
	spec := registry.Spec{
		LabelField:       "toxicity",
		LabelIsScore:     true,
		MultilabelFields: map[string]string{"insult": "insult"},
	}
	res := Resolve(spec, mustRecord(t, `{"text": "x"}`))

	if res.LabelField != "toxicity" || !res.LabelIsScore {
		t.Errorf("label config not carried: %+v", res)
	}
	if diff := cmp.Diff(spec.MultilabelFields, res.MultilabelFields); diff != "" {
		t.Errorf("MultilabelFields mismatch:\n%s", diff)
	}
}

func TestResolve_NilSample(t *testing.T) {
	res := Resolve(registry.Spec{}, nil)
	if res.TextField != "" {
		t.Errorf("TextField = %q, want undetermined for nil sample", res.TextField)
	}
}

func TestParseTask(t *testing.T) {
	for _, valid := range []string{"binary", "regression", "multilabel"} {
		if _, err := ParseTask(valid); err != nil {
			t.Errorf("ParseTask(%q): %v", valid, err)
		}
	}
	if _, err := ParseTask("ranking"); err == nil {
		t.Error("expected error for unknown task")
	}
}
