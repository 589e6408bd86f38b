package extract

import (
	"testing"

	"canonry/internal/record"
	"canonry/internal/registry"
)

func TestExtractText_StringPassthrough(t *testing.T) {
	rec := mustRecord(t, `{"text": "the quick brown fox"}`)
	res := Resolve(registry.Spec{}, rec)

	if got := ExtractText(res, rec); got != "the quick brown fox" {
		t.Errorf("ExtractText = %q, want unchanged string", got)
	}
}

func TestExtractText_JoinsConversation(t *testing.T) {
	rec := mustRecord(t, `{"messages": [{"role":"user","content":"hi"}, {"role":"assistant","content":"yo"}]}`)
	res := Resolve(registry.Spec{}, rec)

	want := "user: hi\nassistant: yo"
	if got := ExtractText(res, rec); got != want {
		t.Errorf("ExtractText = %q, want %q", got, want)
	}
}

func TestJoinTurns(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			"role defaults to user",
			`{"messages": [{"content":"no role here"}]}`,
			"user: no role here",
		},
		{
			"content-less turns skipped",
			`{"messages": [{"role":"system"}, {"role":"user","content":"kept"}, {"role":"assistant","content":""}]}`,
			"user: kept",
		},
		{
			"null content skipped",
			`{"messages": [{"role":"user","content":null}, {"role":"user","content":"ok"}]}`,
			"user: ok",
		},
		{
			"zero and false content skipped",
			`{"messages": [{"role":"user","content":0}, {"role":"user","content":false}, {"role":"user","content":5}]}`,
			"user: 5",
		},
		{
			"plain string turns verbatim",
			`{"messages": ["first line", {"role":"bot","content":"second"}]}`,
			"first line\nbot: second",
		},
		{
			"non-dict non-string turns skipped",
			`{"messages": [42, "kept"]}`,
			"kept",
		},
		{
			"order preserved",
			`{"messages": [{"role":"a","content":"1"}, {"role":"b","content":"2"}, {"role":"c","content":"3"}]}`,
			"a: 1\nb: 2\nc: 3",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := mustRecord(t, tt.raw)
			v, _ := rec.Get("messages")
			turns, ok := v.Items()
			if !ok {
				t.Fatal("messages should be a sequence")
			}
			if got := JoinTurns(turns); got != tt.want {
				t.Errorf("JoinTurns = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractText_StringifiedFallbacks(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		// No string field and no messages: text is undetermined and the
		// record degrades to the null rendering instead of failing.
		{"no string field", `{"id": 7, "score": 0.5}`, "null"},
		{"single numeric field", `{"id": 1}`, "null"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := mustRecord(t, tt.raw)
			res := Resolve(registry.Spec{}, rec)
			if got := ExtractText(res, rec); got != tt.want {
				t.Errorf("ExtractText = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractText_MissingResolvedField(t *testing.T) {
	// The spec was resolved against a record that had "text"; a later
	// record without it still yields a string.
	res := Resolve(registry.Spec{TextField: "text"}, nil)
	rec := mustRecord(t, `{"other": 1}`)

	if got := ExtractText(res, rec); got != "null" {
		t.Errorf("ExtractText = %q, want null fallback", got)
	}
}

func TestExtractText_NonStringResolvedField(t *testing.T) {
	res := Resolve(registry.Spec{TextField: "score"}, nil)
	rec := mustRecord(t, `{"score": 0.82}`)

	if got := ExtractText(res, rec); got != "0.82" {
		t.Errorf("ExtractText = %q, want stringified 0.82", got)
	}
}

func TestExtractText_JoinFlagWithNonSequence(t *testing.T) {
	res := Resolved{TextField: "messages", JoinConversation: true}
	rec := mustRecord(t, `{"messages": "flat string"}`)

	if got := ExtractText(res, rec); got != "flat string" {
		t.Errorf("ExtractText = %q, want flat string", got)
	}
}

func TestExtractText_Table(t *testing.T) {
	rec := mustRecord(t, `{"question": "why?", "label": 1}`)
	res := Resolve(registry.Spec{}, rec)
	if got := ExtractText(res, rec); got != "why?" {
		t.Errorf("ExtractText = %q, want why?", got)
	}

	record2 := record.New()
	record2.Set("question", record.Num(12))
	if got := ExtractText(res, record2); got != "12" {
		t.Errorf("ExtractText = %q, want 12", got)
	}
}
