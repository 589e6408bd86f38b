package extract

import (
	"canonry/internal/record"
	"canonry/internal/registry"
)

// textCandidates is the ordered list of conventional text field names.
// List order is authoritative: the first candidate present in the record
// with a string value wins, regardless of any other signal.
var textCandidates = []string{"text", "prompt", "content", "question", "sentence", "response"}

// labelCandidates is the ordered list of conventional label field names
// consulted as a last resort.
var labelCandidates = []string{"label", "labels", "target", "y", "class"}

// Resolved is the immutable outcome of schema resolution for one dataset.
// It is produced once from a sample record and then applied uniformly to
// every record in every split, so extraction stays consistent even when
// individual records would have resolved differently.
type Resolved struct {
	// TextField is the field supplying text, or "" when no text field
	// could be determined (extraction then falls back to stringifying).
	TextField string
	// JoinConversation marks TextField as a sequence of chat turns.
	JoinConversation bool
	// LabelField, LabelIsScore and MultilabelFields carry over from the
	// registry spec; resolution never infers label fields, it only fills
	// in the text side.
	LabelField       string
	LabelIsScore     bool
	MultilabelFields map[string]string
}

// Resolve produces the Resolved spec for a dataset from its registry spec
// and a sample record. When the spec already names a text field the sample
// is not consulted, which makes repeated resolution idempotent.
func Resolve(spec registry.Spec, sample *record.Record) Resolved {
	res := Resolved{
		LabelField:       spec.LabelField,
		LabelIsScore:     spec.LabelIsScore,
		MultilabelFields: spec.MultilabelFields,
	}

	if spec.TextField != "" {
		res.TextField = spec.TextField
		res.JoinConversation = spec.JoinConversation
		return res
	}

	res.TextField, res.JoinConversation = detectTextField(sample)
	return res
}

// detectTextField applies the heuristic chain: conventional names first,
// then chat-style messages, then the first string field in key order.
func detectTextField(sample *record.Record) (field string, join bool) {
	if sample == nil {
		return "", false
	}

	for _, k := range textCandidates {
		if v, ok := sample.Get(k); ok {
			if _, isStr := v.AsString(); isStr {
				return k, false
			}
		}
	}

	if v, ok := sample.Get("messages"); ok {
		if _, isSeq := v.Items(); isSeq {
			return "messages", true
		}
	}

	for _, k := range sample.Keys() {
		v, _ := sample.Get(k)
		if _, isStr := v.AsString(); isStr {
			return k, false
		}
	}

	return "", false
}
