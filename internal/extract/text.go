package extract

import (
	"strings"

	"canonry/internal/record"
)

// ExtractText returns the text of a record under a resolved spec.
// It always returns a string: string fields pass through unchanged,
// conversation sequences are flattened, and anything else (including a
// missing field or an unresolvable schema) degrades to a stringified
// rendering rather than failing the record.
func ExtractText(res Resolved, rec *record.Record) string {
	var v record.Value // Null when the field is missing or undetermined
	if res.TextField != "" {
		if found, ok := rec.Get(res.TextField); ok {
			v = found
		}
	}

	if res.JoinConversation {
		if turns, ok := v.Items(); ok {
			return JoinTurns(turns)
		}
	}
	return v.Text()
}

// JoinTurns flattens a sequence of conversation turns into one string.
// Mapping turns render as "<role>: <content>" with the role defaulting to
// "user"; plain string turns pass through verbatim; turns with empty
// content (null, "", zero, false, empty collections) and turns of any
// other shape are skipped. Turns join with newlines in original order.
func JoinTurns(turns []record.Value) string {
	var parts []string
	for _, turn := range turns {
		if s, ok := turn.AsString(); ok {
			parts = append(parts, s)
			continue
		}
		fields, ok := turn.Fields()
		if !ok {
			continue
		}

		role := "user"
		if rv, ok := fields.Get("role"); ok && !rv.IsNull() {
			role = rv.Text()
		}

		cv, ok := fields.Get("content")
		if !ok || !hasContent(cv) {
			continue
		}
		parts = append(parts, role+": "+cv.Text())
	}
	return strings.Join(parts, "\n")
}

// hasContent reports whether a turn's content value is non-empty. Empty
// means null, the empty string, a zero number, false, or an empty
// sequence or mapping.
func hasContent(v record.Value) bool {
	switch v.Kind() {
	case record.KindString:
		s, _ := v.AsString()
		return s != ""
	case record.KindNumber:
		f, _ := v.AsNumber()
		return f != 0
	case record.KindBool:
		b, _ := v.AsBool()
		return b
	case record.KindSequence:
		items, _ := v.Items()
		return len(items) > 0
	case record.KindMapping:
		fields, _ := v.Fields()
		return fields.Len() > 0
	default:
		return false
	}
}
