package extract

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"canonry/internal/record"
)

// LabelKind identifies the variant held by a Label.
type LabelKind int

const (
	LabelAbsent LabelKind = iota
	LabelInt
	LabelFloat
	LabelString
	LabelMap
)

// Label is the tagged label union: Int | Float | String | Map | Absent.
// Label coercion has no single concrete type — a binary task yields 0/1,
// regression a float, multilabel a name→0/1 mapping, and categorical
// values pass through raw — so the variant carries the shape explicitly.
// The zero Label is Absent.
type Label struct {
	kind LabelKind
	i    int
	f    float64
	s    string
	m    map[string]int
}

func AbsentLabel() Label         { return Label{} }
func IntLabel(i int) Label       { return Label{kind: LabelInt, i: i} }
func FloatLabel(f float64) Label { return Label{kind: LabelFloat, f: f} }
func StringLabel(s string) Label { return Label{kind: LabelString, s: s} }
func MapLabel(m map[string]int) Label {
	if m == nil {
		m = map[string]int{}
	}
	return Label{kind: LabelMap, m: m}
}

func (l Label) Kind() LabelKind { return l.kind }
func (l Label) IsAbsent() bool  { return l.kind == LabelAbsent }

func (l Label) Int() (int, bool)            { return l.i, l.kind == LabelInt }
func (l Label) Float() (float64, bool)      { return l.f, l.kind == LabelFloat }
func (l Label) Str() (string, bool)         { return l.s, l.kind == LabelString }
func (l Label) Map() (map[string]int, bool) { return l.m, l.kind == LabelMap }

// MarshalJSON emits the natural JSON shape of the variant. Map keys are
// sorted so output is deterministic. Absent marshals as null; callers that
// omit absent labels should check IsAbsent (or rely on omitzero) instead.
func (l Label) MarshalJSON() ([]byte, error) {
	switch l.kind {
	case LabelInt:
		return []byte(strconv.Itoa(l.i)), nil
	case LabelFloat:
		// Integral floats keep a decimal point so they reload as floats.
		s := strconv.FormatFloat(l.f, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		return []byte(s), nil
	case LabelString:
		return []byte(strconv.Quote(l.s)), nil
	case LabelMap:
		names := make([]string, 0, len(l.m))
		for n := range l.m {
			names = append(names, n)
		}
		sort.Strings(names)
		var b strings.Builder
		b.WriteByte('{')
		for i, n := range names {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.Quote(n))
			b.WriteByte(':')
			b.WriteString(strconv.Itoa(l.m[n]))
		}
		b.WriteByte('}')
		return []byte(b.String()), nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON reads a label back from its natural JSON shape: integral
// numbers become Int, fractional numbers Float, strings String, objects
// Map, and null Absent.
func (l *Label) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	switch {
	case trimmed == "null":
		*l = AbsentLabel()
		return nil
	case strings.HasPrefix(trimmed, `"`):
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = StringLabel(s)
		return nil
	case strings.HasPrefix(trimmed, "{"):
		var m map[string]int
		if err := json.Unmarshal(data, &m); err != nil {
			return err
		}
		*l = MapLabel(m)
		return nil
	default:
		if !strings.ContainsAny(trimmed, ".eE") {
			i, err := strconv.Atoi(trimmed)
			if err != nil {
				return fmt.Errorf("parse label %q: %w", trimmed, err)
			}
			*l = IntLabel(i)
			return nil
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return fmt.Errorf("parse label %q: %w", trimmed, err)
		}
		*l = FloatLabel(f)
		return nil
	}
}

// String renders the label for logs and listings.
func (l Label) String() string {
	if l.kind == LabelAbsent {
		return "<absent>"
	}
	out, _ := l.MarshalJSON()
	return string(out)
}

// ExtractLabel produces the label of a record under a resolved spec.
// Rules apply in strict precedence order — multilabel mapping, explicit
// label field, caller score-field hint, conventional label names — and
// the first applicable rule wins; later rules are never consulted.
// Threshold comparisons always coerce through float64; a non-numeric value
// where a score is expected is a hard conversion error, not a skip.
func ExtractLabel(res Resolved, rec *record.Record, task Task, scoreField string, threshold float64) (Label, error) {
	// Multilabel: collect the declared columns. Source fields absent from
	// the record are omitted, not defaulted; an all-absent record still
	// yields an (empty) mapping label.
	if task == TaskMultilabel && len(res.MultilabelFields) > 0 {
		m := make(map[string]int, len(res.MultilabelFields))
		for name, col := range res.MultilabelFields {
			v, ok := rec.Get(col)
			if !ok {
				continue
			}
			f, err := v.Float()
			if err != nil {
				return AbsentLabel(), fmt.Errorf("multilabel field %q: %w", col, err)
			}
			m[name] = btoi(f >= threshold)
		}
		return MapLabel(m), nil
	}

	// Explicit label field from the spec.
	if res.LabelField != "" {
		if v, ok := rec.Get(res.LabelField); ok {
			return coerceExplicit(res, v, task, threshold)
		}
	}

	// Caller-supplied score field hint.
	if scoreField != "" {
		if v, ok := rec.Get(scoreField); ok {
			f, err := v.Float()
			if err != nil {
				return AbsentLabel(), fmt.Errorf("score field %q: %w", scoreField, err)
			}
			if task == TaskBinary {
				return IntLabel(btoi(f >= threshold)), nil
			}
			return FloatLabel(f), nil
		}
	}

	// Conventional label names. The first present candidate decides the
	// outcome even when its value is null — scanning does not continue.
	for _, k := range labelCandidates {
		if v, ok := rec.Get(k); ok {
			return passthrough(v), nil
		}
	}

	return AbsentLabel(), nil
}

// coerceExplicit applies the task-directed coercion for a value found
// under the spec's explicit label field.
func coerceExplicit(res Resolved, v record.Value, task Task, threshold float64) (Label, error) {
	if task == TaskBinary && (res.LabelIsScore || isNumeric(v)) {
		f, err := v.Float()
		if err != nil {
			return AbsentLabel(), fmt.Errorf("label field %q: %w", res.LabelField, err)
		}
		return IntLabel(btoi(f >= threshold)), nil
	}
	if task == TaskRegression && isNumeric(v) {
		f, _ := v.Float()
		return FloatLabel(f), nil
	}
	// Already a categorical or integer label.
	return passthrough(v), nil
}

// passthrough coerces a raw label value: numeric → truncated int,
// string → string, null → absent, anything else → stringified.
func passthrough(v record.Value) Label {
	if isNumeric(v) {
		f, _ := v.Float()
		return IntLabel(int(f))
	}
	if s, ok := v.AsString(); ok {
		return StringLabel(s)
	}
	if v.IsNull() {
		return AbsentLabel()
	}
	return StringLabel(v.Text())
}

// isNumeric reports whether the value participates in numeric coercion
// without parsing: numbers and bools, but not numeric strings.
func isNumeric(v record.Value) bool {
	return v.Kind() == record.KindNumber || v.Kind() == record.KindBool
}

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}
