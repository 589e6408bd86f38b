// Package record provides the typed view of raw dataset examples:
// an ordered mapping from field name to a tagged Value variant.
//
// This package has zero imports from canonry domain packages. Extraction
// logic pattern-matches on Value kinds instead of poking at raw JSON.
package record

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindSequence
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "null"
	}
}

// Value is a tagged variant: String | Number | Bool | Sequence | Mapping | Null.
// Numbers are always float64; integer-ness is a rendering concern.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
	seq  []Value
	rec  *Record
}

func Null() Value              { return Value{kind: KindNull} }
func Str(s string) Value       { return Value{kind: KindString, str: s} }
func Num(f float64) Value      { return Value{kind: KindNumber, num: f} }
func Bool(b bool) Value        { return Value{kind: KindBool, b: b} }
func Seq(items []Value) Value  { return Value{kind: KindSequence, seq: items} }
func Map(fields *Record) Value { return Value{kind: KindMapping, rec: fields} }

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsString returns the string payload when the value is a String.
func (v Value) AsString() (string, bool) {
	return v.str, v.kind == KindString
}

// AsNumber returns the numeric payload when the value is a Number.
func (v Value) AsNumber() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// AsBool returns the bool payload when the value is a Bool.
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// Items returns the element slice when the value is a Sequence.
func (v Value) Items() ([]Value, bool) {
	return v.seq, v.kind == KindSequence
}

// Fields returns the nested record when the value is a Mapping.
func (v Value) Fields() (*Record, bool) {
	return v.rec, v.kind == KindMapping
}

// Float coerces the value through float64 for threshold comparison.
// Numbers convert directly; numeric strings are parsed. Anything else is
// a hard conversion error that the caller must propagate — a malformed
// score field is a failure, not a silently-skipped record.
func (v Value) Float() (float64, error) {
	switch v.kind {
	case KindNumber:
		return v.num, nil
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.str), 64)
		if err != nil {
			return 0, fmt.Errorf("coerce %q to float: %w", v.str, err)
		}
		return f, nil
	case KindBool:
		if v.b {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("coerce %s value to float", v.kind)
	}
}

// Text renders the value as a string. Strings pass through unchanged;
// everything else falls back to a JSON-shaped rendering (nulls render as
// "null"). Extraction uses this so a record always yields some text.
func (v Value) Text() string {
	if s, ok := v.AsString(); ok {
		return s
	}
	var b strings.Builder
	v.render(&b)
	return b.String()
}

func (v Value) render(b *strings.Builder) {
	switch v.kind {
	case KindString:
		b.WriteString(strconv.Quote(v.str))
	case KindNumber:
		b.WriteString(formatNumber(v.num))
	case KindBool:
		b.WriteString(strconv.FormatBool(v.b))
	case KindSequence:
		b.WriteByte('[')
		for i, it := range v.seq {
			if i > 0 {
				b.WriteByte(',')
			}
			it.render(b)
		}
		b.WriteByte(']')
	case KindMapping:
		b.WriteByte('{')
		for i, k := range v.rec.Keys() {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.Quote(k))
			b.WriteByte(':')
			fv, _ := v.rec.Get(k)
			fv.render(b)
		}
		b.WriteByte('}')
	default:
		b.WriteString("null")
	}
}

// formatNumber renders a float64 without a trailing ".0" for integral values.
func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// MarshalJSON emits the natural JSON shape of the variant.
func (v Value) MarshalJSON() ([]byte, error) {
	var b strings.Builder
	v.render(&b)
	return []byte(b.String()), nil
}
