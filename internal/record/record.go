package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Record is one raw dataset example: field name → Value, preserving the
// natural key order of the source. Order matters — the text-detection
// fallback scans fields in the order the source declared them.
type Record struct {
	keys   []string
	values map[string]Value
}

// New creates an empty Record.
func New() *Record {
	return &Record{values: make(map[string]Value)}
}

// Set adds or replaces a field. New fields append to the key order;
// replacing an existing field keeps its original position.
func (r *Record) Set(name string, v Value) {
	if r.values == nil {
		r.values = make(map[string]Value)
	}
	if _, ok := r.values[name]; !ok {
		r.keys = append(r.keys, name)
	}
	r.values[name] = v
}

// Get retrieves a field by name.
func (r *Record) Get(name string) (Value, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Has reports whether the record contains the named field.
func (r *Record) Has(name string) bool {
	_, ok := r.values[name]
	return ok
}

// Keys returns field names in natural (source) order.
func (r *Record) Keys() []string {
	return r.keys
}

// Len returns the field count.
func (r *Record) Len() int {
	return len(r.keys)
}

// FromJSON decodes a single JSON object into a Record, preserving key order.
func FromJSON(data []byte) (*Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	rec, err := decodeRecord(dec)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Decode reads the next JSON object from dec into a Record. It is the
// streaming entry point for JSONL loaders. Returns io.EOF at end of input.
func Decode(dec *json.Decoder) (*Record, error) {
	return decodeRecord(dec)
}

func decodeRecord(dec *json.Decoder) (*Record, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	d, ok := tok.(json.Delim)
	if !ok || d != '{' {
		return nil, fmt.Errorf("decode record: expected object, got %v", tok)
	}
	return decodeObjectBody(dec)
}

// decodeObjectBody consumes key/value pairs up to and including the
// closing brace. The opening brace must already be consumed.
func decodeObjectBody(dec *json.Decoder) (*Record, error) {
	rec := New()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("decode record: non-string key %v", keyTok)
		}
		v, err := decodeValue(dec)
		if err != nil {
			return nil, fmt.Errorf("decode field %q: %w", key, err)
		}
		rec.Set(key, v)
	}
	if _, err := dec.Token(); err != nil { // consume '}'
		return nil, err
	}
	return rec, nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Null(), err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			nested, err := decodeObjectBody(dec)
			if err != nil {
				return Null(), err
			}
			return Map(nested), nil
		case '[':
			var items []Value
			for dec.More() {
				it, err := decodeValue(dec)
				if err != nil {
					return Null(), err
				}
				items = append(items, it)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return Null(), err
			}
			return Seq(items), nil
		default:
			return Null(), fmt.Errorf("unexpected delimiter %v", t)
		}
	case string:
		return Str(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Null(), fmt.Errorf("parse number %q: %w", t.String(), err)
		}
		return Num(f), nil
	case bool:
		return Bool(t), nil
	case nil:
		return Null(), nil
	default:
		return Null(), fmt.Errorf("unexpected token %v", tok)
	}
}

// MarshalJSON emits the record as a JSON object in natural key order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var b strings.Builder
	b.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Quote(k))
		b.WriteByte(':')
		r.values[k].render(&b)
	}
	b.WriteByte('}')
	return []byte(b.String()), nil
}
