package loader

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"canonry/internal/record"
)

// readJSON reads a .json file holding either an array of objects or a
// single object.
func readJSON(path string) ([]*record.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", path, err)
	}
	defer f.Close()

	dec := json.NewDecoder(bufio.NewReader(f))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", path, err)
	}
	d, ok := tok.(json.Delim)
	if !ok {
		return nil, fmt.Errorf("parse %q: expected array or object", path)
	}

	switch d {
	case '[':
		var recs []*record.Record
		for dec.More() {
			rec, err := record.Decode(dec)
			if err != nil {
				return nil, fmt.Errorf("parse %q record %d: %w", path, len(recs), err)
			}
			recs = append(recs, rec)
		}
		if _, err := dec.Token(); err != nil { // consume ']'
			return nil, fmt.Errorf("parse %q: %w", path, err)
		}
		return recs, nil
	case '{':
		// Single-object file: the decoder already consumed '{', so the
		// remainder parses as an object body via a fresh full read.
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %q: %w", path, err)
		}
		rec, err := record.FromJSON(data)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", path, err)
		}
		return []*record.Record{rec}, nil
	default:
		return nil, fmt.Errorf("parse %q: unexpected delimiter %v", path, d)
	}
}

// readJSONL reads newline-delimited JSON objects. Blank lines are skipped.
func readJSONL(path string) ([]*record.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", path, err)
	}
	defer f.Close()

	var recs []*record.Record
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		rec, err := record.FromJSON([]byte(text))
		if err != nil {
			return nil, fmt.Errorf("parse %q line %d: %w", path, line, err)
		}
		recs = append(recs, rec)
	}
	if err := sc.Err(); err != nil && err != io.EOF {
		return nil, fmt.Errorf("read %q: %w", path, err)
	}
	return recs, nil
}
