// Package loader reads raw multi-split datasets from local files.
//
// A directory maps one file per split (train.jsonl, validation.csv, ...);
// a single file becomes one split. Supported formats: JSON (array of
// objects), JSONL, CSV/TSV, and XLSX workbooks.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"canonry/internal/dataset"
	"canonry/internal/record"
)

var supportedExts = map[string]bool{
	".json":  true,
	".jsonl": true,
	".csv":   true,
	".tsv":   true,
	".xlsx":  true,
}

// Load reads the dataset at path. name becomes the dataset identifier
// used for registry lookup and metadata.
func Load(path, name string) (*dataset.Dataset, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("load dataset %q: %w", path, err)
	}
	if fi.IsDir() {
		return loadDir(path, name)
	}
	return loadSingle(path, name)
}

func loadSingle(path, name string) (*dataset.Dataset, error) {
	recs, err := readFile(path)
	if err != nil {
		return nil, err
	}
	split := splitName(path)
	if !canonicalSplit(split) {
		split = dataset.SplitTrain
	}
	return &dataset.Dataset{
		Name:   name,
		Splits: []dataset.Split{{Name: split, Records: recs}},
	}, nil
}

func loadDir(dir, name string) (*dataset.Dataset, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dataset dir %q: %w", dir, err)
	}

	byName := make(map[string]string) // split name → file path
	for _, e := range entries {
		if e.IsDir() || !supportedExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		split := splitName(e.Name())
		if prev, dup := byName[split]; dup {
			return nil, fmt.Errorf("split %q defined by both %q and %q", split, filepath.Base(prev), e.Name())
		}
		byName[split] = filepath.Join(dir, e.Name())
	}
	if len(byName) == 0 {
		return nil, fmt.Errorf("no dataset files found in %q", dir)
	}

	ds := &dataset.Dataset{Name: name}
	for _, split := range orderSplits(byName) {
		recs, err := readFile(byName[split])
		if err != nil {
			return nil, err
		}
		ds.Splits = append(ds.Splits, dataset.Split{Name: split, Records: recs})
	}
	return ds, nil
}

func readFile(path string) ([]*record.Record, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return readJSON(path)
	case ".jsonl":
		return readJSONL(path)
	case ".csv":
		return readCSV(path, ',')
	case ".tsv":
		return readCSV(path, '\t')
	case ".xlsx":
		return readXLSX(path)
	default:
		return nil, fmt.Errorf("unsupported dataset format %q", filepath.Ext(path))
	}
}

func splitName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func canonicalSplit(name string) bool {
	switch name {
	case dataset.SplitTrain, dataset.SplitValidation, dataset.SplitTest:
		return true
	}
	return false
}

// orderSplits puts canonical splits first (train, validation, test) and
// any remaining splits after them in lexicographic order. The first split
// in this order is the one EnsureSplits falls back to.
func orderSplits(byName map[string]string) []string {
	var out []string
	for _, c := range []string{dataset.SplitTrain, dataset.SplitValidation, dataset.SplitTest} {
		if _, ok := byName[c]; ok {
			out = append(out, c)
		}
	}
	var rest []string
	for name := range byName {
		if !canonicalSplit(name) {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}
