// Package store persists standardized datasets on disk: one directory per
// dataset with a JSONL file per split plus an info.json metadata summary.
package store

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"canonry/internal/dataset"
)

const infoFile = "info.json"

// Store persists and retrieves standardized datasets.
type Store interface {
	List(ctx context.Context) ([]string, error)
	Load(ctx context.Context, name string) (*dataset.Canonical, *dataset.Info, error)
	Save(ctx context.Context, c *dataset.Canonical, info *dataset.Info) (string, error)
}

// FileStore implements Store using a directory tree of JSONL files.
type FileStore struct {
	Dir string
}

// NewFileStore creates a FileStore rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileStore{Dir: dir}, nil
}

// slug makes a dataset identifier filesystem-safe ("allenai/rtp" →
// "allenai__rtp").
func slug(name string) string {
	return strings.ReplaceAll(name, "/", "__")
}

func unslug(s string) string {
	return strings.ReplaceAll(s, "__", "/")
}

// Save writes the dataset under its slug directory and returns the path.
func (s *FileStore) Save(_ context.Context, c *dataset.Canonical, info *dataset.Info) (string, error) {
	dir := filepath.Join(s.Dir, slug(c.Name))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create dataset dir: %w", err)
	}

	for _, split := range c.Splits {
		if err := writeSplit(filepath.Join(dir, split.Name+".jsonl"), split); err != nil {
			return "", err
		}
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal info %q: %w", c.Name, err)
	}
	if err := os.WriteFile(filepath.Join(dir, infoFile), data, 0o644); err != nil {
		return "", fmt.Errorf("write info %q: %w", c.Name, err)
	}
	return dir, nil
}

func writeSplit(path string, split dataset.CanonicalSplit) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create split %q: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for i, ex := range split.Examples {
		if err := enc.Encode(ex); err != nil {
			return fmt.Errorf("encode %s[%d]: %w", split.Name, i, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush split %q: %w", path, err)
	}
	return f.Close()
}

// Load reads a previously saved dataset by identifier.
func (s *FileStore) Load(_ context.Context, name string) (*dataset.Canonical, *dataset.Info, error) {
	dir := filepath.Join(s.Dir, slug(name))

	data, err := os.ReadFile(filepath.Join(dir, infoFile))
	if err != nil {
		return nil, nil, fmt.Errorf("load dataset %q: %w", name, err)
	}
	var info dataset.Info
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, nil, fmt.Errorf("parse info %q: %w", name, err)
	}

	c := &dataset.Canonical{Name: name}
	for _, splitName := range orderedSplits(info.Splits) {
		examples, err := readSplit(filepath.Join(dir, splitName+".jsonl"))
		if err != nil {
			return nil, nil, fmt.Errorf("load dataset %q: %w", name, err)
		}
		c.Splits = append(c.Splits, dataset.CanonicalSplit{Name: splitName, Examples: examples})
	}
	return c, &info, nil
}

func readSplit(path string) ([]dataset.Example, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var examples []dataset.Example
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var ex dataset.Example
		if err := json.Unmarshal([]byte(line), &ex); err != nil {
			return nil, fmt.Errorf("parse %q: %w", path, err)
		}
		examples = append(examples, ex)
	}
	return examples, sc.Err()
}

// List returns the identifiers of saved datasets, sorted.
func (s *FileStore) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list datasets: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(s.Dir, e.Name(), infoFile)); err != nil {
			continue
		}
		names = append(names, unslug(e.Name()))
	}
	sort.Strings(names)
	return names, nil
}

// orderedSplits sorts split names canonically: train, validation, test,
// then anything else lexicographically.
func orderedSplits(counts map[string]int) []string {
	rank := map[string]int{
		dataset.SplitTrain:      0,
		dataset.SplitValidation: 1,
		dataset.SplitTest:       2,
	}
	names := make([]string, 0, len(counts))
	for n := range counts {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool {
		ri, iok := rank[names[i]]
		rj, jok := rank[names[j]]
		switch {
		case iok && jok:
			return ri < rj
		case iok:
			return true
		case jok:
			return false
		default:
			return names[i] < names[j]
		}
	})
	return names
}
