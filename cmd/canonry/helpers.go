package main

import (
	"canonry/internal/dataset"
	"canonry/internal/record"
	"canonry/internal/registry"
)

// loadRegistry builds the dataset registry: builtins plus an optional
// user-supplied YAML overlay.
func loadRegistry(path string) (*registry.Registry, error) {
	reg := registry.Builtin()
	if path != "" {
		if err := reg.MergeFile(path); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// firstSample returns the first record of the first non-empty split, which
// is the record schema resolution inspects.
func firstSample(d *dataset.Dataset) *record.Record {
	for _, s := range d.Splits {
		if len(s.Records) > 0 {
			return s.Records[0]
		}
	}
	return nil
}
