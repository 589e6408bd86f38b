package dataset

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"canonry/internal/extract"
	"canonry/internal/record"
	"canonry/internal/registry"
)

// Options configures one standardization run.
type Options struct {
	Task extract.Task
	// ScoreField is the caller-supplied hint for binary/regression when
	// the spec names no label field.
	ScoreField string
	// Threshold for score-to-binary conversion. Zero means the default.
	Threshold float64
	// Workers bounds the per-split parallel map. Zero or one is serial.
	Workers int
}

// Info summarizes how a dataset was standardized.
type Info struct {
	Source           string         `json:"source"`
	Task             extract.Task   `json:"task"`
	TextField        string         `json:"text_field,omitempty"`
	LabelField       string         `json:"label_field,omitempty"`
	Threshold        *float64       `json:"threshold,omitempty"`
	JoinConversation bool           `json:"join_conversation"`
	Splits           map[string]int `json:"splits"`
}

// Standardize applies text and label extraction uniformly across every
// record of every split, producing canonical {text, label} examples and a
// metadata summary. The schema is resolved exactly once, against the first
// record of the first split, before any parallel fan-out; the same resolved
// spec then governs all splits. That makes field detection a per-dataset
// decision — correct when splits share a schema, which is the common case.
func Standardize(ctx context.Context, d *Dataset, spec registry.Spec, opts Options) (*Canonical, *Info, error) {
	if opts.Task == "" {
		opts.Task = extract.TaskBinary
	}
	if opts.Threshold == 0 {
		opts.Threshold = registry.DefaultThreshold
	}

	res := extract.Resolve(spec, firstRecord(d))

	out := &Canonical{Name: d.Name, Splits: make([]CanonicalSplit, len(d.Splits))}
	for i, split := range d.Splits {
		examples, err := mapSplit(ctx, split.Records, res, opts)
		if err != nil {
			return nil, nil, fmt.Errorf("standardize %s/%s: %w", d.Name, split.Name, err)
		}
		out.Splits[i] = CanonicalSplit{Name: split.Name, Examples: examples}
	}

	info := &Info{
		Source:           d.Name,
		Task:             opts.Task,
		TextField:        res.TextField,
		LabelField:       res.LabelField,
		JoinConversation: res.JoinConversation,
		Splits:           out.Counts(),
	}
	if info.LabelField == "" {
		info.LabelField = opts.ScoreField
	}
	if opts.Task == extract.TaskBinary {
		thr := opts.Threshold
		info.Threshold = &thr
	}
	return out, info, nil
}

// mapSplit standardizes one split's records, sharding across workers.
// Workers write disjoint index ranges of the preallocated result slice,
// so record order is preserved and no locking is needed.
func mapSplit(ctx context.Context, recs []*record.Record, res extract.Resolved, opts Options) ([]Example, error) {
	out := make([]Example, len(recs))
	if len(recs) == 0 {
		return out, nil
	}

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(recs) {
		workers = len(recs)
	}
	chunk := (len(recs) + workers - 1) / workers

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := min(start+chunk, len(recs))
		if start >= end {
			break
		}
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				lbl, err := extract.ExtractLabel(res, recs[i], opts.Task, opts.ScoreField, opts.Threshold)
				if err != nil {
					return fmt.Errorf("record %d: %w", i, err)
				}
				out[i] = Example{
					Text:  extract.ExtractText(res, recs[i]),
					Label: lbl,
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func firstRecord(d *Dataset) *record.Record {
	for _, s := range d.Splits {
		if len(s.Records) > 0 {
			return s.Records[0]
		}
	}
	return nil
}
