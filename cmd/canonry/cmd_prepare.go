package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"canonry/internal/dataset"
	"canonry/internal/extract"
	"canonry/internal/loader"
	"canonry/internal/logging"
	"canonry/internal/registry"
	"canonry/internal/store"
	"canonry/internal/tokenize"
)

var (
	prepareInput      string
	prepareName       string
	prepareTask       string
	prepareScoreField string
	prepareThreshold  float64
	prepareSeed       int64
	prepareOut        string
	prepareRegistry   string
	prepareWorkers    int
	prepareTokenizer  string
	prepareMaxLength  int
	preparePad        bool
)

var prepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "Load, standardize and persist a dataset",
	Long: `Loads a raw dataset (file or directory of split files), resolves its
text and label schema, standardizes every record into canonical {text, label}
form, regenerates missing validation/test splits, and writes the result as
one JSONL file per split.

With --tokenizer the standardized splits are additionally encoded into
input_ids/attention_mask sequences under a tokenized/ subdirectory.`,
	RunE: runPrepare,
}

func init() {
	prepareCmd.Flags().StringVarP(&prepareInput, "input", "i", "", "Dataset file or directory (required)")
	prepareCmd.Flags().StringVar(&prepareName, "name", "", "Dataset identifier for registry lookup; default derived from input path")
	prepareCmd.Flags().StringVar(&prepareTask, "task", string(extract.TaskBinary), "Task type (binary, regression, multilabel)")
	prepareCmd.Flags().StringVar(&prepareScoreField, "score-field", "", "Field holding a continuous score when no label field is registered")
	prepareCmd.Flags().Float64Var(&prepareThreshold, "threshold", registry.DefaultThreshold, "Score-to-binary decision threshold")
	prepareCmd.Flags().Int64Var(&prepareSeed, "seed", 42, "Seed for split regeneration")
	prepareCmd.Flags().StringVarP(&prepareOut, "out", "o", "data/standardized", "Output store directory")
	prepareCmd.Flags().StringVar(&prepareRegistry, "registry", "", "Extra registry YAML file merged over builtins")
	prepareCmd.Flags().IntVar(&prepareWorkers, "workers", 1, "Parallel extraction workers per split")
	prepareCmd.Flags().StringVar(&prepareTokenizer, "tokenizer", "", "tokenizer.json path; enables tokenized output")
	prepareCmd.Flags().IntVar(&prepareMaxLength, "max-length", 512, "Tokenizer truncation length")
	prepareCmd.Flags().BoolVar(&preparePad, "pad", false, "Pad every tokenized sequence to max-length")
	_ = prepareCmd.MarkFlagRequired("input")
}

func runPrepare(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := logging.New("prepare")

	name := prepareName
	if name == "" {
		base := filepath.Base(prepareInput)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	reg, err := loadRegistry(prepareRegistry)
	if err != nil {
		return err
	}
	spec := reg.Lookup(name)
	logger.Info("loading dataset", "input", prepareInput, "name", name, "known", reg.Known(name))

	d, err := loader.Load(prepareInput, name)
	if err != nil {
		return err
	}
	d = dataset.EnsureSplits(d, prepareSeed)

	task, err := extract.ParseTask(prepareTask)
	if err != nil {
		return err
	}

	threshold := prepareThreshold
	if !cmd.Flags().Changed("threshold") && spec.Threshold > 0 {
		threshold = spec.Threshold
	}

	c, info, err := dataset.Standardize(ctx, d, spec, dataset.Options{
		Task:       task,
		ScoreField: prepareScoreField,
		Threshold:  threshold,
		Workers:    prepareWorkers,
	})
	if err != nil {
		return err
	}

	fs, err := store.NewFileStore(prepareOut)
	if err != nil {
		return err
	}
	dir, err := fs.Save(ctx, c, info)
	if err != nil {
		return err
	}
	logger.Info("dataset standardized", "dir", dir, "text_field", info.TextField, "label_field", info.LabelField)

	if prepareTokenizer != "" {
		enc, err := tokenize.NewEncoder(prepareTokenizer, prepareMaxLength, preparePad)
		if err != nil {
			return err
		}
		ed, err := enc.EncodeDataset(ctx, c)
		if err != nil {
			return err
		}
		tokDir, err := tokenize.SaveEncoded(filepath.Join(dir, "tokenized"), ed)
		if err != nil {
			return err
		}
		logger.Info("dataset tokenized", "dir", tokDir, "max_length", prepareMaxLength)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Dataset:\t%s\n", info.Source)
	fmt.Fprintf(w, "Task:\t%s\n", info.Task)
	fmt.Fprintf(w, "Text field:\t%s\n", orDash(info.TextField))
	fmt.Fprintf(w, "Label field:\t%s\n", orDash(info.LabelField))
	if info.Threshold != nil {
		fmt.Fprintf(w, "Threshold:\t%g\n", *info.Threshold)
	}
	for _, split := range c.Splits {
		fmt.Fprintf(w, "Split %s:\t%d examples\n", split.Name, len(split.Examples))
	}
	fmt.Fprintf(w, "Output:\t%s\n", dir)
	return w.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
