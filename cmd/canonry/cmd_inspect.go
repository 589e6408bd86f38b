package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"canonry/internal/extract"
	"canonry/internal/loader"
)

var (
	inspectName     string
	inspectRegistry string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <path>",
	Short: "Show the schema a dataset would resolve to",
	Long: `Reads a dataset and reports which fields extraction would use for text
and label, without standardizing or writing anything.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().StringVar(&inspectName, "name", "", "Dataset identifier for registry lookup; default derived from path")
	inspectCmd.Flags().StringVar(&inspectRegistry, "registry", "", "Extra registry YAML file merged over builtins")
}

func runInspect(cmd *cobra.Command, args []string) error {
	path := args[0]

	name := inspectName
	if name == "" {
		base := filepath.Base(path)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	reg, err := loadRegistry(inspectRegistry)
	if err != nil {
		return err
	}
	spec := reg.Lookup(name)

	d, err := loader.Load(path, name)
	if err != nil {
		return err
	}

	sample := firstSample(d)
	res := extract.Resolve(spec, sample)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Dataset:\t%s\n", name)
	fmt.Fprintf(w, "Registered:\t%v\n", reg.Known(name))
	fmt.Fprintf(w, "Text field:\t%s\n", orDash(res.TextField))
	fmt.Fprintf(w, "Label field:\t%s\n", orDash(res.LabelField))
	fmt.Fprintf(w, "Label is score:\t%v\n", res.LabelIsScore)
	fmt.Fprintf(w, "Join conversation:\t%v\n", res.JoinConversation)
	if len(res.MultilabelFields) > 0 {
		fmt.Fprintf(w, "Multilabel fields:\t%d\n", len(res.MultilabelFields))
	}
	for _, split := range d.Splits {
		fmt.Fprintf(w, "Split %s:\t%d records\n", split.Name, len(split.Records))
	}
	if sample != nil {
		fmt.Fprintf(w, "Sample fields:\t%s\n", strings.Join(sample.Keys(), ", "))
	}
	return w.Flush()
}
