package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var registryFile string

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "List datasets with pre-validated extraction specs",
	RunE:  runRegistry,
}

func init() {
	registryCmd.Flags().StringVar(&registryFile, "registry", "", "Extra registry YAML file merged over builtins")
}

func runRegistry(cmd *cobra.Command, _ []string) error {
	reg, err := loadRegistry(registryFile)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Dataset\tText field\tLabel field\tScore\tThreshold\n")
	fmt.Fprintf(w, "-------\t----------\t-----------\t-----\t---------\n")
	for _, name := range reg.Names() {
		spec := reg.Lookup(name)
		threshold := "-"
		if spec.Threshold > 0 {
			threshold = fmt.Sprintf("%g", spec.Threshold)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%v\t%s\n",
			name, orDash(spec.TextField), orDash(spec.LabelField), spec.LabelIsScore, threshold)
	}
	return w.Flush()
}
