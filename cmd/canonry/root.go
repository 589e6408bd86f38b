// canonry normalizes heterogeneous labeled-text datasets into canonical
// {text, label} records ready for model training.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"canonry/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "canonry",
	Short: "Schema inference and standardization for labeled-text datasets",
	Long: "Canonry infers the text and label schema of arbitrary labeled-text\n" +
		"datasets and standardizes them into canonical {text, label} records.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return logging.Setup(logLevel, logFormat, cmd.ErrOrStderr())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format (text, json)")

	rootCmd.AddCommand(prepareCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(registryCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
