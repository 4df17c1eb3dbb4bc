package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "xpathctl",
	Short: "Extract and translate XPath expressions from process files",
	Long: "xpathctl reads TIBCO BusinessWorks process XML files, extracts the\n" +
		"XPath expressions embedded in mappings, transitions, and activity\n" +
		"configuration, and renders each one in plain language.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(translateCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
