package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bwdocs/xpath-translator/report"
	"github.com/bwdocs/xpath-translator/xpath"
)

var parseFlags struct {
	output      string
	yaml        bool
	expressions bool
}

var parseCmd = &cobra.Command{
	Use:   "parse <process-file>",
	Short: "Extract and translate every expression in a process file",
	Long: `Parse a process XML file, extract its XPath expressions, and print
the full translation report.

Usage:
  xpathctl parse order-routing.process
  xpathctl parse order-routing.process --yaml
  xpathctl parse order-routing.process -o report.json
  xpathctl parse order-routing.process --expressions-only`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	f := parseCmd.Flags()
	f.StringVarP(&parseFlags.output, "output", "o", "", "Write the report to a file instead of stdout")
	f.BoolVar(&parseFlags.yaml, "yaml", false, "Emit YAML instead of JSON")
	f.BoolVar(&parseFlags.expressions, "expressions-only", false, "Print the raw extracted expressions without translations")
}

func runParse(cmd *cobra.Command, args []string) error {
	path := args[0]

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	parsed, err := xpath.NewParser().Parse(f)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	if parseFlags.expressions {
		return emit(parsed, parseFlags.output, parseFlags.yaml)
	}

	fileID := report.SanitizeFilename(filepath.Base(path))
	rep := report.BuildReport(fileID, parsed, xpath.NewTranslator())
	return emit(rep, parseFlags.output, parseFlags.yaml)
}
